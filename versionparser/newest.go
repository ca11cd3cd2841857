package versionparser

import (
	"regexp"
	"sort"
)

var (
	decoratedPrefixRegexp = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*-\d`)
	decoratedSuffixRegexp = regexp.MustCompile(`-[A-Za-z][A-Za-z0-9_]*$`)
	versionSuffixRegexp   = regexp.MustCompile(`-(ls|r)\d+$`)
)

type TaggedVersion struct {
	Tag     string  `json:"tag"`
	Version Version `json:"version"`
}

// IsDecorated reports whether tag carries an architecture style prefix such as
// "amd64-" or a trailing "-word". The LinuxServer "-lsN" and "-rN" parts are
// not decoration.
func IsDecorated(tag string) bool {
	if decoratedPrefixRegexp.MatchString(tag) {
		return true
	}

	return decoratedSuffixRegexp.MatchString(tag) && !versionSuffixRegexp.MatchString(tag)
}

// NewestVersionTag returns the tag with the greatest version or nil if no tag
// parses. Of several tags with the greatest version the first undecorated one
// wins.
func NewestVersionTag(tags []string) *TaggedVersion {
	candidates := []TaggedVersion{}
	for _, tag := range tags {
		v, err := ParseTag(tag)
		if err != nil {
			continue
		}

		candidates = append(candidates, TaggedVersion{Tag: tag, Version: *v})
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return Compare(candidates[i].Version, candidates[j].Version) > 0
	})

	newest := candidates[0]
	for _, c := range candidates {
		if Compare(c.Version, newest.Version) != 0 {
			break
		}

		if !IsDecorated(c.Tag) {
			return &c
		}
	}

	return &newest
}
