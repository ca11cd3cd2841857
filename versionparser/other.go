package versionparser

import (
	"regexp"
	"strings"
)

var staticKnownTags = map[string]struct{}{
	"dev":     {},
	"develop": {},
	"edge":    {},
	"latest":  {},
	"main":    {},
	"master":  {},
	"nightly": {},
	"stable":  {},
}

// IsFloating reports whether tag is a well-known moving tag that never names
// a version.
func IsFloating(tag string) bool {
	_, ok := staticKnownTags[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

var (
	labelMarkerRegexp = regexp.MustCompile(`(?i)version:-\s*(\S+)`)

	// Label keys checked in order by FromLabels.
	VersionLabels = []string{
		"org.opencontainers.image.version",
		"build_version",
		"version",
	}
)

// ExtractFromLabel returns the version token of a label value. Both bare
// values and LinuxServer style text such as
// "Linuxserver.io version:- 4.1.0-r0-ls330 Build-date:- 2024-01-01" are
// understood.
func ExtractFromLabel(label string) (string, bool) {
	if m := labelMarkerRegexp.FindStringSubmatch(label); m != nil {
		if _, err := ParseString(m[1]); err == nil {
			return m[1], true
		}
	}

	for _, re := range []*regexp.Regexp{linuxServerSearchRegexp, timestampSearchRegexp, plainSearchRegexp} {
		if loc := re.FindStringIndex(label); loc != nil {
			return label[loc[0]:loc[1]], true
		}
	}

	return "", false
}

// FromLabels parses the version of an image from its labels.
func FromLabels(labels map[string]string) (*Version, error) {
	for _, key := range VersionLabels {
		value, ok := labels[key]
		if !ok {
			continue
		}

		token, ok := ExtractFromLabel(value)
		if !ok {
			continue
		}

		v, err := ParseString(token)
		if err == nil {
			return v, nil
		}
	}

	return nil, ErrVersionNotSupported
}
