package versionparser

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrVersionNotSupported = errors.New("version not supported")
)

type Dialect string

const (
	LinuxServer Dialect = "linuxserver"
	Timestamp   Dialect = "timestamp"
	Plain       Dialect = "plain"
)

// Version is the comparable tuple of a tag. Build holds the ls build number
// for LinuxServer tags and the 14 digit timestamp for Timestamp tags.
type Version struct {
	Major    int     `json:"major"`
	Minor    int     `json:"minor"`
	Patch    int     `json:"patch"`
	Revision int     `json:"revision"`
	Build    int64   `json:"build"`
	Dialect  Dialect `json:"dialect"`
}

func (v Version) Distinction() string {
	return string(v.Dialect)
}

func (v Version) IsGreaterThan(other Version) bool {
	return Compare(v, other) > 0
}

// SameDialect reports whether comparing v and other is meaningful.
func (v Version) SameDialect(other Version) bool {
	return v.Dialect == other.Dialect
}

func (v Version) String() string {
	switch v.Dialect {
	case LinuxServer:
		if v.Build == 0 {
			return fmt.Sprintf("%d.%d.%d-r%d", v.Major, v.Minor, v.Patch, v.Revision)
		}

		return fmt.Sprintf("%d.%d.%d-r%d-ls%d", v.Major, v.Minor, v.Patch, v.Revision, v.Build)
	case Timestamp:
		return fmt.Sprintf("%d.%d.%d-%014d", v.Major, v.Minor, v.Patch, v.Build)
	default:
		s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
		if v.Revision > 0 {
			s += fmt.Sprintf("-r%d", v.Revision)
		}

		if v.Build > 0 {
			s += fmt.Sprintf("-ls%d", v.Build)
		}

		return s
	}
}

type factory func(string) (*Version, error)

var (
	tagFactories    = []factory{linuxServerFactory, timestampFactory}
	stringFactories = []factory{linuxServerSearch, timestampSearch, plainSearch}
)

// ParseTag parses a complete tag. Only the LinuxServer and Timestamp dialects
// are recognised; floating tags and everything else are not versions.
func ParseTag(tag string) (*Version, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" || IsFloating(tag) {
		return nil, ErrVersionNotSupported
	}

	return parse(tagFactories, tag)
}

// ParseString finds the first version inside free text such as an image
// label. The Plain dialect is accepted in addition to the tag dialects.
func ParseString(s string) (*Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrVersionNotSupported
	}

	return parse(stringFactories, s)
}

func parse(factories []factory, s string) (*Version, error) {
	for _, f := range factories {
		v, err := f(s)
		if err == nil {
			return v, nil
		}
	}

	return nil, ErrVersionNotSupported
}

// Compare orders versions by major, minor, patch, revision and build. The
// dialect is not considered.
func Compare(a Version, b Version) int {
	fields := [][2]int64{
		{int64(a.Major), int64(b.Major)},
		{int64(a.Minor), int64(b.Minor)},
		{int64(a.Patch), int64(b.Patch)},
		{int64(a.Revision), int64(b.Revision)},
		{a.Build, b.Build},
	}

	for _, f := range fields {
		switch {
		case f[0] < f[1]:
			return -1
		case f[0] > f[1]:
			return 1
		}
	}

	return 0
}
