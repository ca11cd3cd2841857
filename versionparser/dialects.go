package versionparser

import (
	"regexp"
	"strconv"
)

var (
	linuxServerRegexp       = regexp.MustCompile(`^(?:[A-Za-z][A-Za-z0-9_]*-)?(\d+)\.(\d+)\.(\d+)-r(\d+)(?:-ls(\d+))?$`)
	linuxServerSearchRegexp = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)-r(\d+)(?:-ls(\d+))?\b`)
	timestampRegexp         = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)-(\d{14})(?:-[A-Za-z][A-Za-z0-9_]*)?$`)
	timestampSearchRegexp   = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)-(\d{14})\b`)
	plainSearchRegexp       = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)(?:-r(\d+))?(?:-ls(\d+))?\b`)
)

func linuxServerFactory(tag string) (*Version, error) {
	return linuxServerMatch(linuxServerRegexp.FindStringSubmatch(tag), LinuxServer)
}

func linuxServerSearch(s string) (*Version, error) {
	return linuxServerMatch(linuxServerSearchRegexp.FindStringSubmatch(s), LinuxServer)
}

func plainSearch(s string) (*Version, error) {
	return linuxServerMatch(plainSearchRegexp.FindStringSubmatch(s), Plain)
}

// linuxServerMatch builds a Version from the groups major, minor, patch,
// revision and build. Empty groups are zero.
func linuxServerMatch(matches []string, d Dialect) (*Version, error) {
	if len(matches) == 0 {
		return nil, ErrVersionNotSupported
	}

	parts, err := atoiAll(matches[1:5])
	if err != nil {
		return nil, err
	}

	v := &Version{
		Major:    parts[0],
		Minor:    parts[1],
		Patch:    parts[2],
		Revision: parts[3],
		Dialect:  d,
	}

	if matches[5] != "" {
		build, err := strconv.ParseInt(matches[5], 10, 64)
		if err != nil {
			return nil, ErrVersionNotSupported
		}

		v.Build = build
	}

	return v, nil
}

func timestampFactory(tag string) (*Version, error) {
	return timestampMatch(timestampRegexp.FindStringSubmatch(tag))
}

func timestampSearch(s string) (*Version, error) {
	return timestampMatch(timestampSearchRegexp.FindStringSubmatch(s))
}

func timestampMatch(matches []string) (*Version, error) {
	if len(matches) == 0 {
		return nil, ErrVersionNotSupported
	}

	build, err := strconv.ParseInt(matches[4], 10, 64)
	if err != nil {
		return nil, ErrVersionNotSupported
	}

	parts, err := atoiAll(matches[1:4])
	if err != nil {
		return nil, err
	}

	return &Version{
		Major:   parts[0],
		Minor:   parts[1],
		Patch:   parts[2],
		Build:   build,
		Dialect: Timestamp,
	}, nil
}

// atoiAll converts digit groups. Empty groups are zero and values that do not
// fit an int are not supported.
func atoiAll(groups []string) ([]int, error) {
	result := make([]int, len(groups))
	for i, g := range groups {
		if g == "" {
			continue
		}

		n, err := strconv.Atoi(g)
		if err != nil {
			return nil, ErrVersionNotSupported
		}

		result[i] = n
	}

	return result, nil
}
