package versionparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromLabel(t *testing.T) {
	testcases := []struct {
		label    string
		expected string
		ok       bool
	}{
		{"Linuxserver.io version:- 4.1.0-r0-ls330 Build-date:- 2024-01-01T00:00:00+00:00", "4.1.0-r0-ls330", true},
		{"4.1.0-r0-ls330", "4.1.0-r0-ls330", true},
		{"0.19.0-20260217191538", "0.19.0-20260217191538", true},
		{"v2.5.1", "2.5.1", true},
		{"version:- unknown", "", false},
		{"", "", false},
	}

	for _, tc := range testcases {
		t.Run(tc.label, func(t *testing.T) {
			token, ok := ExtractFromLabel(tc.label)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, token)
		})
	}
}

func TestFromLabels(t *testing.T) {
	v, err := FromLabels(map[string]string{
		"build_version":                    "Linuxserver.io version:- 4.1.0-r0-ls330 Build-date:- 2024-01-01",
		"org.opencontainers.image.version": "4.2.0-r1-ls340",
	})
	require.NoError(t, err)
	assert.Equal(t, &Version{Major: 4, Minor: 2, Revision: 1, Build: 340, Dialect: LinuxServer}, v)

	v, err = FromLabels(map[string]string{
		"org.opencontainers.image.version": "latest",
		"version":                          "1.2.3",
	})
	require.NoError(t, err)
	assert.Equal(t, &Version{Major: 1, Minor: 2, Patch: 3, Dialect: Plain}, v)

	_, err = FromLabels(map[string]string{"maintainer": "someone"})
	assert.ErrorIs(t, err, ErrVersionNotSupported)

	_, err = FromLabels(nil)
	assert.ErrorIs(t, err, ErrVersionNotSupported)
}
