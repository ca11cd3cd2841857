package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)
	defer logrus.SetFormatter(logrus.StandardLogger().Formatter)
	defer logrus.SetLevel(logrus.GetLevel())

	b := &bytes.Buffer{}
	require.NoError(t, Init("info", "json", b))
	logrus.Info("hello")
	assert.Contains(t, b.String(), `"msg":"hello"`)
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())

	assert.Error(t, Init("loud", "text", b))
	assert.Error(t, Init("info", "xml", b))
}

func TestFormatError(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())

	err := errors.New("registry down")
	logrus.SetLevel(logrus.InfoLevel)
	assert.Equal(t, "registry down", FormatError(err))

	logrus.SetLevel(logrus.DebugLevel)
	formatted := FormatError(err)
	assert.True(t, strings.HasPrefix(formatted, "registry down\n"))
	assert.Contains(t, formatted, "TestFormatError")

	assert.Equal(t, "plain", FormatError(plainError("plain")))
}

type plainError string

func (e plainError) Error() string {
	return string(e)
}
