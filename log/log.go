package log

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Init configures the standard logrus logger. format is "text" or "json".
func Init(level string, format string, out io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "parsing log level %q", level)
	}

	switch strings.ToLower(format) {
	case "", "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("unsupported log format %q", format)
	}

	if out != nil {
		logrus.SetOutput(out)
	}

	logrus.SetLevel(lvl)
	return nil
}

// FormatError renders err with its stack trace when the logger is at debug
// level and err carries one.
func FormatError(err error) string {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return fmt.Sprint(err)
	}

	stErr, ok := err.(stackTracer)
	if ok {
		b := &bytes.Buffer{}
		fmt.Fprintf(b, "%s\n", stErr)

		for _, f := range stErr.StackTrace() {
			fmt.Fprintf(b, "  %+v\n", f)
		}

		return b.String()
	}

	return fmt.Sprint(err)
}
