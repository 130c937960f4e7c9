package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// logFormat is the --log-format flag value.
type logFormat string

const (
	formatAuto logFormat = "auto"
	formatText logFormat = "text"
	formatJSON logFormat = "json"
)

var _ pflag.Value = (*logFormat)(nil)

func (f *logFormat) String() string { return string(*f) }

func (f *logFormat) Set(s string) error {
	switch logFormat(s) {
	case formatAuto, formatText, formatJSON:
		*f = logFormat(s)
		return nil
	}
	return fmt.Errorf("unknown log format %q (want auto, text or json)", s)
}

func (f *logFormat) Type() string { return "format" }

// setupLogging points log at w with the given level and format. In auto
// mode a terminal gets colored text and anything else gets JSON.
func setupLogging(log *logrus.Logger, w io.Writer, level string, format logFormat) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(w)

	if format == formatAuto {
		format = formatJSON
		if isTerminal(w) {
			format = formatText
		}
	}
	switch format {
	case formatJSON:
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
