package cli

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger returns the run logger writing to w at level.
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "optionalize",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	}), nil
}
