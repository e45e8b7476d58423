package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger, with timestamps to the hundredth of a
// second.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one CLI step and logs when it finishes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) progress { return progress{logger: l, start: time.Now()} }

// done logs msg at info level with the step duration appended as "took".
func (p progress) done(msg string, keyvals ...any) {
	p.logger.With("took", time.Since(p.start).Round(time.Millisecond)).Info(msg, keyvals...)
}
