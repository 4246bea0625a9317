// Package stdlogger adapts the global zerolog logger to printf style
// interfaces, such as the writer of the gorm logger.
package stdlogger

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to zerolog.
type Logger struct {
	component string
}

// New returns a Logger writing to the global zerolog logger.
func New() *Logger {
	return &Logger{}
}

// NewWithComponent returns a Logger that tags every message with the given component.
func NewWithComponent(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) event(e *zerolog.Event, format string, v ...any) {
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	e.Msg(fmt.Sprintf(format, v...))
}

// Debugf logs on debug level.
func (l *Logger) Debugf(format string, v ...any) {
	l.event(log.Debug(), format, v...)
}

// Infof logs on info level.
func (l *Logger) Infof(format string, v ...any) {
	l.event(log.Info(), format, v...)
}

// Warningf logs on warn level.
func (l *Logger) Warningf(format string, v ...any) {
	l.event(log.Warn(), format, v...)
}

// Errorf logs on error level.
func (l *Logger) Errorf(format string, v ...any) {
	l.event(log.Error(), format, v...)
}

// Printf logs on info level. It satisfies gorm's logger.Writer.
func (l *Logger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}
