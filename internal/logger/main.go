package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logDirPerm = 0o750

// LevelWriter splits log events by level: trace, debug and info, warn, error and above.
// A nil target drops the events of its level.
type LevelWriter struct {
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// Write implements io.Writer, events without a level go to the info target.
func (lw *LevelWriter) Write(p []byte) (int, error) {
	return lw.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l == zerolog.Disabled {
		return 0, nil
	}

	w := lw.target(l)
	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

func (lw *LevelWriter) target(l zerolog.Level) io.Writer {
	switch {
	case l == zerolog.TraceLevel:
		return lw.TraceWriter
	case l == zerolog.WarnLevel:
		return lw.WarnWriter
	case l > zerolog.WarnLevel && l != zerolog.NoLevel: // error, fatal, panic
		return lw.ErrorWriter
	default:
		return lw.InfoWriter
	}
}

// Init sets up the global zerolog logger from cfg.
// Console and file output are enabled independently, with neither enabled nothing is written.
func Init(cfg Log) error {
	level, err := parse(cfg)
	if err != nil {
		return err
	}

	writers, err := outputs(cfg)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = ErrorHandler //nolint:reassign

	traced := level == zerolog.TraceLevel
	if traced {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	lc := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().Timestamp().Str("app", cfg.AppName)

	if cfg.LogEnv != "" {
		lc = lc.Str("env", cfg.LogEnv)
	}

	if cfg.ReportCaller {
		if traced {
			lc = lc.Stack()
		} else {
			lc = lc.Caller()
		}
	}

	log.Logger = lc.Logger()

	return nil
}

// parse checks the mandatory names and returns the configured level.
func parse(cfg Log) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return level, errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	switch {
	case cfg.ServiceName == "":
		return level, ErrServiceNameIsEmpty
	case cfg.AppName == "":
		return level, ErrAppNameIsEmpty
	}

	return level, nil
}

func outputs(cfg Log) ([]io.Writer, error) {
	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		fw, err := newRollingFiles(cfg.File)
		if err != nil {
			return nil, err
		}

		writers = append(writers, fw)
	}

	return writers, nil
}

// newRollingFiles writes one lumberjack rotated file per level group below f.Path.
func newRollingFiles(f LogFile) (io.Writer, error) {
	if err := os.MkdirAll(f.Path, logDirPerm); err != nil {
		return nil, errors.Wrapf(err, "can't create log directory %s", f.Path)
	}

	rolling := func(name string, maxSize, maxAge, maxBackups int) io.Writer {
		return &lumberjack.Logger{
			Filename:   path.Join(f.Path, name),
			MaxSize:    maxSize,
			MaxAge:     maxAge,
			MaxBackups: maxBackups,
		}
	}

	return &LevelWriter{
		ErrorWriter: rolling(f.ErrorLog, f.ErrorMaxSize, f.ErrorMaxAge, f.ErrorMaxBackups),
		InfoWriter:  rolling(f.InfoLog, f.InfoMaxSize, f.InfoMaxAge, f.InfoMaxBackups),
		TraceWriter: rolling(f.TraceLog, f.TraceMaxSize, f.TraceMaxAge, f.TraceMaxBackups),
		WarnWriter:  rolling(f.WarnLog, f.WarnMaxSize, f.WarnMaxAge, f.WarnMaxBackups),
	}, nil
}

// NewConsoleWriter logs info and below to stdout and everything else to stderr,
// human readable if Console.UseConsoleWriter is set.
func NewConsoleWriter(cfg Log) io.Writer {
	out := func(f *os.File) io.Writer {
		if !cfg.Console.UseConsoleWriter {
			return f
		}

		return zerolog.ConsoleWriter{Out: f, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{
		ErrorWriter: out(os.Stderr),
		InfoWriter:  out(os.Stdout),
		TraceWriter: out(os.Stderr),
		WarnWriter:  out(os.Stderr),
	}
}
