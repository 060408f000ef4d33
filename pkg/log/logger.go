package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Debug bool
	// Dir enables a daily log file inside it when not empty.
	Dir string
	// KeepDays prunes daily files older than this many days.
	KeepDays int
}

func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	return NewContextWithOptions(ctx, Options{Debug: debug})
}

func NewContextWithOptions(ctx context.Context, opts Options) (context.Context, func()) {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return ""
	}

	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Use a diode (ring buffer) for non-blocking logging
	wr := diode.NewWriter(os.Stdout, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Printf("Logger Dropped %d messages\n", missed)
	})

	console := zerolog.ConsoleWriter{
		Out:        wr,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
	}

	var out io.Writer = console
	var file *os.File
	var fileErr error
	if opts.Dir != "" {
		file, fileErr = openDailyFile(opts.Dir, time.Now())
		if fileErr == nil {
			out = zerolog.MultiLevelWriter(console, file)
		}
	}

	logger := zerolog.New(out).
		With().
		Timestamp().
		CallerWithSkipFrameCount(2).
		Logger()

	log.Logger = logger

	if fileErr != nil {
		logger.Warn().Err(fileErr).Str("dir", opts.Dir).Msg("file logging disabled")
	} else if opts.Dir != "" && opts.KeepDays > 0 {
		removed := PruneDailyFiles(opts.Dir, opts.KeepDays, time.Now())
		for _, name := range removed {
			logger.Info().Str("file", name).Msg("removed old log file")
		}
	}

	// Return context and a cleanup function to close the writers
	return log.With().Logger().WithContext(ctx), func() {
		wr.Close()
		if file != nil {
			file.Close()
		}
	}
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}
