package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Filename   string   `yaml:"filename"`
	LogLevel   string   `yaml:"level"`
	Targets    []string `yaml:"targets"`
	MaxSize    int      `yaml:"max_size"`
	MaxBackups int      `yaml:"max_backups"`
	Compress   bool     `yaml:"compress"`
}

var (
	mu     sync.RWMutex
	global = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// InitGlobalLogger replaces the process wide logger. Unknown targets are ignored,
// and an empty target list falls back to stdout.
func InitGlobalLogger(cfg *Config) {
	writers := make([]io.Writer, 0, len(cfg.Targets))

	for _, t := range cfg.Targets {
		switch t {
		case "file":
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.Filename,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				Compress:   cfg.Compress,
			})
		case "console":
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout})
		case "stdout":
			writers = append(writers, os.Stdout)
		}
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	mu.Lock()
	global = l
	mu.Unlock()
}

func Debug(msg string, keyvals ...any) {
	log(zerolog.DebugLevel, msg, keyvals...)
}

func Info(msg string, keyvals ...any) {
	log(zerolog.InfoLevel, msg, keyvals...)
}

func Warn(msg string, keyvals ...any) {
	log(zerolog.WarnLevel, msg, keyvals...)
}

func Error(msg string, keyvals ...any) {
	log(zerolog.ErrorLevel, msg, keyvals...)
}

func log(level zerolog.Level, msg string, keyvals ...any) {
	mu.RLock()
	l := global
	mu.RUnlock()

	e := l.WithLevel(level)
	if e == nil {
		return
	}

	for i := 0; i < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}

		if i+1 >= len(keyvals) {
			e = e.Interface(key, nil)

			break
		}

		if err, isErr := keyvals[i+1].(error); isErr {
			e = e.AnErr(key, err)

			continue
		}

		e = e.Interface(key, keyvals[i+1])
	}

	e.Msg(msg)
}
