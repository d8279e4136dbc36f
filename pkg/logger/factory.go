package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/carebridge/opsnotify/pkg/environment"
)

// Format is the record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logger settings read from the environment. Empty Level and
// Format keep whatever the environment preset chose.
type Config struct {
	Level  string `env:"LOG_LEVEL"`
	Format string `env:"LOG_FORMAT"`

	FilePath       string `env:"LOG_FILE"`
	FileMaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"10"`
	FileMaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"3"`
	FileMaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"28"`
	FileCompress   bool   `env:"LOG_FILE_COMPRESS" envDefault:"true"`
}

// Validate reports unknown level or format names.
func (c Config) Validate() error {
	if c.Level != "" {
		if _, err := ParseLevel(c.Level); err != nil {
			return err
		}
	}
	switch Format(strings.ToLower(c.Format)) {
	case "", FormatJSON, FormatText:
		return nil
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
}

// ParseLevel accepts slog level names in any case, including offsets such
// as "warn+2".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q: %w", s, err)
	}
	return l, nil
}

// Option configures logger creation.
type Option func(*options)

type options struct {
	level      slog.Level
	format     Format
	output     io.Writer
	file       io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// WithFormat panics on anything other than FormatJSON or FormatText.
func WithFormat(f Format) Option {
	switch f {
	case FormatJSON, FormatText:
	default:
		panic(fmt.Errorf("invalid log format %q", f))
	}
	return func(o *options) { o.format = f }
}

// WithOutput replaces stdout. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// WithContextExtractors registers extractors run for every record. Nil
// entries are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		for _, ex := range extractors {
			if ex != nil {
				o.extractors = append(o.extractors, ex)
			}
		}
	}
}

// WithEnvironment picks text/debug for development and json/info for
// staging and production, and tags records with service and env.
func WithEnvironment(env, service string) Option {
	return func(o *options) {
		e := environment.Parse(env)
		if e.IsDeployed() {
			o.level, o.format = slog.LevelInfo, FormatJSON
		} else {
			o.level, o.format = slog.LevelDebug, FormatText
		}
		if service != "" {
			o.attrs = append(o.attrs, slog.String("service", service))
		}
		o.attrs = append(o.attrs, slog.String("env", string(e)))
	}
}

// WithConfig applies explicit level and format overrides and tees output
// into a size-rotated file when FilePath is set. Invalid values are ignored;
// call Config.Validate first.
func WithConfig(c Config) Option {
	return func(o *options) {
		if l, err := ParseLevel(c.Level); c.Level != "" && err == nil {
			o.level = l
		}
		if f := Format(strings.ToLower(c.Format)); f == FormatJSON || f == FormatText {
			o.format = f
		}
		if c.FilePath != "" {
			o.file = &lumberjack.Logger{
				Filename:   c.FilePath,
				MaxSize:    c.FileMaxSizeMB,
				MaxBackups: c.FileMaxBackups,
				MaxAge:     c.FileMaxAgeDays,
				Compress:   c.FileCompress,
			}
		}
	}
}

// New builds a logger. Without options it writes JSON at info level to
// stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{level: slog.LevelInfo, format: FormatJSON, output: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	out := o.output
	if o.file != nil {
		out = io.MultiWriter(o.output, o.file)
	}

	hopts := &slog.HandlerOptions{Level: o.level}
	var h slog.Handler
	if o.format == FormatText {
		h = slog.NewTextHandler(out, hopts)
	} else {
		h = slog.NewJSONHandler(out, hopts)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}
	return slog.New(withExtractors(h, o.extractors))
}

func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
