package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/partsrec/internal/layout"
	"github.com/rs/zerolog"
)

// Option customizes a Registry
type Option func(*Registry)

// WithClock sets the time source used for timestamps and daily file names
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		r.clock = clock
	}
}

// WithConsole redirects the console sink, stderr by default
func WithConsole(w io.Writer) Option {
	return func(r *Registry) {
		r.console = w
	}
}

// Registry tracks configured channels by name so that sinks are attached
// exactly once per name, however many times a Logger is constructed.
type Registry struct {
	mu       sync.Mutex
	channels map[string]*channel
	clock    func() time.Time
	console  io.Writer
}

type channel struct {
	dir    string
	logger zerolog.Logger
	files  []*dailyFile
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		channels: make(map[string]*channel),
		clock:    time.Now,
		console:  os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Logger returns the channel for name, configuring it on first request.
// Later requests for the same name reuse the existing sinks and keep the
// directory chosen first.
func (r *Registry) Logger(name, dir string) (*Logger, error) {
	if name == "" {
		name = DefaultName
	}

	if _, err := layout.EnsureDirectory(dir); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.channels[name]
	if !ok {
		var err error
		ch, err = r.attach(name, dir)
		if err != nil {
			return nil, err
		}
		r.channels[name] = ch
	}

	return &Logger{name: name, logger: ch.logger}, nil
}

// Configured reports whether sinks are attached for name
func (r *Registry) Configured(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.channels[name]
	return ok
}

func (r *Registry) attach(name, dir string) (*channel, error) {
	all, err := openDailyFile(dir, name, r.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	errs, err := openDailyFile(dir, name+"_error", r.clock)
	if err != nil {
		all.Close()
		return nil, fmt.Errorf("failed to open error log file: %w", err)
	}

	output := zerolog.MultiLevelWriter(
		levelSink{min: zerolog.InfoLevel, out: lineFormatter(r.console, name)},
		levelSink{min: zerolog.DebugLevel, out: lineFormatter(all, name)},
		levelSink{min: zerolog.ErrorLevel, out: lineFormatter(errs, name)},
	)

	clock := r.clock
	logger := zerolog.New(output).
		Level(zerolog.DebugLevel).
		Hook(zerolog.HookFunc(func(e *zerolog.Event, _ zerolog.Level, _ string) {
			e.Time(zerolog.TimestampFieldName, clock())
		}))

	return &channel{dir: dir, logger: logger, files: []*dailyFile{all, errs}}, nil
}

// Close releases every file sink and forgets all channels
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, ch := range r.channels {
		for _, f := range ch.files {
			if err := f.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		delete(r.channels, name)
	}
	return errors.Join(errs...)
}
