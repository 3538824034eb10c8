package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	lineTimeFormat = "2006-01-02 15:04:05"
	fileDayFormat  = "20060102"
)

// levelSink drops events below its threshold
type levelSink struct {
	min zerolog.Level
	out io.Writer
}

func (s levelSink) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s levelSink) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < s.min {
		return len(p), nil
	}
	return s.out.Write(p)
}

// lineFormatter renders events as "<time> - <name> - <LEVEL> - <message>"
func lineFormatter(out io.Writer, name string) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: lineTimeFormat,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FormatLevel: func(i interface{}) string {
			return "- " + name + " - " + levelLabel(i)
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return "-"
			}
			return fmt.Sprintf("- %s", i)
		},
	}
}

func levelLabel(i interface{}) string {
	level, _ := i.(string)
	switch level {
	case zerolog.LevelWarnValue:
		return "WARNING"
	case zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return "CRITICAL"
	case "":
		return "NOTSET"
	}
	return strings.ToUpper(level)
}

// dailyFile appends to <dir>/<prefix>_<YYYYMMDD>.log and moves on to the
// next day's file on the first write after midnight.
type dailyFile struct {
	mu     sync.Mutex
	dir    string
	prefix string
	clock  func() time.Time
	day    string
	file   *os.File
}

func openDailyFile(dir, prefix string, clock func() time.Time) (*dailyFile, error) {
	d := &dailyFile{dir: dir, prefix: prefix, clock: clock}
	if err := d.open(clock().Format(fileDayFormat)); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *dailyFile) path(day string) string {
	return filepath.Join(d.dir, d.prefix+"_"+day+".log")
}

func (d *dailyFile) open(day string) error {
	f, err := os.OpenFile(d.path(day), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if d.file != nil {
		d.file.Close()
	}
	d.file = f
	d.day = day
	return nil
}

func (d *dailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return 0, os.ErrClosed
	}
	if day := d.clock().Format(fileDayFormat); day != d.day {
		if err := d.open(day); err != nil {
			return 0, err
		}
	}
	return d.file.Write(p)
}

func (d *dailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}
