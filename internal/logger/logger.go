// Package logger contains a leveled logger.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gookit/color"
)

// Level is a log level.
type Level int

// Log levels.
const (
	Debug Level = iota + 1
	Info
	Warn
	Error
)

// Destination is a log destination.
type Destination int

const (
	// DestinationStderr writes logs to the standard error.
	// The standard output is left to command results.
	DestinationStderr Destination = iota

	// DestinationFile writes logs to a file.
	DestinationFile
)

type destination interface {
	log(t time.Time, level Level, format string, args ...interface{})
	close()
}

// Logger is a log handler.
type Logger struct {
	Level        Level
	Destinations []Destination
	File         string

	timeNow func() time.Time
	stderr  io.Writer

	mutex        sync.Mutex
	destinations []destination
}

// Initialize initializes Logger.
func (l *Logger) Initialize() error {
	if l.Level == 0 {
		l.Level = Info
	}
	if l.timeNow == nil {
		l.timeNow = time.Now
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}

	for _, dest := range l.Destinations {
		switch dest {
		case DestinationStderr:
			l.destinations = append(l.destinations, newDestinationStderr(l.stderr))

		case DestinationFile:
			d, err := newDestinationFile(l.File)
			if err != nil {
				l.Close()
				return err
			}
			l.destinations = append(l.destinations, d)

		default:
			l.Close()
			return fmt.Errorf("invalid log destination: %v", dest)
		}
	}

	return nil
}

// Close closes a log handler.
func (l *Logger) Close() {
	for _, d := range l.destinations {
		d.close()
	}
	l.destinations = nil
}

func writeTime(buf *bytes.Buffer, t time.Time, useColor bool) {
	s := t.Format("2006/01/02 15:04:05 ")
	if useColor {
		buf.WriteString(color.RenderString(color.Gray.Code(), s))
	} else {
		buf.WriteString(s)
	}
}

var levelTags = map[Level]struct {
	tag  string
	code string
}{
	Debug: {"DEB", color.Debug.Code()},
	Info:  {"INF", color.Green.Code()},
	Warn:  {"WAR", color.Warn.Code()},
	Error: {"ERR", color.Error.Code()},
}

func writeLevel(buf *bytes.Buffer, level Level, useColor bool) {
	lt, ok := levelTags[level]
	if !ok {
		fmt.Fprintf(buf, "%d ", level)
		return
	}

	if useColor {
		buf.WriteString(color.RenderString(lt.code, lt.tag))
	} else {
		buf.WriteString(lt.tag)
	}
	buf.WriteByte(' ')
}

func writeContent(buf *bytes.Buffer, format string, args []interface{}) {
	fmt.Fprintf(buf, format, args...)
	buf.WriteByte('\n')
}

// Log writes a log entry.
func (l *Logger) Log(level Level, format string, args ...interface{}) {
	if level < l.Level {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	t := l.timeNow()
	for _, d := range l.destinations {
		d.log(t, level, format, args...)
	}
}
