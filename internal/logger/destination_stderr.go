package logger

import (
	"bytes"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

type destinationStderr struct {
	w        io.Writer
	useColor bool
	buf      bytes.Buffer
}

func newDestinationStderr(w io.Writer) destination {
	d := &destinationStderr{w: w}
	if f, ok := w.(*os.File); ok {
		d.useColor = term.IsTerminal(int(f.Fd()))
	}
	return d
}

func (d *destinationStderr) log(t time.Time, level Level, format string, args ...interface{}) {
	d.buf.Reset()
	writeTime(&d.buf, t, d.useColor)
	writeLevel(&d.buf, level, d.useColor)
	writeContent(&d.buf, format, args)
	d.w.Write(d.buf.Bytes()) //nolint:errcheck
}

func (d *destinationStderr) close() {
}
