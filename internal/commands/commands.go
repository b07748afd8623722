// Package commands implements the pngme commands on top of the png package.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"code.cloudfoundry.org/bytefmt"

	"github.com/ysh86/pngme/internal/conf"
	"github.com/ysh86/pngme/internal/logger"
	"github.com/ysh86/pngme/png"
)

type logWriter interface {
	Log(level logger.Level, format string, args ...interface{})
}

// Runner runs commands against PNG files on disk.
type Runner struct {
	Conf   *conf.Conf
	Logger logWriter
	Stdout io.Writer
}

// ReadFile loads and parses a PNG file.
func (r *Runner) ReadFile(path string) (*png.File, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if uint64(stat.Size()) > uint64(r.Conf.MaxFileSize) {
		return nil, fmt.Errorf("%s is %s, more than the limit of %s", path,
			bytefmt.ByteSize(uint64(stat.Size())), bytefmt.ByteSize(uint64(r.Conf.MaxFileSize)))
	}

	byts, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f *png.File
	if r.Conf.VerifyChecksums {
		f, err = png.Parse(byts)
	} else {
		f, err = png.ParseUnverified(byts)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r.Logger.Log(logger.Debug, "loaded %s: %d chunks, %s", path, len(f.Chunks()), bytefmt.ByteSize(uint64(len(byts))))
	return f, nil
}

// WriteFile serializes f into path. The file is written next to path and
// renamed over it, so path is left untouched when writing fails.
func (r *Runner) WriteFile(path string, f *png.File) error {
	perm := os.FileMode(0o644)
	if stat, err := os.Stat(path); err == nil {
		perm = stat.Mode().Perm()
	}

	byts := f.Bytes()
	if err := writeFileAtomic(path, byts, perm); err != nil {
		return err
	}

	r.Logger.Log(logger.Debug, "wrote %s: %d chunks, %s", path, len(f.Chunks()), bytefmt.ByteSize(uint64(len(byts))))
	return nil
}

func writeFileAtomic(path string, byts []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	_, err = tmp.Write(byts)
	if err == nil {
		err = tmp.Chmod(perm)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// Encode appends a chunk carrying message to the file at path.
// The result is written to output, or back to path when output is empty.
func (r *Runner) Encode(path string, chunkType string, message string, output string) error {
	ct, err := png.ParseChunkType(chunkType)
	if err != nil {
		return err
	}
	if !ct.IsValid() {
		r.Logger.Log(logger.Warn, "reserved bit of chunk type '%s' is set", ct)
	}
	if message == "" {
		return fmt.Errorf("%w: message is empty", png.ErrEmptyPayload)
	}

	f, err := r.ReadFile(path)
	if err != nil {
		return err
	}

	f.AppendChunk(png.NewChunk(ct, []byte(message)))

	if output == "" {
		output = path
	}
	if err := r.WriteFile(output, f); err != nil {
		return err
	}

	r.Logger.Log(logger.Info, "message encoded into chunk '%s' of %s", ct, output)
	return nil
}

// Decode prints the message carried by the first chunk of the given type.
func (r *Runner) Decode(path string, chunkType string) error {
	ct, err := png.ParseChunkType(chunkType)
	if err != nil {
		return err
	}

	f, err := r.ReadFile(path)
	if err != nil {
		return err
	}

	c := f.ChunkByType(ct.String())
	if c == nil {
		return fmt.Errorf("%w: '%s' in %s", png.ErrChunkNotFound, ct, path)
	}

	msg, err := c.DataAsString()
	if err != nil {
		return err
	}

	fmt.Fprintln(r.Stdout, msg)
	return nil
}

// Remove removes the first chunk of the given type and rewrites the file.
func (r *Runner) Remove(path string, chunkType string) error {
	ct, err := png.ParseChunkType(chunkType)
	if err != nil {
		return err
	}

	f, err := r.ReadFile(path)
	if err != nil {
		return err
	}

	c, err := f.RemoveChunk(ct.String())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := r.WriteFile(path, f); err != nil {
		return err
	}

	msg, err := c.DataAsString()
	switch {
	case errors.Is(err, png.ErrEmptyPayload):
		fmt.Fprintf(r.Stdout, "Chunk '%s' removed, it carried no message\n", ct)
	case err != nil:
		return err
	default:
		fmt.Fprintf(r.Stdout, "Message removed: %s\n", msg)
	}

	r.Logger.Log(logger.Info, "chunk '%s' removed from %s", ct, path)
	return nil
}

// Print lists the chunks of the file.
func (r *Runner) Print(path string) error {
	f, err := r.ReadFile(path)
	if err != nil {
		return err
	}

	f.DumpTo(r.Stdout)
	fmt.Fprintf(r.Stdout, "%d chunks, %s\n", len(f.Chunks()), bytefmt.ByteSize(uint64(f.Size())))
	return nil
}
