package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ysh86/pngme/internal/conf"
	"github.com/ysh86/pngme/internal/logger"
	"github.com/ysh86/pngme/png"
)

type testLogger struct {
	entries []string
}

func (l *testLogger) Log(level logger.Level, format string, args ...interface{}) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

func newTestRunner() (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Runner{
		Conf:   conf.Default(),
		Logger: &testLogger{},
		Stdout: &buf,
	}, &buf
}

func mustChunk(t *testing.T, tag string, data []byte) *png.Chunk {
	ct, err := png.ParseChunkType(tag)
	require.NoError(t, err)
	return png.NewChunk(ct, data)
}

func writeTestPNG(t *testing.T) string {
	f := png.NewFile(
		mustChunk(t, "IHDR", []byte{0, 0, 0, 1, 0, 0, 0, 1, 8, 0, 0, 0, 0}),
		mustChunk(t, "IEND", nil),
	)
	fpath := filepath.Join(t.TempDir(), "test.png")
	err := os.WriteFile(fpath, f.Bytes(), 0o644)
	require.NoError(t, err)
	return fpath
}

func TestEncodeDecode(t *testing.T) {
	fpath := writeTestPNG(t)
	r, stdout := newTestRunner()

	err := r.Encode(fpath, "ruSt", "hidden message", "")
	require.NoError(t, err)

	err = r.Decode(fpath, "ruSt")
	require.NoError(t, err)
	require.Equal(t, "hidden message\n", stdout.String())

	f, err := r.ReadFile(fpath)
	require.NoError(t, err)
	require.Len(t, f.Chunks(), 3)
	require.Equal(t, "ruSt", f.Chunks()[2].Type().String())
}

func TestEncodeToOutput(t *testing.T) {
	fpath := writeTestPNG(t)
	before, err := os.ReadFile(fpath)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.png")
	r, stdout := newTestRunner()

	err = r.Encode(fpath, "ruSt", "hidden message", out)
	require.NoError(t, err)

	after, err := os.ReadFile(fpath)
	require.NoError(t, err)
	require.Equal(t, before, after)

	err = r.Decode(out, "ruSt")
	require.NoError(t, err)
	require.Equal(t, "hidden message\n", stdout.String())
}

func TestEncodeRejectsBeforeIO(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.png")
	r, _ := newTestRunner()

	for _, ca := range []struct {
		name    string
		tag     string
		message string
		err     error
	}{
		{"short type", "abc", "msg", png.ErrInvalidLength},
		{"long type", "abcde", "msg", png.ErrInvalidLength},
		{"empty message", "ruSt", "", png.ErrEmptyPayload},
	} {
		t.Run(ca.name, func(t *testing.T) {
			err := r.Encode(missing, ca.tag, ca.message, "")
			require.ErrorIs(t, err, ca.err)
		})
	}

	_, err := os.Stat(missing)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeReservedBitType(t *testing.T) {
	fpath := writeTestPNG(t)
	r, stdout := newTestRunner()

	err := r.Encode(fpath, "Rust", "msg", "")
	require.NoError(t, err)
	require.Contains(t, r.Logger.(*testLogger).entries, "reserved bit of chunk type 'Rust' is set")

	err = r.Decode(fpath, "Rust")
	require.NoError(t, err)
	require.Equal(t, "msg\n", stdout.String())
}

func TestWriteFileKeepsPermissions(t *testing.T) {
	fpath := writeTestPNG(t)
	err := os.Chmod(fpath, 0o600)
	require.NoError(t, err)

	r, _ := newTestRunner()
	err = r.Encode(fpath, "ruSt", "msg", "")
	require.NoError(t, err)

	stat, err := os.Stat(fpath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), stat.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(fpath))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteFileFailureKeepsTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	err := os.Mkdir(target, 0o755)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0o644)
	require.NoError(t, err)

	r, _ := newTestRunner()
	err = r.WriteFile(target, png.NewFile(mustChunk(t, "IEND", nil)))
	require.Error(t, err)

	stat, err := os.Stat(target)
	require.NoError(t, err)
	require.True(t, stat.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDecodeErrors(t *testing.T) {
	fpath := writeTestPNG(t)
	r, stdout := newTestRunner()

	err := r.Decode(fpath, "ruSt")
	require.ErrorIs(t, err, png.ErrChunkNotFound)

	err = r.Decode(fpath, "IEND")
	require.ErrorIs(t, err, png.ErrEmptyPayload)

	err = r.Decode(fpath, "toolong")
	require.ErrorIs(t, err, png.ErrInvalidLength)

	err = r.Decode(filepath.Join(t.TempDir(), "missing.png"), "ruSt")
	require.ErrorIs(t, err, os.ErrNotExist)

	require.Empty(t, stdout.String())
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()
	r, _ := newTestRunner()

	notPNG := filepath.Join(dir, "text.png")
	err := os.WriteFile(notPNG, []byte("this is not a png file"), 0o644)
	require.NoError(t, err)

	_, err = r.ReadFile(notPNG)
	require.ErrorIs(t, err, png.ErrBadSignature)

	_, err = r.ReadFile(dir)
	require.EqualError(t, err, dir+" is a directory")

	r.Conf.MaxFileSize = 10
	_, err = r.ReadFile(writeTestPNG(t))
	require.ErrorContains(t, err, "more than the limit of 10B")
}

func TestReadFileChecksum(t *testing.T) {
	fpath := writeTestPNG(t)
	byts, err := os.ReadFile(fpath)
	require.NoError(t, err)
	byts[len(png.Signature)+8] ^= 0xff
	err = os.WriteFile(fpath, byts, 0o644)
	require.NoError(t, err)

	r, _ := newTestRunner()
	_, err = r.ReadFile(fpath)
	require.ErrorIs(t, err, png.ErrChecksumMismatch)

	r.Conf.VerifyChecksums = false
	f, err := r.ReadFile(fpath)
	require.NoError(t, err)
	require.Equal(t, byts, f.Bytes())
}

func TestRemove(t *testing.T) {
	fpath := writeTestPNG(t)
	r, stdout := newTestRunner()

	err := r.Encode(fpath, "ruSt", "first", "")
	require.NoError(t, err)
	err = r.Encode(fpath, "ruSt", "second", "")
	require.NoError(t, err)

	err = r.Remove(fpath, "ruSt")
	require.NoError(t, err)
	require.Equal(t, "Message removed: first\n", stdout.String())

	stdout.Reset()
	err = r.Decode(fpath, "ruSt")
	require.NoError(t, err)
	require.Equal(t, "second\n", stdout.String())
}

func TestRemoveEmptyChunk(t *testing.T) {
	fpath := writeTestPNG(t)
	r, stdout := newTestRunner()

	err := r.Remove(fpath, "IEND")
	require.NoError(t, err)
	require.Equal(t, "Chunk 'IEND' removed, it carried no message\n", stdout.String())

	f, err := r.ReadFile(fpath)
	require.NoError(t, err)
	require.Len(t, f.Chunks(), 1)
}

func TestRemoveMissing(t *testing.T) {
	fpath := writeTestPNG(t)
	before, err := os.ReadFile(fpath)
	require.NoError(t, err)

	r, _ := newTestRunner()
	err = r.Remove(fpath, "zzzz")
	require.ErrorIs(t, err, png.ErrChunkNotFound)

	after, err := os.ReadFile(fpath)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestPrint(t *testing.T) {
	fpath := writeTestPNG(t)
	r, stdout := newTestRunner()

	err := r.Print(fpath)
	require.NoError(t, err)
	require.Equal(t, "chunk 'IHDR' (13 bytes) [critical, public, unsafe-to-copy]: "+
		"Width = 1, Height = 1, Bit depth = 8, Color type = 0, "+
		"Compression method = 0, Filter method = 0, Interlace method = 0\n"+
		"chunk 'IEND' (0 bytes) [critical, public, unsafe-to-copy]\n"+
		"2 chunks, 45B\n", stdout.String())
}

func TestLogs(t *testing.T) {
	fpath := writeTestPNG(t)
	r, _ := newTestRunner()

	err := r.Encode(fpath, "ruSt", "msg", "")
	require.NoError(t, err)

	require.Equal(t, []string{
		"loaded " + fpath + ": 2 chunks, 45B",
		"wrote " + fpath + ": 3 chunks, 60B",
		"message encoded into chunk 'ruSt' of " + fpath,
	}, r.Logger.(*testLogger).entries)
}
