package codec

import (
	"bufio"
	"io"
	"os"
)

// Sink is the abstract byte destination the serializer writes through.
// Host-language file-like adapters implement this; the core performs
// no direct file I/O.
type Sink interface {
	Write(p []byte) (int, error)
	Tell() (int64, error)
	Seek(offset int64) error
	Seekable() bool
}

// Source is the abstract byte origin the serializer reads through.
type Source interface {
	Read(p []byte) (int, error)
	Tell() (int64, error)
	Seek(offset int64) error
	Seekable() bool
}

// fileSink adapts an *os.File (via a buffered writer) to Sink. Writes go
// to a temporary file beside path; the returned close function syncs,
// closes, and renames it into place, so a reader never observes a
// partially-written file at path.
type fileSink struct {
	f         *os.File
	w         *bufio.Writer
	pos       int64
	tempPath  string
	finalPath string
}

// NewFileSink opens a temp file beside path for writing. The file is
// renamed to path only once the returned close function succeeds;
// anything short of that leaves path untouched. A crash or a caller
// that never closes leaves the ".tmp" file orphaned; an error during
// Flush/Sync/Close/Rename removes the ".tmp" file before returning.
func NewFileSink(path string) (Sink, func() error, error) {
	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return nil, nil, err
	}
	s := &fileSink{f: f, w: bufio.NewWriter(f), tempPath: tempPath, finalPath: path}
	closeFn := func() error {
		if err := s.w.Flush(); err != nil {
			f.Close()
			os.Remove(tempPath)
			return err
		}
		if err := f.Sync(); err != nil {
			f.Close()
			os.Remove(tempPath)
			return err
		}
		if err := f.Close(); err != nil {
			os.Remove(tempPath)
			return err
		}
		if err := os.Rename(tempPath, s.finalPath); err != nil {
			os.Remove(tempPath)
			return err
		}
		return nil
	}
	return s, closeFn, nil
}

func (s *fileSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.pos += int64(n)
	return n, err
}

func (s *fileSink) Tell() (int64, error) { return s.pos, nil }

func (s *fileSink) Seek(offset int64) error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	newPos, err := s.f.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	s.pos = newPos
	return nil
}

func (s *fileSink) Seekable() bool { return true }

// fileSource adapts an *os.File (via a buffered reader) to Source.
type fileSource struct {
	f   *os.File
	r   *bufio.Reader
	pos int64
}

// NewFileSource opens path for reading.
func NewFileSource(path string) (Source, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	s := &fileSource{f: f, r: bufio.NewReader(f)}
	return s, f.Close, nil
}

func (s *fileSource) Read(p []byte) (int, error) {
	n, err := io.ReadFull(s.r, p)
	s.pos += int64(n)
	return n, err
}

func (s *fileSource) Tell() (int64, error) { return s.pos, nil }

func (s *fileSource) Seek(offset int64) error {
	newPos, err := s.f.Seek(offset, io.SeekStart)
	if err != nil {
		return err
	}
	s.r.Reset(s.f)
	s.pos = newPos
	return nil
}

func (s *fileSource) Seekable() bool { return true }
