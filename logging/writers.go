package logging

import (
	"errors"
	"io"
	"os"
)

// Writer receives formatted entries. The logger serializes calls to Write.
type Writer interface {
	Write(data []byte) error
	Close() error
}

// StreamWriter writes to a stream it does not own; Close leaves it open
type StreamWriter struct {
	w io.Writer
}

// NewStreamWriter wraps w
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

// NewStderrWriter keeps log output off stdout, which carries program output
func NewStderrWriter() *StreamWriter {
	return NewStreamWriter(os.Stderr)
}

func (w *StreamWriter) Write(data []byte) error {
	_, err := w.w.Write(data)
	return err
}

func (w *StreamWriter) Close() error { return nil }

// FileWriter appends to a log file
type FileWriter struct {
	file *os.File
}

// NewFileWriter opens path for appending, creating it if needed
func NewFileWriter(path string) (*FileWriter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileWriter{file: file}, nil
}

func (w *FileWriter) Write(data []byte) error {
	_, err := w.file.Write(data)
	return err
}

// Close syncs and closes the file
func (w *FileWriter) Close() error {
	return errors.Join(w.file.Sync(), w.file.Close())
}

// Path returns the file name
func (w *FileWriter) Path() string {
	return w.file.Name()
}

// MultiWriter fans out to several writers and joins their errors
type MultiWriter []Writer

func NewMultiWriter(writers ...Writer) MultiWriter {
	return MultiWriter(writers)
}

func (m MultiWriter) Write(data []byte) error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.Write(data))
	}
	return errors.Join(errs...)
}

func (m MultiWriter) Close() error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}

type discard struct{}

func (discard) Write([]byte) error { return nil }
func (discard) Close() error { return nil }

// Discard drops every entry
var Discard Writer = discard{}
