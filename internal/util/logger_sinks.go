package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// WriterSink writes entries to an io.Writer such as stderr
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	format LogFormat
}

// NewWriterSink creates a sink over w
func NewWriterSink(w io.Writer, format LogFormat) *WriterSink {
	return &WriterSink{w: w, format: format}
}

func (s *WriterSink) Write(entry LogEntry) error {
	line, err := encodeEntry(entry, s.format)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = fmt.Fprintln(s.w, line)
	return err
}

func (s *WriterSink) Close() error {
	return nil
}

// FileSink appends entries to a file
type FileSink struct {
	mu     sync.Mutex
	file   *os.File
	format LogFormat
}

// NewFileSink opens path for appending, creating its directory if needed
func NewFileSink(path string, format LogFormat) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: file, format: format}, nil
}

func (s *FileSink) Write(entry LogEntry) error {
	line, err := encodeEntry(entry, s.format)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return os.ErrClosed
	}
	_, err = fmt.Fprintln(s.file, line)
	return err
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func encodeEntry(entry LogEntry, format LogFormat) (string, error) {
	if format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return formatText(entry), nil
}
