package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSink appends records as JSON lines to the file named by Record.Target,
// falling back to the default path. Parent directories are created on demand.
type FileSink struct {
	defaultPath string
	baseDir     string
	mux         sync.Mutex
	files       map[string]*os.File
}

// Append writes one JSON line.
func (s *FileSink) Append(_ context.Context, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}
	data = append(data, '\n')
	s.mux.Lock()
	defer s.mux.Unlock()
	f, err := s.file(s.path(record.Target))
	if err != nil {
		return err
	}
	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

func (s *FileSink) path(target string) string {
	if target == "" {
		target = s.defaultPath
	}
	if s.baseDir != "" && !filepath.IsAbs(target) {
		target = filepath.Join(s.baseDir, target)
	}
	return target
}

func (s *FileSink) file(path string) (*os.File, error) {
	if f, ok := s.files[path]; ok {
		return f, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file %s: %w", path, err)
	}
	s.files[path] = f
	return f, nil
}

// Close closes every open file.
func (s *FileSink) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	var firstErr error
	for path, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.files, path)
	}
	return firstErr
}

// NewFileSink creates a file sink. Relative targets resolve against baseDir when set.
func NewFileSink(defaultPath, baseDir string) *FileSink {
	return &FileSink{defaultPath: defaultPath, baseDir: baseDir, files: map[string]*os.File{}}
}
