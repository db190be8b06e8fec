package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/chatflow/internal/logging"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/dao"
	"github.com/viant/chatflow/service/dao/criteria"
	"github.com/viant/chatflow/service/dao/result"
)

// Service implements a storage-backed result store, one JSON document per
// execution under the base URL. Any afs scheme (file, mem, s3, gs) is supported.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var _ result.Store = (*Service)(nil)

// Save persists a result.
func (s *Service) Save(ctx context.Context, r *execution.Result) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	if r.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.resultURL(r.ID)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save result to %s: %w", URL, err)
	}
	return nil
}

// Load retrieves a result or dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, id string) (*execution.Result, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	URL := s.resultURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if result exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read result %s: %w", URL, err)
	}
	ret := &execution.Result{}
	if err = json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result %s: %w", URL, err)
	}
	return ret, nil
}

// Delete removes a result.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.resultURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check if result exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err = s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete result %s: %w", URL, err)
	}
	return nil
}

// List returns matching results ordered by id. Unreadable documents are skipped.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	logger := logging.New("result.fs")
	var ret []*execution.Result
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			logger.Warn("failed to read result", "url", object.URL(), "error", err)
			continue
		}
		item := &execution.Result{}
		if err = json.Unmarshal(data, item); err != nil {
			logger.Warn("failed to unmarshal result", "url", object.URL(), "error", err)
			continue
		}
		if !criteria.Match(result.Field(item), parameters) {
			continue
		}
		ret = append(ret, item)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret, nil
}

func (s *Service) resultURL(id string) string {
	return url.Join(s.baseURL, path.Base(id)+".json")
}

// New creates a result store rooted at baseURL; local paths are normalized to file URLs.
func New(ctx context.Context, baseURL string, fs afs.Service) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if fs == nil {
		fs = afs.New()
	}
	baseURL = url.Normalize(baseURL, file.Scheme)
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", baseURL, err)
		}
	}
	return &Service{baseURL: baseURL, fs: fs}, nil
}
