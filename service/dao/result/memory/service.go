package memory

import (
	"context"

	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/dao"
	"github.com/viant/chatflow/service/dao/criteria"
	"github.com/viant/chatflow/service/dao/result"
	"github.com/viant/chatflow/service/dao/store"
)

// DefaultLimit is the number of results kept when no limit is given.
const DefaultLimit = 1000

// Service keeps the most recent results in memory. Results are cloned on
// the way in and out so callers never share the stored instance.
type Service struct {
	records *store.MemoryStore[string, execution.Result]
}

var _ result.Store = (*Service)(nil)

// Save persists a clone of the result.
func (s *Service) Save(ctx context.Context, r *execution.Result) error {
	if r == nil {
		return dao.ErrNilEntity
	}
	return s.records.Save(ctx, clone(r))
}

// Load returns a clone of the result or dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, id string) (*execution.Result, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	r, err := s.records.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return clone(r), nil
}

// Delete removes a result.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	return s.records.Delete(ctx, id)
}

// List returns clones of matching results, oldest first.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Result, error) {
	items, err := s.records.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	ret := make([]*execution.Result, 0, len(items))
	for _, item := range items {
		ret = append(ret, clone(item))
	}
	return ret, nil
}

func clone(r *execution.Result) *execution.Result {
	ret := *r
	ret.Context = r.Context.Clone()
	return &ret
}

// New creates a memory result store keeping up to limit results.
func New(limit int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Service{
		records: store.NewMemoryStore[string, execution.Result](
			func(r *execution.Result) string { return r.ID },
			store.WithCriteria[string, execution.Result](func(r *execution.Result) criteria.Field { return result.Field(r) }),
			store.WithLimit[string, execution.Result](limit),
		),
	}
}
