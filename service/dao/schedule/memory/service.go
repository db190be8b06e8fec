package memory

import (
	"context"
	"sync"

	"github.com/viant/chatflow/service/dao"
	"github.com/viant/chatflow/service/dao/criteria"
	"github.com/viant/chatflow/service/dao/schedule"
	"github.com/viant/chatflow/service/dao/store"
)

// Service implements an in-memory schedule store.
type Service struct {
	*store.MemoryStore[int, schedule.Schedule]
	mux    sync.Mutex
	lastID int
}

var _ schedule.Store = (*Service)(nil)

// Save stores the session, assigning an id to new sessions.
func (s *Service) Save(ctx context.Context, entity *schedule.Schedule) error {
	if entity == nil {
		return dao.ErrNilEntity
	}
	s.mux.Lock()
	if entity.ID == 0 {
		s.lastID++
		entity.ID = s.lastID
	} else if entity.ID > s.lastID {
		s.lastID = entity.ID
	}
	s.mux.Unlock()
	return s.MemoryStore.Save(ctx, entity)
}

// List returns matching sessions ordered by date.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*schedule.Schedule, error) {
	ret, err := s.MemoryStore.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	schedule.SortByDate(ret)
	return ret, nil
}

// Active returns active sessions ordered by date.
func (s *Service) Active(ctx context.Context) ([]*schedule.Schedule, error) {
	return s.List(ctx, dao.NewBoolParameter("Active", true))
}

// New creates a memory store holding the supplied sessions.
func New(ctx context.Context, seed ...*schedule.Schedule) (*Service, error) {
	ret := &Service{
		MemoryStore: store.NewMemoryStore[int, schedule.Schedule](
			func(s *schedule.Schedule) int { return s.ID },
			store.WithCriteria[int, schedule.Schedule](func(s *schedule.Schedule) criteria.Field { return s.Field() }),
		),
	}
	for _, item := range seed {
		if err := ret.Save(ctx, item); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
