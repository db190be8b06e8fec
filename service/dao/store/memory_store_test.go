package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/chatflow/service/dao"
	"github.com/viant/chatflow/service/dao/criteria"
)

type record struct {
	ID     string
	Active bool
}

func newStore(opts ...MemoryOption[string, record]) *MemoryStore[string, record] {
	return NewMemoryStore[string, record](func(r *record) string { return r.ID }, opts...)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := newStore(WithCriteria[string, record](func(r *record) criteria.Field {
		return func(name string) (interface{}, bool) {
			if name == "Active" {
				return r.Active, true
			}
			return nil, false
		}
	}))
	assert.ErrorIs(t, store.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, store.Save(ctx, &record{}), dao.ErrInvalidID)

	for _, r := range []*record{{ID: "c", Active: true}, {ID: "a"}, {ID: "b", Active: true}} {
		assert.NoError(t, store.Save(ctx, r))
	}
	all, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, ids(all))

	active, err := store.List(ctx, dao.NewBoolParameter("Active", true))
	assert.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(active))

	loaded, err := store.Load(ctx, "a")
	assert.NoError(t, err)
	assert.Equal(t, "a", loaded.ID)

	assert.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Load(ctx, "a")
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "a"), dao.ErrNotFound)
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStore_Limit(t *testing.T) {
	ctx := context.Background()
	store := newStore(WithLimit[string, record](2))
	for _, id := range []string{"1", "2", "3"} {
		assert.NoError(t, store.Save(ctx, &record{ID: id}))
	}
	all, _ := store.List(ctx)
	assert.Equal(t, []string{"2", "3"}, ids(all))
	_, err := store.Load(ctx, "1")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func ids(records []*record) []string {
	var ret []string
	for _, r := range records {
		ret = append(ret, r.ID)
	}
	return ret
}
