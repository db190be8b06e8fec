package respond

import (
	"os"

	"github.com/viant/chatflow/service/dao/schedule"
)

// DefaultAdminPhone is the donation confirmation contact of last resort.
const DefaultAdminPhone = "+62-812-3456-7890"

// Option customises responders.
type Option func(*options)

type options struct {
	store schedule.Store
	env   func(string) string
}

// WithScheduleStore sets the lookup store read by database_query nodes.
func WithScheduleStore(store schedule.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithEnv sets the environment lookup, e.g. model.Workflow.Env.
func WithEnv(env func(string) string) Option {
	return func(o *options) {
		if env != nil {
			o.env = env
		}
	}
}

func newOptions(opts []Option) *options {
	ret := &options{env: os.Getenv}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
