package workflow

import (
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

type Option func(*Service)

// WithFileSystem sets the file system, the base URL relative locations
// resolve against, and storage options such as an embed.FS.
func WithFileSystem(fs afs.Service, baseURL string, options ...storage.Option) Option {
	return func(s *Service) {
		s.fs = fs
		s.baseURL = baseURL
		s.fsOptions = options
	}
}

// WithEnvExpansion toggles ${env.KEY} expansion of string values.
func WithEnvExpansion(enabled bool) Option {
	return func(s *Service) {
		s.expandEnv = enabled
	}
}

// WithLookup overrides the process environment lookup used by expansion.
func WithLookup(lookup func(string) string) Option {
	return func(s *Service) {
		s.lookup = lookup
	}
}
