package extension

import (
	"sort"
	"sync"

	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/model/types"
)

// Handlers provides node handlers by type
type Handlers struct {
	handlers map[model.NodeType]types.Handler
	mux      sync.RWMutex
}

// Lookup returns a handler by node type
func (s *Handlers) Lookup(nodeType model.NodeType) types.Handler {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.handlers[nodeType]
}

// Register registers handlers, replacing any previous handler of the same type
func (s *Handlers) Register(handlers ...types.Handler) {
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		s.handlers[handler.Type()] = handler
	}
}

// Types returns registered node types in sorted order
func (s *Handlers) Types() []model.NodeType {
	s.mux.RLock()
	defer s.mux.RUnlock()
	ret := make([]model.NodeType, 0, len(s.handlers))
	for k := range s.handlers {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// Missing returns node types of the workflow with no registered handler
func (s *Handlers) Missing(workflow *model.Workflow) []model.NodeType {
	s.mux.RLock()
	defer s.mux.RUnlock()
	var ret []model.NodeType
	seen := map[model.NodeType]bool{}
	for _, id := range workflow.NodeIDs() {
		node := workflow.Lookup(id)
		if node == nil || seen[node.Type] {
			continue
		}
		seen[node.Type] = true
		if _, ok := s.handlers[node.Type]; !ok {
			ret = append(ret, node.Type)
		}
	}
	return ret
}

// NewHandlers creates a handler registry
func NewHandlers(handlers ...types.Handler) *Handlers {
	ret := &Handlers{handlers: make(map[model.NodeType]types.Handler)}
	ret.Register(handlers...)
	return ret
}
