package model

import (
	"fmt"
	"os"
	"reflect"
	"sort"
)

// EntryNodeID is the node every execution starts from.
const EntryNodeID = "input_processor"

// Source provides information about the origin of the workflow
type Source struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Security holds transport-level switches.
type Security struct {
	WebhookVerification bool `json:"webhookVerification" yaml:"webhook_verification"`
}

// Workflow represents a validated, immutable workflow definition.
type Workflow struct {
	Source      *Source                `json:"source,omitempty" yaml:"source,omitempty"`
	Name        string                 `json:"name" yaml:"name"`
	Version     string                 `json:"version" yaml:"version"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Entry       string                 `json:"entry,omitempty" yaml:"entry,omitempty"`
	Trigger     map[string]interface{} `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Environment map[string]interface{} `json:"environment,omitempty" yaml:"environment,omitempty"`
	Security    Security               `json:"security" yaml:"security"`
	Nodes       map[string]*Node       `json:"nodes" yaml:"nodes"`
	// Order keeps node ids in declaration order.
	Order []string `json:"-" yaml:"-"`
}

// NewWorkflow creates an empty workflow with the given name and version.
func NewWorkflow(name, version string) *Workflow {
	return &Workflow{
		Name:        name,
		Version:     version,
		Trigger:     map[string]interface{}{},
		Environment: map[string]interface{}{},
		Nodes:       map[string]*Node{},
	}
}

// AddNode adds a node, keeping declaration order.
func (w *Workflow) AddNode(node *Node) *Workflow {
	if w.Nodes == nil {
		w.Nodes = map[string]*Node{}
	}
	if _, ok := w.Nodes[node.ID]; !ok {
		w.Order = append(w.Order, node.ID)
	}
	w.Nodes[node.ID] = node
	return w
}

// EntryID returns the start node id.
func (w *Workflow) EntryID() string {
	if w.Entry != "" {
		return w.Entry
	}
	return EntryNodeID
}

// Lookup returns the node by id or nil.
func (w *Workflow) Lookup(id string) *Node {
	return w.Nodes[id]
}

// Env returns an environment setting, falling back to the process
// environment.
func (w *Workflow) Env(key string) string {
	if value, ok := w.Environment[key]; ok && value != nil {
		return fmt.Sprint(value)
	}
	return os.Getenv(key)
}

// NodeIDs returns node ids in declaration order.
func (w *Workflow) NodeIDs() []string {
	if len(w.Order) == len(w.Nodes) {
		return w.Order
	}
	ids := make([]string, 0, len(w.Nodes))
	for id := range w.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate performs structural validation of the graph and initialises every
// node config, applying defaults and compiling patterns. Config Init is
// idempotent, so validating twice is safe. The returned slice is empty when
// the workflow is sound. It does not execute anything.
func (w *Workflow) Validate() []error {
	var issues []error
	if w.Name == "" {
		issues = append(issues, fmt.Errorf("%w: name", ErrMissingSection))
	}
	if w.Version == "" {
		issues = append(issues, fmt.Errorf("%w: version", ErrMissingSection))
	}
	if len(w.Nodes) == 0 {
		issues = append(issues, fmt.Errorf("%w: nodes", ErrMissingSection))
		return issues
	}
	if w.Lookup(w.EntryID()) == nil {
		issues = append(issues, fmt.Errorf("entry node %s is not defined", w.EntryID()))
	}
	for _, id := range w.NodeIDs() {
		node := w.Nodes[id]
		if node == nil {
			issues = append(issues, fmt.Errorf("node %s is nil", id))
			continue
		}
		if node.ID != id {
			issues = append(issues, fmt.Errorf("node %s declares mismatched id %s", id, node.ID))
		}
		if !node.Type.IsValid() {
			issues = append(issues, fmt.Errorf("node %s has unknown type %q", id, node.Type))
			continue
		}
		if err := initConfig(node); err != nil {
			issues = append(issues, fmt.Errorf("node %s: config: %w", id, err))
		}
		switch {
		case node.Type.Branching() && node.Successors.Kind != Branching && !node.Successors.IsEmpty():
			issues = append(issues, fmt.Errorf("node %s: %s requires intent routed next_nodes", id, node.Type))
		case !node.Type.Branching() && node.Successors.Kind == Branching:
			issues = append(issues, fmt.Errorf("node %s: %s does not support intent routed next_nodes", id, node.Type))
		}
		for _, ref := range node.Successors.References() {
			if ref == "" {
				continue
			}
			if w.Lookup(ref) == nil {
				issues = append(issues, fmt.Errorf("%w: node %s refers to unknown node %s", ErrDanglingReference, id, ref))
			}
		}
	}
	return issues
}

func initConfig(node *Node) error {
	if node.Config == nil {
		return fmt.Errorf("missing")
	}
	expected, err := NewNodeConfig(node.Type)
	if err != nil {
		return err
	}
	if reflect.TypeOf(expected) != reflect.TypeOf(node.Config) {
		return fmt.Errorf("%T does not configure %s", node.Config, node.Type)
	}
	return node.Config.Init()
}
