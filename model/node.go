package model

import "fmt"

// NodeType identifies the handler executing a node.
type NodeType string

const (
	NodeTypeProcessor         NodeType = "processor"
	NodeTypeAIClassifier      NodeType = "ai_classifier"
	NodeTypeDataProcessor     NodeType = "data_processor"
	NodeTypeDatabaseQuery     NodeType = "database_query"
	NodeTypePaymentProcessor  NodeType = "payment_processor"
	NodeTypeCalendarProcessor NodeType = "calendar_processor"
	NodeTypeStaticResponder   NodeType = "static_responder"
	NodeTypeFormProcessor     NodeType = "form_processor"
	NodeTypeAIResponder       NodeType = "ai_responder"
	NodeTypeFormatter         NodeType = "formatter"
	NodeTypeAPISender         NodeType = "api_sender"
	NodeTypeLogger            NodeType = "logger"
)

// NodeTypes lists every supported node type.
var NodeTypes = []NodeType{
	NodeTypeProcessor,
	NodeTypeAIClassifier,
	NodeTypeDataProcessor,
	NodeTypeDatabaseQuery,
	NodeTypePaymentProcessor,
	NodeTypeCalendarProcessor,
	NodeTypeStaticResponder,
	NodeTypeFormProcessor,
	NodeTypeAIResponder,
	NodeTypeFormatter,
	NodeTypeAPISender,
	NodeTypeLogger,
}

// IsValid reports whether t is one of the supported node types.
func (t NodeType) IsValid() bool {
	for _, candidate := range NodeTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Branching reports whether the node type routes by intent.
func (t NodeType) Branching() bool {
	return t == NodeTypeAIClassifier
}

// Terminal reports whether the node type always ends the traversal.
func (t NodeType) Terminal() bool {
	return t == NodeTypeLogger
}

// Node is a single unit of work in the workflow graph.
type Node struct {
	ID         string     `json:"id" yaml:"id"`
	Type       NodeType   `json:"type" yaml:"type"`
	Config     NodeConfig `json:"config,omitempty" yaml:"config,omitempty"`
	Successors Successors `json:"nextNodes" yaml:"next_nodes"`
}

// NewNode creates a node with the given configuration and successors.
func NewNode(id string, nodeType NodeType, config NodeConfig, successors Successors) *Node {
	return &Node{ID: id, Type: nodeType, Config: config, Successors: successors}
}

// Next returns the successors of a sequential node.
func (n *Node) Next() []string {
	if n.Type.Terminal() {
		return nil
	}
	return n.Successors.Resolve("")
}

// Route returns the successors for the intent on a branching node.
func (n *Node) Route(intent string) []string {
	return n.Successors.Resolve(intent)
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.ID, n.Type)
}
