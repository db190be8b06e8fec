package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/chatflow/internal/expr"
	"github.com/viant/chatflow/internal/yml"
	"github.com/viant/chatflow/model"
	"gopkg.in/yaml.v3"
)

// RootNodeName optionally wraps the workflow sections.
const RootNodeName = "workflow"

// Service loads workflow documents (YAML or JSON) into validated graphs.
type Service struct {
	fs        afs.Service
	baseURL   string
	fsOptions []storage.Option
	expandEnv bool
	lookup    func(string) string
}

// DecodeYAML decodes a workflow from YAML or JSON
func (s *Service) DecodeYAML(encoded []byte) (*model.Workflow, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(encoded, &node); err != nil {
		return nil, model.NewConfigurationError("", []error{err})
	}
	return s.ParseWorkflow("", &node)
}

// Load loads a workflow from the specified URL. Relative URLs resolve
// against the base URL; a missing extension defaults to .yaml.
func (s *Service) Load(ctx context.Context, URL string) (*model.Workflow, error) {
	if filepath.Ext(URL) == "" {
		URL += ".yaml"
	}
	if s.baseURL != "" && url.IsRelative(URL) {
		URL = url.Join(s.baseURL, URL)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL, s.fsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow from %s: %w", URL, err)
	}
	var node yaml.Node
	if err = yaml.Unmarshal(data, &node); err != nil {
		return nil, model.NewConfigurationError(URL, []error{err})
	}
	return s.ParseWorkflow(URL, &node)
}

// ParseWorkflow converts a document node into a workflow. Every problem
// found is reported in a single *model.ConfigurationError.
func (s *Service) ParseWorkflow(URL string, node *yaml.Node) (*model.Workflow, error) {
	root := (*yml.Node)(node).Root()
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, model.NewConfigurationError(URL, []error{fmt.Errorf("workflow document should be a mapping")})
	}
	if nested := root.Lookup(RootNodeName); nested != nil && nested.Kind == yaml.MappingNode && !root.Has("nodes") {
		root = nested
	}
	workflow := model.NewWorkflow("", "")
	if URL != "" {
		workflow.Source = &model.Source{URL: URL}
	}
	var issues []error
	for _, section := range []string{"trigger", "environment"} {
		if !root.Has(section) {
			issues = append(issues, fmt.Errorf("%w: %s", model.ErrMissingSection, section))
		}
	}
	if s.expandEnv {
		s.expand(root)
	}
	issues = append(issues, s.parseWorkflow(root, workflow)...)
	issues = append(issues, workflow.Validate()...)
	if err := model.NewConfigurationError(URL, issues); err != nil {
		return nil, err
	}
	return workflow, nil
}

func (s *Service) parseWorkflow(root *yml.Node, workflow *model.Workflow) []error {
	var issues []error
	_ = root.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			workflow.Name = valueNode.Value
		case "version":
			workflow.Version = valueNode.Value
		case "description":
			workflow.Description = valueNode.Value
		case "entry":
			workflow.Entry = valueNode.Value
		case "environment":
			workflow.Environment = map[string]interface{}{}
			if err := valueNode.Decode(&workflow.Environment); err != nil {
				issues = append(issues, fmt.Errorf("environment: %w", err))
			}
		case "trigger":
			if err := valueNode.Decode(&workflow.Trigger); err != nil {
				issues = append(issues, fmt.Errorf("trigger: %w", err))
			}
		case "security":
			if err := valueNode.Decode(&workflow.Security); err != nil {
				issues = append(issues, fmt.Errorf("security: %w", err))
			}
		case "nodes":
			issues = append(issues, s.parseNodes(valueNode, workflow)...)
		}
		return nil
	})
	return issues
}

func (s *Service) parseNodes(nodes *yml.Node, workflow *model.Workflow) []error {
	if nodes.Kind != yaml.MappingNode {
		return []error{fmt.Errorf("line %d: nodes should be a mapping", nodes.Line)}
	}
	var issues []error
	_ = nodes.Pairs(func(id string, nodeSpec *yml.Node) error {
		node, nodeIssues := s.parseNode(id, nodeSpec)
		issues = append(issues, nodeIssues...)
		if node != nil {
			workflow.AddNode(node)
		}
		return nil
	})
	return issues
}

func (s *Service) parseNode(id string, spec *yml.Node) (*model.Node, []error) {
	if spec.Kind != yaml.MappingNode {
		return nil, []error{fmt.Errorf("node %s: line %d: should be a mapping", id, spec.Line)}
	}
	node := &model.Node{ID: id}
	var issues []error
	if typeNode := spec.Lookup("type"); typeNode != nil {
		node.Type = model.NodeType(typeNode.Value)
	}
	if config, err := model.NewNodeConfig(node.Type); err == nil {
		if configNode := spec.Lookup("config"); configNode != nil {
			if err = configNode.Decode(config); err != nil {
				issues = append(issues, fmt.Errorf("node %s: config: %w", id, err))
			}
		}
		node.Config = config
	}
	successors, err := parseSuccessors(spec.Lookup("next_nodes"))
	if err != nil {
		issues = append(issues, fmt.Errorf("node %s: next_nodes: %w", id, err))
	}
	node.Successors = successors
	return node, issues
}

// parseSuccessors maps a list (or a single id) to sequential successors and
// an intent mapping to branching successors.
func parseSuccessors(node *yml.Node) (model.Successors, error) {
	if node == nil {
		return model.Successors{}, nil
	}
	if node.Kind != yaml.MappingNode {
		ids, err := node.Strings()
		if err != nil {
			return model.Successors{}, err
		}
		return model.SequentialOf(ids...), nil
	}
	branches := map[string][]string{}
	var defaultIDs []string
	err := node.Pairs(func(intent string, value *yml.Node) error {
		ids, err := value.Strings()
		if err != nil {
			return fmt.Errorf("%s: %w", intent, err)
		}
		if intent == model.DefaultBranch {
			defaultIDs = ids
			return nil
		}
		branches[intent] = ids
		return nil
	})
	return model.BranchingOf(branches, defaultIDs), err
}

// expand replaces ${env.KEY} in string scalars; workflow environment values
// take precedence over the process environment.
func (s *Service) expand(root *yml.Node) {
	environment := map[string]interface{}{}
	if envNode := root.Lookup("environment"); envNode != nil {
		_ = envNode.Decode(&environment)
	}
	lookup := func(key string) string {
		if value, ok := environment[key]; ok && value != nil {
			if text := fmt.Sprint(value); !strings.Contains(text, "${env.") {
				return text
			}
		}
		return s.lookup(key)
	}
	var walk func(n *yaml.Node)
	walk = func(n *yaml.Node) {
		if n.Kind == yaml.ScalarNode && n.Tag == "!!str" {
			n.Value = expr.Expand(n.Value, lookup)
		}
		for _, child := range n.Content {
			walk(child)
		}
	}
	walk((*yaml.Node)(root))
}

// New creates a workflow loader
func New(opts ...Option) *Service {
	ret := &Service{
		fs:        afs.New(),
		expandEnv: true,
		lookup:    os.Getenv,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
