package workflow

import (
	"context"
	"embed"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/chatflow/model"
)

//go:embed testdata/*
var testFS embed.FS

func newTestService(opts ...Option) *Service {
	lookup := func(key string) string {
		if key == "WHATSAPP_TOKEN" {
			return "secret"
		}
		return ""
	}
	return New(append([]Option{WithFileSystem(afs.New(), "embed:///testdata", &testFS), WithLookup(lookup)}, opts...)...)
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	srv := newTestService()
	workflow, err := srv.Load(ctx, "masjid_workflow")
	require.NoError(t, err)

	assert.Equal(t, "Masjid AI Assistant", workflow.Name)
	assert.Equal(t, "1.0.0", workflow.Version)
	assert.Equal(t, "embed:///testdata/masjid_workflow.yaml", workflow.Source.URL)
	assert.True(t, workflow.Security.WebhookVerification)
	assert.Equal(t, "webhook", workflow.Trigger["type"])
	assert.Equal(t, "+62-812-3456-7890", workflow.Env("ADMIN_PHONE"))
	assert.Equal(t, []string{
		"input_processor", "intent_classifier", "prayer_times", "kajian_schedule", "donation_info",
		"event_calendar", "general_info", "marriage_registration", "ai_fallback",
		"response_formatter", "whatsapp_sender", "activity_logger",
	}, workflow.NodeIDs())

	classifierNode := workflow.Lookup("intent_classifier")
	require.NotNil(t, classifierNode)
	assert.Equal(t, model.Branching, classifierNode.Successors.Kind)
	assert.Equal(t, []string{"kajian_schedule"}, classifierNode.Route("kajian_info"))
	assert.Equal(t, []string{"ai_fallback"}, classifierNode.Route("unknown"))
	config, ok := classifierNode.Config.(*model.ClassifierConfig)
	require.True(t, ok)
	var names []string
	for _, intent := range config.Intents {
		names = append(names, intent.Name)
	}
	assert.Equal(t, []string{"jadwal_shalat", "kajian_info", "donasi", "acara_masjid", "informasi_umum", "daftar_nikah"}, names)
	assert.Equal(t, 0.7, config.Classifier().Threshold)

	payment := workflow.Lookup("donation_info").Config.(*model.PaymentConfig)
	assert.Equal(t, "+62-812-3456-7890", payment.AdminPhone)
	assert.Len(t, payment.BankAccounts, 2)

	info := workflow.Lookup("general_info").Config.(*model.StaticResponderConfig)
	assert.Equal(t, "Al-Ikhlas", info.Info.Name)

	sender := workflow.Lookup("whatsapp_sender").Config.(*model.APISenderConfig)
	assert.Equal(t, "Bearer {{WHATSAPP_TOKEN}}", sender.Headers["Authorization"])

	assert.Nil(t, workflow.Lookup("activity_logger").Next())
	assert.Empty(t, workflow.Validate())
}

func TestService_LoadJSON(t *testing.T) {
	workflow, err := newTestService().Load(context.Background(), "minimal.json")
	require.NoError(t, err)
	assert.Equal(t, "minimal", workflow.Name)
	assert.Equal(t, []string{"log"}, workflow.Lookup("input_processor").Next())
}

func TestService_LoadErrors(t *testing.T) {
	testCases := []struct {
		description  string
		URL          string
		expectIssues []string
		expectIs     []error
	}{
		{
			description: "dangling references",
			URL:         "dangling.yaml",
			expectIssues: []string{
				"dangling node reference: node input_processor refers to unknown node ghost",
				"dangling node reference: node classifier refers to unknown node phantom",
			},
			expectIs: []error{model.ErrDanglingReference},
		},
		{
			description: "invalid sections and node configs",
			URL:         "invalid.yaml",
			expectIssues: []string{
				"missing section: trigger",
				"missing section: environment",
				"missing section: version",
				`node input_processor has unknown type "teleporter"`,
				"node formatter: config: max_length must be >= 3",
				"node formatter: formatter does not support intent routed next_nodes",
			},
			expectIs: []error{model.ErrMissingSection},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := newTestService().Load(context.Background(), tc.URL)
			require.Error(t, err)
			var configErr *model.ConfigurationError
			require.True(t, errors.As(err, &configErr))
			var issues []string
			for _, issue := range configErr.Issues {
				issues = append(issues, issue.Error())
			}
			for _, expect := range tc.expectIssues {
				assert.Contains(t, issues, expect)
			}
			for _, target := range tc.expectIs {
				assert.ErrorIs(t, err, target)
			}
		})
	}
}

func TestService_LoadMissing(t *testing.T) {
	_, err := newTestService().Load(context.Background(), "missing.yaml")
	assert.Error(t, err)
}

func TestService_DecodeYAML(t *testing.T) {
	testCases := []struct {
		description string
		document    string
		expectErr   bool
		assert      func(t *testing.T, workflow *model.Workflow)
	}{
		{
			description: "env expansion from workflow environment and process",
			document: `
name: flow
version: "1"
trigger: {}
environment:
  GREETING: salam
nodes:
  input_processor:
    type: ai_responder
    config:
      fallback_responses: ["${env.GREETING} ${env.WHATSAPP_TOKEN}"]
    next_nodes: log
  log:
    type: logger
`,
			assert: func(t *testing.T, workflow *model.Workflow) {
				config := workflow.Lookup("input_processor").Config.(*model.AIResponderConfig)
				assert.Equal(t, []string{"salam secret"}, config.FallbackResponses)
				assert.Equal(t, []string{"log"}, workflow.Lookup("input_processor").Next())
				assert.Equal(t, model.DefaultLogFile, workflow.Lookup("log").Config.(*model.LoggerConfig).LogFile)
			},
		},
		{
			description: "custom entry",
			document: `
name: flow
version: "1"
entry: start
trigger: {}
environment: {}
nodes:
  start:
    type: logger
`,
			assert: func(t *testing.T, workflow *model.Workflow) {
				assert.Equal(t, "start", workflow.EntryID())
			},
		},
		{
			description: "empty sentinel successor",
			document: `
name: flow
version: "1"
trigger: {}
environment: {}
nodes:
  input_processor:
    type: formatter
    next_nodes: [""]
`,
			assert: func(t *testing.T, workflow *model.Workflow) {
				assert.Equal(t, []string{""}, workflow.Lookup("input_processor").Next())
			},
		},
		{description: "not a mapping", document: "- a\n- b", expectErr: true},
		{description: "malformed", document: "name: [", expectErr: true},
		{description: "missing nodes", document: "name: a\nversion: b\ntrigger: {}\nenvironment: {}", expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			workflow, err := newTestService().DecodeYAML([]byte(tc.document))
			if tc.expectErr {
				var configErr *model.ConfigurationError
				assert.True(t, errors.As(err, &configErr))
				return
			}
			require.NoError(t, err)
			tc.assert(t, workflow)
		})
	}
}
