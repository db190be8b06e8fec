package chatflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/chatflow/runtime/execution"
	"github.com/viant/chatflow/service/delivery"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *Config)
		expectErr   string
	}{
		{description: "defaults", mutate: func(c *Config) {}},
		{description: "missing workflow", mutate: func(c *Config) { c.Workflow.URL = "" }, expectErr: "workflow.url is required"},
		{description: "sqlite without dsn", mutate: func(c *Config) { c.Store.Driver = "sqlite" }, expectErr: "store.dsn is required for sqlite"},
		{description: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "redis" }, expectErr: "unsupported store.driver: redis"},
		{description: "bad timeout", mutate: func(c *Config) { c.Delivery.Timeout = "soon" }, expectErr: "invalid delivery.timeout"},
		{description: "unknown audit", mutate: func(c *Config) { c.Audit.Backend = "kafka" }, expectErr: "unsupported audit.backend: kafka"},
		{description: "fs history without url", mutate: func(c *Config) { c.History.Backend = "fs" }, expectErr: "history.url is required for fs"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			err := config.Validate()
			if tc.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHATFLOW_TEST_DSN", filepath.Join(dir, "masjid.db"))
	URL := filepath.Join(dir, "chatflow.yaml")
	content := `environment: development
store:
  driver: sqlite
  dsn: ${env.CHATFLOW_TEST_DSN}
  seed: false
engine:
  maxSteps: 32
`
	require.NoError(t, os.WriteFile(URL, []byte(content), 0o644))
	config, err := LoadConfig(context.Background(), afs.New(), URL)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "masjid.db"), config.Store.DSN)
	assert.Equal(t, 32, config.Engine.MaxSteps)
	assert.True(t, config.Development())
	assert.True(t, config.Delivery.Sandbox)
	assert.True(t, config.Store.Seed)
	assert.Equal(t, ":5000", config.Server.Addr)

	_, err = LoadConfig(context.Background(), afs.New(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()
	workflowURL, err := filepath.Abs(filepath.Join("testdata", "masjid_workflow.yaml"))
	require.NoError(t, err)
	config := DefaultConfig()
	config.Environment = EnvDevelopment
	config.Workflow.URL = workflowURL
	config.Store = StoreConfig{Driver: "sqlite", DSN: filepath.Join(dir, "masjid.db"), Seed: true}
	config.Delivery.Sandbox = true
	config.Audit.Path = dir
	config.History = HistoryConfig{Backend: "fs", URL: filepath.Join(dir, "history")}

	srv, err := NewFromConfig(context.Background(), config)
	require.NoError(t, err)
	defer srv.Close()

	ret := srv.Execute(context.Background(), &execution.Input{SenderID: "+6281234567890", Text: "kapan ada kajian?"})
	require.True(t, ret.Success, ret.Error)
	assert.Contains(t, ret.Response(), "Ustadz Muhammad Ridwan")
	_, ok := srv.Delivery().(*delivery.Sandbox)
	assert.True(t, ok)

	stored, err := srv.Results().Load(context.Background(), ret.ID)
	require.NoError(t, err)
	assert.Equal(t, "kajian_info", stored.Intent())

	data, err := os.ReadFile(filepath.Join(dir, "logs", "masjid_workflow.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"response_status":"success"`)
	assert.Contains(t, string(data), `"intent":"kajian_info"`)
}
