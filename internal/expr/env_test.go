package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	env := map[string]string{"FOO": "bar", "A": "1", "B": "2", "X": "x"}
	lookup := func(key string) string { return env[key] }

	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "no expressions", input: "just a plain string", expect: "just a plain string"},
		{name: "single expression", input: "value is ${env.FOO}", expect: "value is bar"},
		{name: "multiple expressions", input: "${env.A}-${env.B}-${env.A}", expect: "1-2-1"},
		{name: "unset variable becomes empty", input: "unset=${env.NOTSET}-end", expect: "unset=-end"},
		{name: "malformed missing closing brace", input: "start ${env.X and ${env.Y} end", expect: "start ${env.X and  end"},
		{name: "prefix only no key", input: "oops ${env.} done", expect: "oops  done"},
		{name: "unterminated", input: "tail ${env.FOO", expect: "tail ${env.FOO"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, Expand(tc.input, lookup))
		})
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("CHATFLOW_TOKEN", "secret")
	assert.Equal(t, "Bearer secret", ExpandEnv("Bearer ${env.CHATFLOW_TOKEN}"))
}
