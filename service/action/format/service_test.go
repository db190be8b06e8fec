package format

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/chatflow/model"
	"github.com/viant/chatflow/runtime/execution"
)

func TestService_Handle(t *testing.T) {
	testCases := []struct {
		description string
		config      *model.FormatterConfig
		input       string
		expect      string
	}{
		{description: "empty response", config: &model.FormatterConfig{}, expect: EmptyResponse},
		{description: "signature", config: &model.FormatterConfig{AddSignature: true, SignatureText: "\n-- Masjid"}, input: "Salam", expect: "Salam\n-- Masjid"},
		{description: "signature disabled", config: &model.FormatterConfig{SignatureText: "\n-- Masjid"}, input: "Salam", expect: "Salam"},
		{description: "truncated", config: &model.FormatterConfig{MaxLength: 8}, input: "Assalamualaikum", expect: "Assal..."},
		{description: "signature counted", config: &model.FormatterConfig{MaxLength: 10, AddSignature: true, SignatureText: " -- Masjid"}, input: "Salam", expect: "Salam -..."},
		{description: "exact length kept", config: &model.FormatterConfig{MaxLength: 5}, input: "Salam", expect: "Salam"},
		{description: "runes not bytes", config: &model.FormatterConfig{MaxLength: 5}, input: "🕌🕌🕌🕌🕌🕌", expect: "🕌🕌..."},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			require.NoError(t, tc.config.Init())
			node := model.NewNode("response_formatter", model.NodeTypeFormatter, tc.config, model.SequentialOf("whatsapp_sender"))
			execCtx := execution.NewContext("id", time.Now(), nil)
			execCtx.FormattedResponse = tc.input
			outcome := New().Handle(context.Background(), node, execCtx)
			assert.False(t, outcome.Failed())
			assert.Equal(t, "whatsapp_sender", outcome.NextID())
			assert.Equal(t, tc.expect, execCtx.FormattedResponse)
		})
	}
}

func TestTruncate_Bounded(t *testing.T) {
	for maxLength := len(model.Ellipsis); maxLength < 40; maxLength++ {
		for size := 0; size < 60; size += 7 {
			text := strings.Repeat("ab🕌", size)
			actual := Truncate(text, maxLength)
			assert.LessOrEqual(t, utf8.RuneCountInString(actual), maxLength)
			if utf8.RuneCountInString(text) > maxLength {
				assert.True(t, strings.HasSuffix(actual, model.Ellipsis))
			} else {
				assert.Equal(t, text, actual)
			}
		}
	}
}

func TestTruncate_BelowEllipsis(t *testing.T) {
	for maxLength := 1; maxLength < len(model.Ellipsis); maxLength++ {
		actual := Truncate("Assalamualaikum", maxLength)
		assert.Equal(t, maxLength, utf8.RuneCountInString(actual))
	}
}
