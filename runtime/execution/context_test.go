package execution

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	now := time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC)
	ctx := NewContext("id-1", now, &Input{SenderID: "+62812", Text: "halo", Kind: "text", DisplayName: "Test User"})
	assert.Equal(t, "+62812", ctx.SenderID)
	assert.Equal(t, "halo", ctx.Text)
	assert.Equal(t, now, ctx.StartedAt)
	assert.Nil(t, ctx.Confidence)
	assert.False(t, ctx.Failed())

	empty := NewContext("id-2", now, nil)
	assert.Equal(t, "", empty.SenderID)
	assert.Equal(t, "id-2", empty.ExecutionID)
}

func TestContext_Field(t *testing.T) {
	ctx := NewContext("id", time.Now(), &Input{SenderID: "1", Text: "2", Timestamp: "3", Kind: "4", MessageID: "5", DisplayName: "6"})
	testCases := []struct {
		field  string
		expect string
		known  bool
	}{
		{field: "phone_number", expect: "1", known: true},
		{field: "message_text", expect: "2", known: true},
		{field: "timestamp", expect: "3", known: true},
		{field: "message_type", expect: "4", known: true},
		{field: "message_id", expect: "5", known: true},
		{field: "contact_name", expect: "6", known: true},
		{field: "email"},
	}
	for _, tc := range testCases {
		t.Run(tc.field, func(t *testing.T) {
			actual, ok := ctx.Field(tc.field)
			assert.Equal(t, tc.known, ok)
			assert.Equal(t, tc.expect, actual)
		})
	}
}

func TestContext_Clone(t *testing.T) {
	ctx := NewContext("id", time.Now(), nil)
	ctx.SetIntent("donasi", 0.5)
	clone := ctx.Clone()
	*ctx.Confidence = 1
	assert.Equal(t, 0.5, *clone.Confidence)
	assert.Nil(t, (*Context)(nil).Clone())
}

func TestErrors(t *testing.T) {
	var validation *ValidationError
	err := fmt.Errorf("wrapped: %w", NewValidationError("input_processor", "Phone number required"))
	assert.True(t, errors.As(err, &validation))
	assert.Equal(t, "input_processor", validation.Node)

	cause := errors.New("disk full")
	handlerErr := NewHandlerError("kajian_schedule", cause)
	assert.ErrorIs(t, handlerErr, cause)
	assert.Equal(t, "disk full", handlerErr.Error())

	assert.Equal(t, "node x not found", (&NotFoundError{Node: "x"}).Error())

	assert.True(t, Fail(cause).Failed())
	assert.False(t, Continue("a", "b").Failed())
	assert.Equal(t, "a", Continue("a", "b").NextID())
	assert.Equal(t, "", Continue().NextID())
}
