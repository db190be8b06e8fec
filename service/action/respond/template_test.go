package respond

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	data := map[string]string{"fajr": "04:30", "isha": "20:00"}
	testCases := []struct {
		description string
		template    string
		expect      string
		expectErr   bool
	}{
		{description: "placeholders", template: "🌅 Subuh: {fajr}\n🌙 Isya: {isha}", expect: "🌅 Subuh: 04:30\n🌙 Isya: 20:00"},
		{description: "no placeholders", template: "Assalamualaikum", expect: "Assalamualaikum"},
		{description: "escaped braces", template: "{{fajr}} = {fajr}", expect: "{fajr} = 04:30"},
		{description: "unknown placeholder", template: "{dhuha}", expectErr: true},
		{description: "unterminated", template: "Subuh {fajr", expectErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual, err := Render(tc.template, data)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, actual)
		})
	}
}
