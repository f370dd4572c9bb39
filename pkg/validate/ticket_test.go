package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := NewTicketCode()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(code, TicketPrefix))
		assert.Len(t, code, len(TicketPrefix)+12)
		assert.True(t, IsTicketCode(code), code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 45)
}

func TestIsTicketCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected bool
	}{
		{name: "valid", code: "TKT-123456789031", expected: true},
		{name: "lower case prefix", code: "tkt-123456789031", expected: true},
		{name: "bad check digit", code: "TKT-123456789037", expected: false},
		{name: "no prefix", code: "123456789031", expected: false},
		{name: "too short", code: "TKT-79927398713", expected: false},
		{name: "letters", code: "TKT-12345678903A", expected: false},
		{name: "empty", code: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTicketCode(tt.code))
		})
	}
}
