package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("Passw0rd")
	require.NoError(t, err)
	require.NotEmpty(t, h)
	require.NotEqual(t, "Passw0rd", h)

	assert.True(t, CheckPassword(h, "Passw0rd"))
}

func TestHashPassword_SaltPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("Passw0rd")
	require.NoError(t, err)
	h2, err := HashPassword("Passw0rd")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckPassword(h1, "Passw0rd"))
	assert.True(t, CheckPassword(h2, "Passw0rd"))
}

func TestCheckPassword_Mismatches(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("Passw0rd")
	require.NoError(t, err)

	tests := []struct {
		name  string
		guess string
	}{
		{name: "wrong password", guess: "Hunter21"},
		{name: "empty string", guess: ""},
		{name: "case flip", guess: "passw0rd"},
		{name: "prefix", guess: "Passw0r"},
		{name: "suffix", guess: "Passw0rdX"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, CheckPassword(h, tt.guess))
		})
	}
}
