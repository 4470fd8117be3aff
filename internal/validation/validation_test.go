package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{name: "lower bound", username: "abcde", want: true},
		{name: "upper bound", username: "abcdefghij0123456789", want: true},
		{name: "mixed case and digits", username: "Alice123", want: true},
		{name: "too short", username: "abcd", want: false},
		{name: "too long", username: "abcdefghij0123456789x", want: false},
		{name: "empty", username: "", want: false},
		{name: "underscore", username: "alice_1", want: false},
		{name: "space", username: "alice 1", want: false},
		{name: "dash", username: "alice-one", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ValidUsername(tt.username))
		})
	}
}

func TestValidPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		password  string
		minLength int
		want      bool
	}{
		{name: "valid", password: "Passw0rd", minLength: 8, want: true},
		{name: "exactly min length", password: "Abcdefg1", minLength: 8, want: true},
		{name: "too short", password: "Abc1", minLength: 8, want: false},
		{name: "no uppercase", password: "passw0rd", minLength: 8, want: false},
		{name: "no digit", password: "Password", minLength: 8, want: false},
		{name: "empty", password: "", minLength: 8, want: false},
		{name: "smaller min length", password: "Abc1", minLength: 4, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ValidPassword(tt.password, tt.minLength))
		})
	}
}
