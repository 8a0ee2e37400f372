package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{"system", RoleSystem, true},
		{"context", RoleContext, true},
		{"user", RoleUser, true},
		{"assistant", RoleAssistant, true},
		{"empty", Role(""), false},
		{"unknown", Role("moderator"), false},
		{"case sensitive", Role("User"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidRole(tt.role))
		})
	}
}
