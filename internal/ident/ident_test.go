package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{a: "users", b: "users", want: true},
		{a: "Users", b: "USERS", want: true},
		{a: "Straße", b: "STRASSE", want: true},
		{a: "users", b: "user", want: false},
		{a: "", b: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestEqualPath(t *testing.T) {
	assert.True(t, EqualPath([]string{"Public", "Users"}, []string{"public", "users"}))
	assert.False(t, EqualPath([]string{"public", "users"}, []string{"users"}))
	assert.True(t, EqualPath(nil, []string{}))
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key([]string{"Public", "Users"}), Key([]string{"public", "users"}))
	assert.NotEqual(t, Key([]string{"a.b"}), Key([]string{"a", "b"}))
}
