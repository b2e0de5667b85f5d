package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandFor(t *testing.T) {
	b, ok := BandFor(RoleStudent)
	assert.True(t, ok)
	assert.Equal(t, IDBand{Min: 101, Max: 9999}, b)

	_, ok = BandFor(RoleType("janitor"))
	assert.False(t, ok)
}

func TestRoleForID(t *testing.T) {
	tests := []struct {
		id   int64
		role RoleType
		ok   bool
	}{
		{1, RoleAdmin, true},
		{20, RoleAdmin, true},
		{21, RoleTeacher, true},
		{100, RoleTeacher, true},
		{101, RoleStudent, true},
		{9999, RoleStudent, true},
		{0, "", false},
		{10000, "", false},
	}
	for _, tt := range tests {
		role, ok := RoleForID(tt.id)
		assert.Equal(t, tt.ok, ok, "id %d", tt.id)
		assert.Equal(t, tt.role, role, "id %d", tt.id)
	}
}
