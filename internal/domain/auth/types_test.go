package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleEmployee.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("Admin").Valid())
	assert.False(t, Role("guest").Valid())
}

func TestIdentity_Empty(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want bool
	}{
		{"zero value", Identity{}, true},
		{"blank email only", Identity{Email: "  "}, true},
		{"role without principal", Identity{Role: RoleAdmin, FullName: "Ana"}, true},
		{"id only", Identity{ID: 4}, false},
		{"email only", Identity{Email: "ana@example.com"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.Empty())
		})
	}
}

func TestIdentity_Same(t *testing.T) {
	created := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	base := Identity{ID: 1, FullName: "Ana", Email: "ana@example.com", Role: RoleEmployee, CreatedAt: created}

	assert.True(t, base.Same(base))

	sameInstant := base
	sameInstant.CreatedAt = created.In(time.FixedZone("CST", -6*60*60))
	assert.True(t, base.Same(sameInstant), "same instant in another zone")

	promoted := base
	promoted.Role = RoleAdmin
	assert.False(t, base.Same(promoted))

	renamed := base
	renamed.FullName = "Ana María"
	assert.False(t, base.Same(renamed))
}

func TestCredential_Present(t *testing.T) {
	assert.False(t, Credential{}.Present())
	assert.False(t, Credential{Type: "bearer"}.Present())
	assert.True(t, Credential{Type: "bearer", Token: "oat_1"}.Present())
}
