package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
)

func TestEnvBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", "y"} {
		t.Setenv("TESTUTIL_FLAG", v)
		assert.True(t, envBool("TESTUTIL_FLAG"), v)
	}
	t.Setenv("TESTUTIL_FLAG", "off")
	assert.False(t, envBool("TESTUTIL_FLAG"))
}

func TestSetupTestRedis_UsesMiniRedisByDefault(t *testing.T) {
	t.Setenv("TEST_REDIS_ADDR", "")
	client := SetupTestRedis(t)

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
	got, err := client.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestBuilders(t *testing.T) {
	p := NewProduct(3).WithName("Café").WithStock(2, 5).Build()
	assert.Equal(t, "Café", p.Name)
	assert.True(t, p.LowStock())

	s := NewSale(9).WithTotal(42).WithStatus(pos.SaleCancelled).Build()
	assert.Equal(t, 42.0, s.Total)
	assert.False(t, s.Cancellable())

	id := Identity(4, domainauth.RoleEmployee)
	assert.Equal(t, "employee@example.com", id.Email)
	assert.Equal(t, TestTime(), FixedTimeFunc(TestTime())())
}
