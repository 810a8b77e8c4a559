package access

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
)

func TestAction_Parts(t *testing.T) {
	assert.Equal(t, "productos", ProductsDelete.Namespace())
	assert.Equal(t, "delete", ProductsDelete.Verb())
	assert.True(t, SalesCancel.valid())

	for _, bad := range []Action{"", "productos", ".view", "productos.", "a.b.c", "a.b c"} {
		assert.False(t, bad.valid(), "%q", bad)
	}
}

func TestDefaultMatrix(t *testing.T) {
	m, err := DefaultMatrix()
	require.NoError(t, err)

	again, err := DefaultMatrix()
	require.NoError(t, err)
	assert.Same(t, m, again)

	assert.True(t, m.Allows(domainauth.RoleAdmin, ProductsDelete))
	assert.False(t, m.Allows(domainauth.RoleEmployee, ProductsDelete))
	assert.True(t, m.Allows(domainauth.RoleEmployee, SalesCreate))
	assert.True(t, m.Allows(domainauth.RoleAdmin, SalesCreate))
	assert.False(t, m.Allows(domainauth.RoleEmployee, UsersView))
	assert.False(t, m.Allows(domainauth.RoleAdmin, "inventario.view"), "unknown actions are denied")

	assert.ElementsMatch(t, []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleEmployee}, m.Roles(ProductsView))
	assert.Contains(t, m.Actions(), ReportsExport)
	assert.True(t, m.Known(ConfigEdit))
}

func TestLoadMatrix(t *testing.T) {
	m, err := LoadMatrix(strings.NewReader(`
productos:
  delete: [admin, admin]
ventas:
  create: [admin, employee]
`))
	require.NoError(t, err)

	assert.Equal(t, []Action{"productos.delete", "ventas.create"}, m.Actions())
	assert.Equal(t, []domainauth.Role{domainauth.RoleAdmin}, m.Roles(ProductsDelete))
}

func TestLoadMatrix_RejectsUnknownRole(t *testing.T) {
	_, err := LoadMatrix(strings.NewReader("productos:\n  delete: [superuser]\n"))
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestLoadMatrix_RejectsMalformedDocument(t *testing.T) {
	_, err := LoadMatrix(strings.NewReader("productos: [admin]\n"))
	require.Error(t, err)
}

func TestNewMatrix_RejectsInvalidAction(t *testing.T) {
	_, err := NewMatrix(map[Action][]domainauth.Role{"productos": {domainauth.RoleAdmin}})
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestLoadMatrixFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reportes:\n  view: [admin, employee]\n"), 0o600))

	m, err := LoadMatrixFile(path)
	require.NoError(t, err)
	assert.True(t, m.Allows(domainauth.RoleEmployee, ReportsView))

	_, err = LoadMatrixFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestActionsFor(t *testing.T) {
	m, err := DefaultMatrix()
	require.NoError(t, err)

	assert.Equal(t,
		[]Action{UsersCreate, UsersEdit, UsersDelete},
		m.ActionsFor(NamespaceUsers, "create", "edit", "delete"))
	assert.Equal(t, []Action{SalesCancel}, m.ActionsFor(NamespaceSales, "archive", "cancel"))

	var nilMatrix *Matrix
	assert.Empty(t, nilMatrix.ActionsFor(NamespaceSales, "view"))
}
