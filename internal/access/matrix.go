// Package access evaluates what the current operator may do.
// The role/action matrix is static for the process lifetime.
package access

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
)

// Action identifies a permission-checked capability, written namespace.verb (e.g. productos.delete).
type Action string

// Namespace returns the part before the dot.
func (a Action) Namespace() string {
	ns, _, _ := strings.Cut(string(a), ".")
	return ns
}

// Verb returns the part after the dot.
func (a Action) Verb() string {
	_, verb, _ := strings.Cut(string(a), ".")
	return verb
}

func (a Action) valid() bool {
	ns, verb, ok := strings.Cut(string(a), ".")
	return ok && ns != "" && verb != "" && !strings.ContainsAny(verb, ". ")
}

// Well-known actions referenced from Go code. Templates use the string form.
const (
	ProductsView   Action = "productos.view"
	ProductsCreate Action = "productos.create"
	ProductsEdit   Action = "productos.edit"
	ProductsDelete Action = "productos.delete"

	CategoriesView   Action = "categorias.view"
	CategoriesCreate Action = "categorias.create"
	CategoriesEdit   Action = "categorias.edit"
	CategoriesDelete Action = "categorias.delete"

	UsersView   Action = "usuarios.view"
	UsersCreate Action = "usuarios.create"
	UsersEdit   Action = "usuarios.edit"
	UsersDelete Action = "usuarios.delete"

	SalesView   Action = "ventas.view"
	SalesCreate Action = "ventas.create"
	SalesEdit   Action = "ventas.edit"
	SalesDelete Action = "ventas.delete"
	SalesCancel Action = "ventas.cancel"

	ReportsView   Action = "reportes.view"
	ReportsExport Action = "reportes.export"

	ConfigView Action = "config.view"
	ConfigEdit Action = "config.edit"
)

// Namespaces used by the feature-group predicates.
const (
	NamespaceProducts   = "productos"
	NamespaceCategories = "categorias"
	NamespaceUsers      = "usuarios"
	NamespaceSales      = "ventas"
)

var (
	// ErrUnknownRole is returned when the matrix grants an action to a role the API never issues.
	ErrUnknownRole = errors.New("unknown role")
	// ErrInvalidAction is returned for action names not shaped namespace.verb.
	ErrInvalidAction = errors.New("invalid action")
)

//go:embed permissions.yaml
var defaultMatrixYAML []byte

// Matrix is an immutable role grant table.
type Matrix struct {
	grants  map[Action][]domainauth.Role
	actions []Action
}

// NewMatrix builds a Matrix from action → roles.
func NewMatrix(grants map[Action][]domainauth.Role) (*Matrix, error) {
	m := &Matrix{grants: make(map[Action][]domainauth.Role, len(grants))}
	for action, roles := range grants {
		if !action.valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
		}
		cleaned := make([]domainauth.Role, 0, len(roles))
		for _, role := range roles {
			if !role.Valid() {
				return nil, fmt.Errorf("%w %q for %s", ErrUnknownRole, role, action)
			}
			if !slices.Contains(cleaned, role) {
				cleaned = append(cleaned, role)
			}
		}
		m.grants[action] = cleaned
		m.actions = append(m.actions, action)
	}
	slices.Sort(m.actions)
	return m, nil
}

// LoadMatrix parses a namespace → verb → roles YAML document.
func LoadMatrix(r io.Reader) (*Matrix, error) {
	var doc map[string]map[string][]domainauth.Role
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode permission matrix: %w", err)
	}

	grants := make(map[Action][]domainauth.Role)
	for ns, verbs := range doc {
		for verb, roles := range verbs {
			grants[Action(ns+"."+verb)] = roles
		}
	}
	return NewMatrix(grants)
}

// LoadMatrixFile reads a matrix from path.
func LoadMatrixFile(path string) (*Matrix, error) {
	f, err := os.Open(path) // #nosec G304 - operator-supplied configuration path
	if err != nil {
		return nil, fmt.Errorf("open permission matrix: %w", err)
	}
	defer f.Close()
	return LoadMatrix(f)
}

var defaultMatrix = sync.OnceValues(func() (*Matrix, error) {
	return LoadMatrix(bytes.NewReader(defaultMatrixYAML))
})

// DefaultMatrix returns the embedded matrix.
func DefaultMatrix() (*Matrix, error) {
	return defaultMatrix()
}

// Allows reports whether role is granted action. Unknown actions are denied.
func (m *Matrix) Allows(role domainauth.Role, action Action) bool {
	if m == nil {
		return false
	}
	return slices.Contains(m.grants[action], role)
}

// Known reports whether action appears in the matrix.
func (m *Matrix) Known(action Action) bool {
	if m == nil {
		return false
	}
	_, ok := m.grants[action]
	return ok
}

// Actions lists every action in the matrix, sorted.
func (m *Matrix) Actions() []Action {
	if m == nil {
		return nil
	}
	return slices.Clone(m.actions)
}

// Roles lists the roles granted action.
func (m *Matrix) Roles(action Action) []domainauth.Role {
	if m == nil {
		return nil
	}
	return slices.Clone(m.grants[action])
}

// ActionsFor returns the actions of namespace whose verb is one of verbs, in verb order.
// Verbs missing from the matrix are skipped.
func (m *Matrix) ActionsFor(namespace string, verbs ...string) []Action {
	out := make([]Action, 0, len(verbs))
	for _, verb := range verbs {
		a := Action(namespace + "." + verb)
		if m.Known(a) {
			out = append(out, a)
		}
	}
	return out
}
