package access

import (
	"slices"

	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
)

// IdentitySource yields the identity permission checks run against.
// *session.Store satisfies it.
type IdentitySource interface {
	CurrentIdentity() (domainauth.Identity, bool)
}

// Evaluator answers permission questions for whoever is signed in at call time.
// It holds no per-identity state.
type Evaluator struct {
	matrix *Matrix
	source IdentitySource
}

// NewEvaluator binds a matrix to an identity source.
func NewEvaluator(matrix *Matrix, source IdentitySource) *Evaluator {
	return &Evaluator{matrix: matrix, source: source}
}

// Matrix returns the underlying grant table.
func (e *Evaluator) Matrix() *Matrix {
	return e.matrix
}

func (e *Evaluator) role() (domainauth.Role, bool) {
	if e == nil || e.source == nil {
		return "", false
	}
	id, ok := e.source.CurrentIdentity()
	if !ok {
		return "", false
	}
	return id.Role, true
}

// Can reports whether the current identity may perform action.
// No identity or an unknown action means no.
func (e *Evaluator) Can(action Action) bool {
	role, ok := e.role()
	if !ok {
		return false
	}
	return e.matrix.Allows(role, action)
}

// CanAny reports whether at least one action is allowed. An empty list is false.
func (e *Evaluator) CanAny(actions ...Action) bool {
	role, ok := e.role()
	if !ok {
		return false
	}
	return slices.ContainsFunc(actions, func(a Action) bool { return e.matrix.Allows(role, a) })
}

// CanAll reports whether every action is allowed. An empty list is true when signed in.
func (e *Evaluator) CanAll(actions ...Action) bool {
	role, ok := e.role()
	if !ok {
		return false
	}
	for _, a := range actions {
		if !e.matrix.Allows(role, a) {
			return false
		}
	}
	return true
}

// HasRole reports whether the current identity has role.
func (e *Evaluator) HasRole(role domainauth.Role) bool {
	current, ok := e.role()
	return ok && current == role
}

// HasAnyRole reports whether the current identity has one of roles.
func (e *Evaluator) HasAnyRole(roles ...domainauth.Role) bool {
	current, ok := e.role()
	return ok && slices.Contains(roles, current)
}

// IsAdmin reports whether the current identity is an administrator.
func (e *Evaluator) IsAdmin() bool { return e.HasRole(domainauth.RoleAdmin) }

// IsEmployee reports whether the current identity is an employee.
func (e *Evaluator) IsEmployee() bool { return e.HasRole(domainauth.RoleEmployee) }

// CanManage reports whether any of create/edit/delete on namespace is allowed.
func (e *Evaluator) CanManage(namespace string) bool {
	return e.CanAny(e.matrix.ActionsFor(namespace, "create", "edit", "delete")...)
}

// CanManageProducts reports whether the operator may change products.
func (e *Evaluator) CanManageProducts() bool { return e.CanManage(NamespaceProducts) }

// CanManageCategories reports whether the operator may change categories.
func (e *Evaluator) CanManageCategories() bool { return e.CanManage(NamespaceCategories) }

// CanManageUsers reports whether the operator may change staff accounts.
func (e *Evaluator) CanManageUsers() bool { return e.CanManage(NamespaceUsers) }

// CanViewReports reports whether the operator may open reports.
func (e *Evaluator) CanViewReports() bool { return e.Can(ReportsView) }

// CanManageSales reports whether the operator may edit, delete or cancel sales.
func (e *Evaluator) CanManageSales() bool {
	return e.CanAny(e.matrix.ActionsFor(NamespaceSales, "edit", "delete", "cancel")...)
}

// Satisfies evaluates a gate requirement.
func (e *Evaluator) Satisfies(req Requirement) bool {
	if req.Mode == ModeAll {
		return e.CanAll(req.Actions...)
	}
	return e.CanAny(req.Actions...)
}
