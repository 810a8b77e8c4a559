package access

import (
	"html/template"

	"github.com/lubsanchez/pos-console/internal/access"
	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
)

// Funcs exposes permission checks to templates. Every call asks the
// evaluator, so a page rendered after a role change reflects the new role.
// A nil evaluator denies everything.
func Funcs(eval *access.Evaluator) template.FuncMap {
	return template.FuncMap{
		"can": func(action string) bool {
			return eval != nil && eval.Can(access.Action(action))
		},
		"canAny": func(actions ...string) bool {
			return eval != nil && eval.CanAny(toActions(actions)...)
		},
		"canAll": func(actions ...string) bool {
			return eval != nil && eval.CanAll(toActions(actions)...)
		},
		"hasRole": func(role string) bool {
			return eval != nil && eval.HasRole(domainauth.Role(role))
		},
		"isAdmin": func() bool {
			return eval != nil && eval.IsAdmin()
		},
	}
}

func toActions(in []string) []access.Action {
	out := make([]access.Action, len(in))
	for i, a := range in {
		out[i] = access.Action(a)
	}
	return out
}
