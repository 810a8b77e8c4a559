package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/lubsanchez/pos-console/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Location renders timestamps in the station's timezone. Defaults to time.Local.
	Location *time.Location
	// Now drives relative times; defaults to time.Now.
	Now func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"deref":        deref,
		"truncateText": uiutil.TruncateWithEllipsis,
		"formatNumber": formatNumber,
		"dateTime": func(ts any) string {
			t, ok := toTime(ts)
			if !ok {
				return ""
			}
			return uiutil.FormatFriendlyDateTime(t, loc)
		},
		"date": func(ts any) string {
			t, ok := toTime(ts)
			if !ok {
				return ""
			}
			return t.In(loc).Format(uiutil.DateLayout)
		},
		"relTime": func(ts any) string {
			t, _ := toTime(ts)
			return uiutil.FriendlyRelativeTime(t, now().In(loc))
		},
		"timeTag": func(ts any) template.HTML {
			t, ok := toTime(ts)
			if !ok {
				return ""
			}
			// #nosec G203 - built from escaped values only
			return template.HTML(fmt.Sprintf("<time datetime=\"%s\" title=\"%s\">%s</time>",
				t.UTC().Format(time.RFC3339),
				template.HTMLEscapeString(uiutil.FormatFriendlyDateTime(t, loc)),
				template.HTMLEscapeString(uiutil.FriendlyRelativeTime(t, now().In(loc))),
			))
		},
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set, values already escaped
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func toTime(ts any) (time.Time, bool) {
	switch v := ts.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	default:
		return time.Time{}, false
	}
}

// deref returns the pointed-to string, or "" for nil.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formatNumber groups the thousands of an integer count.
func formatNumber(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}
	if n < 0 {
		return "-" + uiutil.GroupThousands(strconv.FormatInt(-n, 10))
	}
	return uiutil.GroupThousands(strconv.FormatInt(n, 10))
}
