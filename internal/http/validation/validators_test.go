package validation

import "testing"

const errNameRequired = "Name is required."

func TestRequired(t *testing.T) {
	tests := []struct {
		name   string
		maxLen int
		value  string
		errMsg string
	}{
		{name: "valid input", maxLen: 10, value: "valid"},
		{name: "empty string", maxLen: 10, value: "", errMsg: errNameRequired},
		{name: "whitespace only", maxLen: 10, value: "   ", errMsg: errNameRequired},
		{name: "exceeds max length", maxLen: 5, value: "toolong", errMsg: "Name cannot exceed 5 characters."},
		{name: "exactly max length", maxLen: 5, value: "exact"},
		{name: "unicode within limit", maxLen: 5, value: "ñandú"},
		{name: "unicode exceeds limit", maxLen: 4, value: "ñandú", errMsg: "Name cannot exceed 4 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Required("Name", tt.maxLen)(tt.value); got != tt.errMsg {
				t.Errorf("Required() = %q, want %q", got, tt.errMsg)
			}
		})
	}
}

func TestOptional(t *testing.T) {
	if got := Optional("Description", 3)(""); got != "" {
		t.Errorf("empty optional value should pass, got %q", got)
	}
	if got := Optional("Description", 3)("abcd"); got != "Description cannot exceed 3 characters." {
		t.Errorf("unexpected message %q", got)
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		value  string
		errMsg string
	}{
		{value: ""},
		{value: "12.50"},
		{value: " 0 "},
		{value: "abc", errMsg: "Price must be a number."},
		{value: "-1", errMsg: "Price cannot be negative."},
	}
	for _, tt := range tests {
		if got := Amount("Price")(tt.value); got != tt.errMsg {
			t.Errorf("Amount(%q) = %q, want %q", tt.value, got, tt.errMsg)
		}
	}
}

func TestIntRange(t *testing.T) {
	tests := []struct {
		value  string
		errMsg string
	}{
		{value: ""},
		{value: "5"},
		{value: "1.5", errMsg: "Stock must be a whole number."},
		{value: "-1", errMsg: "Stock must be between 0 and 100."},
		{value: "101", errMsg: "Stock must be between 0 and 100."},
	}
	for _, tt := range tests {
		if got := IntRange("Stock", 0, 100)(tt.value); got != tt.errMsg {
			t.Errorf("IntRange(%q) = %q, want %q", tt.value, got, tt.errMsg)
		}
	}
}

func TestOneOf(t *testing.T) {
	v := OneOf("Role", []string{"admin", "employee"})
	if got := v("employee"); got != "" {
		t.Errorf("expected employee to pass, got %q", got)
	}
	if got := v("owner"); got != "Role must be one of: admin, employee" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestFieldValidator(t *testing.T) {
	errs := New().
		Validate("nombre", "", Required("Name", 10)).
		Validate("precio", "-3", Required("Price", 10), Amount("Price")).
		Validate("codigo", "A-1", Required("Code", 10)).
		Errors()

	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs["nombre"] != errNameRequired {
		t.Errorf("nombre: got %q", errs["nombre"])
	}
	if errs["precio"] != "Price cannot be negative." {
		t.Errorf("precio: got %q", errs["precio"])
	}
}

func TestMinLength(t *testing.T) {
	v := MinLength("Password", 6)
	if got := v(""); got != "" {
		t.Errorf("empty value should be left to Required, got %q", got)
	}
	if got := v("abc"); got != "Password must be at least 6 characters." {
		t.Errorf("unexpected message %q", got)
	}
	if got := v("abcdef"); got != "" {
		t.Errorf("expected pass, got %q", got)
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{value: "", ok: true},
		{value: "ana@example.com", ok: true},
		{value: "ana@localhost", ok: false},
		{value: "Ana <ana@example.com>", ok: false},
		{value: "not-an-email", ok: false},
	}
	for _, tt := range tests {
		got := Email("Email")(tt.value)
		if (got == "") != tt.ok {
			t.Errorf("Email(%q) = %q, want ok=%v", tt.value, got, tt.ok)
		}
	}
}
