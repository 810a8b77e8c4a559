package pos

import domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"

// StaffInput is the create/update payload for /usuarios.
// Password may be empty on update to keep the current one.
type StaffInput struct {
	FullName string          `json:"fullName"`
	Email    string          `json:"email"`
	Role     domainauth.Role `json:"role"`
	Password string          `json:"password,omitempty"`
}
