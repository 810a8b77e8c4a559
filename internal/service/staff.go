package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/lubsanchez/pos-console/internal/access"
	domainauth "github.com/lubsanchez/pos-console/internal/domain/auth"
	"github.com/lubsanchez/pos-console/internal/domain/pos"
	apperrors "github.com/lubsanchez/pos-console/internal/errors"
	"github.com/lubsanchez/pos-console/internal/ports"
)

// StaffServiceOptions groups dependencies for StaffService.
type StaffServiceOptions struct {
	API ports.StaffAPI
	// Identity reports the signed-in operator; used to refuse self-deletion.
	Identity access.IdentitySource
}

// StaffService manages operator accounts.
type StaffService struct {
	api      ports.StaffAPI
	identity access.IdentitySource
}

// NewStaffService constructs a new StaffService.
func NewStaffService(opts StaffServiceOptions) *StaffService {
	return &StaffService{api: opts.API, identity: opts.Identity}
}

// List returns every operator account.
func (s *StaffService) List(ctx context.Context) ([]domainauth.Identity, error) {
	out, err := s.api.ListStaff(ctx)
	return out, apperrors.MapAPIError(err)
}

// Save creates the account when id is 0 and updates it otherwise.
// A password is required on create; an empty one on update keeps the current password.
func (s *StaffService) Save(ctx context.Context, id int64, in pos.StaffInput) (domainauth.Identity, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	if in.FullName == "" || in.Email == "" {
		return domainauth.Identity{}, errMissingFields()
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return domainauth.Identity{}, apperrors.ValidationField("email", "Enter a valid email address")
	}
	if in.Role == "" {
		in.Role = domainauth.RoleEmployee
	}
	if !in.Role.Valid() {
		return domainauth.Identity{}, apperrors.ValidationField("role", "Unknown role")
	}

	var (
		out domainauth.Identity
		err error
	)
	if id == 0 {
		if in.Password == "" {
			return domainauth.Identity{}, apperrors.ValidationField("password", "A password is required for new users")
		}
		out, err = s.api.CreateStaff(ctx, in)
	} else {
		out, err = s.api.UpdateStaff(ctx, id, in)
	}
	return out, apperrors.MapAPIError(err)
}

// Delete removes an account. Operators cannot delete themselves.
func (s *StaffService) Delete(ctx context.Context, id int64) error {
	if s.identity != nil {
		if me, ok := s.identity.CurrentIdentity(); ok && me.ID == id {
			return apperrors.Validation("You cannot delete your own account")
		}
	}
	return apperrors.MapAPIError(s.api.DeleteStaff(ctx, id))
}
