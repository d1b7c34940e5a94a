package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/model"
	"github.com/dtroode/identity-server/internal/validate"
)

// Policy holds the per-resource parameters of the authorization rules. It is
// fixed at construction.
type Policy struct {
	// Resource names the resource in messages and logs.
	Resource string
	// NameMinLength and NameMaxLength bound the resource name.
	NameMinLength int
	NameMaxLength int
	// ModificationWindow is the maximum session age allowed to modify the
	// resource without SYSTEM role. Zero disables the check.
	ModificationWindow time.Duration
	// WindowOnDelete applies ModificationWindow to deletions as well.
	WindowOnDelete bool
}

// AccountPolicy returns the rules of the account service.
func AccountPolicy(window time.Duration) Policy {
	return Policy{
		Resource:           "account",
		NameMinLength:      validate.AccountNameMinLength,
		NameMaxLength:      validate.AccountNameMaxLength,
		ModificationWindow: window,
		WindowOnDelete:     true,
	}
}

// UserAccountPolicy returns the rules of the user-account service. Unlike
// accounts, deleting a user account is not bound to the modification window.
func UserAccountPolicy(window time.Duration) Policy {
	return Policy{
		Resource:           "user account",
		NameMinLength:      validate.AccountNameMinLength,
		NameMaxLength:      validate.AccountNameMaxLength,
		ModificationWindow: window,
		WindowOnDelete:     false,
	}
}

// ProfilePolicy returns the rules of the profile service.
func ProfilePolicy() Policy {
	return Policy{
		Resource:      "profile",
		NameMinLength: validate.ProfileNameMinLength,
		NameMaxLength: validate.ProfileNameMaxLength,
	}
}

// checkAuthority rejects malformed authorities.
func checkAuthority(authority *model.Authority) error {
	if !validate.Authority(authority) {
		return model.NewIllegalArgument("authority is malformed")
	}
	return nil
}

// filter turns a caller-supplied id/name pair into a store filter. At least
// one of them is required.
func (p Policy) filter(id, name *string) (model.Filter, error) {
	if id == nil && name == nil {
		return model.Filter{}, model.NewIllegalArgument("%s id or name is required", p.Resource)
	}
	if !validate.UUID(id) {
		return model.Filter{}, model.NewIllegalArgument("%s id is malformed", p.Resource)
	}
	if !validate.Name(name, p.NameMinLength, p.NameMaxLength) {
		return model.Filter{}, model.NewIllegalArgument("%s name is malformed", p.Resource)
	}

	f := model.Filter{Name: name}
	if id != nil {
		parsed := uuid.MustParse(*id)
		f.ID = &parsed
	}

	return f, nil
}

// validName checks an optional name against the resource bounds.
func (p Policy) validName(name *string) error {
	if !validate.Name(name, p.NameMinLength, p.NameMaxLength) {
		return model.NewIllegalArgument("%s name is malformed", p.Resource)
	}
	return nil
}

// gate admits callers holding at least one known role. It reports whether the
// caller is restricted to its own resources, which requires a subject id.
func gate(authority *model.Authority) (onlyUser bool, err error) {
	if !model.VerifyAuthorityContainsAtLeastOneRole(authority, model.RoleAny) {
		return false, model.NewAccessDenied("authority holds none of the accepted roles")
	}

	onlyUser = !model.VerifyAuthorityContainsAtLeastOneRole(authority, model.RolePrivileged)
	if onlyUser && !authority.HasID() {
		return false, model.NewAccessDenied("user authority has no id")
	}

	return onlyUser, nil
}

// checkWindow rejects non-SYSTEM callers whose authentication is older than
// the modification window.
func (p Policy) checkWindow(authority *model.Authority, now time.Time) error {
	if p.ModificationWindow <= 0 || model.VerifyAuthorityContainsAtLeastOneRole(authority, model.RoleSystem) {
		return nil
	}

	authTime := time.Unix(authority.AuthTime, 0)
	if authTime.Add(p.ModificationWindow).Before(now) {
		return model.NewAccessDenied("session is too old to modify %s", p.Resource)
	}

	return nil
}

// missing is the error for an empty lookup. Callers restricted to their own
// resources get AccessDenied so they cannot probe for foreign records.
func (p Policy) missing(onlyUser bool) error {
	if onlyUser {
		return model.NewAccessDenied("%s is not accessible", p.Resource)
	}
	return model.NewNotFound("%s not found", p.Resource)
}

// checkOwnership rejects restricted callers acting on a resource they do not own.
func (p Policy) checkOwnership(authority *model.Authority, onlyUser bool, ownerID uuid.UUID) error {
	if !onlyUser {
		return nil
	}

	subject, err := uuid.Parse(authority.ID)
	if err != nil || subject != ownerID {
		return model.NewAccessDenied("%s is not accessible", p.Resource)
	}

	return nil
}

// revealsSecrets reports whether the caller may see credential material.
func revealsSecrets(authority *model.Authority) bool {
	return model.VerifyAuthorityContainsAtLeastOneRole(authority, model.RoleSystem)
}
