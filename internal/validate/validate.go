// Package validate holds the field-level input rules shared by the services.
//
// Every rule follows the same convention: a nil value is valid. The rules
// only check that a value is well-formed when it is present. Whether a field
// is required is decided by the calling operation, which must check for nil
// before relying on a rule.
package validate

import (
	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/model"
)

const (
	// AccountNameMinLength and AccountNameMaxLength bound account and
	// user-account names.
	AccountNameMinLength = 4
	AccountNameMaxLength = 32

	// ProfileNameMinLength and ProfileNameMaxLength bound profile names.
	ProfileNameMinLength = 2
	ProfileNameMaxLength = 16

	PasswordMinLength = 8
	PasswordMaxLength = 32
)

// PasswordCharset lists every character allowed in a password and in a salt.
const PasswordCharset = "!\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// UUID reports whether s is absent or a canonical UUID string.
func UUID(s *string) bool {
	if s == nil {
		return true
	}
	if len(*s) != 36 {
		return false
	}
	_, err := uuid.Parse(*s)
	return err == nil
}

// Name reports whether s is absent or a name of min..max characters drawn
// from [-.0-9A-Za-z_].
func Name(s *string, min, max int) bool {
	if s == nil {
		return true
	}
	if len(*s) < min || len(*s) > max {
		return false
	}
	for i := 0; i < len(*s); i++ {
		if !isNameChar((*s)[i]) {
			return false
		}
	}
	return true
}

// Password reports whether s is absent or a password of allowed length whose
// characters are all printable, non-space ASCII.
func Password(s *string) bool {
	if s == nil {
		return true
	}
	if len(*s) < PasswordMinLength || len(*s) > PasswordMaxLength {
		return false
	}
	for i := 0; i < len(*s); i++ {
		if !isPasswordChar((*s)[i]) {
			return false
		}
	}
	return true
}

// Roles reports whether r is absent or within the role mask range.
func Roles(r *model.Role) bool {
	if r == nil {
		return true
	}
	return *r >= 0 && *r <= model.RoleMaxValue
}

// AuthTime reports whether t fits an unsigned 32-bit timestamp.
func AuthTime(t int64) bool {
	return t >= 0 && t <= model.AuthTimeMaxValue
}

// Authority reports whether a is absent or carries a well-formed id, roles and
// authentication time.
func Authority(a *model.Authority) bool {
	if a == nil {
		return true
	}
	if a.ID != "" && !UUID(&a.ID) {
		return false
	}
	return Roles(&a.Roles) && AuthTime(a.AuthTime)
}

func isNameChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		return true
	case c == '-', c == '.', c == '_':
		return true
	}
	return false
}

func isPasswordChar(c byte) bool {
	return c >= '!' && c <= '~'
}
