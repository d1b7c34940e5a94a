package model

import (
	"math"
	"strings"
)

// Role is a bitmask of privilege flags granted to an identity.
type Role int

const (
	// RoleSystem marks internal callers (other services, event handlers).
	RoleSystem Role = 1 << iota
	// RoleUser marks an ordinary end user acting on their own resources.
	RoleUser
	// RoleAdmin marks an administrator acting on any resource.
	RoleAdmin
)

const (
	// RoleNone is the empty mask. Checks against it always pass.
	RoleNone Role = 0
	// RolePrivileged is the set of roles that may act on foreign resources.
	RolePrivileged = RoleSystem | RoleAdmin
	// RoleAny is the set of roles admitted by the access gate.
	RoleAny = RoleSystem | RoleUser | RoleAdmin

	// RoleMaxValue is the largest value a role mask may carry.
	RoleMaxValue Role = math.MaxUint8
	// AuthTimeMaxValue is the largest authentication timestamp accepted.
	AuthTimeMaxValue int64 = math.MaxUint32
)

// ContainsAny reports whether r shares at least one flag with mask.
// An empty mask matches everything.
func (r Role) ContainsAny(mask Role) bool {
	if mask == RoleNone {
		return true
	}
	return r&mask != 0
}

// With returns r extended by the given flags.
func (r Role) With(flags Role) Role {
	return r | flags
}

func (r Role) String() string {
	if r == RoleNone {
		return "NONE"
	}

	var names []string
	for _, f := range []struct {
		flag Role
		name string
	}{
		{RoleSystem, "SYSTEM"},
		{RoleUser, "USER"},
		{RoleAdmin, "ADMIN"},
	} {
		if r&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	if rest := r &^ RoleAny; rest != 0 {
		names = append(names, "UNKNOWN")
	}

	return strings.Join(names, "|")
}

// Authority is the identity a caller claims for one request. It is produced
// by an upstream authentication layer and never persisted by the services.
// A nil *Authority is the anonymous caller.
type Authority struct {
	// ID is the subject id; empty means a system-level caller without identity.
	ID string
	// Roles is the granted role mask.
	Roles Role
	// AuthTime is the authentication time in seconds since the Unix epoch.
	AuthTime int64
}

// SystemAuthority returns the synthetic authority used for internal calls
// such as event-triggered deletions.
func SystemAuthority() *Authority {
	return &Authority{Roles: RoleSystem}
}

// HasID reports whether the authority carries a subject id.
func (a *Authority) HasID() bool {
	return a != nil && a.ID != ""
}

// VerifyAuthorityContainsAtLeastOneRole reports whether authority holds at
// least one of the roles in mask. A zero mask passes for any authority,
// including a nil one.
func VerifyAuthorityContainsAtLeastOneRole(authority *Authority, mask Role) bool {
	if mask == RoleNone {
		return true
	}
	if authority == nil {
		return false
	}
	return authority.Roles.ContainsAny(mask)
}
