// Package authority translates caller authorities to and from transport
// headers. HTTP headers and gRPC metadata use the same keys.
package authority

import (
	"strconv"

	"github.com/dtroode/identity-server/internal/model"
)

const (
	HeaderID       = "authority-id"
	HeaderRoles    = "authority-roles"
	HeaderAuthTime = "authority-auth-time"
)

// Lookup returns the first value of a header and whether it was sent.
type Lookup func(key string) (string, bool)

// Parse builds the authority carried by the headers. When none of the three
// headers is present the caller is anonymous and Parse returns nil. Absent
// numeric headers default to zero; malformed ones are rejected.
func Parse(lookup Lookup) (*model.Authority, error) {
	id, hasID := lookup(HeaderID)
	roles, hasRoles := lookup(HeaderRoles)
	authTime, hasAuthTime := lookup(HeaderAuthTime)

	if !hasID && !hasRoles && !hasAuthTime {
		return nil, nil
	}

	a := &model.Authority{ID: id}
	if hasRoles {
		v, err := strconv.ParseInt(roles, 10, 16)
		if err != nil {
			return nil, model.NewIllegalArgument("%s is not a short integer", HeaderRoles)
		}
		a.Roles = model.Role(v)
	}
	if hasAuthTime {
		v, err := strconv.ParseInt(authTime, 10, 64)
		if err != nil {
			return nil, model.NewIllegalArgument("%s is not a long integer", HeaderAuthTime)
		}
		a.AuthTime = v
	}

	return a, nil
}

// Encode renders a as header key/value pairs. A nil authority has none.
func Encode(a *model.Authority) map[string]string {
	if a == nil {
		return nil
	}
	return map[string]string{
		HeaderID:       a.ID,
		HeaderRoles:    strconv.Itoa(int(a.Roles)),
		HeaderAuthTime: strconv.FormatInt(a.AuthTime, 10),
	}
}

// MapLookup looks keys up in a plain map.
func MapLookup(headers map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := headers[key]
		return v, ok
	}
}
