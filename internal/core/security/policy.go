package security

import (
	"github.com/99minutos/content-api/internal/core/domain"
)

// Capability is an access tier a route or operation requires. Tiers are ordered:
// a grant of a higher tier includes every lower one.
type Capability int

const (
	CapabilityPublic Capability = iota
	CapabilityAuthenticated
	CapabilityAdmin
)

func (c Capability) String() string {
	switch c {
	case CapabilityPublic:
		return "PUBLIC"
	case CapabilityAuthenticated:
		return "AUTHENTICATED"
	case CapabilityAdmin:
		return "ADMIN"
	}
	return "UNKNOWN"
}

// Reason explains an authorization decision.
type Reason string

const (
	ReasonPublic                Reason = "PUBLIC"
	ReasonAuthenticated         Reason = "AUTHENTICATED"
	ReasonOwner                 Reason = "OWNER"
	ReasonAdmin                 Reason = "ADMIN"
	ReasonDeniedUnauthenticated Reason = "DENIED_UNAUTHENTICATED"
	ReasonDeniedForbidden       Reason = "DENIED_FORBIDDEN"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allow  bool
	Reason Reason
}

// Err converts a denial into the error the request pipeline renders. action is the
// message shown on a forbidden ownership denial; when empty the generic forbidden
// error is returned.
func (d Decision) Err(action string) error {
	switch {
	case d.Allow:
		return nil
	case d.Reason == ReasonDeniedUnauthenticated:
		return domain.ErrUnauthenticated
	case action != "":
		return &domain.ForbiddenError{Message: action}
	default:
		return domain.ErrForbidden
	}
}

var (
	allowPublic   = Decision{Allow: true, Reason: ReasonPublic}
	allowAuth     = Decision{Allow: true, Reason: ReasonAuthenticated}
	allowOwner    = Decision{Allow: true, Reason: ReasonOwner}
	allowAdmin    = Decision{Allow: true, Reason: ReasonAdmin}
	denyAnonymous = Decision{Allow: false, Reason: ReasonDeniedUnauthenticated}
	denyForbidden = Decision{Allow: false, Reason: ReasonDeniedForbidden}
)

// Policy decides access from a role → capability table. It holds no per-request
// state and is never mutated after construction.
type Policy struct {
	grants map[domain.Role]Capability
}

// DefaultPolicy grants USER the authenticated tier and ADMIN the admin tier.
func DefaultPolicy() Policy {
	return NewPolicy(map[domain.Role]Capability{
		domain.RoleUser:  CapabilityAuthenticated,
		domain.RoleAdmin: CapabilityAdmin,
	})
}

// NewPolicy builds a policy from grants. The map is copied.
func NewPolicy(grants map[domain.Role]Capability) Policy {
	g := make(map[domain.Role]Capability, len(grants))
	for role, c := range grants {
		g[role] = c
	}
	return Policy{grants: g}
}

// grant returns the highest capability role holds. Any authenticated role holds
// at least CapabilityAuthenticated.
func (p Policy) grant(role domain.Role) Capability {
	if c, ok := p.grants[role]; ok && c > CapabilityAuthenticated {
		return c
	}
	return CapabilityAuthenticated
}

// RequireCapability is the static route-class check.
func (p Policy) RequireCapability(principal *Principal, required Capability) Decision {
	if required <= CapabilityPublic {
		return allowPublic
	}
	if principal == nil {
		return denyAnonymous
	}
	if p.grant(principal.Role) < required {
		return denyForbidden
	}
	if required >= CapabilityAdmin {
		return allowAdmin
	}
	return allowAuth
}

// DecideOwnership allows admins unconditionally and otherwise only the principal
// whose email equals ownerEmail. Comparison is exact and case-sensitive.
func (p Policy) DecideOwnership(principal *Principal, ownerEmail string) Decision {
	if principal == nil {
		return denyAnonymous
	}
	if p.grant(principal.Role) >= CapabilityAdmin {
		return allowAdmin
	}
	if principal.Email != "" && principal.Email == ownerEmail {
		return allowOwner
	}
	return denyForbidden
}

// IsAdminOrOwner reports whether principal is an admin or owns the resource.
func (p Policy) IsAdminOrOwner(principal Principal, ownerEmail string) bool {
	return p.DecideOwnership(&principal, ownerEmail).Allow
}
