package domain

// Identity is the authenticated caller as established by the auth layer.
// SessionID identifies one login; it scopes once-per-session work.
type Identity struct {
	UserID    string
	SessionID string
}

// IsAnonymous reports whether no user is attached.
func (i *Identity) IsAnonymous() bool {
	return i == nil || i.UserID == ""
}

// SessionState is what the role resolver exposes to guards and clients.
// IsLoading is never true for an anonymous caller.
type SessionState struct {
	UserID    string  `json:"userID,omitempty"`
	ChurchID  string  `json:"churchID,omitempty"`
	Roles     RoleSet `json:"-"`
	IsLoading bool    `json:"isLoading"`
}

// HasRole proxies to the resolved role set.
func (s SessionState) HasRole(r Role) bool {
	return s.Roles.HasRole(r)
}

// HasAnyRole proxies to the resolved role set.
func (s SessionState) HasAnyRole(roles ...Role) bool {
	return s.Roles.HasAnyRole(roles...)
}
