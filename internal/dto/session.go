package dto

import "github.com/SscSPs/church_finance_app/internal/core/domain"

// SessionResponse is the resolved session of the caller in a church.
type SessionResponse struct {
	UserID    string        `json:"userID,omitempty"`
	ChurchID  string        `json:"churchID"`
	Roles     []domain.Role `json:"roles"`
	IsLoading bool          `json:"isLoading"`
}

// ToSessionResponse converts a domain.SessionState.
func ToSessionResponse(s domain.SessionState) SessionResponse {
	return SessionResponse{
		UserID:    s.UserID,
		ChurchID:  s.ChurchID,
		Roles:     s.Roles.Slice(),
		IsLoading: s.IsLoading,
	}
}

// GuardRedirectResponse is returned when a guarded route denies access.
type GuardRedirectResponse struct {
	Error      string `json:"error"`
	RedirectTo string `json:"redirectTo"`
	Notice     string `json:"notice"`
}

// ReconcileResponse reports the outcome of an explicit overdue sweep.
type ReconcileResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}
