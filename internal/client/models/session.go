// Package models contains the client-side data shapes: the authenticated
// session, the business objects rendered by screens, and the realtime
// event vocabulary.
package models

// Role identifies the kind of actor behind a session. The set is closed;
// the server never sends anything outside it.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleAgent     Role = "agent"
	RoleAdmin     Role = "admin"
	RoleInspector Role = "inspector"
)

// Session is the in-memory representation of the currently authenticated
// actor. At most one Session is active per running client.
type Session struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone,omitempty"`
	Role            Role   `json:"role"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	TermsAccepted   bool   `json:"terms_accepted"`
	PrivacyAccepted bool   `json:"privacy_accepted"`
}

// NeedsConsent reports whether the user still has to accept the terms or
// the privacy policy before using the app.
func (s *Session) NeedsConsent() bool {
	return !s.TermsAccepted || !s.PrivacyAccepted
}

// DisplayName returns the name shown in the UI, falling back to the email
// when the profile has no name.
func (s *Session) DisplayName() string {
	switch {
	case s.FirstName != "" && s.LastName != "":
		return s.FirstName + " " + s.LastName
	case s.FirstName != "":
		return s.FirstName
	default:
		return s.Email
	}
}
