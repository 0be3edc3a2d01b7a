// Package api defines the REST surface the client consumes and its HTTP
// implementation. Components depend on the Client interface; tests provide
// fakes.
package api

import (
	"context"

	"github.com/homequote/homequote/internal/client/models"
)

// Client is the remote API as seen by the rest of the client.
//
// Authenticated calls require a token set via SetToken. A 401 on any
// authenticated call means the credential is no longer valid; the
// implementation reports it as ErrSessionExpired and fires the unauthorized
// hook so local state can be torn down.
type Client interface {
	// Login exchanges credentials for a bearer token and the user record.
	Login(ctx context.Context, email, password string) (*models.Session, string, error)
	// Register creates a new account and logs it in, returning the token
	// and the user record like Login.
	Register(ctx context.Context, req RegisterRequest) (*models.Session, string, error)
	// Me validates the current token and returns the user behind it.
	Me(ctx context.Context) (*models.Session, error)
	// Logout invalidates the token server-side. Best effort; local logout
	// does not depend on it succeeding.
	Logout(ctx context.Context) error

	AcceptConsent(ctx context.Context) (*models.Session, error)
	UpdateProfile(ctx context.Context, req ProfileUpdate) (*models.Session, error)

	ListQuotes(ctx context.Context) ([]models.Quote, error)
	ListInspections(ctx context.Context) ([]models.Inspection, error)
	ListConversations(ctx context.Context) ([]models.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]models.Message, error)
	SendMessage(ctx context.Context, conversationID, text string) (*models.Message, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
	AcceptTimeSlot(ctx context.Context, slotID string) error

	// RegisterDevice registers a device identity for push notifications.
	RegisterDevice(ctx context.Context, deviceID string) error

	// SetToken attaches a bearer token to subsequent requests;
	// ClearToken removes it.
	SetToken(token string)
	ClearToken()
}

// RegisterRequest carries the fields of the registration form. The validate
// tags are checked client-side before the request is sent so obviously
// malformed input never reaches the network.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty,e164"`
}

// ProfileUpdate carries optional profile mutations; nil fields are left
// unchanged server-side.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}
