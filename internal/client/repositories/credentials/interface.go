// Package credentials stores the session credential and related small
// values (cached user record, stay-logged-in flag, device id) in the local
// database. Only the auth gateway and the push registrar touch it.
package credentials

import "context"

// Well-known keys.
const (
	KeyToken        = "token"
	KeyUser         = "user"
	KeyStayLoggedIn = "stay_logged_in"
	KeyDeviceID     = "device_id"
)

type Repository interface {
	// Get returns the stored value or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Clear removes every stored value.
	Clear(ctx context.Context) error
}
