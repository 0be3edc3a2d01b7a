// Package push registers this device with the API so the server can send
// push notifications. Registration is best effort by contract: it runs
// after login and its failures are logged and otherwise ignored, never
// blocking or failing the login flow.
package push

import (
	"context"

	"github.com/google/uuid"

	"github.com/homequote/homequote/internal/client/api"
	"github.com/homequote/homequote/internal/client/repositories/credentials"
	"github.com/homequote/homequote/internal/logging"
)

type Registrar struct {
	client api.Client
	creds  credentials.Repository
	log    logging.Logger
}

func NewRegistrar(client api.Client, creds credentials.Repository, log logging.Logger) *Registrar {
	return &Registrar{client: client, creds: creds, log: log.With("component", "push")}
}

// Register sends the device identity to the API. The identity is a UUID
// generated once and kept in the credential store; a wiped store (logout)
// simply produces a fresh one next time.
func (r *Registrar) Register(ctx context.Context) {
	deviceID, err := r.deviceID(ctx)
	if err != nil {
		r.log.Warn(ctx, "failed to resolve device id", "error", err)
		return
	}

	if err := r.client.RegisterDevice(ctx, deviceID); err != nil {
		r.log.Warn(ctx, "push registration failed", "error", err)
		return
	}
	r.log.Debug(ctx, "push registration succeeded", "device", deviceID)
}

func (r *Registrar) deviceID(ctx context.Context) (string, error) {
	stored, err := r.creds.Get(ctx, credentials.KeyDeviceID)
	if err != nil {
		return "", err
	}
	if len(stored) > 0 {
		return string(stored), nil
	}

	id := uuid.NewString()
	if err := r.creds.Set(ctx, credentials.KeyDeviceID, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}
