package realtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/homequote/homequote/internal/client/models"
)

// WebsocketDialer is the production Dialer. The bearer token travels in
// the handshake's Authorization header.
type WebsocketDialer struct{}

type wsConn struct {
	conn *websocket.Conn
}

func (d WebsocketDialer) Dial(ctx context.Context, url, token string) (Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket handshake failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return &wsConn{conn: conn}, nil
}

func (w *wsConn) ReadEnvelope() (*models.Envelope, error) {
	var env models.Envelope
	if err := w.conn.ReadJSON(&env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}
