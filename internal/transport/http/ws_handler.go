package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fakasys/fakachat-server/internal/auth"
	"github.com/fakasys/fakachat-server/internal/core"
	"github.com/fakasys/fakachat-server/internal/proto"
	"github.com/fakasys/fakachat-server/internal/store"
	"github.com/fakasys/fakachat-server/internal/utils"
)

// WSHandler upgrades HTTP connections, authenticates them, and bridges them
// to a core.Client. The identity is snapshotted from the user record here,
// once, before registration; later profile changes apply on reconnect.
type WSHandler struct {
	hub   *core.Hub
	auth  *auth.Service
	users store.UserStore
	log   *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, authService *auth.Service, users store.UserStore, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, auth: authService, users: users, log: logger}
}

// Handle is the gin entrypoint for GET /ws.
func (h *WSHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	identity, ok := h.authenticate(c)
	if !ok {
		// No session: the connection is refused before the upgrade.
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(utils.NewID(), identity)
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("user", identity.Username).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// authenticate resolves the token (query param or Authorization header) to
// an immutable identity snapshot.
func (h *WSHandler) authenticate(c *gin.Context) (core.Identity, bool) {
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		if after, found := cutBearer(header); found {
			token = after
		}
	}
	if token == "" {
		return core.Identity{}, false
	}

	claims, err := h.auth.ValidateToken(token)
	if err != nil {
		h.log.Debug().Err(err).Msg("ws token rejected")
		return core.Identity{}, false
	}

	user, err := h.users.GetUserByUsername(c.Request.Context(), claims.Username)
	if err != nil {
		h.log.Warn().Err(err).Str("user", claims.Username).Msg("ws user lookup failed")
		return core.Identity{}, false
	}

	return core.NewIdentity(user.Username, user.Discriminator, user.Roles, user.AvatarURL), true
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		cmd, err := inboundToCommand(inbound)
		if err != nil {
			// Malformed payloads are dropped, not fatal to the connection.
			h.log.Debug().Err(err).Str("type", inbound.Type).Str("client_id", client.ID).
				Msg("dropping malformed inbound payload")
			continue
		}
		if cmd != nil {
			client.Commands <- cmd
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func cutBearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):], true
	}
	return "", false
}
