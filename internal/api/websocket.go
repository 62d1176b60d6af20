package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/dmdmdm-nz/reachd/internal/bridge"
	"github.com/dmdmdm-nz/reachd/internal/connectivity"
)

func accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, context.Context, error) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return nil, nil, err
	}
	return c, r.Context(), nil
}

// serveSession runs one bridge session: a messenger with the connectivity
// plugin attached, fed by the frames read from the socket.
func (s *Service) serveSession(w http.ResponseWriter, r *http.Request) {
	c, ctx, err := accept(w, r)
	if err != nil {
		log.WithError(err).Error("Failed to accept client")
		return
	}
	defer c.Close(websocket.StatusNormalClosure, "closing")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	id := uuid.New().String()
	logger := log.WithField("session", id)
	if !s.addSession(id, cancel) {
		return
	}
	defer s.removeSession(id)

	messenger := bridge.NewMessenger()
	plugin := connectivity.NewPlugin(s.opts.CapabilityAPI)
	plugin.OnAttached(connectivity.PluginBinding{
		Messenger: messenger,
		Platform:  s.opts.Platform,
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range messenger.Outgoing() {
			if err := wsjson.Write(ctx, c, msg); err != nil {
				logger.WithError(err).Debug("Failed to write frame")
				cancel()
				// Keep draining so the messenger never backs up.
				continue
			}
		}
	}()

	logger.Info("Session opened")
	s.readFrames(ctx, c, messenger, logger)

	cancel()
	plugin.OnDetached()
	messenger.Close()
	<-writerDone
	logger.Info("Session closed")
}

func (s *Service) readFrames(ctx context.Context, c *websocket.Conn, m *bridge.Messenger, logger *log.Entry) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && ctx.Err() == nil {
				logger.WithError(err).Debug("Session read ended")
			}
			return
		}
		if typ != websocket.MessageText {
			m.Send(badFrame("binary frames are not supported"))
			continue
		}

		var msg bridge.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.WithError(err).Debug("Dropping malformed frame")
			m.Send(badFrame(err.Error()))
			continue
		}
		m.Dispatch(msg)
	}
}

func badFrame(reason string) bridge.Message {
	return bridge.Message{Error: &bridge.Error{Code: ErrCodeBadFrame, Message: reason}}
}
