package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"pixelforge/internal/gateway/session"
)

// PreviewWSHandler streams trapped sandbox errors to the workspace over a
// websocket. The page hosting the sandbox relays the trap's postMessage as a
// "previewError" message; listeners receive "previewError" messages back,
// stamped with the session they belong to.
type PreviewWSHandler struct {
	svc    *session.Service
	logger *log.Logger
}

func NewPreviewWSHandler(svc *session.Service, logger *log.Logger) *PreviewWSHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &PreviewWSHandler{svc: svc, logger: logger}
}

const (
	previewWSWriteWait = 10 * time.Second
	previewWSPongWait  = 60 * time.Second
	previewWSPingEvery = (previewWSPongWait * 9) / 10
)

var previewWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type previewWSInbound struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

type previewWSOutbound struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message,omitempty"`
	At        string `json:"at,omitempty"`
	Code      string `json:"code,omitempty"`
}

func (h *PreviewWSHandler) HandlePreviewWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		http.Error(w, "session is required", http.StatusBadRequest)
		return
	}

	conn, err := previewWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(previewWSPongWait)); err != nil {
		h.logger.Printf("preview ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(previewWSPongWait))
	})

	writeCh := make(chan previewWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(previewWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(previewWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(previewWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	errCh, unsubscribe, subErr := h.svc.SubscribePreviewErrors(sessionID)
	if subErr != nil {
		pushPreviewWS(writeCh, previewWSOutbound{
			Type:    "error",
			Code:    "not_found",
			Message: subErr.Error(),
		})
		cancel()
		<-writerDone
		return
	}
	defer unsubscribe()

	pushPreviewWS(writeCh, previewWSOutbound{
		Type:      "subscribed",
		SessionID: sessionID,
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-errCh:
				if !ok {
					return
				}
				pushPreviewWS(writeCh, previewWSOutbound{
					Type:      "previewError",
					SessionID: sessionID,
					Message:   evt.Message,
					At:        evt.At.Format(time.RFC3339),
				})
			}
		}
	}()

	for {
		var in previewWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushPreviewWS(writeCh, previewWSOutbound{Type: "pong"})
		case "previewerror":
			msg := strings.TrimSpace(in.Message)
			if msg == "" {
				msg = "Unknown script error"
			}
			if err := h.svc.ReportPreviewError(sessionID, msg); err != nil {
				pushPreviewWS(writeCh, previewWSOutbound{
					Type:    "error",
					Code:    "not_found",
					Message: err.Error(),
				})
			}
		default:
			pushPreviewWS(writeCh, previewWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unsupported type: " + in.Type,
			})
		}
	}
}

func pushPreviewWS(writeCh chan previewWSOutbound, out previewWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
