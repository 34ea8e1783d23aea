package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/usecase"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/ws"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/response"
)

const (
	wsReadLimit = 512
	wsPongWait  = 60 * time.Second
)

type NotificationHandler struct {
	notifUC  *usecase.NotificationUsecase
	manager  *ws.Manager
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewNotificationHandler accepts websocket upgrades from allowedOrigins; an
// empty list or "*" accepts any origin.
func NewNotificationHandler(notifUC *usecase.NotificationUsecase, manager *ws.Manager, allowedOrigins []string, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifUC: notifUC,
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := map[string]bool{}
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || len(set) == 0 || set[origin]
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.notifUC.List(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "list notifications", err)
		return
	}
	response.Data(w, list)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifUC.UnreadCount(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "count unread notifications", err)
		return
	}
	response.Data(w, map[string]int{"count": n})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifUC.MarkRead(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "mark notification read", err)
		return
	}
	response.OK(w, "Notification marquée comme lue")
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifUC.MarkAllRead(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, "mark all notifications read", err)
		return
	}
	response.DataWithMessage(w, http.StatusOK, "Toutes les notifications ont été marquées comme lues", map[string]int{"updated": n})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notifUC.Delete(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, "delete notification", err)
		return
	}
	response.OK(w, "Notification supprimée")
}

// Stream upgrades to a websocket and registers the connection for live
// pushes. It blocks until the client goes away.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	c := h.manager.Add(userID, conn)
	defer h.manager.Remove(c)

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		c.Touch()
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed", zap.String("user_id", userID), zap.Error(err))
			}
			return
		}
		c.Touch()
	}
}
