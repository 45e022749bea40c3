package notify

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"bizdesk/internal/common"

	"github.com/gorilla/mux"
)

// NotificationHandler is the thin JSON ingress for the router, the push
// subscription endpoint and the manual aggregation triggers. Caller identity
// arrives pre-resolved on trusted headers (see common.IdentityMiddleware).
type NotificationHandler struct {
	service   NotificationService
	hub       *Hub
	scheduler *StatsScheduler
}

func NewNotificationHandler(service NotificationService, hub *Hub, scheduler *StatsScheduler) *NotificationHandler {
	return &NotificationHandler{
		service:   service,
		hub:       hub,
		scheduler: scheduler,
	}
}

func (h *NotificationHandler) Register(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(common.IdentityMiddleware)

	api.HandleFunc("/notifications", h.Create).Methods(http.MethodPost)
	api.HandleFunc("/notifications", h.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/stats", h.Stats).Methods(http.MethodGet)
	api.HandleFunc("/notifications/ws", h.Subscribe).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", h.MarkAllRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}/read", h.MarkRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}", h.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/admin/stats/{period}/run", h.RunStats).Methods(http.MethodPost)
}

type createRequest struct {
	Type              string  `json:"type"`
	Title             string  `json:"title"`
	Message           string  `json:"message"`
	Priority          string  `json:"priority"`
	TargetUserID      *uint64 `json:"target_user_id"`
	TargetRole        *string `json:"target_role"`
	RelatedEntityID   *string `json:"related_entity_id"`
	RelatedEntityType *string `json:"related_entity_type"`
	Metadata          string  `json:"metadata"`
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var target common.Target
	if req.TargetUserID != nil {
		target = common.UserTarget(*req.TargetUserID)
	} else if req.TargetRole != nil {
		target = common.RoleTarget(*req.TargetRole)
	}

	input := CreateNotification{
		Type:     common.NotificationType(req.Type),
		Title:    req.Title,
		Message:  req.Message,
		Priority: common.Priority(req.Priority),
		Target:   target,
		Metadata: req.Metadata,
	}
	if req.RelatedEntityID != nil && req.RelatedEntityType != nil {
		input.Related = &common.RelatedEntity{ID: *req.RelatedEntityID, Type: *req.RelatedEntityType}
	}

	n, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := common.IdentityFromContext(r.Context())

	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 20)

	result, err := h.service.List(r.Context(), id.UserID, id.Role, page, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *NotificationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id, _ := common.IdentityFromContext(r.Context())

	stats, err := h.service.Stats(r.Context(), id.UserID, id.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["id"]

	if err := h.service.MarkRead(r.Context(), notificationID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	id, _ := common.IdentityFromContext(r.Context())

	if err := h.service.MarkAllRead(r.Context(), id.UserID, id.Role); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), notificationID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "push delivery not configured")
		return
	}

	id, _ := common.IdentityFromContext(r.Context())
	h.hub.ServeWS(w, r, id.UserID, id.Role)
}

// RunStats triggers one aggregation run on demand; it executes exactly the
// logic the calendar timer would.
func (h *NotificationHandler) RunStats(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "stats scheduler not configured")
		return
	}

	period := mux.Vars(r)["period"]

	var err error
	switch period {
	case "daily":
		err = h.scheduler.RunDaily(r.Context())
	case "weekly":
		err = h.scheduler.RunWeekly(r.Context())
	case "monthly":
		err = h.scheduler.RunMonthly(r.Context())
	default:
		writeError(w, http.StatusBadRequest, "unknown stats period")
		return
	}

	if err != nil {
		log.Printf("Manual %s stats run failed: %v", period, err)
		writeError(w, http.StatusInternalServerError, "stats run failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "completed", "period": period})
}

func queryInt(r *http.Request, key string, fallback int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
