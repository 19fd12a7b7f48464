package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/storage"
	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browsers connect from arbitrary dev origins; rooms are joined by
	// id, not by origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SaveStore persists room snapshots under named slots. The pgx store
// and the file store both satisfy it; a nil SaveStore disables the
// save and load endpoints.
type SaveStore interface {
	Save(ctx context.Context, roomID, slot string, snapshot []byte) error
	Load(ctx context.Context, roomID, slot string) ([]byte, error)
	List(ctx context.Context, roomID string) ([]storage.SaveRecord, error)
}

// Handler exposes the room API and the WebSocket upgrade endpoint.
type Handler struct {
	hub    *Hub
	saves  SaveStore
	logger *zap.Logger
}

// NewHandler wires the hub and save store into an HTTP handler.
func NewHandler(hub *Hub, saves SaveStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{hub: hub, saves: saves, logger: logger}
}

// RegisterRoutes mounts every endpoint on the router. The WebSocket
// route stays outside the timeout subtree since connections are
// long-lived.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.health)
	r.Get("/ws/{roomID}", h.serveWS)

	r.Route("/api/rooms", func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Get("/", h.listRooms)
		r.Post("/", h.createRoom)
		r.Route("/{roomID}", func(r chi.Router) {
			r.Delete("/", h.deleteRoom)
			r.Get("/snapshot", h.snapshot)
			r.Get("/saves", h.listSaves)
			r.Post("/save/{slot}", h.saveSlot)
			r.Post("/load/{slot}", h.loadSlot)
		})
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// serveWS upgrades the connection and binds it to the room. Identity is
// self-reported through query parameters; a missing player id gets a
// generated one.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	roomID := strings.TrimSpace(chi.URLParam(r, "roomID"))
	if roomID == "" {
		writeError(w, http.StatusBadRequest, "room id is required")
		return
	}

	playerID := strings.TrimSpace(r.URL.Query().Get("player"))
	if playerID == "" {
		playerID = uuid.NewString()
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	gm := r.URL.Query().Get("gm") == "true"

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed",
			zap.String("room_id", roomID),
			zap.Error(err),
		)
		return
	}

	room := h.hub.GetOrCreateRoom(roomID)
	client := newClient(room, conn, table.Actor{PlayerID: playerID, GM: gm}, name, h.logger)
	room.Join(client)

	go client.writePump()
	go client.readPump()
}

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": h.hub.RoomIDs()})
}

func (h *Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID string `json:"roomId"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
	}

	roomID := strings.TrimSpace(req.RoomID)
	if roomID == "" {
		roomID = uuid.NewString()
	}

	if _, err := h.hub.CreateRoom(roomID, nil); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"roomId": roomID})
}

// deleteRoom drops the room and its journal. Connected clients keep
// their sockets until they disconnect; there is no room to rejoin.
func (h *Handler) deleteRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := h.roomFromURL(w, r)
	if !ok {
		return
	}
	h.hub.RemoveRoom(room.ID)
	writeJSON(w, http.StatusOK, map[string]any{"roomId": room.ID})
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	room, ok := h.roomFromURL(w, r)
	if !ok {
		return
	}

	data, err := table.EncodeSnapshot(room.State())
	if err != nil {
		h.logger.Error("failed to encode snapshot",
			zap.String("room_id", room.ID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to encode snapshot")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) listSaves(w http.ResponseWriter, r *http.Request) {
	if h.saves == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}
	room, ok := h.roomFromURL(w, r)
	if !ok {
		return
	}

	records, err := h.saves.List(r.Context(), room.ID)
	if err != nil {
		h.logger.Error("failed to list saves",
			zap.String("room_id", room.ID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to list saves")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saves": records})
}

func (h *Handler) saveSlot(w http.ResponseWriter, r *http.Request) {
	if h.saves == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}
	room, ok := h.roomFromURL(w, r)
	if !ok {
		return
	}
	slot := strings.TrimSpace(chi.URLParam(r, "slot"))
	if slot == "" {
		writeError(w, http.StatusBadRequest, "slot is required")
		return
	}

	data, err := table.EncodeSnapshot(room.State())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode snapshot")
		return
	}
	if err := h.saves.Save(r.Context(), room.ID, slot, data); err != nil {
		h.logger.Error("failed to save snapshot",
			zap.String("room_id", room.ID),
			zap.String("slot", slot),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to save snapshot")
		return
	}

	h.logger.Info("snapshot saved",
		zap.String("room_id", room.ID),
		zap.String("slot", slot),
		zap.Int("bytes", len(data)),
	)
	writeJSON(w, http.StatusOK, map[string]any{"slot": slot, "bytes": len(data)})
}

// loadSlot replaces the room state with a persisted snapshot. Invalid
// persisted state is rejected and the live session stays untouched.
func (h *Handler) loadSlot(w http.ResponseWriter, r *http.Request) {
	if h.saves == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}
	room, ok := h.roomFromURL(w, r)
	if !ok {
		return
	}
	slot := strings.TrimSpace(chi.URLParam(r, "slot"))
	if slot == "" {
		writeError(w, http.StatusBadRequest, "slot is required")
		return
	}

	data, err := h.saves.Load(r.Context(), room.ID, slot)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "save slot not found")
			return
		}
		h.logger.Error("failed to load snapshot",
			zap.String("room_id", room.ID),
			zap.String("slot", slot),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}

	loaded, err := table.DecodeSnapshot(data)
	if err != nil {
		h.logger.Warn("rejecting invalid snapshot",
			zap.String("room_id", room.ID),
			zap.String("slot", slot),
			zap.Error(err),
		)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	room.Replace(loaded)
	room.BroadcastState()

	h.logger.Info("snapshot loaded",
		zap.String("room_id", room.ID),
		zap.String("slot", slot),
		zap.Int("objects", len(loaded.Objects)),
	)
	writeJSON(w, http.StatusOK, map[string]any{"slot": slot, "objects": len(loaded.Objects)})
}

// roomFromURL resolves the routed room id, answering the error itself
// when the id is missing or unknown.
func (h *Handler) roomFromURL(w http.ResponseWriter, r *http.Request) (*Room, bool) {
	roomID := strings.TrimSpace(chi.URLParam(r, "roomID"))
	if roomID == "" {
		writeError(w, http.StatusBadRequest, "room id is required")
		return nil, false
	}
	room, ok := h.hub.Room(roomID)
	if !ok {
		writeError(w, http.StatusNotFound, "room not found")
		return nil, false
	}
	return room, true
}

// RequestLogger logs each completed request through zap, skipping the
// upgrade endpoint whose lifetime is the connection's.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/ws/") {
				next.ServeHTTP(w, r)
				return
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
		return http.HandlerFunc(fn)
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
