package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"kassenboard/internal/catalog"
	"kassenboard/internal/common/logger"
	"kassenboard/internal/hub"
)

// Pinger is the slice of the database pool the health probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	menu catalog.Menu
	db   Pinger // nil when running ephemeral
	lg   *logger.Logger
}

func NewHandler(menu catalog.Menu, db Pinger, lg *logger.Logger) *Handler {
	return &Handler{menu: menu, db: db, lg: lg}
}

// Router wires the REST surface, the websocket upgrade and the static
// frontend files.
func Router(h *Handler, b *hub.Hub, publicDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/menu", h.GetMenu)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(b, w, r)
	})
	mux.Handle("/", http.FileServer(http.Dir(publicDir)))
	return mux
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.menu)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	database := "ephemeral"
	if h.db != nil {
		database = "connected"
		if err := h.db.Ping(r.Context()); err != nil {
			database = "unreachable"
			h.lg.Error("health_db_ping_failed", err, nil)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  database,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
