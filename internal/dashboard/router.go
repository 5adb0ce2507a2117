package dashboard

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

//go:embed page.html
var pageHTML string

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

type api struct {
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewRouter builds the dashboard routes. metricsHandler may be nil.
func NewRouter(hub *Hub, metricsHandler http.Handler, logger *slog.Logger) *mux.Router {
	if logger == nil {
		logger = slog.Default()
	}
	a := &api{hub: hub, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/", a.page).Methods("GET")
	r.HandleFunc("/api/snapshot", a.snapshot).Methods("GET")
	r.HandleFunc("/ws", a.live).Methods("GET")
	r.HandleFunc("/healthz", a.healthz).Methods("GET")
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods("GET")
	}
	return r
}

func (a *api) page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, a.hub.Latest()); err != nil {
		a.logger.Error("render page", "err", err)
	}
}

func (a *api) snapshot(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.hub.Latest())
}

func (a *api) live(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Debug("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	frames, cancel := a.hub.Subscribe()
	defer cancel()

	// The page never sends anything; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeFrame(conn, a.hub.Latest()); err != nil {
		a.logger.Warn("websocket write", "err", err)
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case s, ok := <-frames:
			if !ok {
				return
			}
			if err := writeFrame(conn, s); err != nil {
				a.logger.Debug("websocket write", "err", err)
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

func (a *api) healthz(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v before touching the response so an encoding failure
// can still be reported as a 500.
func (a *api) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		a.logger.Error("encode response", "err", err)
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		a.logger.Debug("write response", "err", err)
	}
}
