package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/dayztools/zonemap/internal/colormap"
	"github.com/dayztools/zonemap/internal/combine"
	"github.com/dayztools/zonemap/internal/editor"
	"github.com/dayztools/zonemap/internal/geometry"
	"github.com/dayztools/zonemap/internal/render"
	"github.com/dayztools/zonemap/internal/serialize"
)

// Files names the zone definition files the server writes back to on save.
type Files struct {
	DynamicFile string
	StaticFile  string
}

// Server exposes one shared edit session over HTTP. All session access is
// serialized through mu: the editor is a single-user tool and correctness
// beats concurrency here.
type Server struct {
	logger    *zap.Logger
	hub       *Hub
	files     Files
	transform geometry.Transform
	title     string
	worldSize int
	imagePath string

	mu      sync.Mutex
	dataset *combine.Dataset
	session *editor.Session
}

// Options carries the server construction parameters.
type Options struct {
	Dataset        *combine.Dataset
	Transform      geometry.Transform
	Files          Files
	Title          string
	WorldSize      int
	BackgroundPath string
}

// New creates a Server around one edit session.
//
// Precondition: opts.Dataset must be fused; logger must be non-nil.
func New(opts Options, logger *zap.Logger) *Server {
	return &Server{
		logger:    logger,
		hub:       NewHub(logger),
		files:     opts.Files,
		transform: opts.Transform,
		title:     opts.Title,
		worldSize: opts.WorldSize,
		imagePath: opts.BackgroundPath,
		dataset:   opts.Dataset,
		session:   editor.NewSession(opts.Dataset, opts.Transform, logger),
	}
}

// Handler returns the HTTP routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /background", s.handleBackground)
	mux.HandleFunc("GET /ws", s.handleWebsocket)

	mux.HandleFunc("GET /api/zones", s.handleZones)
	mux.HandleFunc("POST /api/zones/draw", s.handleDraw)
	mux.HandleFunc("POST /api/zones/draw/cancel", s.handleCancelDraw)
	mux.HandleFunc("POST /api/zones/{id}/configure", s.handleConfigure)
	mux.HandleFunc("POST /api/zones/{id}/config", s.handleSetConfig)
	mux.HandleFunc("POST /api/zones/{id}/resize/begin", s.handleBeginResize)
	mux.HandleFunc("POST /api/zones/{id}/resize/corner", s.handleDragCorner)
	mux.HandleFunc("POST /api/zones/{id}/resize/move", s.handleDragBody)
	mux.HandleFunc("POST /api/zones/{id}/resize/confirm", s.handleConfirmResize)
	mux.HandleFunc("POST /api/zones/{id}/resize/cancel", s.handleCancelResize)
	mux.HandleFunc("DELETE /api/zones/{id}", s.handleDelete)
	mux.HandleFunc("GET /api/changes", s.handleChanges)
	mux.HandleFunc("POST /api/save", s.handleSave)

	return mux
}

func (s *Server) renderParams() render.Params {
	return render.Params{
		Title:           s.title,
		WorldSize:       s.worldSize,
		ImageSize:       s.transform.ImageSize,
		BackgroundImage: "background",
		Dataset:         s.dataset,
	}
}

// handleIndex serves the live map page: the same document as the batch
// artifact, rendered from the current dataset.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteArtifact(w, s.renderParams()); err != nil {
		s.logger.Error("rendering live map", zap.Error(err))
	}
}

func (s *Server) handleBackground(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.imagePath)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	s.hub.Add(conn)
	defer s.hub.Remove(conn)

	// Editors only receive; drain until the peer goes away.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}

// zonesResponse is the GET /api/zones body: the artifact payload plus the
// unused-definition report, the discrete danger legend, and the editor mode.
type zonesResponse struct {
	Map    json.RawMessage `json:"map"`
	Unused combine.Unused  `json:"unused"`
	Legend []legendEntry   `json:"legend"`
	Mode   string          `json:"mode"`
}

// legendEntry is one step of the editor's five-bucket danger legend.
type legendEntry struct {
	Threshold float64 `json:"threshold"`
	Color     string  `json:"color"`
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := render.PayloadJSON(s.renderParams())
	if err != nil {
		s.internalError(w, "building zone payload", err)
		return
	}
	s.writeJSON(w, http.StatusOK, zonesResponse{
		Map:    payload,
		Unused: s.dataset.UnusedSets(),
		Legend: s.legend(),
		Mode:   s.session.Mode().String(),
	})
}

// legend maps the loaded health table's range onto the discrete bucket
// colors the editor draws zone lists with. The bounds come from the health
// table itself, independent of which creatures any zone currently uses.
func (s *Server) legend() []legendEntry {
	lo, hi, ok := s.dataset.Health.MinMax()
	if !ok {
		return nil
	}
	buckets := colormap.Buckets{Min: lo, Max: hi}
	span := (hi - lo) / 5
	entries := make([]legendEntry, 5)
	for i := range entries {
		threshold := lo + span*float64(i)
		entries[i] = legendEntry{
			Threshold: threshold,
			Color:     buckets.Hex(threshold + span/2),
		}
	}
	return entries
}

type drawRequest struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	zoneID, err := s.session.Draw(
		editor.Point{X: req.X1, Y: req.Y1},
		editor.Point{X: req.X2, Y: req.Y2},
	)
	if err != nil {
		s.editError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{
		"zone_id": zoneID,
		"mode":    s.session.Mode().String(),
	})
}

func (s *Server) handleCancelDraw(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.CancelDraw(); err != nil {
		s.editError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"mode": s.session.Mode().String()})
}

type configureRequest struct {
	Config  int    `json:"config"`
	Comment string `json:"comment"`
}

func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var req configureRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	zoneID := r.PathValue("id")
	if s.session.ActiveZone() != zoneID {
		s.writeError(w, http.StatusConflict, fmt.Sprintf("zone %s is not being configured", zoneID))
		return
	}
	if err := s.session.Configure(req.Config, req.Comment); err != nil {
		s.editError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "zone_added", ZoneID: zoneID, Payload: s.dataset.Dynamic[zoneID]})
	s.writeJSON(w, http.StatusOK, map[string]string{"zone_id": zoneID})
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var req configureRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	zoneID := r.PathValue("id")
	if err := s.session.SetConfig(zoneID, req.Config, req.Comment); err != nil {
		s.editError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "config_changed", ZoneID: zoneID, Payload: req})
	s.writeJSON(w, http.StatusOK, map[string]string{"zone_id": zoneID})
}

func (s *Server) handleBeginResize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.BeginResize(r.PathValue("id")); err != nil {
		s.editError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"mode": s.session.Mode().String()})
}

type cornerRequest struct {
	Corner string  `json:"corner"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func parseCorner(name string) (editor.Corner, error) {
	switch name {
	case "top_left":
		return editor.TopLeft, nil
	case "top_right":
		return editor.TopRight, nil
	case "bottom_left":
		return editor.BottomLeft, nil
	case "bottom_right":
		return editor.BottomRight, nil
	}
	return 0, fmt.Errorf("unknown corner %q", name)
}

func (s *Server) handleDragCorner(w http.ResponseWriter, r *http.Request) {
	var req cornerRequest
	if !s.decode(w, r, &req) {
		return
	}
	corner, err := parseCorner(req.Corner)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.DragCorner(corner, editor.Point{X: req.X, Y: req.Y}); err != nil {
		s.editError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.dataset.Dynamic[s.session.ActiveZone()])
}

type moveRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (s *Server) handleDragBody(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.DragBody(req.DX, req.DY); err != nil {
		s.editError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.dataset.Dynamic[s.session.ActiveZone()])
}

func (s *Server) handleConfirmResize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zoneID := s.session.ActiveZone()
	changed, err := s.session.ConfirmResize()
	if err != nil {
		s.editError(w, err)
		return
	}
	if changed {
		s.hub.Broadcast(Event{Type: "zone_modified", ZoneID: zoneID, Payload: s.dataset.Dynamic[zoneID]})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"zone_id": zoneID, "changed": changed})
}

func (s *Server) handleCancelResize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.CancelResize(); err != nil {
		s.editError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"mode": s.session.Mode().String()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zoneID := r.PathValue("id")
	if err := s.session.Delete(zoneID); err != nil {
		s.editError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "zone_deleted", ZoneID: zoneID})
	s.writeJSON(w, http.StatusOK, map[string]string{"zone_id": zoneID})
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, s.session.Changes())
}

// handleSave writes both zone files back to disk, each behind a fresh
// .backup copy, and clears the pending change set.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changes := s.session.Changes()
	if changes.Empty() {
		s.writeJSON(w, http.StatusOK, map[string]any{"saved": false, "reason": "no pending changes"})
		return
	}

	dynamicOut := serialize.DynamicFile(s.dataset.Dynamic)
	if err := serialize.WriteFileWithBackup(s.files.DynamicFile, []byte(dynamicOut)); err != nil {
		s.internalError(w, "saving dynamic zone file", err)
		return
	}

	if len(changes.Static) > 0 {
		original, err := os.ReadFile(s.files.StaticFile)
		if err != nil {
			s.internalError(w, "reading static zone file", err)
			return
		}
		staticOut := serialize.StaticFile(string(original), s.dataset.Static)
		if err := serialize.WriteFileWithBackup(s.files.StaticFile, []byte(staticOut)); err != nil {
			s.internalError(w, "saving static zone file", err)
			return
		}
	}

	s.session.ClearChanges()
	s.hub.Broadcast(Event{Type: "saved", Payload: map[string]int{
		"added":    len(changes.Added),
		"modified": len(changes.Modified),
		"static":   len(changes.Static),
	}})
	s.logger.Info("zone files saved",
		zap.Int("added", len(changes.Added)),
		zap.Int("modified", len(changes.Modified)),
		zap.Int("static_modified", len(changes.Static)))
	s.writeJSON(w, http.StatusOK, map[string]any{"saved": true, "changes": changes})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding request body: %v", err))
		return false
	}
	return true
}

// editError maps session errors onto HTTP status codes.
func (s *Server) editError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, editor.ErrUnknownZone):
		status = http.StatusNotFound
	case errors.Is(err, editor.ErrBadMode):
		status = http.StatusConflict
	case errors.Is(err, editor.ErrNoSlots):
		status = http.StatusConflict
	}
	s.writeError(w, status, err.Error())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) internalError(w http.ResponseWriter, context string, err error) {
	s.logger.Error(context, zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("%s: %v", context, err))
}
