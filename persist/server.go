package persist

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/phanxgames/scribble"
	"github.com/phanxgames/scribble/export"
)

// MaxPayloadBytes bounds the size of a saved sketch.
const MaxPayloadBytes = 4 << 20

// Server exposes a Local service over HTTP:
//
//	POST   /sketches                    body is the payload, replies {"id": ...}
//	GET    /sketches/{id}               the payload, counts a view
//	POST   /sketches/{id}/feature       marks the sketch featured
//	DELETE /sketches/{id}               removes the sketch
//	GET    /sketches/{id}/thumbnail.png 240x145 PNG
//	GET    /sketches/{id}/sketch.pdf    vector PDF
//	GET    /gallery?load=&start=&end=   {"totalRows": n, "sketches": [...]}
//	GET    /feed                        websocket of FeedEvents
//
// In the gallery query, end is the page size, not an index.
type Server struct {
	local  *Local
	feed   *Feed
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewServer wires the routes. feed may be nil, which disables /feed.
func NewServer(local *Local, feed *Feed, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{local: local, feed: feed, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /sketches", s.handleSave)
	s.mux.HandleFunc("GET /sketches/{id}", s.handleLoad)
	s.mux.HandleFunc("POST /sketches/{id}/feature", s.handleFeature)
	s.mux.HandleFunc("DELETE /sketches/{id}", s.handleDelete)
	s.mux.HandleFunc("GET /sketches/{id}/thumbnail.png", s.handleThumbnail)
	s.mux.HandleFunc("GET /sketches/{id}/sketch.pdf", s.handlePDF)
	s.mux.HandleFunc("GET /gallery", s.handleGallery)
	if feed != nil {
		s.mux.Handle("GET /feed", feed)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.Debug("http", "method", r.Method, "path", r.URL.Path, "status", rec.status, "dur", time.Since(start))
}

type saveResponse struct {
	ID string `json:"id"`
}

type galleryItem struct {
	ID    string          `json:"id"`
	Date  string          `json:"date"`
	Views int             `json:"views"`
	Value json.RawMessage `json:"value"`
}

type galleryResponse struct {
	TotalRows int           `json:"totalRows"`
	Sketches  []galleryItem `json:"sketches"`
}

// galleryDateFormat matches the stored timestamp format of the gallery.
const galleryDateFormat = "2006-01-02 15:04:05"

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPayloadBytes))
	if err != nil {
		httpError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}
	id, err := s.local.Save(r.Context(), string(body))
	if err != nil {
		s.writeErr(w, "save", err)
		return
	}
	writeJSON(w, http.StatusCreated, saveResponse{ID: id})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	payload, err := s.local.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErr(w, "load", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, payload)
}

func (s *Server) handleFeature(w http.ResponseWriter, r *http.Request) {
	if err := s.local.Feature(r.Context(), r.PathValue("id")); err != nil {
		s.writeErr(w, "feature", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.local.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeErr(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	sk, err := s.local.Sketch(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeErr(w, "thumbnail", err)
		return
	}
	img, err := export.Thumbnail(sk, export.ThumbnailWidth, export.ThumbnailHeight, export.Options{})
	if err != nil {
		s.writeErr(w, "thumbnail", err)
		return
	}
	var buf bytes.Buffer
	if err := export.WritePNG(&buf, img); err != nil {
		s.writeErr(w, "thumbnail", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sk, err := s.local.Sketch(r.Context(), id)
	if err != nil {
		s.writeErr(w, "pdf", err)
		return
	}
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, sk, export.Options{Title: "Sketch " + id}); err != nil {
		s.writeErr(w, "pdf", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(buf.Bytes())
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cat, err := ParseCategory(q.Get("load"))
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	start, err1 := strconv.Atoi(q.Get("start"))
	count, err2 := strconv.Atoi(q.Get("end"))
	if err1 != nil || err2 != nil || start < 0 || count < 0 {
		httpError(w, http.StatusBadRequest, "start and end must be non-negative integers")
		return
	}
	items, total, err := s.local.ListGallery(r.Context(), cat, start, count)
	if err != nil {
		s.writeErr(w, "gallery", err)
		return
	}
	resp := galleryResponse{TotalRows: total, Sketches: make([]galleryItem, 0, len(items))}
	for _, it := range items {
		resp.Sketches = append(resp.Sketches, galleryItem{
			ID:    it.ID,
			Date:  it.CreatedAt.Format(galleryDateFormat),
			Views: it.Views,
			Value: json.RawMessage(it.Serialized),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeErr maps service errors to statuses. Clients only ever see a
// generic message; the cause is logged.
func (s *Server) writeErr(w http.ResponseWriter, op string, err error) {
	var de *scribble.DecodeError
	switch {
	case errors.Is(err, ErrNotFound):
		httpError(w, http.StatusNotFound, "not found")
	case errors.As(err, &de):
		s.logger.Warn("rejected payload", "op", op, "err", err)
		httpError(w, http.StatusBadRequest, "invalid sketch")
	case errors.Is(err, ErrEmptySketch):
		httpError(w, http.StatusBadRequest, "invalid sketch")
	default:
		s.logger.Error("request failed", "op", op, "err", err)
		httpError(w, http.StatusInternalServerError, "error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	http.Error(w, msg, status)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection to the websocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
