// Package server exposes the digitization engine over HTTP as a thin
// adapter: it decodes the uploaded image and calibration form, calls the
// engine, and serializes the result. All digitization semantics live in
// internal/digitizer.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"strconv"
	"strings"

	_ "golang.org/x/image/tiff"

	"graph-digitizer/internal/digitizer"
)

// maxUploadBytes bounds the multipart form size.
const maxUploadBytes = 50 << 20

// Server handles extraction requests against one engine instance.
type Server struct {
	engine *digitizer.Engine
}

// New creates a server around an engine.
func New(engine *digitizer.Engine) *Server {
	return &Server{engine: engine}
}

// ServeMux returns the route table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/extract", s.handleExtract)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleExtract accepts a multipart form with an "image" file, calibration
// fields (x_min, x_max, y_min, y_max, optional scale) and optional repeated
// "label" fields of the form base=text.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	cal, err := calibrationFromForm(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, "no image uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		respondError(w, fmt.Sprintf("decode image: %v", err), http.StatusBadRequest)
		return
	}

	result, err := s.engine.Extract(r.Context(), img, cal, labelsFromForm(r))
	if err != nil {
		var calErr *digitizer.CalibrationError
		var gridErr *digitizer.GridDetectionError
		switch {
		case errors.As(err, &calErr):
			respondError(w, err.Error(), http.StatusBadRequest)
		case errors.As(err, &gridErr):
			respondError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.Printf("extract failed: %v", err)
			respondError(w, "extraction failed", http.StatusInternalServerError)
		}
		return
	}

	respondJSON(w, result, http.StatusOK)
}

func calibrationFromForm(r *http.Request) (digitizer.Calibration, error) {
	var cal digitizer.Calibration

	fields := []struct {
		name string
		dst  *float64
	}{
		{"x_min", &cal.XMin},
		{"x_max", &cal.XMax},
		{"y_min", &cal.YMin},
		{"y_max", &cal.YMax},
	}
	for _, f := range fields {
		raw := r.FormValue(f.name)
		if raw == "" {
			return cal, fmt.Errorf("missing calibration field %s", f.name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cal, fmt.Errorf("invalid %s: %q", f.name, raw)
		}
		*f.dst = v
	}

	scale, err := digitizer.ParseScale(r.FormValue("scale"))
	if err != nil {
		return cal, err
	}
	cal.Scale = scale

	return cal, nil
}

func labelsFromForm(r *http.Request) map[string]string {
	labels := make(map[string]string)
	if r.MultipartForm == nil {
		return labels
	}
	for _, entry := range r.MultipartForm.Value["label"] {
		base, text, ok := strings.Cut(entry, "=")
		if ok {
			labels[base] = text
		}
	}
	return labels
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}
