package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"trackview/controller"
	"trackview/models"
	"trackview/utils"
	"trackview/views"
)

type moveResponse struct {
	Labels     controller.Labels `json:"labels"`
	Delta      string            `json:"delta,omitempty"`
	Superseded bool              `json:"superseded,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.L().Warn("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	var (
		labels controller.Labels
		infos  []views.ViewInfo
	)
	err := s.loop.Call(r.Context(), func(wc *controller.WindowController) error {
		labels = wc.Labels()
		infos = wc.Registry().Views()
		return nil
	})
	if err != nil {
		http.Error(w, "Failed to read window: "+err.Error(), statusFor(err))
		return
	}
	templ.Handler(indexPage(s.title, labels, infos, models.AxisNames())).ServeHTTP(w, r)
}

func (s *Server) chartsHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := s.loop.Call(r.Context(), func(*controller.WindowController) error {
		return s.page.WritePage(&buf)
	})
	if err != nil {
		http.Error(w, "Failed to render charts: "+err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) rangeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	start, err := strconv.ParseFloat(q.Get("start"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "start: " + err.Error()})
		return
	}
	stop, err := strconv.ParseFloat(q.Get("stop"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "stop: " + err.Error()})
		return
	}

	resp, err := s.loop.Move(r.Context(), start, stop)
	if err != nil {
		writeError(w, err)
		return
	}
	out := moveResponse{Labels: resp.Labels, Superseded: resp.Superseded}
	if !resp.Superseded {
		out.Delta = resp.Delta.String()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) axesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	view := q.Get("view")
	if view == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "view is required"})
		return
	}
	resp, err := s.loop.ChangeAxes(r.Context(), view, q.Get("x"), q.Get("y"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moveResponse{Labels: resp.Labels})
}

func (s *Server) labelsHandler(w http.ResponseWriter, r *http.Request) {
	labels, err := s.loop.Labels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (s *Server) viewsHandler(w http.ResponseWriter, r *http.Request) {
	var infos []views.ViewInfo
	err := s.loop.Call(r.Context(), func(wc *controller.WindowController) error {
		infos = wc.Registry().Views()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}
