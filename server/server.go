package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"trackview/controller"
	"trackview/models"
	"trackview/utils"
)

// PageWriter renders the current charts as one HTML document.
type PageWriter interface {
	WritePage(w io.Writer) error
}

// Server is the HTTP range selector. Every request that reads or moves the
// window goes through the controller's event loop.
type Server struct {
	loop  *controller.Loop
	page  PageWriter
	title string
	http  *http.Server
}

// New builds a server for loop. page renders the chart frame; it is only
// called on the loop goroutine.
func New(loop *controller.Loop, page PageWriter, title string, cfg utils.ServerConfig) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:8080"
	}
	s := &Server{loop: loop, page: page, title: title}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/charts", s.chartsHandler)
	mux.HandleFunc("/range", s.rangeHandler)
	mux.HandleFunc("/axes", s.axesHandler)
	mux.HandleFunc("/labels", s.labelsHandler)
	mux.HandleFunc("/views", s.viewsHandler)
	return loggingMiddleware(mux)
}

// Addr is the listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		utils.L().Info("server listening on http://%s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	utils.L().Info("server stopped")
	return nil
}

// statusFor maps controller errors to HTTP status codes.
func statusFor(err error) int {
	var ire *models.InvalidRangeError
	switch {
	case errors.As(err, &ire):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownView):
		return http.StatusNotFound
	case errors.Is(err, models.ErrLoadInProgress):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
