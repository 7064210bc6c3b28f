// Package web provides an HTTP status server for the tally-tracker daemon.
package web

import (
	"context"
	"log"
	"net/http"

	"github.com/sweeney/tally-tracker/internal/journal"
	"github.com/sweeney/tally-tracker/internal/status"
)

// historyLimit bounds how many journal entries the status page shows.
const historyLimit = 20

// History supplies recent journal entries for the status page.
// A nil History hides the history section.
type History interface {
	Recent(n int) ([]journal.Entry, error)
}

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	history    History
}

// New creates a Server that reads state from the given tracker and history.
func New(addr string, tracker *status.Tracker, history History) *Server {
	s := &Server{tracker: tracker, history: history}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()

	var entries []journal.Entry
	if s.history != nil {
		var err error
		entries, err = s.history.Recent(historyLimit)
		if err != nil {
			log.Printf("web: journal query failed: %v", err)
			entries = nil
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap, entries)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}
