package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Masterminds/semver"
	log "github.com/sirupsen/logrus"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

// ProtocolVersion is the bridge protocol spoken on /ws.
const ProtocolVersion = "1.0.0"

var supportedProtocols = mustConstraint(">= 1.0.0, < 2.0.0")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// Options configures the API service.
type Options struct {
	Host          string
	Port          int
	Platform      reach.Binding
	CapabilityAPI bool
	Advertise     bool
}

// Service represents the HTTP server for the API
type Service struct {
	opts     Options
	observer *reach.Observer

	mu       sync.Mutex
	server   *http.Server
	sessions map[string]context.CancelFunc
	ready    bool
	closed   bool
}

func NewService(opts Options) *Service {
	observer := reach.NewObserver(opts.CapabilityAPI)
	observer.Attach(opts.Platform)

	return &Service{
		opts:     opts,
		observer: observer,
		sessions: make(map[string]context.CancelFunc),
	}
}

// Start serves the API until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.opts.Host, fmt.Sprint(s.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.server = server
	s.ready = true
	s.mu.Unlock()

	log.Infof("Starting reachd API service at %s", ln.Addr())
	defer log.Info("Stopping reachd API service")

	if s.opts.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		stop, err := advertise(port)
		if err != nil {
			log.WithError(err).Warn("Failed to advertise API service over mDNS")
		} else {
			defer stop()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		s.shutdown()
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.shutdown()
	s.observer.Detach()
	return nil
}

func (s *Service) shutdown() {
	s.mu.Lock()
	server := s.server
	s.ready = false
	for id, cancel := range s.sessions {
		log.WithField("session", id).Debug("Closing session")
		cancel()
	}
	s.mu.Unlock()

	if server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("API server shutdown incomplete")
	}
}

// Handler returns the API routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("X-Reachd-Protocol", ProtocolVersion)
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.mu.Lock()
			ready := s.ready
			s.mu.Unlock()
			if !ready {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/check", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleCheck(w)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if err := checkProtocol(r.URL.Query().Get("protocol")); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.serveSession(w, r)
	})
	return mux
}

func (s *Service) handleCheck(w http.ResponseWriter) {
	class, err := s.observer.Query()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CheckResponse{Status: class.String()}); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode status: %v", err), http.StatusInternalServerError)
	}
}

// checkProtocol validates the protocol version a client asked for. An empty
// version means the current one.
func checkProtocol(requested string) error {
	if requested == "" {
		return nil
	}
	v, err := semver.NewVersion(requested)
	if err != nil {
		return fmt.Errorf("invalid protocol version %q: %w", requested, err)
	}
	if !supportedProtocols.Check(v) {
		return fmt.Errorf("unsupported protocol version %s, server speaks %s", v, ProtocolVersion)
	}
	return nil
}

func (s *Service) addSession(id string, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sessions[id] = cancel
	return true
}

func (s *Service) removeSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sessions returns the number of connected websocket sessions.
func (s *Service) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
