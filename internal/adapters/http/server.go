// Package http serves the inspection API: a read-only HTTP view over the
// pairings of a workspace node set.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	"github.com/aretw0/espalier/internal/inspect"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
)

//go:embed openapi.yaml
var contract []byte

// Inspector resolves one node into a report. *inspect.Service is the
// production implementation.
type Inspector interface {
	Node(ctx context.Context, node domain.Node) inspect.Report
}

// Option configures the handler.
type Option func(*server)

// WithLogger sets the logger for request-scoped failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *server) { s.logger = logger }
}

// WithMetricsHandler mounts h at GET /metrics, typically promhttp over the
// registry the inspector records to.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *server) { s.metrics = h }
}

type server struct {
	inspector Inspector
	nodes     []domain.Node
	logger    *slog.Logger
	metrics   http.Handler
}

// NewHandler builds the router serving nodes through inspector. The embedded
// OpenAPI contract is validated here so a malformed document fails startup,
// not the first client asking for it.
func NewHandler(inspector Inspector, nodes []domain.Node, opts ...Option) (http.Handler, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(contract)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi contract: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi contract: %w", err)
	}

	s := &server{inspector: inspector, nodes: nodes, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getContract)
	r.Get("/v1/nodes", s.listNodes)
	r.Get("/v1/pairings", s.getPairing)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r, nil
}

func (s *server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) getContract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(contract)
}

type nodeView struct {
	Label         string `json:"label"`
	Configuration string `json:"configuration,omitempty"`
}

func (s *server) listNodes(w http.ResponseWriter, r *http.Request) {
	views := make([]nodeView, 0, len(s.nodes))
	for _, node := range s.nodes {
		view := nodeView{Label: node.Label().String()}
		if key, ok := node.ConfigurationKey(); ok {
			view.Configuration = string(key)
		}
		views = append(views, view)
	}
	s.respondJSON(w, http.StatusOK, views)
}

// getPairing resolves one node. Not-ready is a regular 200 outcome with the
// status field set; only fatal resolution errors map to 500.
func (s *server) getPairing(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("label")
	if raw == "" {
		s.respondError(w, http.StatusBadRequest, "missing label parameter")
		return
	}
	l, err := label.Parse(raw)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	node, ok := s.findNode(l)
	if !ok {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("no node %s in the workspace", l))
		return
	}

	report := s.inspector.Node(r.Context(), node)
	status := http.StatusOK
	if report.Status == inspect.StatusFailed {
		status = http.StatusInternalServerError
		s.logger.Error("pairing resolution failed", "node", report.Label, "error", report.Error)
	}
	s.respondJSON(w, status, report)
}

func (s *server) findNode(l label.Label) (domain.Node, bool) {
	for _, node := range s.nodes {
		if node.Label() == l {
			return node, true
		}
	}
	return nil, false
}

func (s *server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
