package main

import (
	"net/http"
	"time"

	"github.com/campusworks/letterflow/internal/api"
	"github.com/campusworks/letterflow/internal/classifier"
	"github.com/campusworks/letterflow/internal/config"
	"github.com/campusworks/letterflow/internal/engine"
	"github.com/campusworks/letterflow/internal/extraction"
	"github.com/campusworks/letterflow/internal/infrastructure"
	"github.com/campusworks/letterflow/internal/mail"
	"github.com/campusworks/letterflow/internal/workflow"
)

// Server composes the engine process: infrastructure, the workflow runtime,
// the polling scheduler, and the operational HTTP surface.
type Server struct {
	infra  *infrastructure.Infrastructure
	api    *api.Module
	engine *engine.Engine
	http   *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	apiModule := api.NewModule(cfg, infra)

	// A missing model is not fatal to the process: the classification
	// agent parks affected letters in ERROR until a model is deployed.
	model, err := classifier.Load(cfg.Classifier.ModelPath)
	if err != nil {
		infra.Logger.Warn("classifier model unavailable",
			"model_path", cfg.Classifier.ModelPath,
			"error", err,
		)
		model = nil
	}

	runtime := &workflow.Runtime{
		Letters:        apiModule.Domain.Letters,
		Extraction:     extraction.New(&cfg.Extraction, infra.Storage, infra.Logger),
		Classifier:     model,
		Mail:           mail.New(&cfg.Mail, infra.Storage, infra.Logger),
		Logger:         infra.Logger.With("module", "workflow"),
		ApprovalWindow: cfg.Engine.ApprovalWindowDuration(),
	}

	mux := buildMux(infra)
	apiModule.Mount(mux)

	infra.Logger.Info(
		"engine initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
	)

	return &Server{
		infra:  infra,
		api:    apiModule,
		engine: engine.New(runtime, apiModule.Domain.Letters, &cfg.Engine, infra.Logger),
		http:   newHTTPServer(&cfg.Server, mux, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
		s.engine.Start(s.infra.Lifecycle)
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}

func buildMux(infra *infrastructure.Infrastructure) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"not ready"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	})

	return mux
}
