// Package api assembles the read-only operational API: domain systems,
// route registration, and the middleware stack, mounted under the configured
// base path.
package api

import (
	"net/http"
	"strings"

	"github.com/campusworks/letterflow/internal/config"
	"github.com/campusworks/letterflow/internal/infrastructure"
	"github.com/campusworks/letterflow/pkg/middleware"
	"github.com/campusworks/letterflow/pkg/routes"
)

// Module bundles the mounted API handler with the domain systems behind it,
// so composition code can share the letters system with the engine.
type Module struct {
	BasePath string
	Handler  http.Handler
	Domain   *Domain
}

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) *Module {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	routes.Register(mux, domain.Letters.Handler().Routes())

	stack := middleware.New()
	stack.Use(middleware.Recover(runtime.Logger))
	stack.Use(middleware.Logger(runtime.Logger))

	basePath := "/" + strings.Trim(cfg.API.BasePath, "/")

	return &Module{
		BasePath: basePath,
		Handler:  http.StripPrefix(basePath, stack.Apply(mux)),
		Domain:   domain,
	}
}

// Mount registers the module on the root mux under its base path.
func (m *Module) Mount(mux *http.ServeMux) {
	mux.Handle(m.BasePath+"/", m.Handler)
}
