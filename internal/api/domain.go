package api

import (
	"github.com/campusworks/letterflow/internal/letters"
)

// Domain holds the domain systems that comprise the API. The letters system
// is shared with the engine's workflow runtime.
type Domain struct {
	Letters letters.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	lettersSystem := letters.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Letters: lettersSystem,
	}
}
