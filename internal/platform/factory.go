package platform

import (
	"context"

	"github.com/aretw0/grove/pkg/core"
)

// New opens the store at uri and wraps it in a core.Service.
//
//	svc, err := platform.New(ctx, "./notes", platform.WithAdapter("sqlite"))
func New(ctx context.Context, uri string, opts ...Option) (*core.Service, error) {
	repo, err := Open(ctx, uri, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return core.NewService(repo,
		core.WithServiceLogger(o.logger),
		core.WithEventBufferSize(o.eventBuffer),
		core.WithReadOnlyService(o.readOnly),
	), nil
}
