package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/grove/pkg/core"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
)

// options holds the configuration for opening a store.
type options struct {
	repository   core.Repository
	logger       *slog.Logger
	adapter      string
	format       string
	systemDir    string
	eventBuffer  int
	debounce     time.Duration
	strict       bool
	readOnly     bool
	mustExist    bool
	devSafety    bool
	forceTemp    bool
	errorHandler func(error)
}

// Option configures Open and New.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter:   AdapterFS,
		devSafety: true,
	}
}

func (o *options) log() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// WithLogger sets the logger of the repository and the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a storage adapter (e.g. a mock). The adapter name
// and every adapter setting are then ignored.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name: "fs" (default) or "sqlite".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFormat sets the file format written by the fs adapter: json, yaml or md.
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithSystemDir sets the hidden directory name of the fs adapter.
// Defaults to ".grove".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithEventBuffer sets the size of the service event broker buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithDebounce sets the per-document event debounce of the fs watcher.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithStrict parses numbers as json.Number to keep large integers intact.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithWatcherErrorHandler receives runtime errors of the fs watch loop, which
// are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithReadOnly rejects every write with core.ErrReadOnly and skips
// initialization. It also bypasses the dev sandbox.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist fails when the data directory does not exist yet.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default (true) such runs are redirected to a temporary directory.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithForceTemp always redirects the store into the temporary sandbox.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}
