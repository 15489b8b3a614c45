package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"
)

// DefaultEventBuffer is the broker buffer size used when none is configured.
const DefaultEventBuffer = 100

// Service handles the business logic for documents.
type Service struct {
	repo            Repository
	logger          *slog.Logger
	eventBufferSize int
	readOnly        bool
	newID           func() string

	mu       sync.RWMutex
	watchers map[Path]int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used by the service.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventBufferSize sets the size of the broker buffer between the adapter
// and watch consumers. Values <= 0 keep the default.
func WithEventBufferSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// WithIDGenerator overrides the generator used by Add.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithReadOnlyService rejects every mutation with ErrReadOnly.
func WithReadOnlyService(enabled bool) ServiceOption {
	return func(s *Service) {
		s.readOnly = enabled
	}
}

// NewService creates a new Service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:            repo,
		logger:          slog.Default(),
		eventBufferSize: DefaultEventBuffer,
		newID:           NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a time ordered UUIDv7, so IDs sort in creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Repository returns the underlying storage adapter.
func (s *Service) Repository() Repository {
	return s.repo
}

// Add stores fields as a new document in coll and returns the assigned ID.
func (s *Service) Add(ctx context.Context, coll Path, fields Fields) (string, error) {
	if err := s.checkWrite(coll); err != nil {
		return "", err
	}

	id := s.newID()
	if err := s.repo.Save(ctx, coll, Document{ID: id, Fields: fields.Clone()}); err != nil {
		return "", err
	}
	s.logger.Debug("document added", "collection", coll, "id", id)
	return id, nil
}

// Get retrieves a document.
func (s *Service) Get(ctx context.Context, coll Path, id string) (Document, error) {
	if err := coll.Validate(); err != nil {
		return Document{}, err
	}
	if id == "" {
		return Document{}, ErrEmptyID
	}
	return s.repo.Get(ctx, coll, id)
}

// List retrieves all documents of a collection.
func (s *Service) List(ctx context.Context, coll Path) ([]Document, error) {
	if err := coll.Validate(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, coll)
}

// Patch merges fields into an existing document.
func (s *Service) Patch(ctx context.Context, coll Path, id string, fields Fields) error {
	if err := s.checkWrite(coll); err != nil {
		return err
	}
	if id == "" {
		return ErrEmptyID
	}

	if p, ok := s.repo.(Patcher); ok {
		return p.Patch(ctx, coll, id, fields)
	}

	doc, err := s.repo.Get(ctx, coll, id)
	if err != nil {
		return err
	}
	doc.Fields = doc.Fields.Merge(fields)
	return s.repo.Save(ctx, coll, doc)
}

// Delete removes a document. It never touches sub-collections.
func (s *Service) Delete(ctx context.Context, coll Path, id string) error {
	if err := s.checkWrite(coll); err != nil {
		return err
	}
	if id == "" {
		return ErrEmptyID
	}
	return s.repo.Delete(ctx, coll, id)
}

func (s *Service) checkWrite(coll Path) error {
	if s.readOnly {
		return ErrReadOnly
	}
	return coll.Validate()
}

// Watch observes changes of one collection if the repository supports it.
// Events pass through a buffered broker so a slow consumer never stalls the
// adapter. The returned channel closes when ctx is done or the adapter stops.
func (s *Service) Watch(ctx context.Context, coll Path) (<-chan Event, error) {
	if err := coll.Validate(); err != nil {
		return nil, err
	}
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}

	upstream, err := w.Watch(ctx, coll)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", coll, err)
	}

	out := make(chan Event, s.eventBufferSize)
	s.trackWatcher(coll, 1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		defer s.trackWatcher(coll, -1)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-upstream:
				if !ok {
					return nil
				}
				if e.Timestamp == 0 {
					e.Timestamp = time.Now().Unix()
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("event broker stopped", "collection", coll, "error", err)
	}))

	return out, nil
}

func (s *Service) trackWatcher(coll Path, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchers == nil {
		s.watchers = make(map[Path]int)
	}
	s.watchers[coll] += delta
	if s.watchers[coll] <= 0 {
		delete(s.watchers, coll)
	}
}

// Close releases the repository when it holds resources.
func (s *Service) Close() error {
	if c, ok := s.repo.(Closer); ok {
		return c.Close()
	}
	return nil
}
