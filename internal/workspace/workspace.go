// Package workspace loads a company's work hierarchy from the remote API
// into a store and is the only path through which that state is mutated.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/store"
)

var (
	// ErrNotFound is returned when an entity is not held in local state.
	ErrNotFound = errors.New("not found")

	// ErrProjectUnresolved is returned when an epic operation cannot tell
	// which project the epic belongs to.
	ErrProjectUnresolved = errors.New("epic project could not be resolved")

	// ErrInvalidInput is returned for input rejected before any request.
	ErrInvalidInput = errors.New("invalid input")
)

// Remote is the subset of the API client used by the workspace.
type Remote interface {
	ListSpaces(ctx context.Context, companyID string) ([]map[string]any, error)
	CreateSpace(ctx context.Context, payload map[string]any) (map[string]any, error)
	UpdateSpace(ctx context.Context, companyID, id string, payload map[string]any) (map[string]any, error)
	DeleteSpace(ctx context.Context, companyID, id string) error

	ListProjects(ctx context.Context, companyID string) ([]map[string]any, error)
	CreateProject(ctx context.Context, payload map[string]any) (map[string]any, error)
	UpdateProject(ctx context.Context, companyID, id string, payload map[string]any) (map[string]any, error)
	DeleteProject(ctx context.Context, companyID, id string) error

	ListEpics(ctx context.Context, projectID string) ([]map[string]any, error)
	CreateEpic(ctx context.Context, payload map[string]any) (map[string]any, error)
	UpdateEpic(ctx context.Context, projectID, id string, payload map[string]any) (map[string]any, error)
	DeleteEpic(ctx context.Context, projectID, id string) error

	ListTasks(ctx context.Context, epicID string) ([]map[string]any, error)
	GetTask(ctx context.Context, id string) (map[string]any, error)
	CreateTask(ctx context.Context, payload map[string]any) (map[string]any, error)
	UpdateTask(ctx context.Context, id string, payload map[string]any) (map[string]any, error)
	DeleteTask(ctx context.Context, id string) error

	ListUsers(ctx context.Context, companyID string) ([]map[string]any, error)
	GetUser(ctx context.Context, companyID, id string) (map[string]any, error)
	CreateUser(ctx context.Context, payload map[string]any) (map[string]any, error)
	UpdateUser(ctx context.Context, companyID, id string, payload map[string]any) (map[string]any, error)
	DeleteUser(ctx context.Context, companyID, id string) error

	ListLabels(ctx context.Context, spaceID string) ([]map[string]any, error)
	CreateLabel(ctx context.Context, payload map[string]any) (map[string]any, error)
}

// DefaultFanOut bounds concurrent per-parent fetches while loading.
const DefaultFanOut = 8

// Workspace binds a remote to a store for one selected company.
type Workspace struct {
	remote  Remote
	store   *store.Store
	log     *zap.Logger
	now     func() time.Time
	fanOut  int
	company models.Company
}

// Option configures a Workspace.
type Option func(*Workspace)

func WithLogger(log *zap.Logger) Option {
	return func(w *Workspace) {
		if log != nil {
			w.log = log
		}
	}
}

// WithClock overrides the time source used for badge timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		if now != nil {
			w.now = now
		}
	}
}

func WithFanOut(n int) Option {
	return func(w *Workspace) {
		if n > 0 {
			w.fanOut = n
		}
	}
}

// WithCompany selects the company by id or slug. Unknown values keep the
// default company.
func WithCompany(idOrSlug string) Option {
	return func(w *Workspace) {
		if c, ok := models.FindCompany(idOrSlug); ok {
			w.company = c
		}
	}
}

// New creates a workspace. A nil store is replaced by an empty one.
func New(remote Remote, st *store.Store, opts ...Option) *Workspace {
	def, _ := models.FindCompany("")
	w := &Workspace{
		remote:  remote,
		store:   st,
		log:     zap.NewNop(),
		now:     time.Now,
		fanOut:  DefaultFanOut,
		company: def,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.Named("workspace")

	if w.store == nil {
		w.store = store.New(w.company.ID)
	} else if w.store.State().CompanyID != w.company.ID {
		w.store.Dispatch(store.Reset{CompanyID: w.company.ID})
	}
	return w
}

func (w *Workspace) Store() *store.Store     { return w.store }
func (w *Workspace) State() store.State      { return w.store.State() }
func (w *Workspace) Company() models.Company { return w.company }

// SelectCompany switches to another company and clears the state. The
// caller is expected to Load again.
func (w *Workspace) SelectCompany(idOrSlug string) (models.Company, error) {
	c, ok := models.FindCompany(idOrSlug)
	if !ok {
		return w.company, fmt.Errorf("company %q: %w", idOrSlug, ErrNotFound)
	}
	w.company = c
	w.store.Dispatch(store.Reset{CompanyID: c.ID})
	w.log.Info("company selected", zap.String("company_id", c.ID))
	return c, nil
}

// fail logs a failed mutation and returns err wrapped with what was being
// done.
func (w *Workspace) fail(op, entity, id string, err error) error {
	w.log.Error(op+" failed",
		zap.String("entity", entity),
		zap.String("id", id),
		zap.String("company_id", w.company.ID),
		zap.Error(err),
	)
	if id == "" {
		return fmt.Errorf("%s %s: %w", op, entity, err)
	}
	return fmt.Errorf("%s %s %s: %w", op, entity, id, err)
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
