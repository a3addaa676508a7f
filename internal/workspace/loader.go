package workspace

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/opus-software/opus/internal/models"
	"github.com/opus-software/opus/internal/normalize"
	"github.com/opus-software/opus/internal/store"
)

// Loader phases
const (
	PhaseSpaces   = "spaces"
	PhaseLabels   = "labels"
	PhaseProjects = "projects"
	PhaseEpics    = "epics"
	PhaseTasks    = "tasks"
	PhaseUsers    = "users"
)

// Failure is one fetch that failed during Load.
type Failure struct {
	Phase    string
	ParentID string
	Err      error
}

// LoadReport summarises a Load. Failures is empty when every fetch
// succeeded; label failures are not recorded.
type LoadReport struct {
	CompanyID string
	Spaces    int
	Labels    int
	Projects  int
	Epics     int
	Tasks     int
	Users     int
	Failures  []Failure
}

// Partial reports whether some data could not be fetched.
func (r LoadReport) Partial() bool { return len(r.Failures) > 0 }

type loadRun struct {
	w      *Workspace
	mu     sync.Mutex
	report LoadReport
}

func (r *loadRun) failed(phase, parentID string, err error) {
	r.w.log.Error("load phase failed",
		zap.String("phase", phase),
		zap.String("company_id", r.report.CompanyID),
		zap.String("parent_id", parentID),
		zap.Error(err),
	)
	r.mu.Lock()
	r.report.Failures = append(r.report.Failures, Failure{Phase: phase, ParentID: parentID, Err: err})
	r.mu.Unlock()
}

// Load replaces the state with the company's hierarchy, fetched in order:
// spaces, then labels and projects, then epics per project, tasks per epic
// and finally users. A failed fetch leaves its collection empty and is
// recorded in the report; loading carries on. IsLoaded is set once every
// phase has run, failed fetches included. Earned badges survive a reload.
//
// The returned error is non-nil only when ctx is cancelled, in which case
// IsLoaded stays false.
func (w *Workspace) Load(ctx context.Context) (LoadReport, error) {
	companyID := w.company.ID
	run := &loadRun{w: w, report: LoadReport{CompanyID: companyID}}

	w.store.Update(func(s store.State) store.State {
		fresh := store.Empty(companyID)
		if s.CompanyID == companyID {
			fresh.UserBadges = s.UserBadges
		}
		return fresh
	})

	w.log.Debug("load started", zap.String("company_id", companyID))

	// 1. spaces
	var spaces []models.Space
	if raws, err := w.remote.ListSpaces(ctx, companyID); err != nil {
		run.failed(PhaseSpaces, companyID, err)
	} else {
		spaces = normalize.All(raws, normalize.Space)
		w.store.Dispatch(store.SetSpaces{Spaces: spaces})
	}
	if err := ctx.Err(); err != nil {
		return run.report, err
	}

	// 2 and 3. labels per space alongside the company's projects
	var (
		labels   []models.Label
		projects []models.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		labels = w.loadLabels(gctx, spaces)
		return nil
	})
	g.Go(func() error {
		raws, err := w.remote.ListProjects(gctx, companyID)
		if err != nil {
			run.failed(PhaseProjects, companyID, err)
			return nil
		}
		projects = normalize.All(raws, normalize.Project)
		return nil
	})
	_ = g.Wait()
	w.store.Dispatch(store.SetLabels{Labels: labels}, store.SetProjects{Projects: projects})
	if err := ctx.Err(); err != nil {
		return run.report, err
	}

	// 4. epics per project
	epics := fanOut(ctx, w.fanOut, projects, func(ctx context.Context, p models.Project) ([]models.Epic, error) {
		raws, err := w.remote.ListEpics(ctx, p.ID)
		if err != nil {
			run.failed(PhaseEpics, p.ID, err)
			return nil, err
		}
		return normalize.All(raws, normalize.Epic), nil
	})
	w.store.Dispatch(store.SetEpics{Epics: epics})
	if err := ctx.Err(); err != nil {
		return run.report, err
	}

	// 5. tasks per epic
	var tasks []models.Task
	if len(epics) > 0 {
		tasks = fanOut(ctx, w.fanOut, epics, func(ctx context.Context, e models.Epic) ([]models.Task, error) {
			raws, err := w.remote.ListTasks(ctx, e.ID)
			if err != nil {
				run.failed(PhaseTasks, e.ID, err)
				return nil, err
			}
			return normalize.All(raws, normalize.Task), nil
		})
		w.store.Dispatch(store.SetTasks{Tasks: tasks})
	}
	if err := ctx.Err(); err != nil {
		return run.report, err
	}

	// 6. users
	var users []models.User
	if raws, err := w.remote.ListUsers(ctx, companyID); err != nil {
		run.failed(PhaseUsers, companyID, err)
	} else {
		users = normalize.All(raws, normalize.User)
		w.store.Dispatch(store.SetUsers{Users: users})
	}
	if err := ctx.Err(); err != nil {
		return run.report, err
	}

	run.report.Spaces = len(spaces)
	run.report.Labels = len(labels)
	run.report.Projects = len(projects)
	run.report.Epics = len(epics)
	run.report.Tasks = len(tasks)
	run.report.Users = len(users)

	w.log.Info("load finished",
		zap.String("company_id", companyID),
		zap.Int("spaces", run.report.Spaces),
		zap.Int("projects", run.report.Projects),
		zap.Int("epics", run.report.Epics),
		zap.Int("tasks", run.report.Tasks),
		zap.Int("users", run.report.Users),
		zap.Int("failures", len(run.report.Failures)),
	)
	w.store.Dispatch(store.MarkLoaded{})
	return run.report, nil
}

// loadLabels fetches the labels of every space. Failures are skipped.
func (w *Workspace) loadLabels(ctx context.Context, spaces []models.Space) []models.Label {
	return fanOut(ctx, w.fanOut, spaces, func(ctx context.Context, s models.Space) ([]models.Label, error) {
		raws, err := w.remote.ListLabels(ctx, s.ID)
		if err != nil {
			w.log.Debug("labels unavailable", zap.String("space_id", s.ID), zap.Error(err))
			return nil, err
		}
		return normalize.All(raws, normalize.Label), nil
	})
}

// fanOut runs fetch for every parent with at most limit in flight. A failed
// parent contributes nothing and does not stop its siblings. Results keep
// parent order and are deduplicated.
func fanOut[P any, T models.Identifiable](ctx context.Context, limit int, parents []P, fetch func(context.Context, P) ([]T, error)) []T {
	results := make([][]T, len(parents))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, p := range parents {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			items, err := fetch(ctx, p)
			if err == nil {
				results[i] = items
			}
			return nil
		})
	}
	_ = g.Wait()

	var all []T
	for _, items := range results {
		all = append(all, items...)
	}
	return normalize.Dedupe(all)
}
