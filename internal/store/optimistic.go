package store

import (
	"context"
	"slices"

	"github.com/opus-software/opus/internal/models"
)

// Lens focuses on one collection of the state.
type Lens[T any] struct {
	Get func(State) []T
	Set func(State, []T) State
}

// TasksLens focuses on State.Tasks.
var TasksLens = Lens[models.Task]{
	Get: func(s State) []models.Task { return s.Tasks },
	Set: func(s State, tasks []models.Task) State {
		s.Tasks = tasks
		return s
	},
}

// Optimistic applies mutate to the focused collection right away, then runs
// remote. If remote fails the collection is restored to exactly what it was
// before mutate and the error is returned.
func Optimistic[T any](ctx context.Context, st *Store, lens Lens[T], mutate func([]T) []T, remote func(context.Context) error) error {
	var snapshot []T
	st.Update(func(s State) State {
		snapshot = lens.Get(s)
		return lens.Set(s, mutate(slices.Clone(snapshot)))
	})

	if err := remote(ctx); err != nil {
		st.Update(func(s State) State {
			return lens.Set(s, snapshot)
		})
		return err
	}
	return nil
}
