package ledger

import (
	"context"

	"github.com/michael-berardi/harborform/internal/models"
	"github.com/michael-berardi/harborform/internal/store"
)

type Tasks struct {
	kv   store.TxKV
	opts Options
}

// List returns the tasks in insertion order, oldest first.
func (l *Tasks) List(ctx context.Context) ([]models.Task, error) {
	return store.ReadCollection[models.Task](ctx, l.kv, store.TasksKey)
}

// Create appends a pending task stamped with the current time. Fields are
// stored as given.
func (l *Tasks) Create(ctx context.Context, in models.NewTask) (models.Task, error) {
	task := models.Task{
		ID:          l.opts.NewID(),
		Title:       in.Title,
		Description: in.Description,
		Client:      in.Client,
		Property:    in.Property,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
		Status:      models.TaskPending,
		CreatedAt:   l.opts.Now(),
		Notes:       in.Notes,
	}

	err := l.kv.WithinTx(ctx, func(kv store.KV) error {
		tasks, err := store.ReadCollection[models.Task](ctx, kv, store.TasksKey)
		if err != nil {
			return err
		}
		return store.WriteCollection(ctx, kv, store.TasksKey, append(tasks, task))
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update applies the non-nil fields of patch to the task with the given id.
// found is false, and nothing is written, when no task matches.
func (l *Tasks) Update(ctx context.Context, id string, patch models.TaskPatch) (task models.Task, found bool, err error) {
	err = l.kv.WithinTx(ctx, func(kv store.KV) error {
		tasks, err := store.ReadCollection[models.Task](ctx, kv, store.TasksKey)
		if err != nil {
			return err
		}
		for i := range tasks {
			if tasks[i].ID != id {
				continue
			}
			l.apply(&tasks[i], patch)
			task, found = tasks[i], true
			return store.WriteCollection(ctx, kv, store.TasksKey, tasks)
		}
		return nil
	})
	if err != nil {
		return models.Task{}, false, err
	}
	return task, found, nil
}

func (l *Tasks) apply(t *models.Task, p models.TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Client != nil {
		t.Client = *p.Client
	}
	if p.Property != nil {
		t.Property = *p.Property
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.CompletedAt != nil {
		completed := *p.CompletedAt
		t.CompletedAt = &completed
	}
	if p.Status != nil {
		if *p.Status == models.TaskCompleted && t.Status != models.TaskCompleted && p.CompletedAt == nil {
			now := l.opts.Now()
			t.CompletedAt = &now
		}
		t.Status = *p.Status
	}
}

// Delete removes the task with the given id. Unknown ids are ignored.
func (l *Tasks) Delete(ctx context.Context, id string) error {
	return l.kv.WithinTx(ctx, func(kv store.KV) error {
		tasks, err := store.ReadCollection[models.Task](ctx, kv, store.TasksKey)
		if err != nil {
			return err
		}
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(tasks) {
			return nil
		}
		return store.WriteCollection(ctx, kv, store.TasksKey, kept)
	})
}
