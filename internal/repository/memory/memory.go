// Package memory implements the repository interfaces over in-process maps.
// It backs STORE_DRIVER=memory and the handler tests, and mirrors the
// Postgres schema's constraints: unique keys, foreign keys and the same
// cascade rules on delete.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/lalith-99/eightd/internal/repository"
)

// db is shared by every repository of one Store. A single lock keeps the
// cross-table checks and cascades consistent.
type db struct {
	mu     sync.RWMutex
	nextID int64
	now    func() time.Time

	users         map[int64]models.User
	teams         map[int64]models.Team
	members       map[int64]models.TeamMember
	problems      map[int64]models.Problem
	steps         map[int64]models.Step
	actions       map[int64]models.Action
	notifications map[int64]models.Notification
	history       map[int64]models.History
}

// Option configures a memory Store.
type Option func(*db)

// WithClock replaces time.Now for created_at and performed_at.
func WithClock(now func() time.Time) Option {
	return func(d *db) { d.now = now }
}

// NewStore returns an empty Store.
func NewStore(opts ...Option) *repository.Store {
	d := &db{
		now:           time.Now,
		users:         map[int64]models.User{},
		teams:         map[int64]models.Team{},
		members:       map[int64]models.TeamMember{},
		problems:      map[int64]models.Problem{},
		steps:         map[int64]models.Step{},
		actions:       map[int64]models.Action{},
		notifications: map[int64]models.Notification{},
		history:       map[int64]models.History{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return &repository.Store{
		Users:         &UserRepo{d},
		Teams:         &TeamRepo{d},
		Problems:      &ProblemRepo{d},
		Steps:         &StepRepo{d},
		Actions:       &ActionRepo{d},
		Notifications: &NotificationRepo{d},
		History:       &HistoryRepo{d},
		Ping:          func(context.Context) error { return nil },
	}
}

// id hands out one sequence for every table. Callers hold the write lock.
func (d *db) id() int64 {
	d.nextID++
	return d.nextID
}

func duplicate(field string) error {
	return apperr.Validation(field, "a record with this "+field+" already exists")
}

// Foreign-key checks. Callers hold the lock.

func (d *db) userExists(id int64) error {
	if _, ok := d.users[id]; !ok {
		return apperr.NotFound("user", 0)
	}
	return nil
}

func (d *db) optUser(id *int64) error {
	if id == nil {
		return nil
	}
	return d.userExists(*id)
}

func (d *db) optTeam(id *int64) error {
	if id == nil {
		return nil
	}
	if _, ok := d.teams[*id]; !ok {
		return apperr.NotFound("team", 0)
	}
	return nil
}

func (d *db) problemExists(id int64) error {
	if _, ok := d.problems[id]; !ok {
		return apperr.NotFound("problem", 0)
	}
	return nil
}

func (d *db) stepExists(id int64) error {
	if _, ok := d.steps[id]; !ok {
		return apperr.NotFound("step", 0)
	}
	return nil
}

func (d *db) appendHistory(problemID int64, stepID *int64, action string, performedBy int64) {
	id := d.id()
	d.history[id] = models.History{
		ID:            id,
		ProblemID:     problemID,
		StepID:        stepID,
		Action:        action,
		PerformedByID: performedBy,
		PerformedAt:   d.now(),
	}
}

// Cascades. Each delete* removes the row and everything that references it
// with ON DELETE CASCADE, and nulls the ON DELETE SET NULL columns.

func (d *db) deleteUser(id int64) {
	delete(d.users, id)
	for mid, m := range d.members {
		if m.UserID == id {
			delete(d.members, mid)
		}
	}
	for tid, t := range d.teams {
		if t.CreatedByID != nil && *t.CreatedByID == id {
			d.deleteTeam(tid)
		}
	}
	for pid, p := range d.problems {
		if p.DeclaredByID == id {
			d.deleteProblem(pid)
		}
	}
	for sid, s := range d.steps {
		if s.AssignedToID != nil && *s.AssignedToID == id {
			s.AssignedToID = nil
			d.steps[sid] = s
		}
	}
	for aid, a := range d.actions {
		if a.AssignedToID != nil && *a.AssignedToID == id {
			a.AssignedToID = nil
			d.actions[aid] = a
		}
	}
	for nid, n := range d.notifications {
		if n.UserID == id {
			delete(d.notifications, nid)
		}
	}
	for hid, h := range d.history {
		if h.PerformedByID == id {
			delete(d.history, hid)
		}
	}
}

func (d *db) deleteTeam(id int64) {
	delete(d.teams, id)
	for mid, m := range d.members {
		if m.TeamID == id {
			delete(d.members, mid)
		}
	}
	for pid, p := range d.problems {
		if p.TeamID != nil && *p.TeamID == id {
			p.TeamID = nil
			d.problems[pid] = p
		}
	}
}

func (d *db) deleteProblem(id int64) {
	delete(d.problems, id)
	for sid, s := range d.steps {
		if s.ProblemID == id {
			d.deleteStep(sid)
		}
	}
	for nid, n := range d.notifications {
		if n.ProblemID != nil && *n.ProblemID == id {
			delete(d.notifications, nid)
		}
	}
	for hid, h := range d.history {
		if h.ProblemID == id {
			delete(d.history, hid)
		}
	}
}

func (d *db) deleteStep(id int64) {
	delete(d.steps, id)
	for aid, a := range d.actions {
		if a.StepID == id {
			delete(d.actions, aid)
		}
	}
	for nid, n := range d.notifications {
		if n.StepID != nil && *n.StepID == id {
			delete(d.notifications, nid)
		}
	}
	for hid, h := range d.history {
		if h.StepID != nil && *h.StepID == id {
			delete(d.history, hid)
		}
	}
}

// values returns the map's rows sorted by cmp. The result is never nil.
func values[T any](m map[int64]T, keep func(T) bool, cmp func(a, b T) int) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, cmp)
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
