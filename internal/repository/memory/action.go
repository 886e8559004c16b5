package memory

import (
	"cmp"
	"context"

	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
)

type ActionRepo struct {
	d *db
}

func (d *db) actionRefs(a *models.Action) error {
	if err := d.stepExists(a.StepID); err != nil {
		return err
	}
	return d.optUser(a.AssignedToID)
}

// byActionOrder sorts by step, then due date with undated actions last.
func byActionOrder(a, b models.Action) int {
	if c := cmp.Compare(a.StepID, b.StepID); c != 0 {
		return c
	}
	switch {
	case a.DateDue == nil && b.DateDue != nil:
		return 1
	case a.DateDue != nil && b.DateDue == nil:
		return -1
	case a.DateDue != nil && b.DateDue != nil:
		if c := a.DateDue.Compare(b.DateDue.Time); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}

func (r *ActionRepo) Create(_ context.Context, a *models.Action) (*models.Action, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if err := r.d.actionRefs(a); err != nil {
		return nil, err
	}
	row := *a
	row.ID = r.d.id()
	row.Proof = cloneStrings(a.Proof)
	r.d.actions[row.ID] = row
	return copyAction(row), nil
}

func (r *ActionRepo) GetByID(_ context.Context, id int64) (*models.Action, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	a, ok := r.d.actions[id]
	if !ok {
		return nil, apperr.NotFound("action", id)
	}
	return copyAction(a), nil
}

func (r *ActionRepo) List(_ context.Context) ([]models.Action, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	return cloneActions(values(r.d.actions, nil, byActionOrder)), nil
}

func (r *ActionRepo) ListByStep(_ context.Context, stepID int64) ([]models.Action, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	out := values(r.d.actions,
		func(a models.Action) bool { return a.StepID == stepID },
		func(a, b models.Action) int { return cmp.Compare(a.ID, b.ID) })
	return cloneActions(out), nil
}

func (r *ActionRepo) Update(_ context.Context, a *models.Action) (*models.Action, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.actions[a.ID]; !ok {
		return nil, apperr.NotFound("action", a.ID)
	}
	if err := r.d.actionRefs(a); err != nil {
		return nil, err
	}
	row := *a
	row.Proof = cloneStrings(a.Proof)
	r.d.actions[row.ID] = row
	return copyAction(row), nil
}

func (r *ActionRepo) Delete(_ context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.actions[id]; !ok {
		return apperr.NotFound("action", id)
	}
	delete(r.d.actions, id)
	return nil
}

func (r *ActionRepo) UpdateStatus(_ context.Context, id int64, status models.ActionStatus, performedBy int64) (*models.Action, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	a, ok := r.d.actions[id]
	if !ok {
		return nil, apperr.NotFound("action", id)
	}
	if err := r.d.userExists(performedBy); err != nil {
		return nil, err
	}
	a.Status = status
	r.d.actions[id] = a
	stepID := a.StepID
	r.d.appendHistory(r.d.steps[a.StepID].ProblemID, &stepID, models.ActionStatusMessage(status), performedBy)
	return copyAction(a), nil
}

func copyAction(a models.Action) *models.Action {
	a.Proof = cloneStrings(a.Proof)
	return &a
}

func cloneActions(actions []models.Action) []models.Action {
	for i := range actions {
		actions[i].Proof = cloneStrings(actions[i].Proof)
	}
	return actions
}
