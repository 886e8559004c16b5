package memory

import (
	"cmp"
	"context"

	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
)

type StepRepo struct {
	d *db
}

// stepRefs checks the foreign keys and the (problem_id, step_number) key.
func (d *db) stepRefs(s *models.Step) error {
	if err := d.problemExists(s.ProblemID); err != nil {
		return err
	}
	if err := d.optUser(s.AssignedToID); err != nil {
		return err
	}
	for _, other := range d.steps {
		if other.ID != s.ID && other.ProblemID == s.ProblemID && other.StepNumber == s.StepNumber {
			return duplicate("step_number")
		}
	}
	return nil
}

func byStepOrder(a, b models.Step) int {
	if c := cmp.Compare(a.ProblemID, b.ProblemID); c != 0 {
		return c
	}
	return cmp.Compare(a.StepNumber, b.StepNumber)
}

func (r *StepRepo) Create(_ context.Context, s *models.Step) (*models.Step, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	row := *s
	row.ID = 0
	if err := r.d.stepRefs(&row); err != nil {
		return nil, err
	}
	row.ID = r.d.id()
	row.Proof = cloneStrings(s.Proof)
	r.d.steps[row.ID] = row
	return copyStep(row), nil
}

func (r *StepRepo) GetByID(_ context.Context, id int64) (*models.Step, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	s, ok := r.d.steps[id]
	if !ok {
		return nil, apperr.NotFound("step", id)
	}
	return copyStep(s), nil
}

func (r *StepRepo) List(_ context.Context) ([]models.Step, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	return cloneSteps(values(r.d.steps, nil, byStepOrder)), nil
}

func (r *StepRepo) ListByProblem(_ context.Context, problemID int64) ([]models.Step, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	keep := func(s models.Step) bool { return s.ProblemID == problemID }
	return cloneSteps(values(r.d.steps, keep, byStepOrder)), nil
}

func (r *StepRepo) Update(_ context.Context, s *models.Step) (*models.Step, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.steps[s.ID]; !ok {
		return nil, apperr.NotFound("step", s.ID)
	}
	if err := r.d.stepRefs(s); err != nil {
		return nil, err
	}
	row := *s
	row.Proof = cloneStrings(s.Proof)
	r.d.steps[row.ID] = row
	return copyStep(row), nil
}

func (r *StepRepo) Delete(_ context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.steps[id]; !ok {
		return apperr.NotFound("step", id)
	}
	r.d.deleteStep(id)
	return nil
}

func (r *StepRepo) UpdateStatus(_ context.Context, id int64, status models.StepStatus, performedBy int64) (*models.Step, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	s, ok := r.d.steps[id]
	if !ok {
		return nil, apperr.NotFound("step", id)
	}
	if err := r.d.userExists(performedBy); err != nil {
		return nil, err
	}
	s.Status = status
	r.d.steps[id] = s
	stepID := s.ID
	r.d.appendHistory(s.ProblemID, &stepID, models.StepStatusMessage(s.StepNumber, status), performedBy)
	return copyStep(s), nil
}

// Initialize holds the write lock across the check and the inserts, so
// concurrent calls for the same problem cannot both succeed.
func (r *StepRepo) Initialize(_ context.Context, problemID int64) ([]models.Step, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.problems[problemID]; !ok {
		return nil, apperr.NotFound("problem", problemID)
	}
	for _, s := range r.d.steps {
		if s.ProblemID == problemID {
			return nil, apperr.Validationf("Steps already initialized")
		}
	}

	out := make([]models.Step, 0, models.StepCount)
	for _, s := range models.CanonicalSteps(problemID) {
		s.ID = r.d.id()
		r.d.steps[s.ID] = s
		out = append(out, *copyStep(s))
	}
	return out, nil
}

func copyStep(s models.Step) *models.Step {
	s.Proof = cloneStrings(s.Proof)
	return &s
}

func cloneSteps(steps []models.Step) []models.Step {
	for i := range steps {
		steps[i].Proof = cloneStrings(steps[i].Proof)
	}
	return steps
}
