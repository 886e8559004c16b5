package memory

import (
	"cmp"
	"context"

	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
)

type ProblemRepo struct {
	d *db
}

func (d *db) problemRefs(p *models.Problem) error {
	if err := d.userExists(p.DeclaredByID); err != nil {
		return err
	}
	return d.optTeam(p.TeamID)
}

func (r *ProblemRepo) Create(_ context.Context, p *models.Problem) (*models.Problem, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if err := r.d.problemRefs(p); err != nil {
		return nil, err
	}
	row := *p
	row.ID = r.d.id()
	row.Photos = cloneStrings(p.Photos)
	r.d.problems[row.ID] = row
	return copyProblem(row), nil
}

func (r *ProblemRepo) GetByID(_ context.Context, id int64) (*models.Problem, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	p, ok := r.d.problems[id]
	if !ok {
		return nil, apperr.NotFound("problem", id)
	}
	return copyProblem(p), nil
}

func (r *ProblemRepo) List(_ context.Context) ([]models.Problem, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	out := values(r.d.problems, nil, func(a, b models.Problem) int {
		if c := b.DeclaredOn.Compare(a.DeclaredOn.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	for i := range out {
		out[i].Photos = cloneStrings(out[i].Photos)
	}
	return out, nil
}

func (r *ProblemRepo) Update(_ context.Context, p *models.Problem) (*models.Problem, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.problems[p.ID]; !ok {
		return nil, apperr.NotFound("problem", p.ID)
	}
	if err := r.d.problemRefs(p); err != nil {
		return nil, err
	}
	row := *p
	row.Photos = cloneStrings(p.Photos)
	r.d.problems[row.ID] = row
	return copyProblem(row), nil
}

func (r *ProblemRepo) Delete(_ context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.problems[id]; !ok {
		return apperr.NotFound("problem", id)
	}
	r.d.deleteProblem(id)
	return nil
}

func (r *ProblemRepo) UpdateStatus(_ context.Context, id int64, status models.ProblemStatus, performedBy int64) (*models.Problem, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	p, ok := r.d.problems[id]
	if !ok {
		return nil, apperr.NotFound("problem", id)
	}
	if err := r.d.userExists(performedBy); err != nil {
		return nil, err
	}
	p.Status = status
	r.d.problems[id] = p
	r.d.appendHistory(id, nil, models.ProblemStatusMessage(status), performedBy)
	return copyProblem(p), nil
}

func copyProblem(p models.Problem) *models.Problem {
	p.Photos = cloneStrings(p.Photos)
	return &p
}
