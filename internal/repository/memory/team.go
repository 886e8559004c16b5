package memory

import (
	"cmp"
	"context"

	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
)

type TeamRepo struct {
	d *db
}

func (r *TeamRepo) Create(_ context.Context, t *models.Team) (*models.Team, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if err := r.d.optUser(t.CreatedByID); err != nil {
		return nil, err
	}
	row := *t
	row.ID = r.d.id()
	row.Members = nil
	r.d.teams[row.ID] = row
	return &row, nil
}

func (r *TeamRepo) GetByID(_ context.Context, id int64) (*models.Team, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	t, ok := r.d.teams[id]
	if !ok {
		return nil, apperr.NotFound("team", id)
	}
	t.Members = r.d.membersOf(id)
	return &t, nil
}

func (r *TeamRepo) List(_ context.Context) ([]models.Team, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	teams := values(r.d.teams, nil, func(a, b models.Team) int { return cmp.Compare(a.ID, b.ID) })
	for i := range teams {
		teams[i].Members = r.d.membersOf(teams[i].ID)
	}
	return teams, nil
}

func (r *TeamRepo) Update(_ context.Context, t *models.Team) (*models.Team, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.teams[t.ID]; !ok {
		return nil, apperr.NotFound("team", t.ID)
	}
	if err := r.d.optUser(t.CreatedByID); err != nil {
		return nil, err
	}
	row := *t
	row.Members = nil
	r.d.teams[row.ID] = row
	return &row, nil
}

func (r *TeamRepo) Delete(_ context.Context, id int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.teams[id]; !ok {
		return apperr.NotFound("team", id)
	}
	r.d.deleteTeam(id)
	return nil
}

func (r *TeamRepo) AddMember(_ context.Context, teamID, userID int64, roleInTeam string) (*models.TeamMember, bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, ok := r.d.teams[teamID]; !ok {
		return nil, false, apperr.NotFound("team", 0)
	}
	if err := r.d.userExists(userID); err != nil {
		return nil, false, err
	}
	for _, m := range r.d.members {
		if m.TeamID == teamID && m.UserID == userID {
			return &m, false, nil
		}
	}
	m := models.TeamMember{ID: r.d.id(), TeamID: teamID, UserID: userID, RoleInTeam: roleInTeam}
	r.d.members[m.ID] = m
	return &m, true, nil
}

func (r *TeamRepo) RemoveMember(_ context.Context, teamID, userID int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for id, m := range r.d.members {
		if m.TeamID == teamID && m.UserID == userID {
			delete(r.d.members, id)
			return nil
		}
	}
	return apperr.NotFound("team member", 0)
}

func (r *TeamRepo) ListMembers(_ context.Context, teamID int64) ([]models.TeamMember, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	return r.d.membersOf(teamID), nil
}

func (d *db) membersOf(teamID int64) []models.TeamMember {
	return values(d.members,
		func(m models.TeamMember) bool { return m.TeamID == teamID },
		func(a, b models.TeamMember) int { return cmp.Compare(a.ID, b.ID) })
}
