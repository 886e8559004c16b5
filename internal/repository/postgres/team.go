package postgres

import (
	"context"
	"fmt"

	"github.com/lalith-99/eightd/internal/models"
)

type TeamStore struct {
	pool DB
}

func NewTeamStore(pool DB) *TeamStore {
	return &TeamStore{pool: pool}
}

const teamColumns = `id, name, created_on, created_by_id`

func scanTeam(row scanner) (*models.Team, error) {
	var t models.Team
	if err := row.Scan(&t.ID, &t.Name, &t.CreatedOn, &t.CreatedByID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TeamStore) Create(ctx context.Context, t *models.Team) (*models.Team, error) {
	query := `
		INSERT INTO teams (name, created_on, created_by_id)
		VALUES ($1, $2, $3)
		RETURNING ` + teamColumns

	created, err := scanTeam(s.pool.QueryRow(ctx, query, t.Name, t.CreatedOn, t.CreatedByID))
	return one(created, err, "team", 0, "insert")
}

// GetByID returns the team with its members filled in.
func (s *TeamStore) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	t, err := scanTeam(s.pool.QueryRow(ctx, query, id))
	if t, err = one(t, err, "team", id, "get"); err != nil {
		return nil, err
	}
	members, err := s.ListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get team members: %w", err)
	}
	t.Members = members
	return t, nil
}

// List returns every team with its members, using one query for teams and
// one for all memberships.
func (s *TeamStore) List(ctx context.Context) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY id`
	teams, err := list(ctx, s.pool, "teams", query, scanTeam)
	if err != nil {
		return nil, err
	}

	membersQuery := `SELECT ` + memberColumns + ` FROM team_members ORDER BY team_id, id`
	members, err := list(ctx, s.pool, "members", membersQuery, scanMember)
	if err != nil {
		return nil, err
	}
	byTeam := make(map[int64][]models.TeamMember, len(teams))
	for _, m := range members {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], m)
	}
	for i := range teams {
		teams[i].Members = byTeam[teams[i].ID]
	}
	return teams, nil
}

func (s *TeamStore) Update(ctx context.Context, t *models.Team) (*models.Team, error) {
	query := `
		UPDATE teams
		SET name = $2, created_on = $3, created_by_id = $4
		WHERE id = $1
		RETURNING ` + teamColumns

	updated, err := scanTeam(s.pool.QueryRow(ctx, query, t.ID, t.Name, t.CreatedOn, t.CreatedByID))
	return one(updated, err, "team", t.ID, "update")
}

// Delete removes the team; memberships cascade and problems lose their team.
func (s *TeamStore) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.pool, "teams", "team", id)
}
