package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
)

const memberColumns = `id, team_id, user_id, role_in_team`

func scanMember(row scanner) (*models.TeamMember, error) {
	var m models.TeamMember
	if err := row.Scan(&m.ID, &m.TeamID, &m.UserID, &m.RoleInTeam); err != nil {
		return nil, err
	}
	return &m, nil
}

// AddMember is an atomic insert-if-absent. ON CONFLICT DO NOTHING makes a
// concurrent duplicate a no-op instead of a unique violation; in that case
// RETURNING yields no row and we read back the stored membership.
func (s *TeamStore) AddMember(ctx context.Context, teamID, userID int64, roleInTeam string) (*models.TeamMember, bool, error) {
	insert := `
		INSERT INTO team_members (team_id, user_id, role_in_team)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING
		RETURNING ` + memberColumns

	m, err := scanMember(s.pool.QueryRow(ctx, insert, teamID, userID, roleInTeam))
	if err == nil {
		return m, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, wrap(err, "add member")
	}

	existing := `SELECT ` + memberColumns + ` FROM team_members WHERE team_id = $1 AND user_id = $2`
	m, err = scanMember(s.pool.QueryRow(ctx, existing, teamID, userID))
	if err != nil {
		return nil, false, fmt.Errorf("get existing member: %w", err)
	}
	return m, false, nil
}

func (s *TeamStore) RemoveMember(ctx context.Context, teamID, userID int64) error {
	query := `
		DELETE FROM team_members
		WHERE team_id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, teamID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("team member", 0)
	}
	return nil
}

func (s *TeamStore) ListMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM team_members
		WHERE team_id = $1
		ORDER BY id`
	return list(ctx, s.pool, "members", query, scanMember, teamID)
}
