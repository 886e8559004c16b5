package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var (
	memberCols  = []string{"id", "team_id", "user_id", "role_in_team"}
	teamCols    = []string{"id", "name", "created_on", "created_by_id"}
	problemCols = []string{"id", "title", "description", "declared_on", "declared_by_id", "team_id", "status", "level",
		"qq_who", "qq_what", "qq_where", "qq_when", "qq_how", "qq_how_much", "qq_why", "photos"}
	stepCols   = []string{"id", "problem_id", "step_number", "description", "assigned_to_id", "date_start", "date_end", "status", "proof"}
	actionCols = []string{"id", "step_id", "description", "assigned_to_id", "status", "date_due", "proof"}
)

func problemRow(mock pgxmock.PgxPoolIface, id int64, status models.ProblemStatus) *pgxmock.Rows {
	return mock.NewRows(problemCols).AddRow(
		id, "Fuite d'huile", "Presse 3", models.NewDate(2025, 3, 1), int64(1), nil, status, models.LevelLine,
		nil, nil, nil, nil, nil, nil, nil, []string{},
	)
}

func TestAddMemberInsertsNewRow(t *testing.T) {
	mock := newMock(t)
	store := NewTeamStore(mock)

	mock.ExpectQuery("INSERT INTO team_members").
		WithArgs(int64(4), int64(7), "Animateur").
		WillReturnRows(mock.NewRows(memberCols).AddRow(int64(11), int64(4), int64(7), "Animateur"))

	m, created, err := store.AddMember(context.Background(), 4, 7, "Animateur")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.TeamMember{ID: 11, TeamID: 4, UserID: 7, RoleInTeam: "Animateur"}, *m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberReadsBackExistingRow(t *testing.T) {
	mock := newMock(t)
	store := NewTeamStore(mock)

	// ON CONFLICT DO NOTHING returns no row for a duplicate.
	mock.ExpectQuery("INSERT INTO team_members").
		WithArgs(int64(4), int64(7), "Pilote").
		WillReturnRows(mock.NewRows(memberCols))
	mock.ExpectQuery("SELECT id, team_id, user_id, role_in_team FROM team_members WHERE team_id").
		WithArgs(int64(4), int64(7)).
		WillReturnRows(mock.NewRows(memberCols).AddRow(int64(11), int64(4), int64(7), "Animateur"))

	m, created, err := store.AddMember(context.Background(), 4, 7, "Pilote")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Animateur", m.RoleInTeam, "stored role is kept")
	assert.Equal(t, int64(11), m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberUnknownTeam(t *testing.T) {
	mock := newMock(t)
	store := NewTeamStore(mock)

	mock.ExpectQuery("INSERT INTO team_members").
		WithArgs(int64(99), int64(7), "").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "team_members_team_id_fkey"})

	_, _, err := store.AddMember(context.Background(), 99, 7, "")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProblemUpdateStatusWritesHistory(t *testing.T) {
	mock := newMock(t)
	store := NewProblemStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE problems SET status").
		WithArgs(int64(5), models.ProblemInProgress).
		WillReturnRows(problemRow(mock, 5, models.ProblemInProgress))
	mock.ExpectExec("INSERT INTO history").
		WithArgs(int64(5), pgxmock.AnyArg(), "Statut changé en: En cours", int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	p, err := store.UpdateStatus(context.Background(), 5, models.ProblemInProgress, 2)
	require.NoError(t, err)
	assert.Equal(t, models.ProblemInProgress, p.Status)
	assert.Equal(t, []string{}, p.Photos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProblemUpdateStatusUnknownPerformerRollsBack(t *testing.T) {
	mock := newMock(t)
	store := NewProblemStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE problems SET status").
		WithArgs(int64(5), models.ProblemClosed).
		WillReturnRows(problemRow(mock, 5, models.ProblemClosed))
	mock.ExpectExec("INSERT INTO history").
		WithArgs(int64(5), pgxmock.AnyArg(), "Statut changé en: Clôturé", int64(404)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "history_performed_by_id_fkey"})
	mock.ExpectRollback()

	_, err := store.UpdateStatus(context.Background(), 5, models.ProblemClosed, 404)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProblemUpdateStatusUnknownProblem(t *testing.T) {
	mock := newMock(t)
	store := NewProblemStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE problems SET status").
		WithArgs(int64(77), models.ProblemClosed).
		WillReturnRows(mock.NewRows(problemCols))
	mock.ExpectRollback()

	_, err := store.UpdateStatus(context.Background(), 77, models.ProblemClosed, 1)
	assert.EqualError(t, err, "problem 77 not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStepUpdateStatusWritesHistory(t *testing.T) {
	mock := newMock(t)
	store := NewStepStore(mock)

	stepID := int64(31)
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE steps SET status").
		WithArgs(stepID, models.StepDone).
		WillReturnRows(mock.NewRows(stepCols).AddRow(
			stepID, int64(5), 4, "Analyse des causes racines", nil, nil, nil, models.StepDone, []string{"5M.pdf"},
		))
	mock.ExpectExec("INSERT INTO history").
		WithArgs(int64(5), &stepID, "Étape D4 - Statut changé en: Terminé", int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	st, err := store.UpdateStatus(context.Background(), stepID, models.StepDone, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, st.StepNumber)
	assert.Equal(t, []string{"5M.pdf"}, st.Proof)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionUpdateStatusWritesHistoryForOwningProblem(t *testing.T) {
	mock := newMock(t)
	store := NewActionStore(mock)

	stepID := int64(31)
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE actions SET status").
		WithArgs(int64(8), models.ActionValidated).
		WillReturnRows(mock.NewRows(actionCols).AddRow(
			int64(8), stepID, "Remplacer le joint", nil, models.ActionValidated, nil, nil,
		))
	mock.ExpectQuery("SELECT problem_id FROM steps").
		WithArgs(stepID).
		WillReturnRows(mock.NewRows([]string{"problem_id"}).AddRow(int64(5)))
	mock.ExpectExec("INSERT INTO history").
		WithArgs(int64(5), &stepID, "Action mise à jour - Statut: Validé", int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	a, err := store.UpdateStatus(context.Background(), 8, models.ActionValidated, 2)
	require.NoError(t, err)
	assert.Equal(t, models.ActionValidated, a.Status)
	assert.Equal(t, []string{}, a.Proof)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitializeLocksProblemAndInsertsEightSteps(t *testing.T) {
	mock := newMock(t)
	store := NewStepStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM problems WHERE id = .+ FOR UPDATE").
		WithArgs(int64(5)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(5)).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(false))
	for i, title := range models.CanonicalStepTitles {
		number := i + 1
		mock.ExpectQuery("INSERT INTO steps").
			WithArgs(int64(5), number, title, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), models.StepNotStarted, pgxmock.AnyArg()).
			WillReturnRows(mock.NewRows(stepCols).AddRow(
				int64(100+number), int64(5), number, title, nil, nil, nil, models.StepNotStarted, []string{},
			))
	}
	mock.ExpectCommit()

	steps, err := store.Initialize(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, steps, models.StepCount)
	for i, st := range steps {
		assert.Equal(t, i+1, st.StepNumber)
		assert.Equal(t, models.StepNotStarted, st.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitializeTwiceFails(t *testing.T) {
	mock := newMock(t)
	store := NewStepStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(5)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(5)))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(5)).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := store.Initialize(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.EqualError(t, err, "Steps already initialized")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitializeUnknownProblem(t *testing.T) {
	mock := newMock(t)
	store := NewStepStore(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(42)).
		WillReturnRows(mock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := store.Initialize(context.Background(), 42)
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamListFillsMembers(t *testing.T) {
	mock := newMock(t)
	store := NewTeamStore(mock)

	created := models.NewDate(2025, 1, 15)
	mock.ExpectQuery("SELECT id, name, created_on, created_by_id FROM teams ORDER BY id").
		WillReturnRows(mock.NewRows(teamCols).
			AddRow(int64(1), "Maintenance", created, nil).
			AddRow(int64(2), "Qualité", created, nil))
	mock.ExpectQuery("FROM team_members ORDER BY team_id, id").
		WillReturnRows(mock.NewRows(memberCols).
			AddRow(int64(10), int64(1), int64(3), "Pilote").
			AddRow(int64(11), int64(1), int64(4), ""))

	teams, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Len(t, teams[0].Members, 2)
	assert.Equal(t, int64(3), teams[0].Members[0].UserID)
	assert.Empty(t, teams[1].Members)
	assert.NoError(t, mock.ExpectationsWereMet())
}
