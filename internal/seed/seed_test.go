package seed

import (
	"context"
	"testing"

	"github.com/lalith-99/eightd/internal/auth"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/lalith-99/eightd/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	res, err := Run(ctx, s, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 5, Teams: 2, Problems: 2}, res)

	res, err = Run(ctx, s, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	users, err := s.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)

	problems, err := s.Problems.List(ctx)
	require.NoError(t, err)
	require.Len(t, problems, 2)
	assert.Equal(t, "Retard de production - Ligne B", problems[0].Title)
	assert.Equal(t, models.ProblemOpen, problems[0].Status)
	assert.Equal(t, models.ProblemInProgress, problems[1].Status)
	require.NotNil(t, problems[1].TeamID)

	team, err := s.Teams.GetByID(ctx, *problems[1].TeamID)
	require.NoError(t, err)
	assert.Equal(t, "Équipe 8D - Défaut Ligne A", team.Name)
}

func TestSeededUsersCanLogIn(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := Run(ctx, s, zap.NewNop())
	require.NoError(t, err)

	svc := auth.NewService(s.Users, nil, zap.NewNop())
	u, outcome, err := svc.Login(ctx, "karim.tazi@usine.com", DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, auth.OutcomeSuccess, outcome)
	assert.Equal(t, models.RoleOperator, u.Role)
}

func TestRunKeepsExistingUser(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	hash, err := auth.HashPassword("another-secret")
	require.NoError(t, err)
	_, err = s.Users.Create(ctx, &models.User{
		Name: "Ahmed", Role: models.RoleManager, Email: "ahmed.benali@usine.com",
		Username: "ahmed", PasswordHash: hash,
	})
	require.NoError(t, err)

	res, err := Run(ctx, s, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 4, res.Users)

	u, err := s.Users.GetByEmail(ctx, "ahmed.benali@usine.com")
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", u.Name)
}
