// Package seed loads the demo plant: five users, two 8D teams and two
// problems. Every record is get-or-create keyed on a natural key (email,
// team name, problem title), so running it twice changes nothing.
package seed

import (
	"context"
	"fmt"

	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/auth"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/lalith-99/eightd/internal/repository"
	"go.uber.org/zap"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

// Result counts what a run created; anything else already existed.
type Result struct {
	Users    int
	Teams    int
	Problems int
}

type demoUser struct {
	name, role, service, competence, email, username string
}

var demoUsers = []demoUser{
	{"Ahmed Benali", "Manager", "Direction", "Management", "ahmed.benali@usine.com", "ahmed.benali"},
	{"Fatima Zahra", "Responsable", "Qualité", "Lean Management", "fatima.zahra@usine.com", "fatima.zahra"},
	{"Mohamed Alami", "Superviseur", "Production Ligne A", "Supervision", "mohamed.alami@usine.com", "mohamed.alami"},
	{"Rachid Idrissi", "Chef d'équipe", "Atelier 1", "Assemblage", "rachid.idrissi@usine.com", "rachid.idrissi"},
	{"Karim Tazi", "Operateur", "Atelier 1", "Opération", "karim.tazi@usine.com", "karim.tazi"},
}

// Indexes into demoUsers.
const (
	supervisor = 2
	teamLead   = 3
	quality    = 1
)

// Run seeds s. Users are created first because teams and problems point
// at them.
func Run(ctx context.Context, s *repository.Store, logger *zap.Logger) (Result, error) {
	var res Result

	users := make([]*models.User, len(demoUsers))
	for i, du := range demoUsers {
		u, created, err := user(ctx, s.Users, du)
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", du.email, err)
		}
		if created {
			res.Users++
			logger.Info("created user", zap.String("name", u.Name))
		}
		users[i] = u
	}

	teamSpecs := []models.Team{
		{Name: "Équipe 8D - Défaut Ligne A", CreatedOn: models.NewDate(2025, 1, 15), CreatedByID: &users[supervisor].ID},
		{Name: "Équipe 8D - Retard Production", CreatedOn: models.NewDate(2025, 1, 18), CreatedByID: &users[quality].ID},
	}
	teams := make([]*models.Team, len(teamSpecs))
	for i := range teamSpecs {
		t, created, err := team(ctx, s.Teams, &teamSpecs[i])
		if err != nil {
			return res, fmt.Errorf("seed team %s: %w", teamSpecs[i].Name, err)
		}
		if created {
			res.Teams++
			logger.Info("created team", zap.String("name", t.Name))
		}
		teams[i] = t
	}

	problemSpecs := []models.Problem{
		{
			Title:        "Défaut de peinture sur pièces finies",
			Description:  "Présence de bulles dans la peinture sur 15% des pièces produites",
			DeclaredOn:   models.NewDate(2025, 1, 15),
			DeclaredByID: users[teamLead].ID,
			TeamID:       &teams[0].ID,
			Status:       models.ProblemInProgress,
			Level:        models.LevelLine,
			Who:          ptr("Ligne A - Poste peinture"),
			What:         ptr("Bulles dans la peinture"),
			Where:        ptr("Zone de peinture automatique"),
			When:         ptr("15 Janvier 2025, 14h30"),
			How:          ptr("Application automatique par robot"),
			HowMuch:      ptr("15% des pièces"),
			Why:          ptr("À déterminer"),
			Photos:       []string{},
		},
		{
			Title:        "Retard de production - Ligne B",
			Description:  "Retard accumulé de 2 heures sur planning quotidien",
			DeclaredOn:   models.NewDate(2025, 1, 18),
			DeclaredByID: users[teamLead].ID,
			TeamID:       &teams[1].ID,
			Status:       models.ProblemOpen,
			Level:        models.LevelLine,
			Who:          ptr("Ligne B - Équipe matin"),
			What:         ptr("Retard de production"),
			Where:        ptr("Ligne B complète"),
			When:         ptr("18 Janvier 2025, matin"),
			How:          ptr("Ralentissement progressif"),
			HowMuch:      ptr("2 heures de retard"),
			Why:          ptr("À analyser"),
			Photos:       []string{},
		},
	}
	existing, err := s.Problems.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list problems: %w", err)
	}
	for i := range problemSpecs {
		p := &problemSpecs[i]
		if hasTitle(existing, p.Title) {
			continue
		}
		if _, err := s.Problems.Create(ctx, p); err != nil {
			return res, fmt.Errorf("seed problem %s: %w", p.Title, err)
		}
		res.Problems++
		logger.Info("created problem", zap.String("title", p.Title))
	}

	logger.Info("demo data ready",
		zap.Int("users_created", res.Users),
		zap.Int("teams_created", res.Teams),
		zap.Int("problems_created", res.Problems),
	)
	return res, nil
}

func user(ctx context.Context, repo repository.UserRepository, du demoUser) (*models.User, bool, error) {
	u, err := repo.GetByEmail(ctx, du.email)
	if err == nil {
		return u, false, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, false, err
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, false, err
	}
	u, err = repo.Create(ctx, &models.User{
		Name:         du.name,
		Role:         models.Role(du.role),
		Service:      du.service,
		Competence:   du.competence,
		Email:        du.email,
		Username:     du.username,
		PasswordHash: hash,
	})
	return u, err == nil, err
}

func team(ctx context.Context, repo repository.TeamRepository, t *models.Team) (*models.Team, bool, error) {
	teams, err := repo.List(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range teams {
		if teams[i].Name == t.Name {
			return &teams[i], false, nil
		}
	}
	created, err := repo.Create(ctx, t)
	return created, err == nil, err
}

func hasTitle(problems []models.Problem, title string) bool {
	for _, p := range problems {
		if p.Title == title {
			return true
		}
	}
	return false
}

func ptr(s string) *string { return &s }
