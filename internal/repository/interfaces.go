package repository

import (
	"context"

	"github.com/lalith-99/eightd/internal/models"
)

// Conventions shared by every implementation:
//
//   - ctx first, so a cancelled request cancels its queries.
//   - Lookups of a missing row return an *apperr.NotFoundError.
//   - Lists return an empty slice, never nil, so JSON renders [].
//   - Unique and foreign-key violations come back as apperr validation and
//     not-found errors rather than raw driver errors.

// UserRepository handles users and their credentials.
type UserRepository interface {
	// Create inserts a user with an already-hashed password.
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail returns the user including PasswordHash. Used for login.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// TeamRepository handles teams and who belongs to them.
type TeamRepository interface {
	Create(ctx context.Context, t *models.Team) (*models.Team, error)
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, t *models.Team) (*models.Team, error)
	Delete(ctx context.Context, id int64) error

	// AddMember inserts (teamID, userID) if absent. created is false when
	// the pair already existed; the returned row is then the stored one.
	AddMember(ctx context.Context, teamID, userID int64, roleInTeam string) (m *models.TeamMember, created bool, err error)

	// RemoveMember deletes the membership or returns NotFound.
	RemoveMember(ctx context.Context, teamID, userID int64) error
	ListMembers(ctx context.Context, teamID int64) ([]models.TeamMember, error)
}

// ProblemRepository handles problems.
type ProblemRepository interface {
	Create(ctx context.Context, p *models.Problem) (*models.Problem, error)
	GetByID(ctx context.Context, id int64) (*models.Problem, error)

	// List returns problems newest declaration first.
	List(ctx context.Context) ([]models.Problem, error)
	Update(ctx context.Context, p *models.Problem) (*models.Problem, error)
	Delete(ctx context.Context, id int64) error

	// UpdateStatus sets the status and appends the matching history entry
	// in one transaction.
	UpdateStatus(ctx context.Context, id int64, status models.ProblemStatus, performedBy int64) (*models.Problem, error)
}

// StepRepository handles 8D steps.
type StepRepository interface {
	Create(ctx context.Context, s *models.Step) (*models.Step, error)
	GetByID(ctx context.Context, id int64) (*models.Step, error)
	List(ctx context.Context) ([]models.Step, error)

	// ListByProblem returns the problem's steps by ascending step number.
	ListByProblem(ctx context.Context, problemID int64) ([]models.Step, error)
	Update(ctx context.Context, s *models.Step) (*models.Step, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status models.StepStatus, performedBy int64) (*models.Step, error)

	// Initialize creates the eight canonical steps of a problem. It fails
	// with NotFound for an unknown problem and with a validation error if
	// the problem already has any step. Check and insert are atomic.
	Initialize(ctx context.Context, problemID int64) ([]models.Step, error)
}

// ActionRepository handles corrective actions.
type ActionRepository interface {
	Create(ctx context.Context, a *models.Action) (*models.Action, error)
	GetByID(ctx context.Context, id int64) (*models.Action, error)
	List(ctx context.Context) ([]models.Action, error)

	// ListByStep returns the step's actions in insertion order.
	ListByStep(ctx context.Context, stepID int64) ([]models.Action, error)
	Update(ctx context.Context, a *models.Action) (*models.Action, error)
	Delete(ctx context.Context, id int64) error

	// UpdateStatus records history against the action's step's problem.
	UpdateStatus(ctx context.Context, id int64, status models.ActionStatus, performedBy int64) (*models.Action, error)
}

// NotificationRepository handles polled notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	List(ctx context.Context) ([]models.Notification, error)

	// ListByUser returns the user's notifications newest first.
	ListByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	Update(ctx context.Context, n *models.Notification) (*models.Notification, error)
	Delete(ctx context.Context, id int64) error
	MarkRead(ctx context.Context, id int64) (*models.Notification, error)

	// MarkAllRead flips every unread notification of the user and reports
	// how many changed.
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// HistoryRepository is read-only; entries are written by the UpdateStatus
// methods above.
type HistoryRepository interface {
	GetByID(ctx context.Context, id int64) (*models.History, error)
	List(ctx context.Context) ([]models.History, error)

	// ListByProblem returns entries newest first.
	ListByProblem(ctx context.Context, problemID int64) ([]models.History, error)
}

// Store bundles every repository plus a liveness check.
type Store struct {
	Users         UserRepository
	Teams         TeamRepository
	Problems      ProblemRepository
	Steps         StepRepository
	Actions       ActionRepository
	Notifications NotificationRepository
	History       HistoryRepository

	// Ping reports whether the backing store is reachable.
	Ping func(ctx context.Context) error
}
