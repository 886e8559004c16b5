package models

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/lalith-99/eightd/internal/apperr"
)

// MinPasswordLength is the shortest plaintext password accepted on user
// creation, in characters.
const MinPasswordLength = 6

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

// NormalizeEmail is the stored and looked-up form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the field-level rules of a user. Email uniqueness is the
// store's job.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return apperr.Required("name")
	}
	if !u.Role.Valid() {
		return apperr.Validation("role", "invalid role")
	}
	if strings.TrimSpace(u.Email) == "" {
		return apperr.Required("email")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return apperr.Validation("email", "invalid email address")
	}
	if strings.TrimSpace(u.Username) == "" {
		return apperr.Required("username")
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperr.Validation("password", "must be at least 6 characters")
	}
	if len(password) > MaxPasswordBytes {
		return apperr.Validation("password", "must be at most 72 bytes")
	}
	return nil
}

func (t *Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return apperr.Required("name")
	}
	if t.CreatedOn.IsZero() {
		return apperr.Required("created_on")
	}
	return nil
}

func (p *Problem) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return apperr.Required("title")
	}
	if strings.TrimSpace(p.Description) == "" {
		return apperr.Required("description")
	}
	if p.DeclaredByID <= 0 {
		return apperr.Required("declared_by_id")
	}
	if p.DeclaredOn.IsZero() {
		return apperr.Required("declared_on")
	}
	if !p.Status.Valid() {
		return apperr.Validation("status", "invalid status")
	}
	if !p.Level.Valid() {
		return apperr.Validation("level", "invalid level")
	}
	return nil
}

func (s *Step) Validate() error {
	if s.ProblemID <= 0 {
		return apperr.Required("problem_id")
	}
	if s.StepNumber < 1 || s.StepNumber > StepCount {
		return apperr.Validation("step_number", "must be between 1 and 8")
	}
	if strings.TrimSpace(s.Description) == "" {
		return apperr.Required("description")
	}
	if !s.Status.Valid() {
		return apperr.Validation("status", "invalid status")
	}
	return nil
}

func (a *Action) Validate() error {
	if a.StepID <= 0 {
		return apperr.Required("step_id")
	}
	if strings.TrimSpace(a.Description) == "" {
		return apperr.Required("description")
	}
	if !a.Status.Valid() {
		return apperr.Validation("status", "invalid status")
	}
	return nil
}

func (n *Notification) Validate() error {
	if n.UserID <= 0 {
		return apperr.Required("user_id")
	}
	if strings.TrimSpace(n.Message) == "" {
		return apperr.Required("message")
	}
	return nil
}
