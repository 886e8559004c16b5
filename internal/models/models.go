package models

import (
	"time"
)

// User is a person who declares problems, joins teams and performs steps.
//
// PasswordHash never leaves the server: it has no JSON tag on purpose and is
// only populated by the repository lookups used for login.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	Service      string `json:"service"`
	Competence   string `json:"competence"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Team groups the people working a problem.
//
// Members is filled by team reads; writes that return a team leave it empty.
type Team struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	CreatedOn   Date         `json:"created_on"`
	CreatedByID *int64       `json:"created_by_id"`
	Members     []TeamMember `json:"members,omitempty"`
}

// TeamMember is the join row between teams and users. (TeamID, UserID) is
// unique.
type TeamMember struct {
	ID         int64  `json:"id"`
	TeamID     int64  `json:"team_id"`
	UserID     int64  `json:"user_id"`
	RoleInTeam string `json:"role_in_team"`
}

// Problem is a declared industrial problem. The seven QQOQCCP fields are
// optional free text.
type Problem struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	DeclaredOn   Date          `json:"declared_on"`
	DeclaredByID int64         `json:"declared_by_id"`
	TeamID       *int64        `json:"team_id"`
	Status       ProblemStatus `json:"status"`
	Level        ProblemLevel  `json:"level"`
	Who          *string       `json:"who"`
	What         *string       `json:"what"`
	Where        *string       `json:"where"`
	When         *string       `json:"when"`
	How          *string       `json:"how"`
	HowMuch      *string       `json:"how_much"`
	Why          *string       `json:"why"`
	Photos       []string      `json:"photos"`
}

// Step is one of the eight disciplines of a problem. (ProblemID, StepNumber)
// is unique.
type Step struct {
	ID           int64      `json:"id"`
	ProblemID    int64      `json:"problem_id"`
	StepNumber   int        `json:"step_number"`
	Description  string     `json:"description"`
	AssignedToID *int64     `json:"assigned_to_id"`
	DateStart    *Date      `json:"date_start"`
	DateEnd      *Date      `json:"date_end"`
	Status       StepStatus `json:"status"`
	Proof        []string   `json:"proof"`
}

// Action is a corrective action attached to a step.
type Action struct {
	ID           int64        `json:"id"`
	StepID       int64        `json:"step_id"`
	Description  string       `json:"description"`
	AssignedToID *int64       `json:"assigned_to_id"`
	Status       ActionStatus `json:"status"`
	DateDue      *Date        `json:"date_due"`
	Proof        []string     `json:"proof"`
}

// Notification is a polled message for one user.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProblemID *int64    `json:"problem_id"`
	StepID    *int64    `json:"step_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

// History is an append-only audit entry written by status changes.
type History struct {
	ID            int64     `json:"id"`
	ProblemID     int64     `json:"problem_id"`
	StepID        *int64    `json:"step_id"`
	Action        string    `json:"action"`
	PerformedByID int64     `json:"performed_by_id"`
	PerformedAt   time.Time `json:"performed_at"`
}
