package models

// Patch types carry the writable fields of each entity. A nil pointer means
// "not supplied"; Apply copies only the supplied fields. Handlers bind both
// create and update bodies into these, so create starts from the defaults and
// update starts from the stored row.
//
// A nullable reference cannot be cleared through a patch: null and absent
// both decode to nil.

type UserPatch struct {
	Name       *string `json:"name"`
	Role       *Role   `json:"role"`
	Service    *string `json:"service"`
	Competence *string `json:"competence"`
	Email      *string `json:"email"`
	Username   *string `json:"username"`
}

func (p UserPatch) Apply(u *User) {
	setIf(&u.Name, p.Name)
	setIf(&u.Role, p.Role)
	setIf(&u.Service, p.Service)
	setIf(&u.Competence, p.Competence)
	if p.Email != nil {
		u.Email = NormalizeEmail(*p.Email)
	}
	setIf(&u.Username, p.Username)
}

type TeamPatch struct {
	Name        *string `json:"name"`
	CreatedOn   *Date   `json:"created_on"`
	CreatedByID *int64  `json:"created_by_id"`
}

func (p TeamPatch) Apply(t *Team) {
	setIf(&t.Name, p.Name)
	setIf(&t.CreatedOn, p.CreatedOn)
	refIf(&t.CreatedByID, p.CreatedByID)
}

type ProblemPatch struct {
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	DeclaredOn   *Date          `json:"declared_on"`
	DeclaredByID *int64         `json:"declared_by_id"`
	TeamID       *int64         `json:"team_id"`
	Status       *ProblemStatus `json:"status"`
	Level        *ProblemLevel  `json:"level"`
	Who          *string        `json:"who"`
	What         *string        `json:"what"`
	Where        *string        `json:"where"`
	When         *string        `json:"when"`
	How          *string        `json:"how"`
	HowMuch      *string        `json:"how_much"`
	Why          *string        `json:"why"`
	Photos       *[]string      `json:"photos"`
}

func (p ProblemPatch) Apply(pr *Problem) {
	setIf(&pr.Title, p.Title)
	setIf(&pr.Description, p.Description)
	setIf(&pr.DeclaredOn, p.DeclaredOn)
	setIf(&pr.DeclaredByID, p.DeclaredByID)
	refIf(&pr.TeamID, p.TeamID)
	setIf(&pr.Status, p.Status)
	setIf(&pr.Level, p.Level)
	refIf(&pr.Who, p.Who)
	refIf(&pr.What, p.What)
	refIf(&pr.Where, p.Where)
	refIf(&pr.When, p.When)
	refIf(&pr.How, p.How)
	refIf(&pr.HowMuch, p.HowMuch)
	refIf(&pr.Why, p.Why)
	setIf(&pr.Photos, p.Photos)
}

type StepPatch struct {
	ProblemID    *int64      `json:"problem_id"`
	StepNumber   *int        `json:"step_number"`
	Description  *string     `json:"description"`
	AssignedToID *int64      `json:"assigned_to_id"`
	DateStart    *Date       `json:"date_start"`
	DateEnd      *Date       `json:"date_end"`
	Status       *StepStatus `json:"status"`
	Proof        *[]string   `json:"proof"`
}

func (p StepPatch) Apply(s *Step) {
	setIf(&s.ProblemID, p.ProblemID)
	setIf(&s.StepNumber, p.StepNumber)
	setIf(&s.Description, p.Description)
	refIf(&s.AssignedToID, p.AssignedToID)
	refIf(&s.DateStart, p.DateStart)
	refIf(&s.DateEnd, p.DateEnd)
	setIf(&s.Status, p.Status)
	setIf(&s.Proof, p.Proof)
}

type ActionPatch struct {
	StepID       *int64        `json:"step_id"`
	Description  *string       `json:"description"`
	AssignedToID *int64        `json:"assigned_to_id"`
	Status       *ActionStatus `json:"status"`
	DateDue      *Date         `json:"date_due"`
	Proof        *[]string     `json:"proof"`
}

func (p ActionPatch) Apply(a *Action) {
	setIf(&a.StepID, p.StepID)
	setIf(&a.Description, p.Description)
	refIf(&a.AssignedToID, p.AssignedToID)
	setIf(&a.Status, p.Status)
	refIf(&a.DateDue, p.DateDue)
	setIf(&a.Proof, p.Proof)
}

type NotificationPatch struct {
	UserID    *int64  `json:"user_id"`
	ProblemID *int64  `json:"problem_id"`
	StepID    *int64  `json:"step_id"`
	Message   *string `json:"message"`
	IsRead    *bool   `json:"is_read"`
}

func (p NotificationPatch) Apply(n *Notification) {
	setIf(&n.UserID, p.UserID)
	refIf(&n.ProblemID, p.ProblemID)
	refIf(&n.StepID, p.StepID)
	setIf(&n.Message, p.Message)
	setIf(&n.IsRead, p.IsRead)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// refIf replaces a nullable field with a copy of src so the entity never
// aliases the request body.
func refIf[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
