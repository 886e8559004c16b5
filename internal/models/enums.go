package models

import "fmt"

// The enumerated values are stored and exchanged verbatim, in French, as the
// plant's existing clients send them.

type Role string

const (
	RoleOperator        Role = "Operateur"
	RoleTeamLead        Role = "Chef d'équipe"
	RoleSupervisor      Role = "Superviseur"
	RoleManagerInCharge Role = "Responsable"
	RoleManager         Role = "Manager"
)

var Roles = []Role{RoleOperator, RoleTeamLead, RoleSupervisor, RoleManagerInCharge, RoleManager}

func (r Role) Valid() bool { return contains(Roles, r) }

type ProblemStatus string

const (
	ProblemOpen       ProblemStatus = "Ouvert"
	ProblemInProgress ProblemStatus = "En cours"
	ProblemClosed     ProblemStatus = "Clôturé"
)

var ProblemStatuses = []ProblemStatus{ProblemOpen, ProblemInProgress, ProblemClosed}

func (s ProblemStatus) Valid() bool { return contains(ProblemStatuses, s) }

type ProblemLevel string

const (
	LevelPlant    ProblemLevel = "Usine"
	LevelLine     ProblemLevel = "Ligne"
	LevelWorkshop ProblemLevel = "Atelier"
)

var ProblemLevels = []ProblemLevel{LevelPlant, LevelLine, LevelWorkshop}

func (l ProblemLevel) Valid() bool { return contains(ProblemLevels, l) }

type StepStatus string

const (
	StepNotStarted StepStatus = "Non commencé"
	StepInProgress StepStatus = "En cours"
	StepDone       StepStatus = "Terminé"
)

var StepStatuses = []StepStatus{StepNotStarted, StepInProgress, StepDone}

func (s StepStatus) Valid() bool { return contains(StepStatuses, s) }

type ActionStatus string

const (
	ActionNotStarted ActionStatus = "Non commencé"
	ActionInProgress ActionStatus = "En cours"
	ActionDone       ActionStatus = "Terminé"
	ActionValidated  ActionStatus = "Validé"
)

var ActionStatuses = []ActionStatus{ActionNotStarted, ActionInProgress, ActionDone, ActionValidated}

func (s ActionStatus) Valid() bool { return contains(ActionStatuses, s) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// StepCount is the number of disciplines in an 8D.
const StepCount = 8

// CanonicalStepTitles are the descriptions given to the steps created by
// step initialization, indexed by step number - 1.
var CanonicalStepTitles = [StepCount]string{
	"Équipe constituée",
	"Problème décrit avec QQOQCCP",
	"Actions de containment",
	"Analyse des causes racines",
	"Actions correctives permanentes",
	"Mise en œuvre",
	"Prévention de la récurrence",
	"Féliciter l'équipe",
}

// CanonicalSteps returns the eight not-yet-started steps for a problem.
func CanonicalSteps(problemID int64) []Step {
	steps := make([]Step, 0, StepCount)
	for i, title := range CanonicalStepTitles {
		steps = append(steps, Step{
			ProblemID:   problemID,
			StepNumber:  i + 1,
			Description: title,
			Status:      StepNotStarted,
			Proof:       []string{},
		})
	}
	return steps
}

// History messages written by the status-change operations.

func ProblemStatusMessage(status ProblemStatus) string {
	return fmt.Sprintf("Statut changé en: %s", status)
}

func StepStatusMessage(stepNumber int, status StepStatus) string {
	return fmt.Sprintf("Étape D%d - Statut changé en: %s", stepNumber, status)
}

func ActionStatusMessage(status ActionStatus) string {
	return fmt.Sprintf("Action mise à jour - Statut: %s", status)
}
