package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalith-99/eightd/internal/apperr"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, time.January, 15)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-15"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-01-15"`), &back))
	assert.True(t, back.Equal(d.Time))

	assert.Error(t, json.Unmarshal([]byte(`"15/01/2025"`), &back))
	assert.Error(t, json.Unmarshal([]byte(`20250115`), &back))

	var zero Date
	b, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestNullableDateInStruct(t *testing.T) {
	var s Step
	require.NoError(t, json.Unmarshal([]byte(`{"date_start":"2025-02-01","date_end":null}`), &s))
	require.NotNil(t, s.DateStart)
	assert.Equal(t, "2025-02-01", s.DateStart.String())
	assert.Nil(t, s.DateEnd)
}

func TestDatePgRoundTrip(t *testing.T) {
	d := NewDate(2025, time.March, 3)
	v, err := d.DateValue()
	require.NoError(t, err)
	assert.True(t, v.Valid)

	var back Date
	require.NoError(t, back.ScanDate(v))
	assert.Equal(t, d.String(), back.String())

	require.NoError(t, back.ScanDate(pgtype.Date{}))
	assert.True(t, back.IsZero())
}

func TestEnums(t *testing.T) {
	assert.True(t, ProblemStatus("Ouvert").Valid())
	assert.True(t, ProblemStatus("Clôturé").Valid())
	assert.False(t, ProblemStatus("Closed").Valid())
	assert.True(t, StepStatus("Non commencé").Valid())
	assert.False(t, StepStatus("Validé").Valid())
	assert.True(t, ActionStatus("Validé").Valid())
	assert.True(t, Role("Chef d'équipe").Valid())
	assert.False(t, Role("Admin").Valid())
	assert.True(t, ProblemLevel("Atelier").Valid())
	assert.False(t, ProblemLevel("").Valid())
}

func TestCanonicalSteps(t *testing.T) {
	steps := CanonicalSteps(7)
	require.Len(t, steps, StepCount)
	for i, s := range steps {
		assert.Equal(t, int64(7), s.ProblemID)
		assert.Equal(t, i+1, s.StepNumber)
		assert.Equal(t, StepNotStarted, s.Status)
		assert.NotEmpty(t, s.Description)
		assert.NoError(t, s.Validate())
	}
	assert.Equal(t, "Équipe constituée", steps[0].Description)
	assert.Equal(t, "Féliciter l'équipe", steps[7].Description)
}

func TestHistoryMessages(t *testing.T) {
	assert.Equal(t, "Statut changé en: En cours", ProblemStatusMessage(ProblemInProgress))
	assert.Equal(t, "Étape D4 - Statut changé en: Terminé", StepStatusMessage(4, StepDone))
	assert.Equal(t, "Action mise à jour - Statut: Validé", ActionStatusMessage(ActionValidated))
}

func TestProblemPatchApply(t *testing.T) {
	p := Problem{Title: "old", Status: ProblemOpen, Photos: []string{}}
	var patch ProblemPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"new","team_id":3,"who":"Ligne A","photos":["a.jpg"]}`), &patch))
	patch.Apply(&p)

	assert.Equal(t, "new", p.Title)
	assert.Equal(t, ProblemOpen, p.Status)
	require.NotNil(t, p.TeamID)
	assert.Equal(t, int64(3), *p.TeamID)
	require.NotNil(t, p.Who)
	assert.Equal(t, "Ligne A", *p.Who)
	assert.Equal(t, []string{"a.jpg"}, p.Photos)

	// team_id is not clearable through a patch.
	ProblemPatch{}.Apply(&p)
	assert.NotNil(t, p.TeamID)
}

func TestUserValidate(t *testing.T) {
	u := User{Name: "A", Role: RoleOperator, Email: "a@x.com", Username: "a"}
	assert.NoError(t, u.Validate())

	bad := u
	bad.Role = "Boss"
	assert.True(t, apperr.IsValidation(bad.Validate()))

	bad = u
	bad.Email = "nope"
	assert.True(t, apperr.IsValidation(bad.Validate()))

	bad = u
	bad.Name = " "
	assert.EqualError(t, bad.Validate(), "name is required")

	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
}

func TestValidatePasswordCountsCharacters(t *testing.T) {
	// Six bytes, three characters.
	err := ValidatePassword("ééé")
	assert.EqualError(t, err, "password: must be at least 6 characters")
	assert.NoError(t, ValidatePassword("éééééé"))
}

func TestValidatePasswordRejectsOverBcryptLimit(t *testing.T) {
	assert.NoError(t, ValidatePassword(strings.Repeat("a", MaxPasswordBytes)))
	assert.EqualError(t, ValidatePassword(strings.Repeat("a", MaxPasswordBytes+1)), "password: must be at most 72 bytes")
	// 37 two-byte characters are 74 bytes.
	assert.Error(t, ValidatePassword(strings.Repeat("é", 37)))
}

func TestUserPatchNormalizesEmail(t *testing.T) {
	var u User
	email := "  Jean.Dupont@Usine.FR "
	UserPatch{Email: &email}.Apply(&u)
	assert.Equal(t, "jean.dupont@usine.fr", u.Email)
}

func TestStepValidate(t *testing.T) {
	s := Step{ProblemID: 1, StepNumber: 9, Description: "x", Status: StepNotStarted}
	assert.Error(t, s.Validate())
	s.StepNumber = 0
	assert.Error(t, s.Validate())
	s.StepNumber = 8
	assert.NoError(t, s.Validate())
}
