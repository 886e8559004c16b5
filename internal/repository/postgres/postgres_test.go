package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/eightd/internal/apperr"
	"github.com/lalith-99/eightd/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateUniqueViolation(t *testing.T) {
	err := translate(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}))
	require.Error(t, err)

	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email", ve.Field)
}

func TestTranslateForeignKeyViolation(t *testing.T) {
	err := translate(&pgconn.PgError{Code: "23503", ConstraintName: "history_performed_by_id_fkey"})
	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "user", nf.Resource)

	err = translate(&pgconn.PgError{Code: "23503", ConstraintName: "something_else"})
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "referenced record", nf.Resource)
}

func TestTranslateIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, translate(errors.New("boom")))
	assert.Nil(t, translate(&pgconn.PgError{Code: "40001"}))
}

func TestOneMapsNoRows(t *testing.T) {
	_, err := one[models.Step](nil, pgx.ErrNoRows, "step", 9, "get")
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "step 9 not found")

	_, err = one[models.Step](nil, errors.New("conn reset"), "step", 9, "get")
	assert.EqualError(t, err, "get step: conn reset")
}
