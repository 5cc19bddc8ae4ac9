package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Constraint names declared in migrations/001_init.sql
const (
	UsersEmailKey                     = "users_email_key"
	CompetitionsOrganizationTitleKey  = "competitions_organization_id_title_key"
	ApplicationsCompetitionStudentKey = "applications_competition_id_student_id_key"
	ApplicationsCompetitionFK         = "applications_competition_id_fkey"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return isViolation(err, uniqueViolation, constraintName)
}

// IsForeignKeyError checks if the error is a PostgreSQL foreign key violation for a specific constraint
func IsForeignKeyError(err error, constraintName string) bool {
	return isViolation(err, foreignKeyViolation, constraintName)
}

func isViolation(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code && pgErr.ConstraintName == constraintName
}
