package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/formco/backend/internal/pkg/dberrors"
	"github.com/formco/backend/internal/pkg/helpers"
	"github.com/formco/backend/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IApplicationRepository defines application database operations
type IApplicationRepository interface {
	// Create inserts app. The (competition, student) pair is unique: a second insert yields apperrors.ErrAlreadyApplied.
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	// FindByCompetitionAndStudent returns "" when the student has not applied
	FindByCompetitionAndStudent(ctx context.Context, competitionID, studentID string) (string, error)
	ListByCompetition(ctx context.Context, competitionID string, page, pageSize int) ([]*domain.Application, int64, error)
	ListByStudent(ctx context.Context, studentID string) ([]*domain.Application, error)
	// UpdateAxis writes only the columns of change.Axis and returns the updated application
	UpdateAxis(ctx context.Context, id string, change domain.FieldChange) (*domain.Application, error)
}

// ApplicationRepository handles application database operations
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db, sb: psql}
}

var applicationColumns = []string{
	"id", "competition_id", "student_id", "team_name", "team_members", "payment_amount",
	"payment_verified", "payment_date", "receipt_image", "transaction_id", "verification_code",
	"attended", "accepted", "created_at", "updated_at",
}

// Create inserts a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	if app.Accepted == "" {
		app.Accepted = domain.AcceptancePending
	}

	sql, args, err := r.sb.Insert("applications").
		Columns(applicationColumns[:13]...).
		Values(
			app.ID, app.CompetitionID, app.StudentID, app.TeamName, app.TeamMembers, app.PaymentAmount,
			app.PaymentVerified, app.PaymentDate, app.ReceiptImage, app.TransactionID, app.VerificationCode,
			app.Attended, string(app.Accepted),
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create application SQL")
		return fmt.Errorf("failed to build create application query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&app.CreatedAt, &app.UpdatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, dberrors.ApplicationsCompetitionStudentKey):
			return apperrors.ErrAlreadyApplied
		case dberrors.IsForeignKeyError(err, dberrors.ApplicationsCompetitionFK):
			return apperrors.ErrCompetitionNotFound
		}
		logger.Error().Err(err).Str("competitionID", app.CompetitionID).Str("studentID", app.StudentID).Msg("Error executing create application query")
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by id
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrApplicationNotFound
	}

	sql, args, err := r.sb.Select(applicationColumns...).
		From("applications").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get application SQL")
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}

	app, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Str("applicationID", id).Msg("Error scanning application row")
		return nil, fmt.Errorf("error getting application: %w", err)
	}
	return app, nil
}

// FindByCompetitionAndStudent looks up the student's application id for a competition
func (r *ApplicationRepository) FindByCompetitionAndStudent(ctx context.Context, competitionID, studentID string) (string, error) {
	sql, args, err := r.sb.Select("id").
		From("applications").
		Where(squirrel.Eq{"competition_id": competitionID, "student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building find application SQL")
		return "", fmt.Errorf("failed to build find application query: %w", err)
	}

	var id string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		logger.Error().Err(err).Str("competitionID", competitionID).Str("studentID", studentID).Msg("Error finding application")
		return "", fmt.Errorf("error finding application: %w", err)
	}
	return id, nil
}

// ListByCompetition returns a page of a competition's applications, oldest first
func (r *ApplicationRepository) ListByCompetition(ctx context.Context, competitionID string, page, pageSize int) ([]*domain.Application, int64, error) {
	where := squirrel.Eq{"competition_id": competitionID}

	countSql, countArgs, err := r.sb.Select("COUNT(*)").From("applications").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count applications SQL")
		return nil, 0, fmt.Errorf("failed to build count applications query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Str("competitionID", competitionID).Msg("Error counting applications")
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}
	if total == 0 {
		return []*domain.Application{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(page, pageSize)
	apps, err := r.list(ctx, r.sb.Select(applicationColumns...).
		From("applications").
		Where(where).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// ListByStudent returns every application of a student, newest first
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.Application, error) {
	return r.list(ctx, r.sb.Select(applicationColumns...).
		From("applications").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at DESC"))
}

func (r *ApplicationRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*domain.Application, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list applications SQL")
		return nil, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list applications query")
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	apps := []*domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning application row")
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return apps, nil
}

// UpdateAxis applies one lifecycle transition as a single UPDATE
func (r *ApplicationRepository) UpdateAxis(ctx context.Context, id string, change domain.FieldChange) (*domain.Application, error) {
	set, err := axisColumns(change)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.sb.Update("applications").
		SetMap(set).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(applicationColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update application SQL")
		return nil, fmt.Errorf("failed to build update application query: %w", err)
	}

	app, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Str("applicationID", id).Str("axis", string(change.Axis)).Msg("Error updating application")
		return nil, fmt.Errorf("error updating application: %w", err)
	}
	return app, nil
}

// axisColumns maps a change to the columns it owns
func axisColumns(change domain.FieldChange) (map[string]interface{}, error) {
	switch change.Axis {
	case domain.AxisPayment:
		return map[string]interface{}{
			"payment_verified": change.PaymentVerified,
			"payment_date":     change.PaymentDate,
		}, nil
	case domain.AxisAttendance:
		return map[string]interface{}{"attended": change.Attended}, nil
	case domain.AxisAcceptance:
		return map[string]interface{}{"accepted": string(change.Accepted)}, nil
	}
	return nil, fmt.Errorf("%w: unknown axis %q", apperrors.ErrBadRequest, change.Axis)
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	app := &domain.Application{}
	var accepted string
	err := row.Scan(
		&app.ID, &app.CompetitionID, &app.StudentID, &app.TeamName, &app.TeamMembers, &app.PaymentAmount,
		&app.PaymentVerified, &app.PaymentDate, &app.ReceiptImage, &app.TransactionID, &app.VerificationCode,
		&app.Attended, &accepted, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	app.Accepted = domain.AcceptanceStatus(accepted)
	return app, nil
}
