package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/db"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/apperrors"
	"github.com/formco/backend/internal/pkg/dberrors"
	"github.com/formco/backend/internal/pkg/helpers"
	"github.com/formco/backend/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ICompetitionRepository defines competition database operations
type ICompetitionRepository interface {
	Create(ctx context.Context, competition *domain.Competition) error
	GetByID(ctx context.Context, id string) (*domain.Competition, error)
	List(ctx context.Context, filter dto.CompetitionFilterRequest, now time.Time) ([]*domain.Competition, int64, error)
	// DeleteWithApplications removes the competition and its applications, returning the receipt keys they referenced
	DeleteWithApplications(ctx context.Context, id string) ([]string, error)
}

// CompetitionRepository handles competition database operations
type CompetitionRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCompetitionRepository creates a new CompetitionRepository
func NewCompetitionRepository(database *db.PostgresDB) *CompetitionRepository {
	return &CompetitionRepository{db: database, sb: psql}
}

var competitionColumns = []string{
	"id", "organization_id", "organizer_id", "title", "description", "instructions", "category",
	"mode", "location", "is_team_event", "team_size_min", "team_size_max", "registration_fee",
	"verification_needed", "account_details", "required_application_fields", "skills_required",
	"eligibility", "deadline_to_apply", "start_date", "end_date", "created_at", "updated_at",
}

// Create inserts a competition. A title already used by the organization yields apperrors.ErrDuplicateTitle.
func (r *CompetitionRepository) Create(ctx context.Context, c *domain.Competition) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	var teamMin, teamMax *int
	if c.TeamSize != nil {
		teamMin, teamMax = &c.TeamSize.Min, &c.TeamSize.Max
	}

	sql, args, err := r.sb.Insert("competitions").
		Columns(competitionColumns[:21]...).
		Values(
			c.ID, c.OrganizationID, c.OrganizerID, c.Title, c.Description, c.Instructions, c.Category,
			string(c.Mode), c.Location, c.IsTeamEvent, teamMin, teamMax, c.RegistrationFee,
			c.VerificationNeeded, c.AccountDetails, nonNil(c.RequiredApplicationFields), nonNil(c.SkillsRequired),
			c.Eligibility, c.DeadlineToApply, c.StartDate, c.EndDate,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create competition SQL")
		return fmt.Errorf("failed to build create competition query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.CompetitionsOrganizationTitleKey) {
			return apperrors.ErrDuplicateTitle
		}
		logger.Error().Err(err).Str("organizationID", c.OrganizationID).Msg("Error executing create competition query")
		return fmt.Errorf("error creating competition: %w", err)
	}
	return nil
}

// GetByID retrieves a competition by id
func (r *CompetitionRepository) GetByID(ctx context.Context, id string) (*domain.Competition, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrCompetitionNotFound
	}

	sql, args, err := r.sb.Select(competitionColumns...).
		From("competitions").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get competition SQL")
		return nil, fmt.Errorf("failed to build get competition query: %w", err)
	}

	c, err := scanCompetition(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCompetitionNotFound
		}
		logger.Error().Err(err).Str("competitionID", id).Msg("Error scanning competition row")
		return nil, fmt.Errorf("error getting competition: %w", err)
	}
	return c, nil
}

// List returns a page of competitions matching filter. The status filter is evaluated at now.
func (r *CompetitionRepository) List(ctx context.Context, filter dto.CompetitionFilterRequest, now time.Time) ([]*domain.Competition, int64, error) {
	where := competitionFilterCondition(filter, now)

	countSql, countArgs, err := r.sb.Select("COUNT(*)").From("competitions").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count competitions SQL")
		return nil, 0, fmt.Errorf("failed to build count competitions query: %w", err)
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count competitions query")
		return nil, 0, fmt.Errorf("failed to count competitions: %w", err)
	}
	if total == 0 {
		return []*domain.Competition{}, 0, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	sql, args, err := r.sb.Select(competitionColumns...).
		From("competitions").
		Where(where).
		OrderBy("deadline_to_apply ASC", "created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list competitions SQL")
		return nil, 0, fmt.Errorf("failed to build list competitions query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list competitions query")
		return nil, 0, fmt.Errorf("failed to query competitions: %w", err)
	}
	defer rows.Close()

	competitions := []*domain.Competition{}
	for rows.Next() {
		c, err := scanCompetition(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning competition row")
			return nil, 0, fmt.Errorf("failed to scan competition row: %w", err)
		}
		competitions = append(competitions, c)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating competition rows")
		return nil, 0, fmt.Errorf("error iterating competition rows: %w", err)
	}

	return competitions, total, nil
}

// DeleteWithApplications deletes the competition in one transaction. Applications go with it through
// the foreign key cascade; their receipt keys are returned so stored files can be removed.
func (r *CompetitionRepository) DeleteWithApplications(ctx context.Context, id string) ([]string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrCompetitionNotFound
	}

	var receipts []string
	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		receiptSql, receiptArgs, err := r.sb.Select("receipt_image").
			From("applications").
			Where(squirrel.Eq{"competition_id": id}).
			Where(squirrel.NotEq{"receipt_image": ""}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build receipts query: %w", err)
		}

		rows, err := tx.Query(ctx, receiptSql, receiptArgs...)
		if err != nil {
			return fmt.Errorf("error querying receipts: %w", err)
		}
		receipts, err = pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("error collecting receipts: %w", err)
		}

		deleteSql, deleteArgs, err := r.sb.Delete("competitions").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete competition query: %w", err)
		}
		tag, err := tx.Exec(ctx, deleteSql, deleteArgs...)
		if err != nil {
			return fmt.Errorf("error deleting competition: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrCompetitionNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrCompetitionNotFound) {
			logger.Error().Err(err).Str("competitionID", id).Msg("Error deleting competition")
		}
		return nil, err
	}
	return receipts, nil
}

// competitionFilterCondition builds the WHERE clause for List
func competitionFilterCondition(filter dto.CompetitionFilterRequest, now time.Time) squirrel.And {
	where := squirrel.And{}
	if filter.OrganizationID != "" {
		if !isUUID(filter.OrganizationID) {
			// no organization can have this id
			return squirrel.And{squirrel.Expr("FALSE")}
		}
		where = append(where, squirrel.Eq{"organization_id": filter.OrganizationID})
	}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{"category": filter.Category})
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = append(where, squirrel.ILike{"title": containsPattern(s)})
	}
	if filter.Status != "" {
		where = append(where, statusCondition(filter.Status, now))
	}
	return where
}

const wellOrderedDates = "deadline_to_apply <= start_date AND start_date <= end_date"

// statusCondition selects the rows domain.ResolveStatus maps to status at now
func statusCondition(status domain.CompetitionStatus, now time.Time) squirrel.Sqlizer {
	valid := squirrel.Expr("(" + wellOrderedDates + ")")
	happened := squirrel.And{
		squirrel.Lt{"deadline_to_apply": now},
		squirrel.Lt{"start_date": now},
		squirrel.Lt{"end_date": now},
	}

	switch status {
	case domain.StatusOpen:
		return squirrel.And{valid, squirrel.Gt{"deadline_to_apply": now}}
	case domain.StatusClosed:
		return squirrel.Or{
			squirrel.And{valid, squirrel.LtOrEq{"deadline_to_apply": now}, squirrel.Gt{"start_date": now}},
			squirrel.And{
				squirrel.Expr("NOT (" + wellOrderedDates + ")"),
				squirrel.Or{
					squirrel.GtOrEq{"deadline_to_apply": now},
					squirrel.GtOrEq{"start_date": now},
					squirrel.GtOrEq{"end_date": now},
				},
			},
		}
	case domain.StatusHappening:
		return squirrel.And{valid, squirrel.LtOrEq{"start_date": now}, squirrel.GtOrEq{"end_date": now}}
	case domain.StatusHappened:
		return happened
	}
	return squirrel.Expr("FALSE")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompetition(row rowScanner) (*domain.Competition, error) {
	c := &domain.Competition{}
	var mode string
	var teamMin, teamMax *int
	err := row.Scan(
		&c.ID, &c.OrganizationID, &c.OrganizerID, &c.Title, &c.Description, &c.Instructions, &c.Category,
		&mode, &c.Location, &c.IsTeamEvent, &teamMin, &teamMax, &c.RegistrationFee,
		&c.VerificationNeeded, &c.AccountDetails, &c.RequiredApplicationFields, &c.SkillsRequired,
		&c.Eligibility, &c.DeadlineToApply, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Mode = domain.CompetitionMode(mode)
	if teamMin != nil && teamMax != nil {
		c.TeamSize = &domain.TeamSize{Min: *teamMin, Max: *teamMax}
	}
	return c, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
