package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/formco/backend/internal/app/models"
	"github.com/formco/backend/internal/domain"
	"github.com/formco/backend/internal/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IOrganizationRepository defines organization membership operations
type IOrganizationRepository interface {
	AddMember(ctx context.Context, organizationID, organizerID string) error
	RemoveMember(ctx context.Context, organizationID, organizerID string) (bool, error)
	ListOrganizationIDs(ctx context.Context, organizerID string) ([]string, error)
	ListOrganizations(ctx context.Context, organizerID string) ([]*models.User, error)
	ListMembers(ctx context.Context, organizationID string) ([]*models.User, error)
}

// OrganizationRepository stores organizer memberships
type OrganizationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{db: db, sb: psql}
}

// AddMember attaches an organizer to an organization. Adding an existing member is a no-op.
func (r *OrganizationRepository) AddMember(ctx context.Context, organizationID, organizerID string) error {
	sql, args, err := r.sb.Insert("organization_members").
		Columns("organization_id", "organizer_id").
		Values(organizationID, organizerID).
		Suffix("ON CONFLICT (organization_id, organizer_id) DO NOTHING").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add member SQL")
		return fmt.Errorf("failed to build add member query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("organizationID", organizationID).Str("organizerID", organizerID).Msg("Error adding organization member")
		return fmt.Errorf("error adding organization member: %w", err)
	}
	return nil
}

// RemoveMember detaches an organizer and reports whether a membership existed
func (r *OrganizationRepository) RemoveMember(ctx context.Context, organizationID, organizerID string) (bool, error) {
	if !isUUID(organizationID) || !isUUID(organizerID) {
		return false, nil
	}

	sql, args, err := r.sb.Delete("organization_members").
		Where(squirrel.Eq{"organization_id": organizationID, "organizer_id": organizerID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building remove member SQL")
		return false, fmt.Errorf("failed to build remove member query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("organizationID", organizationID).Str("organizerID", organizerID).Msg("Error removing organization member")
		return false, fmt.Errorf("error removing organization member: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListOrganizationIDs returns the organizations an organizer belongs to
func (r *OrganizationRepository) ListOrganizationIDs(ctx context.Context, organizerID string) ([]string, error) {
	sql, args, err := r.sb.Select("organization_id").
		From("organization_members").
		Where(squirrel.Eq{"organizer_id": organizerID}).
		OrderBy("joined_at ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list organization ids SQL")
		return nil, fmt.Errorf("failed to build list organization ids query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("organizerID", organizerID).Msg("Error querying organization ids")
		return nil, fmt.Errorf("error querying organization ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning organization id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organization ids: %w", err)
	}
	return ids, nil
}

// ListOrganizations returns the organization accounts an organizer belongs to
func (r *OrganizationRepository) ListOrganizations(ctx context.Context, organizerID string) ([]*models.User, error) {
	return r.listUsers(ctx, "om.organization_id", squirrel.Eq{"om.organizer_id": organizerID})
}

// ListMembers returns the organizer accounts attached to an organization
func (r *OrganizationRepository) ListMembers(ctx context.Context, organizationID string) ([]*models.User, error) {
	return r.listUsers(ctx, "om.organizer_id", squirrel.Eq{"om.organization_id": organizationID})
}

func (r *OrganizationRepository) listUsers(ctx context.Context, joinColumn string, where squirrel.Sqlizer) ([]*models.User, error) {
	sql, args, err := r.sb.Select("u.id", "u.email", "u.name", "u.role_type", "u.created_at", "u.updated_at").
		From("organization_members om").
		Join("users u ON u.id = " + joinColumn).
		Where(where).
		OrderBy("u.name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list membership users SQL")
		return nil, fmt.Errorf("failed to build membership query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying membership users")
		return nil, fmt.Errorf("error querying memberships: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u := &models.User{}
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			logger.Error().Err(err).Msg("Error scanning membership user row")
			return nil, fmt.Errorf("error scanning membership user: %w", err)
		}
		u.RoleType = domain.RoleType(role)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership users: %w", err)
	}
	return users, nil
}
