package repositories

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/formco/backend/internal/db"
	"github.com/google/uuid"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	OrganizationRepository *OrganizationRepository
	CompetitionRepository  *CompetitionRepository
	ApplicationRepository  *ApplicationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(database.Pool),
		OrganizationRepository: NewOrganizationRepository(database.Pool),
		CompetitionRepository:  NewCompetitionRepository(database),
		ApplicationRepository:  NewApplicationRepository(database.Pool),
	}
}

// psql is the statement builder shared by all repositories
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// isUUID reports whether id can be compared against a UUID column
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern matches s anywhere in a LIKE/ILIKE operand, with wildcards in s taken literally
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

var (
	_ IUserRepository         = (*UserRepository)(nil)
	_ IOrganizationRepository = (*OrganizationRepository)(nil)
	_ ICompetitionRepository  = (*CompetitionRepository)(nil)
	_ IApplicationRepository  = (*ApplicationRepository)(nil)
)
