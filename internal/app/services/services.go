// Package services holds the application use cases. Services take repository interfaces,
// run the pure rules from internal/domain and translate the outcome for controllers.
//
// Services defined in this package:
//   - AuthService: account registration, login and profile
//   - OrganizationService: organizer memberships of organizations
//   - CompetitionService: competition creation, listing, status and deletion
//   - ApplicationService: application submission, lookup and lifecycle updates
package services

import (
	"time"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/formco/backend/internal/pkg/helpers"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func clockOrDefault(now Clock) Clock {
	if now == nil {
		return time.Now
	}
	return now
}

func pagination(total int64, page, size int) dto.PaginationInfo {
	_, limit := helpers.CalculateOffsetLimit(page, size)
	if page < 1 {
		page = helpers.DefaultPage
	}
	return helpers.NewPaginationInfo(total, page, limit)
}
