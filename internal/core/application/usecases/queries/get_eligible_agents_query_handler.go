package queries

import (
	"context"
	"database/sql"

	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetEligibleAgentsQueryHandler applies the same filter as assignment:
// available or busy, below the delivery cap, ordered by id.
type GetEligibleAgentsQueryHandler struct {
	db *gorm.DB
}

func NewGetEligibleAgentsQueryHandler(db *gorm.DB) GetEligibleAgentsQueryHandler {
	return GetEligibleAgentsQueryHandler{db: db}
}

func (h GetEligibleAgentsQueryHandler) Handle(
	ctx context.Context,
	query GetEligibleAgentsQuery,
) ([]GetEligibleAgentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			status,
			active_deliveries,
			lat,
			lng,
			location_updated_at
		FROM delivery_agents
		WHERE status IN ? AND active_deliveries < ?
		ORDER BY id
	`, []string{agent.Available.String(), agent.Busy.String()}, agent.MaxConcurrentDeliveries).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := make([]GetEligibleAgentsQueryResponse, 0)
	for rows.Next() {
		var (
			resp      GetEligibleAgentsQueryResponse
			id        uuid.UUID
			lat, lng  sql.NullFloat64
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&id, &resp.Name, &resp.Status, &resp.ActiveDeliveries, &lat, &lng, &updatedAt); err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.Location, err = nullableLocation(lat, lng); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			at := updatedAt.Time
			resp.LocationUpdatedAt = &at
		}
		agents = append(agents, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return agents, nil
}
