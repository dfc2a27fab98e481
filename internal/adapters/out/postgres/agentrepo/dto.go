// Package agentrepo persists delivery agents.
package agentrepo

import (
	"time"

	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AgentDTO represents the database model for delivery agents. The id is the
// owning user's id.
type AgentDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string    `gorm:"type:varchar(128);not null"`
	Status            string    `gorm:"type:varchar(16);index;not null"`
	ActiveDeliveries  int       `gorm:"not null;default:0;check:active_deliveries >= 0"`
	Lat               *float64
	Lng               *float64
	LocationUpdatedAt *time.Time
	Version           int64 `gorm:"not null;default:0"`
}

// TableName specifies the database table name for agents.
func (AgentDTO) TableName() string {
	return "delivery_agents"
}

func fromDomain(a *agent.Agent) AgentDTO {
	dto := AgentDTO{
		ID:                a.ID().Bytes(),
		Name:              a.Name(),
		Status:            a.Status().String(),
		ActiveDeliveries:  a.ActiveDeliveries(),
		LocationUpdatedAt: a.LocationUpdatedAt(),
		Version:           a.Version(),
	}
	if loc := a.Location(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.Lat, dto.Lng = &lat, &lng
	}
	return dto
}

func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := agent.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.Lat != nil && dto.Lng != nil {
		loc, err := kernel.NewLocation(*dto.Lat, *dto.Lng)
		if err != nil {
			return nil, err
		}
		location = &loc
	}

	return agent.RestoreAgent(id, dto.Name, status, dto.ActiveDeliveries, location, dto.LocationUpdatedAt, dto.Version)
}
