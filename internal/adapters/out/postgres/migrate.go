package postgres

import (
	"kirana/internal/adapters/out/postgres/agentrepo"
	"kirana/internal/adapters/out/postgres/apartmentrepo"
	"kirana/internal/adapters/out/postgres/bulkorderrepo"
	"kirana/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Models lists every persisted DTO in creation order.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.HistoryDTO{},
		&agentrepo.AgentDTO{},
		&apartmentrepo.ApartmentDTO{},
		&apartmentrepo.WindowDTO{},
		&bulkorderrepo.BulkOrderDTO{},
		&bulkorderrepo.ParticipantDTO{},
		&bulkorderrepo.HistoryDTO{},
	}
}

// Migrate creates or alters the schema to match Models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Tables returns the table names of Models, for truncation in tests and tooling.
func Tables() []string {
	return []string{
		orderrepo.OrderDTO{}.TableName(),
		orderrepo.HistoryDTO{}.TableName(),
		agentrepo.AgentDTO{}.TableName(),
		apartmentrepo.ApartmentDTO{}.TableName(),
		apartmentrepo.WindowDTO{}.TableName(),
		bulkorderrepo.BulkOrderDTO{}.TableName(),
		bulkorderrepo.ParticipantDTO{}.TableName(),
		bulkorderrepo.HistoryDTO{}.TableName(),
	}
}
