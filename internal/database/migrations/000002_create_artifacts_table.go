package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateArtifactsTable creates the uploaded_artifacts book-keeping table
func CreateArtifactsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_artifacts_table",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS uploaded_artifacts (
					id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
					kind VARCHAR(20) NOT NULL,
					object_name VARCHAR(255) NOT NULL,
					url TEXT NOT NULL UNIQUE,
					claimed BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
				);

				CREATE INDEX idx_uploaded_artifacts_claimed_created_at
					ON uploaded_artifacts(claimed, created_at);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP TABLE IF EXISTS uploaded_artifacts;`).Error
		},
	}
}
