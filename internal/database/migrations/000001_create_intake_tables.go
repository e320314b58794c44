package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateIntakeTables creates the passport_applications and renewals tables
func CreateIntakeTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_intake_tables",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

				CREATE TABLE IF NOT EXISTS passport_applications (
					id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
					reference VARCHAR(32) NOT NULL UNIQUE,
					full_name VARCHAR(255) NOT NULL,
					email VARCHAR(255) NOT NULL,
					dob DATE NOT NULL,
					id_number VARCHAR(100) NOT NULL,
					nationality VARCHAR(100) NOT NULL,
					birth_place VARCHAR(255) NOT NULL,
					district VARCHAR(50) NOT NULL,
					head_chief VARCHAR(255) NOT NULL,
					sex VARCHAR(10) NOT NULL,
					passport_type VARCHAR(20) NOT NULL DEFAULT '32 pages',
					guardian_name VARCHAR(255),
					guardian_id VARCHAR(100),
					photo_url TEXT NOT NULL,
					docs_url TEXT NOT NULL,
					signature_url TEXT NOT NULL,
					status VARCHAR(30) NOT NULL DEFAULT 'Processing',
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_passport_applications_reference ON passport_applications(reference);
				CREATE INDEX idx_passport_applications_status ON passport_applications(status);
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS renewals (
					id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
					reference VARCHAR(32) NOT NULL UNIQUE,
					name VARCHAR(255) NOT NULL,
					surname VARCHAR(255) NOT NULL,
					passport_number VARCHAR(50) NOT NULL,
					district VARCHAR(50) NOT NULL,
					photo_url TEXT NOT NULL,
					status VARCHAR(30) NOT NULL DEFAULT 'Processing',
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_renewals_reference ON renewals(reference);
				CREATE INDEX idx_renewals_passport_number ON renewals(passport_number);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS renewals;
				DROP TABLE IF EXISTS passport_applications;
			`).Error
		},
	}
}
