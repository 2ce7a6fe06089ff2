package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS contractors (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id BIGSERIAL PRIMARY KEY,
		contractor_id UUID NOT NULL REFERENCES contractors(id),
		from_station VARCHAR(128) NOT NULL,
		to_station VARCHAR(128) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS bills (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		bill_number VARCHAR(64) NOT NULL,
		bill_date DATE NOT NULL,
		contractor_id UUID REFERENCES contractors(id),
		sanctioned_number VARCHAR(64) NOT NULL DEFAULT '',
		gross_total NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_deductions NUMERIC(18,2) NOT NULL DEFAULT 0,
		net_amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		penalty NUMERIC(18,2) NOT NULL DEFAULT 0,
		income_tax NUMERIC(18,2) NOT NULL DEFAULT 0,
		zakat NUMERIC(18,2) NOT NULL DEFAULT 0,
		education_cess NUMERIC(18,2) NOT NULL DEFAULT 0,
		welfare_fund NUMERIC(18,2) NOT NULL DEFAULT 0,
		gst_current_bill NUMERIC(18,2) NOT NULL DEFAULT 0,
		pst_current_bill NUMERIC(18,2) NOT NULL DEFAULT 0,
		others NUMERIC(18,2) NOT NULL DEFAULT 0,
		others_description TEXT NOT NULL DEFAULT '',
		certification_points TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_bills_net CHECK (net_amount = gross_total - total_deductions)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_bills_bill_number ON bills (bill_number);`,
	`CREATE INDEX IF NOT EXISTS idx_bills_contractor_id ON bills (contractor_id) WHERE contractor_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_bills_bill_date ON bills (bill_date);`,
	`CREATE TABLE IF NOT EXISTS bill_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		bill_id UUID NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		position INT NOT NULL DEFAULT 0,
		from_station VARCHAR(128) NOT NULL,
		to_station VARCHAR(128) NOT NULL,
		transport_mode VARCHAR(64) NOT NULL DEFAULT '',
		total_bags INT NOT NULL DEFAULT 0,
		pp_bags INT NOT NULL DEFAULT 0,
		jute_bags INT NOT NULL DEFAULT 0,
		gross_kg NUMERIC(18,2) NOT NULL DEFAULT 0,
		bardana_kg NUMERIC(18,3) NOT NULL DEFAULT 0,
		net_kg NUMERIC(18,2) NOT NULL DEFAULT 0,
		rate_per_kg NUMERIC(18,4) NOT NULL DEFAULT 0,
		amount NUMERIC(18,2) NOT NULL DEFAULT 0,
		contract_id BIGINT REFERENCES contracts(id),
		CONSTRAINT chk_bill_items_weight CHECK (net_kg <= gross_kg)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_bill_items_bill_id ON bill_items (bill_id);`,
	`CREATE INDEX IF NOT EXISTS idx_bill_items_contract_id ON bill_items (contract_id) WHERE contract_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS bill_attachments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		bill_id UUID NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		content_ref TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		user_id UUID,
		user_name VARCHAR(255) NOT NULL DEFAULT '',
		action VARCHAR(128) NOT NULL,
		details JSONB NOT NULL DEFAULT '{}'::jsonb
	);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log (created_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
