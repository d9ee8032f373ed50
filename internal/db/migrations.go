package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_status') THEN
			CREATE TYPE complaint_status AS ENUM ('new', 'in_progress', 'resolved', 'closed', 'rejected');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'complaint_priority') THEN
			CREATE TYPE complaint_priority AS ENUM ('low', 'medium', 'high', 'critical');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'notice_status') THEN
			CREATE TYPE notice_status AS ENUM ('draft', 'published', 'archived');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'notice_type') THEN
			CREATE TYPE notice_type AS ENUM ('general', 'event', 'tender', 'emergency', 'maintenance');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'notification_type') THEN
			CREATE TYPE notification_type AS ENUM ('notice', 'complaint', 'payment', 'system');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_status') THEN
			CREATE TYPE payment_status AS ENUM ('pending', 'success', 'failed', 'refunded', 'cancelled');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS wards (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		number INT NOT NULL,
		name VARCHAR(255) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS departments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		sla_hours INT NOT NULL DEFAULT 72
	);`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		full_name VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'citizen',
		ward_id UUID REFERENCES wards(id) ON DELETE SET NULL,
		department_id UUID REFERENCES departments(id) ON DELETE SET NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_users_role_ward ON users (role, ward_id);`,
	`CREATE TABLE IF NOT EXISTS complaints (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tracking_code VARCHAR(32) NOT NULL UNIQUE,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		status complaint_status NOT NULL DEFAULT 'new',
		priority complaint_priority NOT NULL DEFAULT 'medium',
		citizen_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		ward_id UUID NOT NULL REFERENCES wards(id) ON DELETE RESTRICT,
		department_id UUID REFERENCES departments(id) ON DELETE SET NULL,
		category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
		assignee_id UUID REFERENCES users(id) ON DELETE SET NULL,
		sla_due_at TIMESTAMPTZ,
		resolved_at TIMESTAMPTZ,
		resolution_notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_ward_id ON complaints (ward_id);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_department_id ON complaints (department_id);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_citizen_id ON complaints (citizen_id);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_created_at ON complaints (created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_complaints_sla_due_at ON complaints (sla_due_at);`,
	`CREATE TABLE IF NOT EXISTS complaint_status_history (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		complaint_id UUID NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
		old_status complaint_status,
		new_status complaint_status NOT NULL,
		reason TEXT,
		changed_by UUID REFERENCES users(id) ON DELETE SET NULL,
		via_escalation BOOLEAN NOT NULL DEFAULT FALSE,
		via_override BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_status_history_complaint_id ON complaint_status_history (complaint_id, created_at);`,
	`CREATE TABLE IF NOT EXISTS complaint_attachments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		complaint_id UUID NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
		file_name VARCHAR(255) NOT NULL,
		file_url TEXT NOT NULL,
		uploaded_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_attachments_complaint_id ON complaint_attachments (complaint_id);`,
	`CREATE TABLE IF NOT EXISTS notices (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		slug VARCHAR(255) NOT NULL UNIQUE,
		title VARCHAR(255) NOT NULL,
		title_local VARCHAR(255),
		content TEXT NOT NULL,
		content_local TEXT,
		notice_type notice_type NOT NULL DEFAULT 'general',
		status notice_status NOT NULL DEFAULT 'draft',
		urgent BOOLEAN NOT NULL DEFAULT FALSE,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		tags TEXT[],
		ward_ids UUID[],
		department_id UUID REFERENCES departments(id) ON DELETE SET NULL,
		created_by UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		published_at TIMESTAMPTZ,
		first_published_at TIMESTAMPTZ,
		expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_notices_status ON notices (status);`,
	`CREATE INDEX IF NOT EXISTS idx_notices_published_at ON notices (published_at);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		notification_type notification_type NOT NULL,
		related_entity_type VARCHAR(64),
		related_entity_id UUID,
		action_url TEXT,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		read_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications (user_id, created_at);`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		reference_code VARCHAR(64) NOT NULL UNIQUE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		amount BIGINT NOT NULL,
		currency VARCHAR(8) NOT NULL,
		status payment_status NOT NULL DEFAULT 'pending',
		gateway VARCHAR(64),
		method VARCHAR(64),
		linked_entity_type VARCHAR(64),
		linked_entity_id UUID,
		paid_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments (user_id, created_at);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_complaints_updated_at') THEN
			CREATE TRIGGER trg_complaints_updated_at BEFORE UPDATE ON complaints
			FOR EACH ROW EXECUTE FUNCTION set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_notices_updated_at') THEN
			CREATE TRIGGER trg_notices_updated_at BEFORE UPDATE ON notices
			FOR EACH ROW EXECUTE FUNCTION set_row_updated_at();
		END IF;
	END
	$$;`,
	// Transactional status transition: row lock, status write and the
	// history insert succeed or fail together.
	`CREATE OR REPLACE FUNCTION transition_complaint_status(
		p_complaint_id UUID,
		p_next_status complaint_status,
		p_reason TEXT,
		p_changed_by UUID,
		p_via_escalation BOOLEAN,
		p_via_override BOOLEAN
	) RETURNS VOID AS $$
	DECLARE
		v_old complaint_status;
	BEGIN
		SELECT status INTO v_old FROM complaints WHERE id = p_complaint_id FOR UPDATE;
		IF NOT FOUND THEN
			RAISE EXCEPTION 'complaint % not found', p_complaint_id;
		END IF;

		UPDATE complaints
		SET status = p_next_status,
			updated_at = NOW(),
			resolved_at = CASE
				WHEN p_next_status IN ('resolved', 'closed', 'rejected') THEN COALESCE(resolved_at, NOW())
				ELSE resolved_at
			END
		WHERE id = p_complaint_id;

		INSERT INTO complaint_status_history
			(complaint_id, old_status, new_status, reason, changed_by, via_escalation, via_override)
		VALUES
			(p_complaint_id, v_old, p_next_status, NULLIF(TRIM(p_reason), ''), p_changed_by, p_via_escalation, p_via_override);
	END;
	$$ LANGUAGE plpgsql;`,
	`CREATE OR REPLACE FUNCTION notify_user(
		p_user_id UUID,
		p_title TEXT,
		p_message TEXT,
		p_notification_type notification_type,
		p_related_entity_type TEXT,
		p_related_entity_id UUID,
		p_action_url TEXT
	) RETURNS UUID AS $$
	DECLARE
		v_id UUID;
	BEGIN
		INSERT INTO notifications
			(user_id, title, message, notification_type, related_entity_type, related_entity_id, action_url)
		VALUES
			(p_user_id, p_title, p_message, p_notification_type, p_related_entity_type, p_related_entity_id, p_action_url)
		RETURNING id INTO v_id;
		RETURN v_id;
	END;
	$$ LANGUAGE plpgsql;`,
}

func runMigrations(database *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := database.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
