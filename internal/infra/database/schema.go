package database

import "database/sql"

// Tables owned by this core. Users, email_templates and analytics belong to
// the dashboard/auth collaborators and are not created here.
const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id SERIAL PRIMARY KEY,
	company_name TEXT NOT NULL,
	contact_person TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT,
	inquiry_type TEXT NOT NULL,
	message TEXT,
	source TEXT NOT NULL DEFAULT 'direct',
	utm_source TEXT,
	utm_medium TEXT,
	utm_campaign TEXT,
	industry TEXT,
	budget TEXT,
	timeline TEXT,
	requirements TEXT,
	status TEXT NOT NULL DEFAULT 'new',
	score INTEGER NOT NULL DEFAULT 0,
	assigned_to TEXT,
	tags TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS follow_ups (
	id SERIAL PRIMARY KEY,
	lead_id INTEGER NOT NULL REFERENCES leads (id) ON DELETE CASCADE,
	action TEXT NOT NULL,
	notes TEXT,
	performed_by TEXT,
	scheduled_for TIMESTAMPTZ,
	completed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS email_queue (
	id SERIAL PRIMARY KEY,
	lead_id INTEGER REFERENCES leads (id) ON DELETE SET NULL,
	recipient TEXT NOT NULL,
	subject TEXT NOT NULL,
	template TEXT NOT NULL,
	data TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	attempts INTEGER NOT NULL DEFAULT 0,
	last_attempt TIMESTAMPTZ,
	error TEXT,
	sent_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS notifications (
	id SERIAL PRIMARY KEY,
	lead_id INTEGER REFERENCES leads (id) ON DELETE CASCADE,
	type TEXT NOT NULL,
	title TEXT NOT NULL,
	message TEXT,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads (status);
CREATE INDEX IF NOT EXISTS idx_leads_email ON leads (email);
CREATE INDEX IF NOT EXISTS idx_leads_created ON leads (created_at);
CREATE INDEX IF NOT EXISTS idx_follow_ups_lead ON follow_ups (lead_id);
CREATE INDEX IF NOT EXISTS idx_email_queue_status ON email_queue (status);
`

func initSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
