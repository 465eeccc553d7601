// Package migration cria o schema do banco. Todas as instruções são
// idempotentes e podem rodar a cada subida da API.
package migration

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/marlogas/caja-api/infrastructure/database/postgres"
	"github.com/sirupsen/logrus"
)

type step struct {
	name string
	sql  string
}

var steps = []step{
	{
		name: "tabela users",
		sql: `CREATE TABLE IF NOT EXISTS users (
			id            SERIAL PRIMARY KEY,
			username      VARCHAR(64) NOT NULL UNIQUE,
			name          VARCHAR(128) NOT NULL DEFAULT '',
			password_hash VARCHAR(255) NOT NULL,
			active        BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "tabela dispatches",
		sql: `CREATE TABLE IF NOT EXISTS dispatches (
			id             VARCHAR(32) PRIMARY KEY,
			client         VARCHAR(255) NOT NULL,
			address        VARCHAR(255) NOT NULL,
			gas            INTEGER NOT NULL DEFAULT 0,
			water          INTEGER NOT NULL DEFAULT 0,
			price          NUMERIC(12,2) NOT NULL,
			payment_method VARCHAR(32) NOT NULL,
			cylinders      INTEGER,
			notes          TEXT NOT NULL DEFAULT '',
			business_date  DATE NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "índice dispatches por data",
		sql:  `CREATE INDEX IF NOT EXISTS dispatches_business_date_idx ON dispatches (business_date, created_at DESC)`,
	},
	{
		name: "tabela register_sessions",
		sql: `CREATE TABLE IF NOT EXISTS register_sessions (
			id              VARCHAR(32) PRIMARY KEY,
			business_date   DATE NOT NULL,
			opening_balance NUMERIC(12,2) NOT NULL,
			status          VARCHAR(16) NOT NULL,
			cash_total      NUMERIC(12,2),
			wallet_total    NUMERIC(12,2),
			drawer_total    NUMERIC(12,2),
			opened_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			closed_at       TIMESTAMPTZ
		)`,
	},
	{
		// No máximo uma caja aperturada por data, garantido pelo banco
		name: "índice único de caja aberta",
		sql: `CREATE UNIQUE INDEX IF NOT EXISTS register_sessions_open_date_idx
			ON register_sessions (business_date) WHERE status = 'aperturada'`,
	},
}

// Migrate aplica o schema dentro de uma única transação
func Migrate(ctx context.Context, conn postgres.Conn) error {
	return conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, s := range steps {
			if _, err := tx.ExecContext(ctx, s.sql); err != nil {
				return fmt.Errorf("erro ao aplicar migração %q: %w", s.name, err)
			}
			logrus.WithField("step", s.name).Debug("Migração aplicada")
		}
		return nil
	})
}
