package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gestaobanca/bankroll-tracker-poc/pkg/contracts/events"
)

// PostgresRepo grava a trilha de auditoria das mutações do livro. Diferente do
// estado do tracker, a trilha é append-only: nada aqui é sobrescrito.
type PostgresRepo struct{ db *sql.DB }

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

// EnsureSchema cria a tabela de auditoria na primeira subida do worker.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bet_audit (
			seq BIGSERIAL PRIMARY KEY,
			bet_id UUID NOT NULL,
			kind TEXT NOT NULL, -- 'RECORDED' | 'SETTLED'
			bet_date TEXT,
			stake_cents BIGINT,
			odd TEXT,
			surcharge_cents BIGINT,
			outcome TEXT,
			profit_cents BIGINT,
			bankroll_cents BIGINT,
			event_ts_ms BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

// InsertRecorded registra na trilha uma aposta recém-criada.
func (r *PostgresRepo) InsertRecorded(ctx context.Context, e events.BetRecorded) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bet_audit (bet_id, kind, bet_date, stake_cents, odd, surcharge_cents, outcome, event_ts_ms)
		VALUES ($1,'RECORDED',$2,$3,$4,$5,$6,$7)`,
		e.BetID, e.Date, e.StakeCents, e.Odd, e.SurchargeCents, e.Outcome, e.TsUnixMs,
	)
	return err
}

// InsertSettled registra na trilha uma liquidação, com a banca resultante.
func (r *PostgresRepo) InsertSettled(ctx context.Context, e events.BetSettled) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bet_audit (bet_id, kind, outcome, profit_cents, bankroll_cents, event_ts_ms)
		VALUES ($1,'SETTLED',$2,$3,$4,$5)`,
		e.BetID, e.Outcome, e.ProfitCents, e.BankrollCents, e.TsUnixMs,
	)
	return err
}
