package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gestaobanca/bankroll-tracker-poc/internal/ledger"
)

// Postgres persiste o estado completo do livro: uma linha de configuração e o
// conjunto de apostas na ordem de inserção. O save é sempre estado-inteiro,
// espelhando o contrato de persistência do painel.
type Postgres struct{ db *sql.DB }

// NewPostgres retorna o repositório de estado.
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// EnsureSchema cria as tabelas na primeira subida.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bankroll_config (
			id SMALLINT PRIMARY KEY CHECK (id = 1),
			initial_cents BIGINT NOT NULL,
			goal_cents BIGINT NOT NULL,
			max_stake_cents BIGINT NOT NULL,
			enforce_max_stake TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS bet_records (
			position INT PRIMARY KEY,
			id UUID NOT NULL,
			bet_date TEXT NOT NULL,
			stake_cents BIGINT NOT NULL,
			odd TEXT NOT NULL,
			outcome TEXT NOT NULL,
			surcharge_cents BIGINT NOT NULL,
			profit_cents BIGINT
		)`,
	}
	for _, s := range stmts {
		if _, err := p.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveState grava o estado por inteiro em uma transação: upsert da config e
// substituição completa dos registros. Ou aplica tudo, ou nada.
func (p *Postgres) SaveState(ctx context.Context, st ledger.State) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO bankroll_config (id, initial_cents, goal_cents, max_stake_cents, enforce_max_stake, updated_at)
		VALUES (1, $1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			initial_cents = EXCLUDED.initial_cents,
			goal_cents = EXCLUDED.goal_cents,
			max_stake_cents = EXCLUDED.max_stake_cents,
			enforce_max_stake = EXCLUDED.enforce_max_stake,
			updated_at = now()`,
		st.Config.InitialCents, st.Config.GoalCents, st.Config.MaxStakeCents, string(st.Config.EnforceMaxStake),
	); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM bet_records`); err != nil {
		return err
	}
	for i, b := range st.Bets {
		var profit sql.NullInt64
		if b.ProfitCents != nil {
			profit = sql.NullInt64{Int64: *b.ProfitCents, Valid: true}
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO bet_records (position, id, bet_date, stake_cents, odd, outcome, surcharge_cents, profit_cents)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			i, b.ID, b.Date, b.StakeCents, b.Odd.String(), string(b.Outcome), b.SurchargeCents, profit,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadState lê o estado salvo. A ausência de config é reportada como erro para
// o chamador cair nos defaults; linha corrompida idem.
func (p *Postgres) LoadState(ctx context.Context) (ledger.State, error) {
	var st ledger.State
	var policy string
	err := p.db.QueryRowContext(ctx, `
		SELECT initial_cents, goal_cents, max_stake_cents, enforce_max_stake
		FROM bankroll_config WHERE id=1`,
	).Scan(&st.Config.InitialCents, &st.Config.GoalCents, &st.Config.MaxStakeCents, &policy)
	if err != nil {
		return ledger.State{}, fmt.Errorf("load config: %w", err)
	}
	st.Config.EnforceMaxStake = ledger.StakePolicy(policy)
	if err := st.Config.Validate(); err != nil {
		return ledger.State{}, fmt.Errorf("load config: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, bet_date, stake_cents, odd, outcome, surcharge_cents, profit_cents
		FROM bet_records ORDER BY position`)
	if err != nil {
		return ledger.State{}, fmt.Errorf("load bets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b ledger.BetRecord
		var oddStr, outcome string
		var profit sql.NullInt64
		if err := rows.Scan(&b.ID, &b.Date, &b.StakeCents, &oddStr, &outcome, &b.SurchargeCents, &profit); err != nil {
			return ledger.State{}, fmt.Errorf("load bets: %w", err)
		}
		odd, err := ledger.ParseOdd(oddStr)
		if err != nil {
			return ledger.State{}, fmt.Errorf("load bets: %w", err)
		}
		b.Odd = odd
		b.Outcome = ledger.Outcome(outcome)
		if !b.Outcome.Valid() {
			return ledger.State{}, fmt.Errorf("load bets: invalid outcome %q", outcome)
		}
		if profit.Valid {
			v := profit.Int64
			b.ProfitCents = &v
		}
		st.Bets = append(st.Bets, &b)
	}
	if err := rows.Err(); err != nil {
		return ledger.State{}, fmt.Errorf("load bets: %w", err)
	}

	return st, nil
}
