package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gestaobanca/bankroll-tracker-poc/pkg/contracts/events"
)

// Persister grava o estado completo (registros + config) após cada mutação.
// A gravação é síncrona mas fire-and-forget: falha é logada, não desfaz a mutação.
type Persister interface {
	SaveState(ctx context.Context, st State) error
}

// EventPublisher emite eventos de auditoria das mutações do livro. Pode ser nil.
type EventPublisher interface {
	PublishBetRecorded(ctx context.Context, e events.BetRecorded) error
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// Engine é o dono exclusivo do livro de apostas: toda mutação passa por aqui.
// As operações são atômicas sob o mutex; nenhum chamador observa estado parcial.
type Engine struct {
	log   *zap.Logger
	store Persister
	publ  EventPublisher

	mu      sync.Mutex
	cfg     Config
	records []*BetRecord

	now func() time.Time
}

// New monta o engine a partir do estado carregado da persistência.
func New(log *zap.Logger, store Persister, publ EventPublisher, st State) *Engine {
	if err := st.Config.Validate(); err != nil {
		log.Warn("loaded config invalid; using defaults", zap.Error(err))
		st = DefaultState()
	}
	return &Engine{
		log:     log,
		store:   store,
		publ:    publ,
		cfg:     st.Config,
		records: st.Bets,
		now:     time.Now,
	}
}

// RecordInput são os campos de entrada de uma nova aposta.
type RecordInput struct {
	StakeCents     int64
	Odd            decimal.Decimal
	Outcome        Outcome
	SurchargeCents int64
	// Confirmed autoriza stake acima do teto quando a política é "confirm".
	Confirmed bool
}

// RecordBet valida e anexa uma nova aposta, carimbada com o dia corrente.
// A ordem de inserção é a ordem de verdade; o id serve só para lookup.
func (e *Engine) RecordBet(ctx context.Context, in RecordInput) (*BetRecord, error) {
	if in.StakeCents <= 0 {
		return nil, &ValidationError{Field: "stake", Reason: "must be positive"}
	}
	if in.Odd.Cmp(decimal.NewFromInt(1)) <= 0 {
		return nil, &ValidationError{Field: "odd", Reason: "must be greater than 1"}
	}
	if !in.Outcome.Valid() {
		return nil, &ValidationError{Field: "outcome", Reason: "must be pending, win or red"}
	}
	if in.SurchargeCents < 0 {
		return nil, &ValidationError{Field: "surcharge", Reason: "must not be negative"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if in.StakeCents > e.cfg.MaxStakeCents {
		switch e.cfg.EnforceMaxStake {
		case StakeConfirm:
			if !in.Confirmed {
				return nil, ErrStakeNeedsConfirm
			}
		default:
			return nil, ErrStakeExceedsLimit
		}
	}

	rec := &BetRecord{
		ID:             uuid.NewString(),
		Date:           e.now().Format(DateLayout),
		StakeCents:     in.StakeCents,
		Odd:            in.Odd,
		Outcome:        in.Outcome,
		SurchargeCents: in.SurchargeCents,
	}
	if in.Outcome.Resolved() {
		p := profitCents(in.StakeCents, in.Odd, in.SurchargeCents, in.Outcome)
		rec.ProfitCents = &p
	}
	e.records = append(e.records, rec)
	e.persist(ctx)

	if e.publ != nil {
		if err := e.publ.PublishBetRecorded(ctx, events.BetRecorded{
			BetID:          rec.ID,
			Date:           rec.Date,
			StakeCents:     rec.StakeCents,
			Odd:            rec.Odd.String(),
			SurchargeCents: rec.SurchargeCents,
			Outcome:        string(rec.Outcome),
		}); err != nil {
			e.log.Warn("publish bet_recorded failed", zap.Error(err))
		}
	}

	out := *rec
	return &out, nil
}

// ResolveBet liquida uma aposta pendente. A transição é terminal: uma aposta
// já liquidada retorna ErrAlreadyResolved e nada muda.
func (e *Engine) ResolveBet(ctx context.Context, id string, out Outcome) (*BetRecord, error) {
	if !out.Resolved() {
		return nil, &ValidationError{Field: "outcome", Reason: "must be win or red"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var rec *BetRecord
	for _, r := range e.records {
		if r.ID == id {
			rec = r
			break
		}
	}
	if rec == nil {
		return nil, ErrUnknownBet
	}
	if rec.Outcome != OutcomePending {
		return nil, ErrAlreadyResolved
	}

	p := profitCents(rec.StakeCents, rec.Odd, rec.SurchargeCents, out)
	rec.Outcome = out
	rec.ProfitCents = &p
	e.persist(ctx)

	if e.publ != nil {
		if err := e.publ.PublishBetSettled(ctx, events.BetSettled{
			BetID:         rec.ID,
			Outcome:       string(rec.Outcome),
			ProfitCents:   p,
			BankrollCents: e.recomputeLocked().BankrollCents,
		}); err != nil {
			e.log.Warn("publish bet_settled failed", zap.Error(err))
		}
	}

	cp := *rec
	return &cp, nil
}

// Reconfigure substitui a configuração por inteiro. A banca passa a ser
// recalculada sobre a nova base; com o livro vazio, volta ao novo valor inicial.
func (e *Engine) Reconfigure(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
	e.persist(ctx)
	return nil
}

// Reset apaga todos os registros; a banca volta ao valor inicial configurado.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = nil
	e.persist(ctx)
	return nil
}

// Snapshot recalcula a visão derivada do livro. Determinístico: duas chamadas
// sem mutação no meio produzem o mesmo resultado.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recomputeLocked()
}

func (e *Engine) recomputeLocked() Snapshot {
	today := e.now().Format(DateLayout)
	snap := Snapshot{BankrollCents: e.cfg.InitialCents}
	for _, r := range e.records {
		if r.ProfitCents != nil {
			snap.BankrollCents += *r.ProfitCents
		}
		if r.Date == today {
			snap.TodayCount++
			if r.Outcome.Resolved() {
				snap.TodayOutcomes = append(snap.TodayOutcomes, r.Outcome)
			}
		}
	}
	return snap
}

// Records retorna uma cópia dos registros na ordem de inserção.
func (e *Engine) Records() []BetRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]BetRecord, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, *r)
	}
	return out
}

// Config retorna a configuração vigente.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

func (e *Engine) persist(ctx context.Context) {
	st := State{Bets: e.records, Config: e.cfg}
	if err := e.store.SaveState(ctx, st); err != nil {
		e.log.Warn("save state failed", zap.Error(err))
	}
}
