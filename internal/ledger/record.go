package ledger

import (
	"github.com/shopspring/decimal"
)

// Outcome é o resultado de uma aposta registrada.
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeWin     Outcome = "win"
	OutcomeRed     Outcome = "red"
)

// Valid informa se o valor é um dos três resultados conhecidos.
func (o Outcome) Valid() bool {
	return o == OutcomePending || o == OutcomeWin || o == OutcomeRed
}

// Resolved informa se o resultado é terminal (win ou red).
func (o Outcome) Resolved() bool {
	return o == OutcomeWin || o == OutcomeRed
}

// DateLayout é o formato de dia usado nos registros (igual ao painel: DD/MM/AAAA).
const DateLayout = "02/01/2006"

// BetRecord é uma aposta registrada no livro.
// ProfitCents só existe quando Outcome é terminal; é sempre derivado, nunca
// informado de fora.
type BetRecord struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	StakeCents     int64           `json:"stake_cents"`
	Odd            decimal.Decimal `json:"odd"`
	Outcome        Outcome         `json:"outcome"`
	SurchargeCents int64           `json:"surcharge_cents"`
	ProfitCents    *int64          `json:"profit_cents,omitempty"`
}

// profitCents deriva o ganho/perda em centavos para um resultado terminal:
// win => stake*(odd-1)+acréscimo, red => -stake.
func profitCents(stakeCents int64, odd decimal.Decimal, surchargeCents int64, out Outcome) int64 {
	if out == OutcomeRed {
		return -stakeCents
	}
	gain := decimal.NewFromInt(stakeCents).Mul(odd.Sub(decimal.NewFromInt(1))).Round(0)
	return gain.IntPart() + surchargeCents
}
