package ledger

import "fmt"

// Snapshot é a visão derivada do livro: banca atual, apostas do dia e a
// sequência (em ordem de inserção) dos resultados liquidados de hoje.
type Snapshot struct {
	BankrollCents int64
	TodayCount    int
	TodayOutcomes []Outcome
}

// AlertKind identifica o tipo de alerta de risco.
type AlertKind string

const (
	AlertDailyLimit AlertKind = "daily_limit"
	AlertStopLoss   AlertKind = "stop_loss"
	AlertGoal       AlertKind = "goal"
)

// Alert é o único alerta ativo no momento, já com a mensagem do painel.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Streak  int       `json:"streak,omitempty"`
	Message string    `json:"message"`
}

// Limites de risco padrão do produto.
const (
	DefaultDailyLimit  = 10
	DefaultStreakLimit = 3
)

// Evaluate produz no máximo um alerta, avaliado nesta precedência:
// limite diário, stop loss por sequência de reds, meta atingida.
// O primeiro que casar vence; os demais não são considerados.
func Evaluate(snap Snapshot, cfg Config, dailyLimit, streakLimit int) *Alert {
	if snap.TodayCount >= dailyLimit {
		return &Alert{
			Kind:    AlertDailyLimit,
			Message: "⚠️ LIMITE DIÁRIO ATINGIDO!",
		}
	}

	if n := trailingReds(snap.TodayOutcomes); n >= streakLimit {
		return &Alert{
			Kind:    AlertStopLoss,
			Streak:  n,
			Message: fmt.Sprintf("🚨 STOP LOSS! %d REDs seguidos.", n),
		}
	}

	if snap.BankrollCents >= cfg.GoalCents {
		return &Alert{
			Kind:    AlertGoal,
			Message: "🏆 PARABÉNS! META ATINGIDA!",
		}
	}

	return nil
}

// trailingReds conta os reds consecutivos no fim da sequência do dia,
// varrendo do mais recente para trás até encontrar um win.
func trailingReds(outcomes []Outcome) int {
	n := 0
	for i := len(outcomes) - 1; i >= 0; i-- {
		if outcomes[i] == OutcomeRed {
			n++
			continue
		}
		if outcomes[i] == OutcomeWin {
			break
		}
	}
	return n
}
