package events

// Evento publicado no tópico "bet_settled" quando uma aposta pendente é
// liquidada (win/red). BankrollCents é a banca recalculada após a liquidação.
type BetSettled struct {
	BetID         string `json:"bet_id"`
	Outcome       string `json:"outcome"` // "win" | "red"
	ProfitCents   int64  `json:"profit_cents"`
	BankrollCents int64  `json:"bankroll_cents"`
	TsUnixMs      int64  `json:"ts_unix_ms"`
}
