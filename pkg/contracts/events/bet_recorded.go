package events

// Evento publicado no tópico "bet_recorded" a cada aposta registrada no livro.
type BetRecorded struct {
	BetID          string `json:"bet_id"`
	Date           string `json:"date"` // DD/MM/AAAA
	StakeCents     int64  `json:"stake_cents"`
	Odd            string `json:"odd"`
	SurchargeCents int64  `json:"surcharge_cents"`
	Outcome        string `json:"outcome"` // "pending" | "win" | "red"
	TsUnixMs       int64  `json:"ts_unix_ms"`
}
