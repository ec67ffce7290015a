package dto

type BetResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Stake     string `json:"stake"`
	Odd       string `json:"odd"`
	Outcome   string `json:"outcome"`
	Surcharge string `json:"surcharge"`
	Profit    string `json:"profit,omitempty"` // vazio enquanto pendente
	// BankrollAfter é a banca acumulada até esta linha (coluna "Banca Final"
	// da tabela); vazio enquanto a aposta está pendente.
	BankrollAfter string `json:"bankroll_after,omitempty"`
}

type AlertResponse struct {
	Kind    string `json:"kind"`
	Streak  int    `json:"streak,omitempty"`
	Message string `json:"message"`
}

type SnapshotResponse struct {
	Date          string         `json:"date"`
	Bankroll      string         `json:"bankroll"`
	MaxStake      string         `json:"max_stake"`
	TodayCount    int            `json:"today_count"`
	DailyLimit    int            `json:"daily_limit"`
	TodayOutcomes []string       `json:"today_outcomes"`
	Alert         *AlertResponse `json:"alert,omitempty"`
}

type ConfigResponse struct {
	InitialBankroll string `json:"initial_bankroll"`
	MinimumGoal     string `json:"minimum_goal"`
	MaxStake        string `json:"max_stake"`
	EnforceMaxStake string `json:"enforce_max_stake"`
}

type ChatResponse struct {
	Replies []string `json:"replies"`
	State   string   `json:"state"`
}

type LeaguesResponse struct {
	Leagues []string `json:"leagues,omitempty"`
	Message string   `json:"message,omitempty"` // preenchido quando o catálogo falhou
}

type ErrorResponse struct {
	Error string `json:"error"`
}
