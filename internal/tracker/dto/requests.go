package dto

// Valores monetários chegam como string de duas casas ("3.00"); a conversão
// para centavos acontece na borda HTTP.

type RecordBetRequest struct {
	Stake     string `json:"stake"`
	Odd       string `json:"odd"`
	Outcome   string `json:"outcome"`             // "pending" | "win" | "red"
	Surcharge string `json:"surcharge,omitempty"` // acréscimo; default 0.00
	Confirmed bool   `json:"confirmed,omitempty"` // autoriza stake acima do teto (política confirm)
}

type ResolveBetRequest struct {
	Outcome string `json:"outcome"` // "win" | "red"
}

type ConfigRequest struct {
	InitialBankroll string `json:"initial_bankroll"`
	MinimumGoal     string `json:"minimum_goal"`
	MaxStake        string `json:"max_stake"`
	EnforceMaxStake string `json:"enforce_max_stake,omitempty"` // "strict" | "confirm"
}

type ChatRequest struct {
	Message string `json:"message"`
}
