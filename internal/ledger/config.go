package ledger

// StakePolicy define o comportamento quando a stake excede o teto configurado.
type StakePolicy string

const (
	// StakeStrict rejeita a aposta acima do teto.
	StakeStrict StakePolicy = "strict"
	// StakeConfirm aceita a aposta acima do teto mediante confirmação explícita.
	StakeConfirm StakePolicy = "confirm"
)

// Config é a configuração de banca. É substituída por inteiro via Reconfigure
// e persistida junto com os registros a cada mutação.
type Config struct {
	InitialCents    int64       `json:"initial_cents"`
	GoalCents       int64       `json:"goal_cents"`
	MaxStakeCents   int64       `json:"max_stake_cents"`
	EnforceMaxStake StakePolicy `json:"enforce_max_stake"`
}

// Defaults usados quando não há estado salvo (ou o blob está corrompido).
const (
	DefaultInitialCents  = 3000  // R$ 30.00
	DefaultGoalCents     = 20000 // R$ 200.00
	DefaultMaxStakeCents = 300   // R$ 3.00
)

// DefaultConfig retorna a configuração padrão de banca.
func DefaultConfig() Config {
	return Config{
		InitialCents:    DefaultInitialCents,
		GoalCents:       DefaultGoalCents,
		MaxStakeCents:   DefaultMaxStakeCents,
		EnforceMaxStake: StakeStrict,
	}
}

// Validate checa os invariantes da configuração.
func (c Config) Validate() error {
	if c.InitialCents <= 0 {
		return &ValidationError{Field: "initial_bankroll", Reason: "must be positive"}
	}
	if c.MaxStakeCents <= 0 {
		return &ValidationError{Field: "max_stake", Reason: "must be positive"}
	}
	if c.EnforceMaxStake != StakeStrict && c.EnforceMaxStake != StakeConfirm {
		return &ValidationError{Field: "enforce_max_stake", Reason: "must be strict or confirm"}
	}
	return nil
}

// State é o blob completo persistido a cada mutação: registros + configuração.
type State struct {
	Bets   []*BetRecord `json:"bets"`
	Config Config       `json:"config"`
}

// DefaultState retorna o estado inicial: sem apostas, configuração padrão.
func DefaultState() State {
	return State{Config: DefaultConfig()}
}
