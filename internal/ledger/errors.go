package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBet indica resolve sobre um id inexistente.
	ErrUnknownBet = errors.New("unknown bet")
	// ErrAlreadyResolved indica resolve sobre aposta já liquidada.
	ErrAlreadyResolved = errors.New("bet already resolved")
	// ErrStakeExceedsLimit indica stake acima do teto com política strict.
	ErrStakeExceedsLimit = errors.New("stake exceeds configured limit")
	// ErrStakeNeedsConfirm indica stake acima do teto com política confirm,
	// sem confirmação explícita do chamador.
	ErrStakeNeedsConfirm = errors.New("stake exceeds limit; confirmation required")
)

// ValidationError indica entrada inválida em uma operação do livro.
// Nunca é persistido; o estado permanece intacto.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
