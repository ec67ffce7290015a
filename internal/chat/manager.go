package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrUnknownChannel indica entrada para um canal de esporte não inicializado.
var ErrUnknownChannel = errors.New("unknown sport channel")

// DefaultSports são os canais do painel.
var DefaultSports = []string{"futebol", "nfl", "nba"}

// Manager mantém uma Session por canal de esporte. Os canais são independentes:
// cada um tem sua própria sessão e nenhum campo é compartilhado entre eles.
type Manager struct {
	sessions map[string]*Session
}

// NewManager cria uma sessão por esporte. Sem lista explícita, usa os canais
// padrão do painel.
func NewManager(log *zap.Logger, analyzer Analyzer, sports ...string) *Manager {
	if len(sports) == 0 {
		sports = DefaultSports
	}
	m := &Manager{sessions: make(map[string]*Session, len(sports))}
	for _, sport := range sports {
		m.sessions[sport] = NewSession(log, sport, analyzer)
	}
	return m
}

// Session retorna a sessão de um canal, se existir.
func (m *Manager) Session(sport string) (*Session, bool) {
	s, ok := m.sessions[sport]
	return s, ok
}

// HandleInput roteia a entrada para a sessão do canal.
func (m *Manager) HandleInput(ctx context.Context, sport, input string) ([]string, error) {
	s, ok := m.sessions[sport]
	if !ok {
		return nil, ErrUnknownChannel
	}
	return s.HandleInput(ctx, input), nil
}
