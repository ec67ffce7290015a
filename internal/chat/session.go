package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gestaobanca/bankroll-tracker-poc/internal/chat/analysis"
)

// State é o estado da conversa de um canal.
type State string

const (
	StateIdle            State = "idle"
	StateAwaitingMatchup State = "awaiting_matchup"
	StateAwaitingLeague  State = "awaiting_league"
)

// Matchup é a partida sendo montada ao longo da conversa.
type Matchup struct {
	Home   string
	Away   string
	League string
}

// Analyzer é o colaborador externo de análise (serviço real ou cache).
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// Respostas do bot (copy do painel).
const (
	msgPromptMatchup = "Excelente! Qual jogo (Time A vs Time B) você quer analisar?"
	msgBadMatchup    = "Formato inválido. Use 'Time A vs Time B'."
	msgPromptLeague  = "Entendido. E qual o campeonato?"
	msgUnrecognized  = `Comando não reconhecido. Digite "Quero Apostar" para iniciar.`
	msgBusy          = "Aguarde, ainda estou buscando a análise anterior."
	msgTransportFail = "Desculpe, não consegui conectar ao servidor de análise."
	msgDone          = `Análise concluída. Digite "Quero Apostar" para um novo jogo.`
)

// analysisTimeout limita a única suspensão da sessão: a chamada de análise.
const analysisTimeout = 10 * time.Second

// Session conduz a conversa de um canal de esporte, do gatilho até o pedido de
// análise. Cada canal tem a sua; sessões nunca se observam.
//
// Máquina de estados: Idle -> AwaitingMatchup -> AwaitingLeague -> Idle.
// Nenhum erro é terminal: entrada inválida devolve uma resposta de correção e
// mantém o estado; falha na análise devolve a mensagem de falha e a sessão
// volta para Idle sem estado parcial.
type Session struct {
	sport    string
	log      *zap.Logger
	analyzer Analyzer

	mu      sync.Mutex
	state   State
	pending Matchup
	// busy marca o intervalo entre emitir o pedido de análise e receber a
	// resposta; entrada nesse intervalo é rejeitada, não enfileirada.
	busy bool
}

// NewSession cria a sessão de um canal, em Idle.
func NewSession(log *zap.Logger, sport string, analyzer Analyzer) *Session {
	return &Session{
		sport:    sport,
		log:      log.With(zap.String("sport", sport)),
		analyzer: analyzer,
		state:    StateIdle,
	}
}

// State retorna o estado corrente da conversa.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HandleInput processa uma entrada do usuário e devolve as respostas do bot,
// na ordem em que devem ser exibidas. Entrada vazia não produz resposta.
func (s *Session) HandleInput(ctx context.Context, input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return []string{msgBusy}
	}

	switch s.state {
	case StateAwaitingMatchup:
		home, away, ok := SplitMatchup(input)
		if !ok {
			s.mu.Unlock()
			return []string{msgBadMatchup}
		}
		s.pending.Home = home
		s.pending.Away = away
		s.state = StateAwaitingLeague
		s.mu.Unlock()
		return []string{msgPromptLeague}

	case StateAwaitingLeague:
		s.pending.League = input
		req := analysis.Request{
			Sport:  s.sport,
			Home:   s.pending.Home,
			Away:   s.pending.Away,
			League: s.pending.League,
		}
		s.busy = true
		s.mu.Unlock()
		return s.analyze(ctx, req)

	default: // Idle
		if containsTrigger(input) {
			s.state = StateAwaitingMatchup
			s.mu.Unlock()
			return []string{msgPromptMatchup}
		}
		s.mu.Unlock()
		return []string{msgUnrecognized}
	}
}

// analyze executa o único ponto de suspensão da sessão. Qualquer que seja o
// desfecho (sucesso, erro do serviço, falha de transporte), a sessão volta
// para Idle com a partida pendente limpa.
func (s *Session) analyze(ctx context.Context, req analysis.Request) []string {
	replies := []string{fmt.Sprintf("Ok, buscando análise para %s vs %s...", req.Home, req.Away)}

	cctx, cancel := context.WithTimeout(ctx, analysisTimeout)
	res, err := s.analyzer.Analyze(cctx, req)
	cancel()

	s.mu.Lock()
	s.busy = false
	s.state = StateIdle
	s.pending = Matchup{}
	s.mu.Unlock()

	var svcErr *analysis.ServiceError
	switch {
	case errors.As(err, &svcErr):
		replies = append(replies, "⚠️ Erro: "+svcErr.Message)
	case err != nil:
		s.log.Warn("analysis request failed", zap.Error(err))
		replies = append(replies, msgTransportFail)
	default:
		replies = append(replies, formatResult(res))
	}

	return append(replies, msgDone)
}

// containsTrigger reconhece o gatilho de início de conversa, sem diferenciar
// maiúsculas e aceitando o texto em qualquer posição da frase.
func containsTrigger(input string) bool {
	lower := strings.ToLower(input)
	return strings.Contains(lower, "quero apostar") || strings.Contains(lower, "i want to bet")
}

// formatResult monta o texto de resposta a partir do resultado estruturado.
func formatResult(res *analysis.Result) string {
	var b strings.Builder
	b.WriteString("🎯 Melhor Entrada:\n")
	b.WriteString("Mercado: " + res.BestPick.Market + "\n")
	b.WriteString("Entrada: " + res.BestPick.Entry + "\n")
	if res.BestPick.Confidence != "" {
		b.WriteString("Confiança: " + res.BestPick.Confidence + "\n")
	}
	if res.BestPick.Rationale != "" {
		b.WriteString(res.BestPick.Rationale + "\n")
	}
	if len(res.OtherOptions) > 0 {
		b.WriteString("🔎 Outras Opções de Valor:\n")
		for _, op := range res.OtherOptions {
			line := "• " + op.Market + ": " + op.Entry
			if op.Confidence != "" {
				line += " (" + op.Confidence + ")"
			}
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
