package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gestaobanca/bankroll-tracker-poc/internal/chat"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/ledger"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/tracker/dto"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/tracker/ws"
)

// LeagueLister é o colaborador de catálogo de campeonatos.
type LeagueLister interface {
	Leagues(ctx context.Context) ([]string, error)
}

// Server expõe o livro de apostas e o chat de análise via REST, e empurra o
// snapshot recalculado para o painel via WebSocket após cada mutação.
type Server struct {
	log     *zap.Logger
	engine  *ledger.Engine
	chat    *chat.Manager
	leagues LeagueLister
	hub     *ws.Hub // pode ser nil nos testes

	dailyLimit  int
	streakLimit int
}

// NewServer instancia a borda HTTP do tracker.
func NewServer(log *zap.Logger, engine *ledger.Engine, cm *chat.Manager, leagues LeagueLister, hub *ws.Hub, dailyLimit, streakLimit int) *Server {
	return &Server{
		log:         log,
		engine:      engine,
		chat:        cm,
		leagues:     leagues,
		hub:         hub,
		dailyLimit:  dailyLimit,
		streakLimit: streakLimit,
	}
}

// Router retorna o roteador com as rotas públicas do serviço.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/snapshot", s.getSnapshot)
	r.Get("/v1/bets", s.listBets)
	r.Post("/v1/bets", s.recordBet)
	r.Post("/v1/bets/{id}/resolve", s.resolveBet)
	r.Get("/v1/config", s.getConfig)
	r.Put("/v1/config", s.putConfig)
	r.Post("/v1/reset", s.reset)
	r.Post("/v1/chat/{sport}", s.chatMessage)
	r.Get("/v1/leagues", s.listLeagues)
	if s.hub != nil {
		r.Get("/ws", s.hub.HandleWS)
	}
	return r
}

// getSnapshot devolve a visão derivada: banca, contagem do dia e alerta ativo.
func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotResponse())
}

// listBets devolve a tabela de apostas com a banca acumulada por linha.
func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	cfg := s.engine.Config()
	records := s.engine.Records()

	rows := make([]dto.BetResponse, 0, len(records))
	running := cfg.InitialCents
	for _, rec := range records {
		row := dto.BetResponse{
			ID:        rec.ID,
			Date:      rec.Date,
			Stake:     ledger.FormatAmount(rec.StakeCents),
			Odd:       rec.Odd.String(),
			Outcome:   string(rec.Outcome),
			Surcharge: ledger.FormatAmount(rec.SurchargeCents),
		}
		if rec.ProfitCents != nil {
			running += *rec.ProfitCents
			row.Profit = ledger.FormatAmount(*rec.ProfitCents)
			row.BankrollAfter = ledger.FormatAmount(running)
		}
		rows = append(rows, row)
	}
	writeJSON(w, http.StatusOK, rows)
}

// recordBet registra uma nova aposta no livro.
func (s *Server) recordBet(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	in, err := toRecordInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.engine.RecordBet(r.Context(), in)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	betsRecordedTotal.Inc()
	s.pushSnapshot()
	writeJSON(w, http.StatusCreated, betResponse(rec))
}

// resolveBet liquida uma aposta pendente (win/red).
func (s *Server) resolveBet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.ResolveBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	rec, err := s.engine.ResolveBet(r.Context(), id, ledger.Outcome(req.Outcome))
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}
	betsResolvedTotal.WithLabelValues(string(rec.Outcome)).Inc()
	s.pushSnapshot()
	writeJSON(w, http.StatusOK, betResponse(rec))
}

// getConfig devolve a configuração vigente de banca.
func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse(s.engine.Config()))
}

// putConfig substitui a configuração por inteiro; a banca é recalculada sobre
// a nova base.
func (s *Server) putConfig(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	cfg, err := toConfig(req, s.engine.Config())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.engine.Reconfigure(r.Context(), cfg); err != nil {
		s.writeLedgerError(w, err)
		return
	}
	s.pushSnapshot()
	writeJSON(w, http.StatusOK, configResponse(cfg))
}

// reset apaga o livro; a banca volta ao valor inicial configurado.
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.pushSnapshot()
	writeJSON(w, http.StatusOK, s.snapshotResponse())
}

// chatMessage encaminha a mensagem para a sessão do canal de esporte.
func (s *Server) chatMessage(w http.ResponseWriter, r *http.Request) {
	sport := chi.URLParam(r, "sport")
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	replies, err := s.chat.HandleInput(r.Context(), sport, req.Message)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown sport channel")
		return
	}
	chatMessagesTotal.WithLabelValues(sport).Inc()

	session, _ := s.chat.Session(sport)
	writeJSON(w, http.StatusOK, dto.ChatResponse{
		Replies: replies,
		State:   string(session.State()),
	})
}

// listLeagues devolve o catálogo de campeonatos; falha degrada para a
// mensagem estática do painel.
func (s *Server) listLeagues(w http.ResponseWriter, r *http.Request) {
	leagues, err := s.leagues.Leagues(r.Context())
	if err != nil {
		s.log.Warn("league catalog failed", zap.Error(err))
		writeJSON(w, http.StatusOK, dto.LeaguesResponse{
			Message: "Não foi possível carregar a lista de campeonatos disponíveis.",
		})
		return
	}
	writeJSON(w, http.StatusOK, dto.LeaguesResponse{Leagues: leagues})
}

// snapshotResponse recalcula e monta a resposta de snapshot com o alerta ativo.
func (s *Server) snapshotResponse() dto.SnapshotResponse {
	cfg := s.engine.Config()
	snap := s.engine.Snapshot()
	alert := ledger.Evaluate(snap, cfg, s.dailyLimit, s.streakLimit)

	for _, kind := range []ledger.AlertKind{ledger.AlertDailyLimit, ledger.AlertStopLoss, ledger.AlertGoal} {
		v := 0.0
		if alert != nil && alert.Kind == kind {
			v = 1
		}
		alertsActive.WithLabelValues(string(kind)).Set(v)
	}

	outcomes := make([]string, 0, len(snap.TodayOutcomes))
	for _, o := range snap.TodayOutcomes {
		outcomes = append(outcomes, string(o))
	}

	resp := dto.SnapshotResponse{
		Date:          time.Now().Format(ledger.DateLayout),
		Bankroll:      ledger.FormatAmount(snap.BankrollCents),
		MaxStake:      ledger.FormatAmount(cfg.MaxStakeCents),
		TodayCount:    snap.TodayCount,
		DailyLimit:    s.dailyLimit,
		TodayOutcomes: outcomes,
	}
	if alert != nil {
		resp.Alert = &dto.AlertResponse{
			Kind:    string(alert.Kind),
			Streak:  alert.Streak,
			Message: alert.Message,
		}
	}
	return resp
}

// pushSnapshot empurra o snapshot recalculado para o painel via WebSocket.
func (s *Server) pushSnapshot() {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(s.snapshotResponse())
}

// writeLedgerError traduz os erros do livro em status HTTP.
func (s *Server) writeLedgerError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, ledger.ErrUnknownBet):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrAlreadyResolved):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrStakeExceedsLimit), errors.Is(err, ledger.ErrStakeNeedsConfirm):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("ledger operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func toRecordInput(req dto.RecordBetRequest) (ledger.RecordInput, error) {
	var in ledger.RecordInput
	stake, err := ledger.ParseAmount(req.Stake)
	if err != nil {
		return in, err
	}
	odd, err := ledger.ParseOdd(req.Odd)
	if err != nil {
		return in, err
	}
	surcharge := int64(0)
	if req.Surcharge != "" {
		if surcharge, err = ledger.ParseAmount(req.Surcharge); err != nil {
			return in, err
		}
	}
	in = ledger.RecordInput{
		StakeCents:     stake,
		Odd:            odd,
		Outcome:        ledger.Outcome(req.Outcome),
		SurchargeCents: surcharge,
		Confirmed:      req.Confirmed,
	}
	return in, nil
}

func toConfig(req dto.ConfigRequest, current ledger.Config) (ledger.Config, error) {
	var cfg ledger.Config
	initial, err := ledger.ParseAmount(req.InitialBankroll)
	if err != nil {
		return cfg, err
	}
	goal, err := ledger.ParseAmount(req.MinimumGoal)
	if err != nil {
		return cfg, err
	}
	maxStake, err := ledger.ParseAmount(req.MaxStake)
	if err != nil {
		return cfg, err
	}
	policy := current.EnforceMaxStake
	if req.EnforceMaxStake != "" {
		policy = ledger.StakePolicy(req.EnforceMaxStake)
	}
	cfg = ledger.Config{
		InitialCents:    initial,
		GoalCents:       goal,
		MaxStakeCents:   maxStake,
		EnforceMaxStake: policy,
	}
	return cfg, nil
}

func betResponse(rec *ledger.BetRecord) dto.BetResponse {
	row := dto.BetResponse{
		ID:        rec.ID,
		Date:      rec.Date,
		Stake:     ledger.FormatAmount(rec.StakeCents),
		Odd:       rec.Odd.String(),
		Outcome:   string(rec.Outcome),
		Surcharge: ledger.FormatAmount(rec.SurchargeCents),
	}
	if rec.ProfitCents != nil {
		row.Profit = ledger.FormatAmount(*rec.ProfitCents)
	}
	return row
}

func configResponse(cfg ledger.Config) dto.ConfigResponse {
	return dto.ConfigResponse{
		InitialBankroll: ledger.FormatAmount(cfg.InitialCents),
		MinimumGoal:     ledger.FormatAmount(cfg.GoalCents),
		MaxStake:        ledger.FormatAmount(cfg.MaxStakeCents),
		EnforceMaxStake: string(cfg.EnforceMaxStake),
	}
}

// writeJSON serializa a resposta em JSON com o status informado.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}
