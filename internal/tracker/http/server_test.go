package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gestaobanca/bankroll-tracker-poc/internal/chat"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/chat/analysis"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/ledger"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/tracker/dto"
)

type nopStore struct{}

func (nopStore) SaveState(ctx context.Context, st ledger.State) error { return nil }

type stubLeagues struct {
	leagues []string
	err     error
}

func (s stubLeagues) Leagues(ctx context.Context) ([]string, error) { return s.leagues, s.err }

type stubAnalyzer struct {
	res *analysis.Result
	err error
}

func (s stubAnalyzer) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	return s.res, s.err
}

func newTestServer(t *testing.T) (*Server, *ledger.Engine) {
	t.Helper()
	log := zap.NewNop()
	eng := ledger.New(log, nopStore{}, nil, ledger.DefaultState())
	cm := chat.NewManager(log, stubAnalyzer{res: &analysis.Result{
		BestPick: analysis.Pick{Market: "Gols (Over/Under)", Entry: "Mais de 2.5 gols"},
	}})
	srv := NewServer(log, eng, cm, stubLeagues{leagues: []string{"brasileirão"}}, nil,
		ledger.DefaultDailyLimit, ledger.DefaultStreakLimit)
	return srv, eng
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRecordAndSnapshot(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	rr := doJSON(t, h, http.MethodPost, "/v1/bets", `{"stake":"3.00","odd":"1.85","outcome":"win","surcharge":"0.50"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, corpo %s", rr.Code, rr.Body.String())
	}
	var bet dto.BetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &bet); err != nil {
		t.Fatal(err)
	}
	if bet.ID == "" || bet.Outcome != "win" {
		t.Fatalf("bet = %+v", bet)
	}
	if bet.Profit != "3.05" { // 300*(0.85) = 255 + 50
		t.Fatalf("profit = %q", bet.Profit)
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/snapshot", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var snap dto.SnapshotResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Bankroll != "33.05" {
		t.Fatalf("bankroll = %q", snap.Bankroll)
	}
	if snap.TodayCount != 1 || snap.DailyLimit != ledger.DefaultDailyLimit {
		t.Fatalf("snap = %+v", snap)
	}
}

func TestRecordBetValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	cases := []struct {
		name string
		body string
		want int
	}{
		{"json quebrado", `{`, http.StatusBadRequest},
		{"stake não numérica", `{"stake":"abc","odd":"1.85","outcome":"pending"}`, http.StatusBadRequest},
		{"três casas decimais", `{"stake":"1.855","odd":"1.85","outcome":"pending"}`, http.StatusBadRequest},
		{"odd igual a 1", `{"stake":"1.00","odd":"1.00","outcome":"pending"}`, http.StatusBadRequest},
		{"outcome inválido", `{"stake":"1.00","odd":"1.85","outcome":"meio"}`, http.StatusBadRequest},
		{"stake acima do teto", `{"stake":"100.00","odd":"1.85","outcome":"pending"}`, http.StatusConflict},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := doJSON(t, h, http.MethodPost, "/v1/bets", c.body)
			if rr.Code != c.want {
				t.Fatalf("status = %d, esperava %d (corpo %s)", rr.Code, c.want, rr.Body.String())
			}
		})
	}
}

func TestResolveBetFlow(t *testing.T) {
	srv, eng := newTestServer(t)
	h := srv.Router()

	rec, err := eng.RecordBet(context.Background(), ledger.RecordInput{
		StakeCents: 300, Odd: mustOdd(t, "2.00"), Outcome: ledger.OutcomePending,
	})
	if err != nil {
		t.Fatal(err)
	}

	rr := doJSON(t, h, http.MethodPost, "/v1/bets/"+rec.ID+"/resolve", `{"outcome":"red"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo %s", rr.Code, rr.Body.String())
	}
	var bet dto.BetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &bet); err != nil {
		t.Fatal(err)
	}
	if bet.Profit != "-3.00" {
		t.Fatalf("profit = %q", bet.Profit)
	}

	// Repetir a liquidação conflita
	rr = doJSON(t, h, http.MethodPost, "/v1/bets/"+rec.ID+"/resolve", `{"outcome":"win"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d", rr.Code)
	}

	// Id desconhecido
	rr = doJSON(t, h, http.MethodPost, "/v1/bets/nao-existe/resolve", `{"outcome":"win"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestListBetsRunningBankroll(t *testing.T) {
	srv, eng := newTestServer(t)
	h := srv.Router()
	ctx := context.Background()

	if _, err := eng.RecordBet(ctx, ledger.RecordInput{StakeCents: 300, Odd: mustOdd(t, "2.00"), Outcome: ledger.OutcomeWin}); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.RecordBet(ctx, ledger.RecordInput{StakeCents: 200, Odd: mustOdd(t, "1.50"), Outcome: ledger.OutcomeRed}); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.RecordBet(ctx, ledger.RecordInput{StakeCents: 100, Odd: mustOdd(t, "1.50"), Outcome: ledger.OutcomePending}); err != nil {
		t.Fatal(err)
	}

	rr := doJSON(t, h, http.MethodGet, "/v1/bets", "")
	var rows []dto.BetResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("linhas = %d", len(rows))
	}
	if rows[0].BankrollAfter != "33.00" { // 30.00 + 3.00
		t.Fatalf("linha 1 = %+v", rows[0])
	}
	if rows[1].BankrollAfter != "31.00" { // 33.00 - 2.00
		t.Fatalf("linha 2 = %+v", rows[1])
	}
	if rows[2].BankrollAfter != "" || rows[2].Profit != "" {
		t.Fatalf("pendente com banca preenchida: %+v", rows[2])
	}
}

func TestConfigEndpoints(t *testing.T) {
	srv, eng := newTestServer(t)
	h := srv.Router()

	rr := doJSON(t, h, http.MethodGet, "/v1/config", "")
	var cfg dto.ConfigResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.InitialBankroll != "30.00" || cfg.MaxStake != "3.00" {
		t.Fatalf("config = %+v", cfg)
	}

	rr = doJSON(t, h, http.MethodPut, "/v1/config", `{"initial_bankroll":"100.00","minimum_goal":"500.00","max_stake":"10.00"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, corpo %s", rr.Code, rr.Body.String())
	}
	if got := eng.Config().InitialCents; got != 10000 {
		t.Fatalf("initial = %d", got)
	}

	// Valor inválido não muda nada
	rr = doJSON(t, h, http.MethodPut, "/v1/config", `{"initial_bankroll":"0.00","minimum_goal":"500.00","max_stake":"10.00"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := eng.Config().InitialCents; got != 10000 {
		t.Fatalf("config mutada por pedido inválido: %d", got)
	}
}

func TestResetEndpoint(t *testing.T) {
	srv, eng := newTestServer(t)
	h := srv.Router()

	if _, err := eng.RecordBet(context.Background(), ledger.RecordInput{StakeCents: 300, Odd: mustOdd(t, "2.00"), Outcome: ledger.OutcomeRed}); err != nil {
		t.Fatal(err)
	}

	rr := doJSON(t, h, http.MethodPost, "/v1/reset", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var snap dto.SnapshotResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Bankroll != "30.00" || snap.TodayCount != 0 {
		t.Fatalf("snap = %+v", snap)
	}
}

func TestChatEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	rr := doJSON(t, h, http.MethodPost, "/v1/chat/futebol", `{"message":"quero apostar"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp dto.ChatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.State != "awaiting_matchup" || len(resp.Replies) != 1 {
		t.Fatalf("resp = %+v", resp)
	}

	rr = doJSON(t, h, http.MethodPost, "/v1/chat/curling", `{"message":"oi"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestLeaguesEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	rr := doJSON(t, h, http.MethodGet, "/v1/leagues", "")
	var resp dto.LeaguesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Leagues) != 1 || resp.Leagues[0] != "brasileirão" {
		t.Fatalf("resp = %+v", resp)
	}

	// Falha de catálogo degrada para a mensagem estática
	srv.leagues = stubLeagues{err: errors.New("down")}
	rr = doJSON(t, h, http.MethodGet, "/v1/leagues", "")
	resp = dto.LeaguesResponse{}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Message == "" || len(resp.Leagues) != 0 {
		t.Fatalf("resp = %+v", resp)
	}
}

func mustOdd(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := ledger.ParseOdd(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
