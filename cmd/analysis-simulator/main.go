package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gestaobanca/bankroll-tracker-poc/internal/chat/analysis"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/config"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/logger"
	"github.com/gestaobanca/bankroll-tracker-poc/internal/shared/metrics"
)

// Catálogo fixo de campeonatos suportados pelo simulador
var leagueCatalog = []string{
	"brasileirão",
	"premier league",
	"la liga",
	"serie a",
	"champions league",
}

// Métricas Prometheus do simulador
var (
	analysisRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_sim_requests_total",
		Help: "Total de pedidos de análise recebidos",
	})
	analysisErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analysis_sim_errors_total",
		Help: "Total de pedidos rejeitados",
	})
)

type server struct {
	log *zap.Logger
}

// analyzeHandler responde POST /analisar no mesmo contrato do provedor real:
// {melhor_aposta, outras_opcoes} em caso de sucesso, {"erro": ...} caso contrário.
func (s *server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()
	analysisRequests.Inc()

	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		analysisErrors.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"erro": "JSON inválido."})
		return
	}
	if req.Sport == "" || req.Home == "" || req.Away == "" || req.League == "" {
		analysisErrors.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"erro": "Dados incompletos."})
		return
	}

	s.log.Debug("analysing matchup",
		zap.String("sport", req.Sport),
		zap.String("home", req.Home),
		zap.String("away", req.Away),
		zap.String("league", req.League),
	)

	switch req.Sport {
	case "futebol":
		writeJSON(w, http.StatusOK, simulateFootball(req))
	case "nfl", "nba":
		// Sem dados reais para estas ligas; resposta mínima simulada
		writeJSON(w, http.StatusOK, analysis.Result{
			BestPick: analysis.Pick{
				Market: fmt.Sprintf("%s (Simulado)", req.Sport),
				Entry:  "Análise não implementada com dados reais.",
			},
		})
	default:
		analysisErrors.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"erro": "Esporte não suportado para análise real."})
	}
}

// simulateFootball gera as quatro análises clássicas do provedor (gols,
// handicap, escanteios e cartões) com confiança aleatória, ordenadas da mais
// confiável para a menos.
func simulateFootball(req analysis.Request) analysis.Result {
	type tip struct {
		pick analysis.Pick
		conf int
	}

	goalAvg := rnd(0.8, 2.2)
	goals := tip{conf: confidence(goalAvg - 1.4)}
	if goalAvg > 1.4 {
		goals.pick = analysis.Pick{
			Market:    "Gols (Over/Under)",
			Entry:     "Mais de 2.5 gols",
			Rationale: fmt.Sprintf("Média de gols combinada alta (%.2f).", goalAvg),
		}
	} else {
		goals.pick = analysis.Pick{
			Market:    "Gols (Over/Under)",
			Entry:     "Menos de 2.5 gols",
			Rationale: fmt.Sprintf("Média de gols combinada baixa (%.2f).", goalAvg),
		}
	}

	power := rnd(-1.0, 1.0)
	handicap := tip{conf: confidence(power)}
	if power > 0.3 {
		handicap.pick = analysis.Pick{
			Market:    "Handicap Asiático",
			Entry:     req.Home + " -0.5",
			Rationale: "Time da casa tem saldo de gols superior.",
		}
	} else {
		handicap.pick = analysis.Pick{
			Market:    "Handicap Asiático",
			Entry:     req.Away + " +0.5",
			Rationale: "Visitante tem um bom saldo de gols e deve equilibrar o jogo.",
		}
	}

	corners := tip{
		conf: 65 + rand.Intn(21),
		pick: analysis.Pick{
			Market:    "Escanteios",
			Entry:     "Mais de 9.5",
			Rationale: "Simulação indica times que atacam pelas laterais.",
		},
	}
	cards := tip{
		conf: 65 + rand.Intn(21),
		pick: analysis.Pick{
			Market:    "Cartões",
			Entry:     "Mais de 4.5",
			Rationale: "Simulação indica jogo faltoso.",
		},
	}

	tips := []tip{goals, handicap, corners, cards}
	sort.SliceStable(tips, func(i, j int) bool { return tips[i].conf > tips[j].conf })
	for i := range tips {
		tips[i].pick.Confidence = fmt.Sprintf("%d%%", tips[i].conf)
	}

	res := analysis.Result{BestPick: tips[0].pick}
	for _, t := range tips[1:] {
		res.OtherOptions = append(res.OtherOptions, t.pick)
	}
	return res
}

// leaguesHandler responde GET /campeonatos com o catálogo fixo.
func (s *server) leaguesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, leagueCatalog)
}

// confidence converte uma diferença de força em percentual de confiança,
// limitado entre 65 e 95 (mesma régua do provedor real).
func confidence(diff float64) int {
	bonus := diff * 10
	if bonus < 0 {
		bonus = -bonus
	}
	conf := 65 + bonus
	if conf > 95 {
		conf = 95
	}
	return int(conf)
}

// rnd gera número aleatório entre min e max
func rnd(min, max float64) float64 {
	return (rand.Float64() * (max - min)) + min
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	cfg := config.Load()
	log, err := logger.New("analysis-simulator", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(analysisRequests, analysisErrors)

	s := &server{log: log}

	appMux := http.NewServeMux()
	appMux.HandleFunc("/analisar", s.analyzeHandler)
	appMux.HandleFunc("/campeonatos", s.leaguesHandler)

	// Sem dependência externa: health check direto
	metrics.StartMetricsServer(cfg.MetricsPort, nil)

	addr := ":" + cfg.HTTPPort
	log.Info("analysis simulator running",
		zap.String("addr", addr),
		zap.String("paths", "/analisar,/campeonatos"),
	)
	if err := http.ListenAndServe(addr, appMux); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
