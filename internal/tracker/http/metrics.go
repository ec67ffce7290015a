package http

import "github.com/prometheus/client_golang/prometheus"

// Métricas Prometheus do tracker, expostas no mux de métricas do serviço.
var (
	betsRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_bets_recorded_total",
		Help: "Total de apostas registradas",
	})
	betsResolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_bets_resolved_total",
		Help: "Total de apostas liquidadas por resultado",
	}, []string{"outcome"})
	chatMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_chat_messages_total",
		Help: "Total de mensagens de chat processadas por canal",
	}, []string{"sport"})
	alertsActive = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tracker_alert_active",
		Help: "Alerta de risco ativo (1) por tipo",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(betsRecordedTotal, betsResolvedTotal, chatMessagesTotal, alertsActive)
}
