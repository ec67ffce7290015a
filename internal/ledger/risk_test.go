package ledger

import "testing"

func TestEvaluate(t *testing.T) {
	cfg := DefaultConfig() // meta = 20000

	cases := []struct {
		name string
		snap Snapshot
		want AlertKind // "" = sem alerta
	}{
		{
			name: "sem alerta",
			snap: Snapshot{BankrollCents: 3000, TodayCount: 2, TodayOutcomes: []Outcome{OutcomeWin, OutcomeRed}},
		},
		{
			name: "tres reds seguidos disparam stop loss",
			snap: Snapshot{BankrollCents: 2100, TodayCount: 4, TodayOutcomes: []Outcome{OutcomeWin, OutcomeRed, OutcomeRed, OutcomeRed}},
			want: AlertStopLoss,
		},
		{
			name: "win no meio zera a sequência",
			snap: Snapshot{BankrollCents: 2400, TodayCount: 5, TodayOutcomes: []Outcome{OutcomeRed, OutcomeRed, OutcomeWin, OutcomeRed, OutcomeRed}},
		},
		{
			name: "limite diário atingido",
			snap: Snapshot{BankrollCents: 3000, TodayCount: 10},
			want: AlertDailyLimit,
		},
		{
			name: "limite diário tem precedência sobre stop loss",
			snap: Snapshot{BankrollCents: 1000, TodayCount: 10, TodayOutcomes: []Outcome{OutcomeRed, OutcomeRed, OutcomeRed, OutcomeRed}},
			want: AlertDailyLimit,
		},
		{
			name: "meta atingida",
			snap: Snapshot{BankrollCents: 20000, TodayCount: 3, TodayOutcomes: []Outcome{OutcomeWin}},
			want: AlertGoal,
		},
		{
			name: "stop loss tem precedência sobre meta",
			snap: Snapshot{BankrollCents: 25000, TodayCount: 5, TodayOutcomes: []Outcome{OutcomeRed, OutcomeRed, OutcomeRed}},
			want: AlertStopLoss,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Evaluate(c.snap, cfg, DefaultDailyLimit, DefaultStreakLimit)
			if c.want == "" {
				if got != nil {
					t.Fatalf("esperava nenhum alerta, veio %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("esperava alerta %s, veio nil", c.want)
			}
			if got.Kind != c.want {
				t.Fatalf("alerta = %s, esperava %s", got.Kind, c.want)
			}
			if got.Message == "" {
				t.Fatal("alerta sem mensagem")
			}
		})
	}
}

func TestTrailingReds(t *testing.T) {
	cases := []struct {
		outcomes []Outcome
		want     int
	}{
		{nil, 0},
		{[]Outcome{OutcomeWin}, 0},
		{[]Outcome{OutcomeRed}, 1},
		{[]Outcome{OutcomeWin, OutcomeRed, OutcomeRed, OutcomeRed}, 3},
		{[]Outcome{OutcomeRed, OutcomeRed, OutcomeWin, OutcomeRed, OutcomeRed}, 2},
	}
	for _, c := range cases {
		if got := trailingReds(c.outcomes); got != c.want {
			t.Errorf("trailingReds(%v) = %d, esperava %d", c.outcomes, got, c.want)
		}
	}
}
