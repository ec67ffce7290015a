package chat

import "testing"

func TestSplitMatchup(t *testing.T) {
	cases := []struct {
		in         string
		home, away string
		ok         bool
	}{
		{in: "Flamengo vs Palmeiras", home: "Flamengo", away: "Palmeiras", ok: true},
		{in: "Flamengo x Palmeiras", home: "Flamengo", away: "Palmeiras", ok: true},
		{in: "Flamengo X Palmeiras", home: "Flamengo", away: "Palmeiras", ok: true},
		{in: "Flamengo VS Palmeiras", home: "Flamengo", away: "Palmeiras", ok: true},
		{in: "  Grêmio vs Inter  ", home: "Grêmio", away: "Inter", ok: true},
		// "İ" minúsculo ocupa mais bytes; os nomes não podem sair cortados
		{in: "İstanbul Başakşehir vs Beşiktaş", home: "İstanbul Başakşehir", away: "Beşiktaş", ok: true},
		{in: "FlamengoPalmeiras"},
		{in: "A vs B vs C"},
		{in: " vs Palmeiras"},
		{in: "Flamengo vs "},
		{in: ""},
	}
	for _, c := range cases {
		home, away, ok := SplitMatchup(c.in)
		if ok != c.ok {
			t.Errorf("SplitMatchup(%q) ok = %v, esperava %v", c.in, ok, c.ok)
			continue
		}
		if ok && (home != c.home || away != c.away) {
			t.Errorf("SplitMatchup(%q) = (%q, %q), esperava (%q, %q)", c.in, home, away, c.home, c.away)
		}
	}
}

func TestContainsTrigger(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"quero apostar", true},
		{"Quero Apostar", true},
		{"hoje eu QUERO APOSTAR no Flamengo", true},
		{"i want to bet", true},
		{"oi", false},
		{"apostar quero", false},
	}
	for _, c := range cases {
		if got := containsTrigger(c.in); got != c.want {
			t.Errorf("containsTrigger(%q) = %v, esperava %v", c.in, got, c.want)
		}
	}
}
