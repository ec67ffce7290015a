package chat

import "strings"

// separadores aceitos entre os dois times, sem diferenciar maiúsculas.
var matchupSeparators = []string{" vs ", " x "}

// SplitMatchup divide a entrada em exatamente dois nomes de time não vazios.
// "Flamengo vs Palmeiras" e "Flamengo X Palmeiras" são válidos; entrada sem
// separador, com separador repetido ou com lado vazio não é.
func SplitMatchup(input string) (home, away string, ok bool) {
	for _, sep := range matchupSeparators {
		idx, count := foldIndex(input, sep)
		if count != 1 {
			continue
		}
		home = strings.TrimSpace(input[:idx])
		away = strings.TrimSpace(input[idx+len(sep):])
		if home == "" || away == "" {
			return "", "", false
		}
		return home, away, true
	}
	return "", "", false
}

// foldIndex varre a entrada atrás do separador sem diferenciar maiúsculas.
// Os índices retornados valem sobre os bytes originais, mesmo quando a forma
// minúscula de algum caractere tem outro tamanho.
func foldIndex(s, sep string) (idx, count int) {
	idx = -1
	for i := 0; i+len(sep) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sep)], sep) {
			idx = i
			count++
		}
	}
	return idx, count
}
