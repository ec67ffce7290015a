package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Request é o pedido de análise enviado ao serviço externo.
// Os nomes de campo seguem o contrato do serviço (/analisar).
type Request struct {
	Sport  string `json:"esporte"`
	Home   string `json:"time_casa"`
	Away   string `json:"time_fora"`
	League string `json:"campeonato"`
}

// Pick é uma sugestão de entrada em um mercado.
type Pick struct {
	Market     string `json:"mercado"`
	Entry      string `json:"entrada"`
	Confidence string `json:"confianca,omitempty"`
	Rationale  string `json:"justificativa,omitempty"`
}

// Result é a resposta de sucesso do serviço de análise. Confiança e
// justificativa são repassados como vieram; o núcleo não os interpreta.
type Result struct {
	BestPick     Pick   `json:"melhor_aposta"`
	OtherOptions []Pick `json:"outras_opcoes,omitempty"`
}

// ServiceError é uma resposta estruturada de erro ({"erro": ...}) do serviço.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string { return "analysis service: " + e.Message }

// Client fala com o serviço de análise via HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New cria o cliente com timeout limitado; estouro de timeout vira falha de
// transporte e segue o mesmo caminho de erro da conexão recusada.
func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Analyze envia um pedido de análise e devolve o resultado estruturado.
// Erros possíveis: *ServiceError (resposta {"erro": ...}) ou erro de transporte.
func (c *Client) Analyze(ctx context.Context, reqBody Request) (*Result, error) {
	body, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/analisar", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	// O serviço devolve erros estruturados com status 4xx/5xx e corpo
	// {"erro": ...}; decodifica antes de olhar o status.
	var out struct {
		Erro         string `json:"erro"`
		BestPick     *Pick  `json:"melhor_aposta"`
		OtherOptions []Pick `json:"outras_opcoes"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("analysis http %d: %w", res.StatusCode, err)
	}
	if out.Erro != "" {
		return nil, &ServiceError{Message: out.Erro}
	}
	if out.BestPick == nil {
		return nil, fmt.Errorf("analysis http %d: empty response", res.StatusCode)
	}
	return &Result{BestPick: *out.BestPick, OtherOptions: out.OtherOptions}, nil
}

// Leagues busca o catálogo de campeonatos suportados (GET /campeonatos).
// Chamado uma vez na inicialização do canal; falha aqui é só informativa.
func (c *Client) Leagues(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/campeonatos", nil)
	if err != nil {
		return nil, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog http %d", res.StatusCode)
	}
	var leagues []string
	if err := json.NewDecoder(res.Body).Decode(&leagues); err != nil {
		return nil, err
	}
	return leagues, nil
}
