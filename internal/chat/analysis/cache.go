package analysis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache guarda resultados de análise no Redis por partida, com TTL.
// Evita repetir chamadas ao provedor para a mesma consulta em sequência.
type Cache struct{ R *redis.Client }

func NewCache(r *redis.Client) *Cache { return &Cache{R: r} }

func cacheKey(req Request) string {
	parts := []string{req.Sport, req.Home, req.Away, req.League}
	return "analysis:" + strings.ToLower(strings.Join(parts, ":"))
}

func (c *Cache) Get(ctx context.Context, req Request, dst *Result) (bool, error) {
	b, err := c.R.Get(ctx, cacheKey(req)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return decodeCached(b, dst)
}

// decodeCached decodifica um blob salvo. Blob corrompido conta como miss,
// nunca como hit com resultado vazio.
func decodeCached(b []byte, dst *Result) (bool, error) {
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, req Request, v *Result, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, cacheKey(req), b, ttl).Err()
}

// Backend é o destino real das consultas quando o cache não resolve.
type Backend interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// Store é a visão do cache usada pelo decorator.
type Store interface {
	Get(ctx context.Context, req Request, dst *Result) (bool, error)
	Set(ctx context.Context, req Request, v *Result, ttl time.Duration) error
}

// Cached decora um Backend com o cache Redis. Falha de cache (leitura,
// decodificação ou escrita) degrada para a chamada direta; só resultados de
// sucesso são salvos.
type Cached struct {
	Log     *zap.Logger
	Backend Backend
	Cache   Store
	TTL     time.Duration
}

func (c *Cached) Analyze(ctx context.Context, req Request) (*Result, error) {
	var cached Result
	ok, err := c.Cache.Get(ctx, req, &cached)
	if err != nil {
		c.Log.Warn("analysis cache read failed", zap.Error(err))
	}
	if ok {
		return &cached, nil
	}

	res, err := c.Backend.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Set(ctx, req, res, c.TTL); err != nil {
		c.Log.Warn("analysis cache write failed", zap.Error(err))
	}
	return res, nil
}
