package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeStore struct {
	hit    *Result
	getErr error
	setErr error
	sets   int
}

func (f *fakeStore) Get(ctx context.Context, req Request, dst *Result) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	if f.hit != nil {
		*dst = *f.hit
		return true, nil
	}
	return false, nil
}

func (f *fakeStore) Set(ctx context.Context, req Request, v *Result, ttl time.Duration) error {
	f.sets++
	return f.setErr
}

type countingBackend struct {
	calls int
	res   *Result
	err   error
}

func (b *countingBackend) Analyze(ctx context.Context, req Request) (*Result, error) {
	b.calls++
	return b.res, b.err
}

func goodResult() *Result {
	return &Result{BestPick: Pick{Market: "Gols (Over/Under)", Entry: "Mais de 2.5 gols"}}
}

func TestCachedHitSkipsBackend(t *testing.T) {
	backend := &countingBackend{res: goodResult()}
	c := &Cached{Log: zap.NewNop(), Backend: backend, Cache: &fakeStore{hit: goodResult()}, TTL: time.Minute}

	res, err := c.Analyze(context.Background(), Request{Sport: "futebol"})
	if err != nil {
		t.Fatal(err)
	}
	if res.BestPick.Entry != "Mais de 2.5 gols" {
		t.Fatalf("resultado = %+v", res)
	}
	if backend.calls != 0 {
		t.Fatalf("backend chamado %d vezes em hit", backend.calls)
	}
}

func TestCachedMissCallsBackendAndStores(t *testing.T) {
	backend := &countingBackend{res: goodResult()}
	store := &fakeStore{}
	c := &Cached{Log: zap.NewNop(), Backend: backend, Cache: store, TTL: time.Minute}

	res, err := c.Analyze(context.Background(), Request{Sport: "futebol"})
	if err != nil {
		t.Fatal(err)
	}
	if backend.calls != 1 {
		t.Fatalf("backend calls = %d, esperava 1", backend.calls)
	}
	if store.sets != 1 {
		t.Fatalf("sets = %d, esperava 1", store.sets)
	}
	if res.BestPick.Entry == "" {
		t.Fatalf("resultado vazio: %+v", res)
	}
}

func TestCachedDegradesOnCacheReadFailure(t *testing.T) {
	// Entrada corrompida no cache não pode virar sucesso vazio: a leitura
	// falha, a chamada direta acontece e o resultado real é devolvido.
	backend := &countingBackend{res: goodResult()}
	store := &fakeStore{getErr: errors.New("invalid character '{' looking for beginning of value")}
	c := &Cached{Log: zap.NewNop(), Backend: backend, Cache: store, TTL: time.Minute}

	res, err := c.Analyze(context.Background(), Request{Sport: "futebol", Home: "Flamengo", Away: "Palmeiras", League: "Brasileirão"})
	if err != nil {
		t.Fatal(err)
	}
	if backend.calls != 1 {
		t.Fatalf("backend calls = %d, esperava 1", backend.calls)
	}
	if res.BestPick.Entry != "Mais de 2.5 gols" {
		t.Fatalf("best pick devolvido = %+v", res.BestPick)
	}
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	backend := &countingBackend{err: errors.New("connection refused")}
	store := &fakeStore{}
	c := &Cached{Log: zap.NewNop(), Backend: backend, Cache: store, TTL: time.Minute}

	if _, err := c.Analyze(context.Background(), Request{Sport: "futebol"}); err == nil {
		t.Fatal("esperava erro do backend")
	}
	if store.sets != 0 {
		t.Fatalf("sets = %d, falha não pode ser cacheada", store.sets)
	}
}

func TestCachedToleratesSetFailure(t *testing.T) {
	backend := &countingBackend{res: goodResult()}
	store := &fakeStore{setErr: errors.New("redis down")}
	c := &Cached{Log: zap.NewNop(), Backend: backend, Cache: store, TTL: time.Minute}

	res, err := c.Analyze(context.Background(), Request{Sport: "futebol"})
	if err != nil {
		t.Fatal(err)
	}
	if res.BestPick.Entry == "" {
		t.Fatalf("resultado = %+v", res)
	}
}

func TestDecodeCached(t *testing.T) {
	var dst Result
	ok, err := decodeCached([]byte(`{corrupt`), &dst)
	if ok || err == nil {
		t.Fatalf("blob corrompido: ok=%v err=%v, esperava miss com erro", ok, err)
	}

	dst = Result{}
	ok, err = decodeCached([]byte(`{"melhor_aposta":{"mercado":"Cartões","entrada":"Mais de 4.5"}}`), &dst)
	if !ok || err != nil {
		t.Fatalf("blob válido: ok=%v err=%v", ok, err)
	}
	if dst.BestPick.Market != "Cartões" {
		t.Fatalf("decodificado = %+v", dst)
	}
}
