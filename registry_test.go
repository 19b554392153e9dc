package veganify

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	pr "github.com/unkn0wn-root/veganify/provider"
)

func TestRegistryReusesEquivalentConfigs(t *testing.T) {
	r := NewRegistry()
	defer r.Close(context.Background())

	a, err := r.Client(Config{})
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	// Explicit defaults resolve to the same key as the zero value.
	b, err := r.Client(Config{BaseURL: ProductionBaseURL + "/", CacheTTL: DefaultCacheTTL, Codec: "json", Backend: "memory", Logger: NopLogger{}})
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	if a != b {
		t.Fatalf("equivalent configs produced different clients")
	}
	if r.Len() != 1 {
		t.Fatalf("Len=%d want 1", r.Len())
	}
}

func TestRegistrySeparatesDistinctConfigs(t *testing.T) {
	r := NewRegistry()
	defer r.Close(context.Background())

	cfgs := []Config{
		{},
		{Staging: true},
		{CacheTTL: time.Minute},
		{DisableCache: true},
		{Codec: "cbor"},
		{CoalesceRequests: true},
		{HTTPClient: &http.Client{}},
	}
	seen := map[*Client]bool{}
	for _, cfg := range cfgs {
		cl, err := r.Client(cfg)
		if err != nil {
			t.Fatalf("Client(%+v): %v", cfg, err)
		}
		if seen[cl] {
			t.Fatalf("config %+v shares a client with an earlier one", cfg)
		}
		seen[cl] = true
	}
	if r.Len() != len(cfgs) {
		t.Fatalf("Len=%d want %d", r.Len(), len(cfgs))
	}
}

func TestRegistryNegativeTTLMatchesDisabled(t *testing.T) {
	r := NewRegistry()
	defer r.Close(context.Background())

	a, _ := r.Client(Config{DisableCache: true})
	b, _ := r.Client(Config{CacheTTL: -time.Second})
	if a != b {
		t.Fatalf("both configs disable caching and should share a client")
	}
}

func TestRegistryDoesNotKeepFailedBuilds(t *testing.T) {
	r := NewRegistry()
	defer r.Close(context.Background())

	if _, err := r.Client(Config{Codec: "xml"}); err == nil {
		t.Fatalf("expected error")
	}
	if r.Len() != 0 {
		t.Fatalf("Len=%d want 0", r.Len())
	}
}

func TestRegistryClose(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Client(Config{}); err != nil {
		t.Fatalf("Client: %v", err)
	}
	if err := r.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := r.Client(Config{}); !errors.Is(err, ErrRegistryClosed) {
		t.Fatalf("want ErrRegistryClosed, got %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len=%d want 0", r.Len())
	}
}

func TestRegistryRequiresBackendNameForProviders(t *testing.T) {
	r := NewRegistry()
	defer r.Close(context.Background())

	var built int
	factory := func(string, time.Duration) (pr.Provider, error) {
		built++
		return newMemProvider(), nil
	}
	if _, err := r.Client(Config{Providers: factory}); !errors.Is(err, ErrUnnamedBackend) {
		t.Fatalf("want ErrUnnamedBackend, got %v", err)
	}
	if r.Len() != 0 || built != 0 {
		t.Fatalf("Len=%d built=%d, want nothing built", r.Len(), built)
	}

	a, err := r.Client(Config{Providers: factory, Backend: "custom"})
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	if built != 4 {
		t.Fatalf("factory called %d times, want 4", built)
	}
	b, err := r.Client(Config{})
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	if a == b {
		t.Fatalf("named custom backend shares a client with the default memory backend")
	}
}
