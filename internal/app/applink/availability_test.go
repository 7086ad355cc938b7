package applink

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/cache"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/probe"
)

func TestAvailabilityScanAndCache(t *testing.T) {
	var probes int32
	prober := probe.ProberFunc(func(ctx context.Context, id, store, country, language string) (probe.Result, error) {
		atomic.AddInt32(&probes, 1)
		return probe.Result{Exists: country == "us" || country == "gb"}, nil
	})
	scanner := probe.NewScanner(prober, time.Second)

	local, err := cache.NewLocalCache(100, 1<<20, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer local.Close()
	c := cache.NewAvailabilityCache(nil, local, 24*time.Hour, time.Now)

	svc := NewAvailabilityService(scanner, c, "en")

	entry, scopeName, cached := svc.Availability(context.Background(), "id324684580", PlatformIOS, "zz", ScopeContinent, false)
	if cached {
		t.Error("first call must scan")
	}
	if scopeName != "continent:unknown" {
		t.Errorf("scope = %q, want continent:unknown", scopeName)
	}
	// 未知大洲只探测全球兜底清单
	if got := atomic.LoadInt32(&probes); got != int32(len(GlobalFallback)) {
		t.Errorf("probes = %d, want %d", got, len(GlobalFallback))
	}
	if len(entry.Available) != 2 || entry.Available[0] != "us" || entry.Available[1] != "gb" {
		t.Errorf("available = %v, want [us gb]", entry.Available)
	}
	local.Wait()

	// 相同作用域第二次命中缓存，不再探测
	_, _, cached = svc.Availability(context.Background(), "id324684580", PlatformIOS, "zz", ScopeContinent, false)
	if !cached {
		t.Error("second call must hit the cache")
	}
	if got := atomic.LoadInt32(&probes); got != int32(len(GlobalFallback)) {
		t.Errorf("probes = %d after cached call, want %d", got, len(GlobalFallback))
	}

	// 不同作用域是另一个缓存键，会重新扫描
	_, scopeName, cached = svc.Availability(context.Background(), "id324684580", PlatformIOS, "de", ScopeContinent, false)
	if cached {
		t.Error("different scope must not share the cache entry")
	}
	if scopeName != "continent:europe" {
		t.Errorf("scope = %q, want continent:europe", scopeName)
	}
}

func TestAvailabilityRefreshForcesRescan(t *testing.T) {
	var probes int32
	prober := probe.ProberFunc(func(ctx context.Context, id, store, country, language string) (probe.Result, error) {
		atomic.AddInt32(&probes, 1)
		return probe.Result{Exists: true}, nil
	})
	scanner := probe.NewScanner(prober, time.Second)

	local, err := cache.NewLocalCache(100, 1<<20, 24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer local.Close()
	c := cache.NewAvailabilityCache(nil, local, 24*time.Hour, time.Now)

	svc := NewAvailabilityService(scanner, c, "en")

	svc.Availability(context.Background(), "com.spotify.music", PlatformAndroid, "zz", ScopeContinent, false)
	local.Wait()
	first := atomic.LoadInt32(&probes)

	_, _, cached := svc.Availability(context.Background(), "com.spotify.music", PlatformAndroid, "zz", ScopeContinent, true)
	if cached {
		t.Error("refresh must bypass the cache")
	}
	if got := atomic.LoadInt32(&probes); got != first*2 {
		t.Errorf("probes = %d, want %d", got, first*2)
	}
}
