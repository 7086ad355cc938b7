package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/probe"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/config"
)

// 开发辅助：不起服务直接扫一个应用的可用国家。
//
//	go run ./cmd/tools/scan -scope all id324684580
//	go run ./cmd/tools/scan -country de com.spotify.music
func main() {
	scope := flag.String("scope", "continent", "probe scope: continent or all")
	country := flag.String("country", "us", "requester country hint")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: go run ./cmd/tools/scan [-scope continent|all] [-country cc] <app-id>")
	}
	id := flag.Arg(0)

	platform := applink.Detect(id)
	if platform == applink.PlatformUnknown {
		log.Fatalf("%q is not an App Store or Play Store identifier", id)
	}

	cfg := config.Load()
	prober := probe.NewStoreProber(cfg.ITunesAPIURL, cfg.PlayStoreURL, cfg.ProbeTimeout)
	scanner := probe.NewScanner(prober, cfg.ProbeTimeout)

	countries, scopeName := applink.ProbeCountries(applink.Scope(*scope), applink.NormalizeCountry(*country))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	start := time.Now()
	res := scanner.Scan(ctx, id, string(platform), countries, cfg.DefaultLanguage)

	fmt.Printf("id:        %s (%s)\n", id, platform)
	fmt.Printf("scope:     %s (%d countries, %s)\n", scopeName, len(countries), time.Since(start).Round(time.Millisecond))
	available := append([]string(nil), res.Available...)
	sort.Strings(available)
	fmt.Printf("available: %d %v\n", len(available), available)
	if res.App != nil {
		fmt.Printf("app:       %s — %s (from %s)\n", res.App.Name, res.App.Developer, res.App.FetchedFromCountry)
	}
}
