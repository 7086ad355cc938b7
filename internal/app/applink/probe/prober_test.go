package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const itunesFound = `{
  "resultCount": 1,
  "results": [{
    "trackId": 324684580,
    "trackName": "Spotify - Music and Podcasts",
    "artistName": "Spotify",
    "artworkUrl100": "https://example.com/icon.png",
    "primaryGenreName": "Music",
    "formattedPrice": "Free",
    "averageUserRating": 4.8,
    "userRatingCount": 123456,
    "trackViewUrl": "https://apps.apple.com/de/app/id324684580"
  }]
}`

func TestProbeITunesFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/lookup" {
			t.Errorf("path = %q, want /lookup", req.URL.Path)
		}
		if got := req.URL.Query().Get("id"); got != "324684580" {
			t.Errorf("id = %q, want bare digits without the id prefix", got)
		}
		if got := req.URL.Query().Get("country"); got != "de" {
			t.Errorf("country = %q, want de", got)
		}
		w.Write([]byte(itunesFound))
	}))
	defer srv.Close()

	p := NewStoreProber(srv.URL, "https://play.invalid", time.Second)
	res, err := p.Probe(context.Background(), "id324684580", "ios", "de", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Exists {
		t.Fatal("expected Exists=true")
	}
	if res.App == nil {
		t.Fatal("expected metadata")
	}
	if res.App.TrackID != 324684580 {
		t.Errorf("TrackID = %d", res.App.TrackID)
	}
	if res.App.Name != "Spotify - Music and Podcasts" {
		t.Errorf("Name = %q", res.App.Name)
	}
	if res.App.Developer != "Spotify" {
		t.Errorf("Developer = %q", res.App.Developer)
	}
	if res.App.Price != "Free" {
		t.Errorf("Price = %q", res.App.Price)
	}
	if res.App.FetchedFromCountry != "de" {
		t.Errorf("FetchedFromCountry = %q, want de", res.App.FetchedFromCountry)
	}
}

func TestProbeITunesNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"resultCount": 0, "results": []}`))
	}))
	defer srv.Close()

	p := NewStoreProber(srv.URL, "https://play.invalid", time.Second)
	res, err := p.Probe(context.Background(), "id999999999", "ios", "jp", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Exists {
		t.Error("expected Exists=false for resultCount=0")
	}
	if res.App != nil {
		t.Error("expected no metadata")
	}
}

func TestProbePlayStoreHead(t *testing.T) {
	var gotMethod, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotMethod = req.Method
		gotQuery = req.URL.RawQuery
		if req.URL.Query().Get("id") == "com.missing.app" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewStoreProber("https://itunes.invalid", srv.URL, time.Second)

	res, err := p.Probe(context.Background(), "com.spotify.music", "android", "de", "de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Exists {
		t.Error("expected Exists=true for 200")
	}
	if gotMethod != http.MethodHead {
		t.Errorf("method = %q, want HEAD", gotMethod)
	}
	if gotQuery == "" {
		t.Fatal("expected query parameters")
	}

	res, err = p.Probe(context.Background(), "com.missing.app", "android", "de", "de")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Exists {
		t.Error("expected Exists=false for 404")
	}
}

func TestProbeUnsupportedStore(t *testing.T) {
	p := NewStoreProber("https://itunes.invalid", "https://play.invalid", time.Second)
	if _, err := p.Probe(context.Background(), "id324684580", "windows", "us", "en"); err == nil {
		t.Error("expected error for unknown store")
	}
}

func TestAppStoreURL(t *testing.T) {
	got := AppStoreURL("https://apps.apple.com", "de", "id324684580")
	want := "https://apps.apple.com/de/app/id324684580"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPlayStoreURL(t *testing.T) {
	got := PlayStoreURL("https://play.google.com", "com.spotify.music", "de", "de")
	want := "https://play.google.com/store/apps/details?gl=DE&hl=de&id=com.spotify.music"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
