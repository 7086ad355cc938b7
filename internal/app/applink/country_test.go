package applink

import (
	"testing"
)

func TestNormalizeCountry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"US", "us"},
		{" de ", "de"},
		{"uk", "gb"},
		{"UK", "gb"},
		{"Uk", "gb"},
		{"gb", "gb"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCountry(tt.in); got != tt.want {
			t.Errorf("NormalizeCountry(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// 大洲分组必须互不重叠：缓存作用域依赖“一个国家只属于一个组”。
func TestContinentGroupsDisjoint(t *testing.T) {
	seen := make(map[string]string)
	for _, g := range ContinentGroups {
		for _, c := range g.Countries {
			if prev, ok := seen[c]; ok {
				t.Errorf("country %q in both %q and %q", c, prev, g.Name)
			}
			seen[c] = g.Name
		}
	}
}

func TestContinentOf(t *testing.T) {
	tests := []struct {
		cc     string
		want   string
		wantOK bool
	}{
		{"us", "north-america", true},
		{"DE", "europe", true},
		{"uk", "europe", true}, // 别名先归一成 gb
		{"jp", "asia", true},
		{"za", "africa", true},
		{"nz", "oceania", true},
		{"br", "south-america", true},
		{"zz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ContinentOf(tt.cc)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ContinentOf(%q) = (%q, %v), want (%q, %v)", tt.cc, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestProbeCountriesContinent(t *testing.T) {
	countries, scopeName := ProbeCountries(ScopeContinent, "fr")
	if scopeName != "continent:europe" {
		t.Fatalf("scope name: got %q, want %q", scopeName, "continent:europe")
	}

	// 大洲清单在前，全球兜底在后，gb/de 已在欧洲清单里不重复
	set := make(map[string]int)
	for i, c := range countries {
		if _, dup := set[c]; dup {
			t.Errorf("duplicate country %q", c)
		}
		set[c] = i
	}
	for _, want := range []string{"gb", "de", "fr", "us", "jp", "au"} {
		if _, ok := set[want]; !ok {
			t.Errorf("expected %q in probe list %v", want, countries)
		}
	}
	if set["gb"] > set["us"] {
		t.Errorf("continent countries should precede global fallback: %v", countries)
	}
}

func TestProbeCountriesUnknownHint(t *testing.T) {
	countries, scopeName := ProbeCountries(ScopeContinent, "zz")
	if scopeName != "continent:unknown" {
		t.Fatalf("scope name: got %q, want %q", scopeName, "continent:unknown")
	}
	if len(countries) != len(GlobalFallback) {
		t.Fatalf("got %d countries %v, want global fallback %v", len(countries), countries, GlobalFallback)
	}
	for i, c := range GlobalFallback {
		if countries[i] != c {
			t.Errorf("countries[%d] = %q, want %q", i, countries[i], c)
		}
	}
}

func TestProbeCountriesAll(t *testing.T) {
	countries, scopeName := ProbeCountries(ScopeAll, "de")
	if scopeName != "all" {
		t.Fatalf("scope name: got %q, want %q", scopeName, "all")
	}

	var total int
	for _, g := range ContinentGroups {
		total += len(g.Countries)
	}
	// 组间不重叠，所以并集去重后数量不变
	if len(countries) != total {
		t.Errorf("got %d countries, want %d", len(countries), total)
	}
}

func TestScopeKey(t *testing.T) {
	k1 := ScopeKey("id324684580", "continent:europe")
	k2 := ScopeKey("id324684580", "all")
	if k1 == k2 {
		t.Error("different scopes must not share a cache key")
	}
	if k1 != "id324684580|continent:europe" {
		t.Errorf("key = %q", k1)
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"my-app", "abc", "spotify-2024", "a1b"}
	for _, s := range valid {
		if err := ValidateSlug(s); err != nil {
			t.Errorf("ValidateSlug(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{"", "ab", "-abc", "abc-", "My-App", "a b c", "api", "link", "fallback", "healthz"}
	for _, s := range invalid {
		if err := ValidateSlug(s); err == nil {
			t.Errorf("ValidateSlug(%q) = nil, want error", s)
		}
	}
}
