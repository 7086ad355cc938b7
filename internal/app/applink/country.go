package applink

import "strings"

// NormalizeCountry 统一国家码：小写两字母，外加一条别名规则。
// 所有接收用户/地理输入的路径都必须经过这里，保证 "UK"、"Uk"、"uk"
// 在任何入口得到的都是 "gb"。幂等。
func NormalizeCountry(cc string) string {
	cc = strings.ToLower(strings.TrimSpace(cc))
	// Apple 的前台用 "gb"，但用户和一些地理服务习惯写 "uk"。
	if cc == "uk" {
		return "gb"
	}
	return cc
}

// ContinentGroup 把商店国家按大洲分组，用来限制扫描的扇出规模。
// 各组之间不重叠：一个国家只属于一个组。
type ContinentGroup struct {
	Name      string
	Countries []string
}

// ContinentGroups 是精选过的商店国家清单，不求穷举所有 ISO 国家，
// 只收录有独立商店前台且下载量值得探测的地区。
var ContinentGroups = []ContinentGroup{
	{Name: "north-america", Countries: []string{"us", "ca", "mx"}},
	{Name: "south-america", Countries: []string{"br", "ar", "cl", "co", "pe"}},
	{Name: "europe", Countries: []string{"gb", "de", "fr", "it", "es", "nl", "se", "pl", "ru", "ch", "at", "ie", "pt", "dk", "no", "fi"}},
	{Name: "asia", Countries: []string{"jp", "cn", "hk", "sg", "kr", "in", "tw", "th", "my", "id", "ph", "vn", "tr", "sa", "ae", "il"}},
	{Name: "africa", Countries: []string{"za", "ng", "eg", "ke", "ma"}},
	{Name: "oceania", Countries: []string{"au", "nz"}},
}

// GlobalFallback 是大洲扫描之外固定追加的一小组“全球代表”国家。
// 顺序即探测顺序：第一个可用的国家会被当作主要建议。
var GlobalFallback = []string{"us", "gb", "de", "jp", "au"}

// ContinentOf 返回包含 cc 的大洲名。线性扫描：总量就几十个国家，
// 反查索引不值得。
func ContinentOf(cc string) (string, bool) {
	cc = NormalizeCountry(cc)
	for _, g := range ContinentGroups {
		for _, c := range g.Countries {
			if c == cc {
				return g.Name, true
			}
		}
	}
	return "", false
}

// Scope 表示一次可用性扫描的广度。
type Scope string

const (
	ScopeAll       Scope = "all"
	ScopeContinent Scope = "continent"
)

// ProbeCountries 计算一次扫描要探测的国家列表和作用域名称。
//
//   - ScopeAll：所有大洲清单按首次出现顺序去重后的并集
//   - ScopeContinent：hint 所在大洲的清单 + GlobalFallback，去重
//   - hint 不属于任何大洲时，只探测 GlobalFallback，作用域名为
//     "continent:unknown"
//
// 返回的作用域名称参与缓存键：同一标识符、不同作用域绝不共享缓存。
func ProbeCountries(scope Scope, hint string) ([]string, string) {
	if scope == ScopeAll {
		return dedup(allCountries()), "all"
	}

	name, ok := ContinentOf(hint)
	if !ok {
		return dedup(GlobalFallback), "continent:unknown"
	}
	for _, g := range ContinentGroups {
		if g.Name == name {
			merged := make([]string, 0, len(g.Countries)+len(GlobalFallback))
			merged = append(merged, g.Countries...)
			merged = append(merged, GlobalFallback...)
			return dedup(merged), "continent:" + name
		}
	}
	// ContinentOf 已经命中过，不会走到这里
	return dedup(GlobalFallback), "continent:unknown"
}

// ScopeKey 派生缓存键：(标识符, 作用域)。
func ScopeKey(id, scopeName string) string {
	return id + "|" + scopeName
}

func allCountries() []string {
	var all []string
	for _, g := range ContinentGroups {
		all = append(all, g.Countries...)
	}
	return all
}

// dedup 保序去重：同一个国家只探测一次，且保留首次出现的位置。
func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = NormalizeCountry(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
