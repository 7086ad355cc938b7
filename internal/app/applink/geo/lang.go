package geo

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var langSubtagRe = regexp.MustCompile(`^[a-z]{2,3}$`)

type langCandidate struct {
	lang string
	q    float64
}

// Language 解析 Accept-Language 头，返回质量值最高的主语言子标签
// （如 "en"、"de"）。Play 商店的 hl 参数只要主子标签。
//
//   - 逗号分段，取每段 "-" 之前的主子标签
//   - q= 缺失或不可解析时按 1.0 处理
//   - 子标签不是 2~3 个小写字母的段直接丢弃
//   - 没有任何有效段时返回配置的默认语言
func (r *Resolver) Language(acceptLanguage string) string {
	if acceptLanguage == "" {
		return r.defaultLanguage
	}

	var candidates []langCandidate
	for _, part := range strings.Split(acceptLanguage, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		tag := strings.TrimSpace(fields[0])
		if tag == "" {
			continue
		}

		primary := strings.ToLower(strings.TrimSpace(strings.SplitN(tag, "-", 2)[0]))
		if !langSubtagRe.MatchString(primary) {
			continue
		}

		q := 1.0
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if !strings.HasPrefix(param, "q=") {
				continue
			}
			if parsed, err := strconv.ParseFloat(param[2:], 64); err == nil {
				q = parsed
			}
		}

		candidates = append(candidates, langCandidate{lang: primary, q: q})
	}

	if len(candidates) == 0 {
		return r.defaultLanguage
	}

	// 稳定排序：同分时保留头里原本的先后顺序。
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].q > candidates[j].q
	})

	return candidates[0].lang
}
