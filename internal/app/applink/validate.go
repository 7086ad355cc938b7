package applink

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidSlug 是领域层对“短链 slug 不合法”的统一错误。
// 上层（HTTP）可以稳定地把它映射成 400，而不用关心校验细节。
var ErrInvalidSlug = errors.New("invalid slug")

var slugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}[a-z0-9]$`)

var reservedSlugs = map[string]struct{}{
	"api":      {},
	"link":     {},
	"fallback": {},
	"healthz":  {},
	"favicon":  {},
}

// ValidateSlug 校验短链 slug。
//
// 规则：
// - 小写字母/数字/中划线，3~64 位，首尾不能是中划线
// - 禁止与站点已有路由冲突（/api、/link、/fallback 等）
func ValidateSlug(slug string) error {
	slug = strings.TrimSpace(slug)
	if !slugRe.MatchString(slug) {
		return ErrInvalidSlug
	}
	if _, ok := reservedSlugs[slug]; ok {
		return ErrInvalidSlug
	}
	return nil
}
