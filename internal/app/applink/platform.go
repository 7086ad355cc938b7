package applink

import (
	"regexp"
	"strings"
)

// Platform 是根据标识符字面形状推断出的商店平台。
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformUnknown Platform = ""
)

// iOS 商店的数字 ID 以 "id" 开头。真实 ID 都落在 7~13 位这个区间，
// 限定长度可以避免把任意数字串误判成 iOS 标识符。
var iosIDRe = regexp.MustCompile(`(?i)^id\d{7,13}$`)

// Android 包名是反域名写法：每段以小写字母开头，后接小写字母/数字/下划线，
// 单段最长 63 字符，至少两段。整体长度在 Detect 里单独校验。
var androidIDRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}(\.[a-z][a-z0-9_]{0,62})+$`)

// Detect 把一个不透明的应用标识符划分到某个平台。
// 纯函数：同一个字面值永远得到同一个结果。形状不认识时返回
// PlatformUnknown 而不是错误——“无法路由”由调用方决定怎么处理。
func Detect(id string) Platform {
	if iosIDRe.MatchString(id) {
		return PlatformIOS
	}
	if len(id) >= 3 && len(id) <= 255 && androidIDRe.MatchString(id) {
		return PlatformAndroid
	}
	return PlatformUnknown
}

// NumericID 去掉 iOS 标识符的 "id" 前缀，iTunes lookup 接口只认纯数字。
// 对其它形状的输入原样返回。
func NumericID(id string) string {
	if len(id) > 2 && strings.EqualFold(id[:2], "id") {
		return id[2:]
	}
	return id
}
