package applink

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want Platform
	}{
		{"ios typical", "id324684580", PlatformIOS},
		{"ios uppercase prefix", "ID324684580", PlatformIOS},
		{"ios mixed case prefix", "Id1234567", PlatformIOS},
		{"ios shortest", "id1234567", PlatformIOS},
		{"ios longest", "id1234567890123", PlatformIOS},
		{"ios too short", "id123456", PlatformUnknown},
		{"ios too long", "id12345678901234", PlatformUnknown},
		{"ios trailing junk", "id324684580x", PlatformUnknown},
		{"ios embedded", "xid324684580", PlatformUnknown},

		{"android typical", "com.spotify.music", PlatformAndroid},
		{"android two segments", "com.whatsapp", PlatformAndroid},
		{"android underscore and digit", "com.app2.my_game", PlatformAndroid},
		{"android single segment", "spotify", PlatformUnknown},
		{"android segment starts with digit", "com.2pac.app", PlatformUnknown},
		{"android uppercase", "com.Spotify.music", PlatformUnknown},
		{"android trailing dot", "com.spotify.", PlatformUnknown},
		{"android leading dot", ".com.spotify", PlatformUnknown},
		{"android segment starts with underscore", "com._private.app", PlatformUnknown},

		{"empty", "", PlatformUnknown},
		{"whitespace", "  ", PlatformUnknown},
		{"url not identifier", "https://apps.apple.com/de/app/id324684580", PlatformUnknown},
		{"bare digits", "324684580", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.id); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestDetectAndroidLengthBounds(t *testing.T) {
	// 单段 63 字符是上限，64 超限
	seg63 := "a" + strings.Repeat("b", 62)
	if got := Detect("com." + seg63); got != PlatformAndroid {
		t.Errorf("63-char segment: got %q, want android", got)
	}
	if got := Detect("com." + seg63 + "b"); got != PlatformUnknown {
		t.Errorf("64-char segment: got %q, want unknown", got)
	}

	// 总长 255 合法，超过则拒绝
	long255 := "a" + strings.Repeat(".a", 127) // 255 字符
	if got := Detect(long255); got != PlatformAndroid {
		t.Errorf("255-char id: got %q, want android", got)
	}
	if got := Detect(long255 + ".a"); got != PlatformUnknown {
		t.Errorf("257-char id: got %q, want unknown", got)
	}
}

func TestNumericID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"id324684580", "324684580"},
		{"ID324684580", "324684580"},
		{"324684580", "324684580"},
		{"com.spotify.music", "com.spotify.music"},
	}
	for _, tt := range tests {
		if got := NumericID(tt.id); got != tt.want {
			t.Errorf("NumericID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
