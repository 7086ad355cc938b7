package probe

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ScanResult 汇总一次多国家扫描。
//
// Available 按探测列表的顺序排列（完成顺序不确定，但汇报顺序确定），
// 第一个元素就是给调用方的“首选”国家。App 来自最先完成且带元数据的
// 那次成功探测——跨进程跑两次可能不一样，文档里按尽力而为对待。
type ScanResult struct {
	Available []string     `json:"available"`
	App       *AppMetadata `json:"app"`
}

// Scanner 把单国家探测并发扇出到一组国家上。
type Scanner struct {
	prober  Prober
	timeout time.Duration // 单次探测的独立超时
}

func NewScanner(prober Prober, perProbeTimeout time.Duration) *Scanner {
	if perProbeTimeout <= 0 {
		perProbeTimeout = 5 * time.Second
	}
	return &Scanner{
		prober:  prober,
		timeout: perProbeTimeout,
	}
}

// Scan 对每个国家各起一个 goroutine 并发探测，等全部结束后汇总。
//
// 扫描自身从不失败：单个国家超时、报错只会让该国家缺席结果，
// 绝不会中断兄弟探测，也不会向上抛错（全部失败就是空列表）。
func (s *Scanner) Scan(ctx context.Context, id, store string, countries []string, language string) ScanResult {
	available := make([]bool, len(countries))

	var mu sync.Mutex
	var app *AppMetadata

	var wg sync.WaitGroup
	for i, country := range countries {
		wg.Add(1)
		go func(i int, country string) {
			defer wg.Done()

			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			res, err := s.prober.Probe(pctx, id, store, country, language)
			if err != nil {
				// 探测是尽力而为的：错误降级为“该国家不可用”
				slog.Debug("storefront probe failed", "id", id, "country", country, "err", err)
				return
			}
			if !res.Exists {
				return
			}

			available[i] = true
			if res.App != nil {
				mu.Lock()
				if app == nil {
					app = res.App
				}
				mu.Unlock()
			}
		}(i, country)
	}
	wg.Wait()

	out := ScanResult{App: app, Available: make([]string, 0, len(countries))}
	for i, country := range countries {
		if available[i] {
			out.Available = append(out.Available, country)
		}
	}
	return out
}
