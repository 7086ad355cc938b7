package stats

import "time"

// ClickEvent 记录一次跳转解析。只做事后分析用，写入绝不阻塞跳转响应。
type ClickEvent struct {
	AppID     string
	Platform  string //ios / android
	Country   string //解析出的国家
	Outcome   string //resolved / fallback
	Slug      string //经由 /p/:slug 进来时带上，其他情况为空
	ClickedAt time.Time
	IP        string
	UserAgent string
	Referer   string
}

// Collector 收集器接口（方便后续换 Kafka）
type Collector interface {
	Collect(event ClickEvent)
	Close()
}

// ChannelCollector 基于 channel 的收集器
type ChannelCollector struct {
	ch     chan ClickEvent
	closed bool
}

func NewChannelCollector(bufferSize int) *ChannelCollector {
	return &ChannelCollector{
		ch:     make(chan ClickEvent, bufferSize),
		closed: false,
	}
}

func (c *ChannelCollector) Collect(event ClickEvent) {
	if c.closed {
		return
	}
	select {
	case c.ch <- event:
	default:
		// 通道满了，丢弃。统计数据可以丢，跳转不能慢。
	}
}

func (c *ChannelCollector) Events() <-chan ClickEvent {
	return c.ch
}

func (c *ChannelCollector) Close() {
	c.closed = true
	close(c.ch)
}
