package clock

import (
	"sync"
	"time"
)

// Clock 时间源抽象，便于测试中冻结/推进时间
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System 进程级真实时钟
var System Clock = systemClock{}

// Mock 可控时钟（测试用）
type Mock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMock 以给定时间创建可控时钟
func NewMock(t time.Time) *Mock {
	return &Mock{now: t}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set 直接设置当前时间
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance 将时间向前推进 d
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
