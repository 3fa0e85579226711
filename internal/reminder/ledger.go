package reminder

import "sync"

// MemoryLedger 进程内的完成标记，适用于测试和单进程运行
type MemoryLedger struct {
	mu      sync.Mutex
	claimed map[string]Marker
	results map[string]error
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		claimed: make(map[string]Marker),
		results: make(map[string]error),
	}
}

func (l *MemoryLedger) Claim(m Marker) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := m.Key()
	if _, ok := l.claimed[key]; ok {
		return false, nil
	}
	l.claimed[key] = m
	return true, nil
}

func (l *MemoryLedger) Record(m Marker, sendErr error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results[m.Key()] = sendErr
	return nil
}

// Claimed 是否已登记
func (l *MemoryLedger) Claimed(m Marker) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.claimed[m.Key()]
	return ok
}

// Recorded 是否已记录发送结果
func (l *MemoryLedger) Recorded(m Marker) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.results[m.Key()]
	return ok
}

// SendError 返回记录的发送错误，成功或未记录时为 nil
func (l *MemoryLedger) SendError(m Marker) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.results[m.Key()]
}
