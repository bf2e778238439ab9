package client

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultLogCapacity bounds the exchange log unless overridden.
const defaultLogCapacity = 50

// Exchange is one recorded request/response pair.
type Exchange struct {
	ID         uuid.UUID
	Time       time.Time
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

// ExchangeLog keeps the most recent exchanges for debugging. Once capacity
// is reached, recording a new exchange drops the oldest one.
type ExchangeLog struct {
	mu        sync.Mutex
	capacity  int
	exchanges []Exchange
}

// NewExchangeLog creates a log bounded to the given capacity. A capacity of
// zero or less disables recording entirely.
func NewExchangeLog(capacity int) *ExchangeLog {
	return &ExchangeLog{capacity: capacity}
}

// Record appends an exchange, evicting the oldest when full.
func (l *ExchangeLog) Record(e Exchange) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.capacity <= 0 {
		return
	}
	if len(l.exchanges) >= l.capacity {
		l.exchanges = l.exchanges[1:]
	}
	l.exchanges = append(l.exchanges, e)
}

// Exchanges returns a copy of the recorded exchanges, oldest first.
func (l *ExchangeLog) Exchanges() []Exchange {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Exchange, len(l.exchanges))
	copy(out, l.exchanges)
	return out
}
