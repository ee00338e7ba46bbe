package revurdering

import (
	"sync"
	"time"
)

// Clock is the time source every operation needing "now" receives
// explicitly. Production wires SystemClock; tests pin time with FixedClock
// or TikkendeKlokke.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }

// FixedClock always returns the same instant.
type FixedClock struct {
	Tidspunkt time.Time
}

func (c FixedClock) Now() time.Time { return c.Tidspunkt }

// TikkendeKlokke advances one second per observation, so consecutive events
// within a test get distinct, ordered timestamps.
type TikkendeKlokke struct {
	mu    sync.Mutex
	neste time.Time
}

func NyTikkendeKlokke(start time.Time) *TikkendeKlokke {
	return &TikkendeKlokke{neste: start}
}

func (c *TikkendeKlokke) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.neste
	c.neste = c.neste.Add(time.Second)
	return n
}
