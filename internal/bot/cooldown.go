package bot

import (
	"sync"
	"time"
)

// Cooldowns tracks the last confirmed send per channel and answers whether a
// channel is still inside its quiet period. Entries live for the process
// lifetime; the key space is bounded by the configured channel allow-set so
// no pruning is needed. Safe for concurrent use.
type Cooldowns struct {
	mu   sync.Mutex
	last map[string]time.Time
	gap  time.Duration
	now  func() time.Time
}

// NewCooldowns creates an empty tracker with the given minimum gap.
func NewCooldowns(gap time.Duration) *Cooldowns {
	return &Cooldowns{
		last: make(map[string]time.Time),
		gap:  gap,
		now:  time.Now,
	}
}

// OnCooldown reports whether the channel had a send less than the configured
// gap ago. Channels never sent to are never on cooldown.
func (c *Cooldowns) OnCooldown(channelID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.last[channelID]
	return ok && c.now().Sub(t) < c.gap
}

// RecordSend overwrites the channel's last-send timestamp with the current
// time. Called only after a message actually went out, so suppressed turns
// do not reset the window.
func (c *Cooldowns) RecordSend(channelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.last[channelID] = c.now()
}
