package bot

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler wires the decision gates, the window builder and the pacer into
// the per-message flow. It owns the cooldown store explicitly so tests and
// restarts never share hidden state.
type Handler struct {
	gateway   Gateway
	generator Generator
	cooldowns *Cooldowns
	cfg       Config
	identity  Identity
	channels  map[string]bool

	// rng is injected so tests can seed it. Guarded because the gateway may
	// dispatch events from multiple goroutines.
	randMu sync.Mutex
	rng    *rand.Rand
}

// NewHandler creates a handler. A nil rng falls back to a time-seeded one.
func NewHandler(gw Gateway, gen Generator, cfg Config, identity Identity, rng *rand.Rand) *Handler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	channels := make(map[string]bool, len(cfg.Channels))
	for _, id := range cfg.Channels {
		channels[id] = true
	}

	return &Handler{
		gateway:   gw,
		generator: gen,
		cooldowns: NewCooldowns(cfg.Cooldown),
		cfg:       cfg,
		identity:  identity,
		channels:  channels,
		rng:       rng,
	}
}

// HandleMessage runs one inbound message through the full pipeline. Failures
// are contained here: logged, swallowed, and never allowed to cross into the
// handling of other messages.
func (h *Handler) HandleMessage(ctx context.Context, m Message) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("message handling panicked", "channel_id", m.ChannelID, "panic", r)
		}
	}()

	if !h.shouldReply(m) {
		return
	}

	runID := uuid.NewString()[:8]
	log := slog.With("run_id", runID, "channel_id", m.ChannelID)
	log.Debug("handling message", "author_id", m.AuthorID)

	turns, err := h.buildWindow(ctx, m.ChannelID)
	if err != nil {
		log.Warn("context assembly failed", "error", err)
		return
	}

	sent, err := h.deliver(ctx, m.ChannelID, turns)
	if err != nil {
		log.Warn("reply delivery failed", "error", err)
		return
	}
	if sent == "" {
		log.Debug("reply suppressed")
		return
	}
	log.Info("reply sent", "length", len(sent))
}

func (h *Handler) randFloat() float64 {
	h.randMu.Lock()
	defer h.randMu.Unlock()
	return h.rng.Float64()
}
