package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// SkipToken is the control value the generator returns when the persona
// would not have replied at all.
const SkipToken = "[SKIP]"

// deliver generates a reply for the folded transcript and sends it after a
// human-paced delay. Returns the sent text, or "" when the turn was
// suppressed without error.
func (h *Handler) deliver(ctx context.Context, channelID string, turns []Turn) (string, error) {
	if len(turns) == 0 {
		// Nothing to respond to; don't burn a generation call.
		return "", nil
	}

	delay := h.randDelay()
	h.gateway.SendTyping(ctx, channelID)

	// The delay and the generation call run concurrently and are joined
	// before anything else happens: a fast generation never shortens the
	// typing illusion, and a slow one is never cut off by the timer.
	var reply string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	g.Go(func() error {
		out, err := h.generator.Generate(gctx, h.identity.Instruction, turns)
		if err != nil {
			return fmt.Errorf("generate reply: %w", err)
		}
		reply = out
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	text := cleanReply(reply, h.identity.DisplayName)
	if text == "" {
		return "", nil
	}

	if err := h.gateway.SendText(ctx, channelID, text); err != nil {
		return "", fmt.Errorf("send reply: %w", err)
	}
	h.cooldowns.RecordSend(channelID)
	return text, nil
}

// cleanReply post-processes raw model output. The skip token suppresses the
// turn, and a leading "Name:" echo of the persona's own name is an artifact
// of the transcript format and gets stripped. An empty result means the turn
// should be suppressed.
func cleanReply(raw, displayName string) string {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, SkipToken) {
		return ""
	}

	if prefix := displayName + ":"; strings.HasPrefix(text, prefix) {
		text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
	}
	return text
}

// randDelay draws a uniform delay from [MinDelay, MaxDelay].
func (h *Handler) randDelay() time.Duration {
	span := h.cfg.MaxDelay - h.cfg.MinDelay
	if span <= 0 {
		return h.cfg.MinDelay
	}

	h.randMu.Lock()
	defer h.randMu.Unlock()
	return h.cfg.MinDelay + time.Duration(h.rng.Int63n(int64(span)+1))
}
