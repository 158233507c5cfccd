package bot

import (
	"log/slog"
	"strings"
)

// shouldReply runs the gate sequence for an inbound message. Gates run
// cheapest first and short-circuit on the first failure; only a message
// passing all of them reaches context assembly and generation. Apart from
// the probability draw and the cooldown read this is side-effect free.
func (h *Handler) shouldReply(m Message) bool {
	// DMs are out of scope entirely.
	if m.GuildID == "" {
		return false
	}

	if !h.channels[m.ChannelID] {
		return false
	}

	// Never answer ourselves.
	if m.AuthorID == h.identity.UserID {
		return false
	}

	if m.AuthorIsBot && h.cfg.IgnoreBots {
		return false
	}

	if strings.TrimSpace(m.Content) == "" {
		return false
	}

	// Sometimes a person just doesn't reply. Uniform draw, not weighted by
	// content.
	if h.randFloat() > h.cfg.ReplyChance {
		slog.Debug("reply skipped by chance", "channel_id", m.ChannelID)
		return false
	}

	if h.cooldowns.OnCooldown(m.ChannelID) {
		slog.Debug("channel on cooldown", "channel_id", m.ChannelID)
		return false
	}

	return true
}
