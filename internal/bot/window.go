package bot

import (
	"context"
	"fmt"
	"strings"
)

// buildWindow fetches the channel's recent history and folds it into a
// transcript for the generator. The fetch is not retried here; errors
// propagate to the handler boundary.
func (h *Handler) buildWindow(ctx context.Context, channelID string) ([]Turn, error) {
	msgs, err := h.gateway.RecentMessages(ctx, channelID, h.cfg.ContextMessages)
	if err != nil {
		return nil, fmt.Errorf("fetch channel history: %w", err)
	}
	return foldTranscript(msgs, h.identity.UserID), nil
}

// foldTranscript reduces a newest-first message list to an alternating
// role-tagged transcript. Counterpart messages carry a "name: " prefix so a
// multi-party channel survives the reduction to a two-role dialogue.
// Adjacent messages from the same side merge into one newline-joined turn.
// Merging happens before the leading-self trim, so a run of own messages at
// the top of the window is dropped as a single unit.
func foldTranscript(msgs []Message, selfID string) []Turn {
	turns := make([]Turn, 0, len(msgs))

	for i := len(msgs) - 1; i >= 0; i-- { // oldest first
		m := msgs[i]
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue // attachment-only or embed-only message
		}

		role := RoleUser
		if m.AuthorID == selfID {
			role = RoleSelf
		} else {
			text = m.AuthorName + ": " + text
		}

		if n := len(turns); n > 0 && turns[n-1].Role == role {
			turns[n-1].Content += "\n" + text
			continue
		}
		turns = append(turns, Turn{Role: role, Content: text})
	}

	// The completions API requires the dialogue to open with the counterpart.
	start := 0
	for start < len(turns) && turns[start].Role == RoleSelf {
		start++
	}
	return turns[start:]
}
