package persona

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// exportFile mirrors the subset of a DiscordChatExporter JSON dump the
// ingester reads.
type exportFile struct {
	Messages []exportMessage `json:"messages"`
}

type exportMessage struct {
	Content string       `json:"content"`
	Author  exportAuthor `json:"author"`
}

type exportAuthor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
}

// ReadExport pulls one author's messages from a chat export stream. Returns
// the author's display name (server nickname when present) and their
// non-empty messages in file order, oldest first.
func ReadExport(r io.Reader, authorID string) (string, []string, error) {
	var f exportFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return "", nil, fmt.Errorf("parse chat export: %w", err)
	}

	name := ""
	var msgs []string
	for _, m := range f.Messages {
		if m.Author.ID != authorID {
			continue
		}
		if name == "" {
			name = m.Author.Nickname
			if name == "" {
				name = m.Author.Name
			}
		}
		if text := strings.TrimSpace(m.Content); text != "" {
			msgs = append(msgs, text)
		}
	}

	if len(msgs) == 0 {
		return "", nil, fmt.Errorf("no messages found for author %s", authorID)
	}
	return name, msgs, nil
}
