package discord

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestResolveDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		member *discordgo.Member
		author *discordgo.User
		want   string
	}{
		{
			name:   "server nickname wins",
			member: &discordgo.Member{Nick: "Nick"},
			author: &discordgo.User{GlobalName: "Global", Username: "user"},
			want:   "Nick",
		},
		{
			name:   "global name over username",
			member: &discordgo.Member{},
			author: &discordgo.User{GlobalName: "Global", Username: "user"},
			want:   "Global",
		},
		{
			name:   "username fallback",
			author: &discordgo.User{Username: "user"},
			want:   "user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveDisplayName(tt.member, tt.author); got != tt.want {
				t.Errorf("resolveDisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitChunk(t *testing.T) {
	t.Run("prefers newline in second half", func(t *testing.T) {
		content := strings.Repeat("a", 1500) + "\n" + strings.Repeat("b", 1000)
		chunk, rest := splitChunk(content, 2000)
		if len(chunk) != 1501 {
			t.Errorf("chunk length = %d, want cut after the newline at 1501", len(chunk))
		}
		if rest != strings.Repeat("b", 1000) {
			t.Error("rest does not carry the remainder")
		}
	})

	t.Run("hard cut without usable newline", func(t *testing.T) {
		content := strings.Repeat("a", 3000)
		chunk, rest := splitChunk(content, 2000)
		if len(chunk) != 2000 || len(rest) != 1000 {
			t.Errorf("chunk/rest = %d/%d, want 2000/1000", len(chunk), len(rest))
		}
	})

	t.Run("early newline is ignored", func(t *testing.T) {
		content := "x\n" + strings.Repeat("a", 2500)
		chunk, _ := splitChunk(content, 2000)
		if len(chunk) != 2000 {
			t.Errorf("chunk length = %d, want hard cut at 2000", len(chunk))
		}
	})
}
