// Package discord bridges the Discord gateway to the response pipeline. It
// is a thin adapter: event conversion, history fetch, chunked sends. All
// reply behavior lives in the bot package.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/doppelbot/doppel/internal/bot"
)

// Channel connects to Discord via the Bot API using gateway events and
// implements bot.Gateway.
type Channel struct {
	session *discordgo.Session
	botUser *discordgo.User // populated on start
}

// New creates a Discord channel from a bot token.
func New(token string) (*Channel, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	return &Channel{session: session}, nil
}

// Start opens the gateway connection and resolves the bot's own identity.
func (c *Channel) Start(_ context.Context) error {
	slog.Info("starting discord connection")

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}

	user, err := c.session.User("@me")
	if err != nil {
		c.session.Close()
		return fmt.Errorf("fetch discord bot identity: %w", err)
	}
	c.botUser = user

	slog.Info("discord connected", "username", user.Username, "id", user.ID)
	return nil
}

// Stop closes the gateway connection.
func (c *Channel) Stop(_ context.Context) error {
	slog.Info("stopping discord connection")
	return c.session.Close()
}

// SelfID returns the connected account's user ID. Valid after Start.
func (c *Channel) SelfID() string {
	if c.botUser == nil {
		return ""
	}
	return c.botUser.ID
}

// Subscribe registers fn for every inbound message-create event. discordgo
// dispatches each event on its own goroutine; fn must tolerate that.
func (c *Channel) Subscribe(fn func(context.Context, bot.Message)) {
	c.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil {
			return
		}
		fn(context.Background(), bot.Message{
			ChannelID:   m.ChannelID,
			GuildID:     m.GuildID,
			AuthorID:    m.Author.ID,
			AuthorName:  resolveDisplayName(m.Member, m.Author),
			AuthorIsBot: m.Author.Bot,
			Content:     m.Content,
		})
	})
}

// RecentMessages returns up to limit messages for a channel, newest first,
// as the Discord API delivers them.
func (c *Channel) RecentMessages(_ context.Context, channelID string, limit int) ([]bot.Message, error) {
	history, err := c.session.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return nil, fmt.Errorf("fetch discord messages: %w", err)
	}

	msgs := make([]bot.Message, 0, len(history))
	for _, m := range history {
		if m.Author == nil {
			continue
		}
		msgs = append(msgs, bot.Message{
			ChannelID:   m.ChannelID,
			GuildID:     m.GuildID,
			AuthorID:    m.Author.ID,
			AuthorName:  resolveDisplayName(m.Member, m.Author),
			AuthorIsBot: m.Author.Bot,
			Content:     m.Content,
		})
	}
	return msgs, nil
}

// SendText delivers a message, splitting into multiple messages if over the
// Discord limit.
func (c *Channel) SendText(_ context.Context, channelID, content string) error {
	const maxLen = 2000

	for len(content) > 0 {
		chunk := content
		if len(chunk) > maxLen {
			chunk, content = splitChunk(content, maxLen)
		} else {
			content = ""
		}

		if _, err := c.session.ChannelMessageSend(channelID, chunk); err != nil {
			return fmt.Errorf("send discord message: %w", err)
		}
	}
	return nil
}

// SendTyping shows the composing indicator. Fire-and-forget: a failure here
// is not worth aborting the reply over.
func (c *Channel) SendTyping(_ context.Context, channelID string) {
	if err := c.session.ChannelTyping(channelID); err != nil {
		slog.Debug("typing indicator failed", "channel_id", channelID, "error", err)
	}
}

// splitChunk cuts content at maxLen, preferring a newline boundary in the
// second half of the chunk.
func splitChunk(content string, maxLen int) (chunk, rest string) {
	cutAt := maxLen
	if idx := lastIndexByte(content[:maxLen], '\n'); idx > maxLen/2 {
		cutAt = idx + 1
	}
	return content[:cutAt], content[cutAt:]
}

// resolveDisplayName returns the best available display name for a message
// author. Priority: server nickname > global display name > username.
func resolveDisplayName(member *discordgo.Member, author *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if author.GlobalName != "" {
		return author.GlobalName
	}
	return author.Username
}

// lastIndexByte returns the last index of byte b in s, or -1.
func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}
