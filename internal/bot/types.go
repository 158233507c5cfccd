// Package bot implements the response pipeline: deciding whether an inbound
// message deserves a reply, folding recent channel history into a transcript
// the completions API accepts, and pacing the reply so it reads as typed by
// a person rather than returned by an API.
package bot

import (
	"context"
	"time"
)

// Message is an inbound chat message as seen by the pipeline. The gateway
// adapter fills it in; the pipeline only reads it.
type Message struct {
	ChannelID   string
	GuildID     string // empty for direct messages
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	Content     string
}

// Role tags one side of the folded transcript. The values double as
// chat-completion role strings.
type Role string

const (
	// RoleUser is everyone who is not the bot.
	RoleUser Role = "user"
	// RoleSelf is the bot's own prior messages.
	RoleSelf Role = "assistant"
)

// Turn is one role-tagged unit of conversation content.
type Turn struct {
	Role    Role
	Content string
}

// Gateway is the chat-platform surface the pipeline needs.
type Gateway interface {
	// RecentMessages returns up to limit messages for a channel, newest first.
	RecentMessages(ctx context.Context, channelID string, limit int) ([]Message, error)

	// SendText delivers a text message to a channel.
	SendText(ctx context.Context, channelID, text string) error

	// SendTyping shows a composing indicator. Fire-and-forget: adapters log
	// failures themselves and never surface them here.
	SendTyping(ctx context.Context, channelID string)
}

// Generator produces a reply for an assembled transcript. An empty string
// with a nil error means the model produced nothing usable.
type Generator interface {
	Generate(ctx context.Context, instruction string, turns []Turn) (string, error)
}

// Identity describes the participant the handler speaks as.
type Identity struct {
	UserID      string // gateway account ID, used for self-detection
	DisplayName string // persona display name, used for echo stripping
	Instruction string // system payload sent with every generation request
}

// Config is the reply-behavior bundle. The config loader validates it before
// the handler is constructed; the pipeline trusts it as-is.
type Config struct {
	Channels        []string      // allow-set of channel IDs
	ReplyChance     float64       // in [0,1]
	Cooldown        time.Duration // minimum gap between sends per channel
	MinDelay        time.Duration
	MaxDelay        time.Duration // >= MinDelay
	ContextMessages int           // history window size, > 0
	IgnoreBots      bool
}
