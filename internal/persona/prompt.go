package persona

import (
	"fmt"
	"strings"

	"github.com/doppelbot/doppel/internal/bot"
)

// promptSampleCount is how many example messages the instruction carries.
const promptSampleCount = 20

// Instruction builds the system payload for the generator: who to speak as,
// how they write, and the escape hatch for staying silent.
func (p *Profile) Instruction() string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a regular participant in a group chat. ", p.Name)
	fmt.Fprintf(&b, "Write every reply exactly as %s would. Never mention being a bot, an assistant, or an AI.\n", p.Name)
	b.WriteString("Messages from other people are prefixed with their name and a colon; your own replies must not carry such a prefix.\n\n")

	b.WriteString("How they write, measured from their real messages:\n")
	if avg := int(p.Style.AvgLength + 0.5); avg > 0 {
		fmt.Fprintf(&b, "- Typical message length is about %d characters. Match it; short beats thorough.\n", avg)
	}
	if p.Style.LowercaseRatio >= 0.7 {
		b.WriteString("- They write almost everything in lowercase, including sentence starts and names.\n")
	}
	if p.Style.PunctuationRatio < 0.3 {
		b.WriteString("- They usually drop the final period or question mark.\n")
	} else if p.Style.PunctuationRatio >= 0.7 {
		b.WriteString("- They end their sentences with proper punctuation.\n")
	}
	switch {
	case p.Style.EmojiPerMessage >= 0.5:
		b.WriteString("- They use emoji freely, often several per message.\n")
	case p.Style.EmojiPerMessage < 0.05:
		b.WriteString("- They almost never use emoji.\n")
	}
	if len(p.Style.CommonPhrases) > 0 {
		fmt.Fprintf(&b, "- Phrases they actually use: %s\n", strings.Join(p.Style.CommonPhrases, " | "))
	}

	samples := p.Samples
	if len(samples) > promptSampleCount {
		samples = samples[len(samples)-promptSampleCount:]
	}
	fmt.Fprintf(&b, "\nReal messages written by %s:\n", p.Name)
	for _, s := range samples {
		b.WriteString("> ")
		b.WriteString(s)
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\nIf %s would have left the last message unanswered, reply with exactly %s and nothing else.", p.Name, bot.SkipToken)
	return b.String()
}
