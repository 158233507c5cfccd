package persona

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// maxSamples caps the example corpus carried in the profile; the prompt
	// builder uses far fewer, the rest is headroom for re-sampling.
	maxSamples = 200

	maxPhrases     = 10
	phraseMaxWords = 4
	phraseMinCount = 3
)

// BuildProfile derives a style profile from one author's message corpus.
// Messages are expected trimmed and non-empty, oldest first.
func BuildProfile(name string, messages []string) *Profile {
	var (
		totalRunes  int
		totalEmoji  int
		lowercase   int
		punctuated  int
		phraseCount = make(map[string]int)
	)

	for _, msg := range messages {
		totalRunes += utf8.RuneCountInString(msg)
		totalEmoji += countEmoji(msg)
		if isLowercase(msg) {
			lowercase++
		}
		if endsPunctuated(msg) {
			punctuated++
		}
		if short := strings.ToLower(msg); len(strings.Fields(short)) <= phraseMaxWords {
			phraseCount[short]++
		}
	}

	n := len(messages)
	style := Style{}
	if n > 0 {
		style.AvgLength = float64(totalRunes) / float64(n)
		style.EmojiPerMessage = float64(totalEmoji) / float64(n)
		style.LowercaseRatio = float64(lowercase) / float64(n)
		style.PunctuationRatio = float64(punctuated) / float64(n)
	}
	style.CommonPhrases = topPhrases(phraseCount)

	samples := messages
	if len(samples) > maxSamples {
		// Keep the most recent slice of the corpus.
		samples = samples[len(samples)-maxSamples:]
	}

	return &Profile{Name: name, Samples: samples, Style: style}
}

// topPhrases returns the most repeated short phrases, most frequent first,
// ties broken alphabetically for stable output.
func topPhrases(counts map[string]int) []string {
	phrases := make([]string, 0, len(counts))
	for p, c := range counts {
		if c >= phraseMinCount {
			phrases = append(phrases, p)
		}
	}
	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return phrases[i] < phrases[j]
	})
	if len(phrases) > maxPhrases {
		phrases = phrases[:maxPhrases]
	}
	return phrases
}

// isLowercase reports whether the message contains letters and none of them
// are uppercase.
func isLowercase(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func endsPunctuated(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r == '.' || r == '!' || r == '?'
}

func countEmoji(s string) int {
	count := 0
	for _, r := range s {
		// Misc symbols, dingbats, and the main emoji planes.
		if (r >= 0x1F300 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF) {
			count++
		}
	}
	return count
}
