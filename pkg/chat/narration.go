package chat

import (
	"regexp"
	"strings"

	"github.com/jwebster45206/realm-engine/pkg/tags"
)

// SystemErrorMarker prefixes narration that reports a failed generation.
const SystemErrorMarker = "[SYSTEM_ERROR]"

// MaxChoices is the number of choices offered per turn.
const MaxChoices = 4

// EmptyStory replaces narration that held nothing but tags and choices.
const EmptyStory = "AI không thể tạo ra câu chuyện. Hãy thử lại."

// ConnectionErrorStory is recorded when the narrator cannot be reached.
const ConnectionErrorStory = "Đã xảy ra lỗi khi kết nối đến AI. Vui lòng kiểm tra lại API Key và thử lại."

// FallbackChoices are offered after a failed generation.
var FallbackChoices = []string{"1. Tải lại game", "2. Bắt đầu lại"}

var choicePattern = regexp.MustCompile(`(?m)^[ \t]*(\d+\.[ \t]*.*)$`)

// Narration is one narrator response split into its parts.
type Narration struct {
	Story   string   `json:"story"`
	Choices []string `json:"choices"`
	// Tags is the raw tag text, one tag per line.
	Tags string `json:"tags"`
}

// IsSystemError reports whether the narration reports a failed generation.
func (n Narration) IsSystemError() bool {
	return strings.HasPrefix(n.Story, SystemErrorMarker)
}

// ParseNarration splits a raw narrator response into tag text, story prose and at most
// MaxChoices numbered choice lines. A response starting with SystemErrorMarker is kept
// whole with the fallback choices and no tags.
func ParseNarration(raw string) Narration {
	if strings.HasPrefix(raw, SystemErrorMarker) {
		return SystemError(strings.TrimSpace(strings.TrimPrefix(raw, SystemErrorMarker)))
	}

	tagText := tags.Extract(raw)
	story := tags.Strip(raw)

	var choices []string
	for _, m := range choicePattern.FindAllStringSubmatch(story, -1) {
		choices = append(choices, strings.TrimSpace(m[1]))
	}
	story = strings.TrimSpace(choicePattern.ReplaceAllString(story, ""))
	if story == "" {
		story = EmptyStory
	}
	if len(choices) > MaxChoices {
		choices = choices[:MaxChoices]
	}

	return Narration{Story: story, Choices: choices, Tags: tagText}
}

// SystemError builds the narration recorded when generation fails.
func SystemError(msg string) Narration {
	story := SystemErrorMarker
	if msg != "" {
		story += " " + msg
	}
	choices := make([]string, len(FallbackChoices))
	copy(choices, FallbackChoices)
	return Narration{Story: story, Choices: choices}
}
