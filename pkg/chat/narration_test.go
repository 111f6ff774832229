package chat

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestParseNarration(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantStory   string
		wantChoices []string
		wantTags    string
	}{
		{
			name: "story tags and choices",
			raw: "Gió lạnh thổi qua sơn cốc.\n[STATS_UPDATE: hp=-5]\nMột bóng người hiện ra.\n" +
				"1. Rút kiếm\n2. Bỏ chạy\n[ITEM_ACQUIRED: name=\"Đá\"]",
			wantStory:   "Gió lạnh thổi qua sơn cốc.\n\nMột bóng người hiện ra.",
			wantChoices: []string{"1. Rút kiếm", "2. Bỏ chạy"},
			wantTags:    "[STATS_UPDATE: hp=-5]\n[ITEM_ACQUIRED: name=\"Đá\"]",
		},
		{
			name:        "choices capped",
			raw:         "Chọn đi.\n1. A\n2. B\n  3. C\n4. D\n5. E",
			wantStory:   "Chọn đi.",
			wantChoices: []string{"1. A", "2. B", "3. C", "4. D"},
		},
		{
			name:      "empty story falls back",
			raw:       "[NO_CHANGES]\n",
			wantStory: EmptyStory,
			wantTags:  "[NO_CHANGES]",
		},
		{
			name:      "no choices",
			raw:       "Trời đã sáng.",
			wantStory: "Trời đã sáng.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNarration(tt.raw)
			if got.Story != tt.wantStory {
				t.Errorf("story = %q, want %q", got.Story, tt.wantStory)
			}
			if !reflect.DeepEqual(got.Choices, tt.wantChoices) {
				t.Errorf("choices = %q, want %q", got.Choices, tt.wantChoices)
			}
			if got.Tags != tt.wantTags {
				t.Errorf("tags = %q, want %q", got.Tags, tt.wantTags)
			}
			if got.IsSystemError() {
				t.Error("unexpected system error")
			}
		})
	}
}

func TestParseNarration_SystemError(t *testing.T) {
	got := ParseNarration("[SYSTEM_ERROR] quota exceeded [STATS_UPDATE: hp=-5]")
	if !got.IsSystemError() {
		t.Fatalf("expected system error, got %q", got.Story)
	}
	if got.Tags != "" {
		t.Errorf("tags = %q, want none", got.Tags)
	}
	if !reflect.DeepEqual(got.Choices, FallbackChoices) {
		t.Errorf("choices = %q, want %q", got.Choices, FallbackChoices)
	}

	got.Choices[0] = "changed"
	if FallbackChoices[0] != "1. Tải lại game" {
		t.Error("fallback choices were aliased")
	}
}

func TestTurnRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     TurnRequest
		wantErr bool
	}{
		{name: "valid", req: TurnRequest{GameStateID: uuid.New(), Action: "Ngồi thiền"}},
		{name: "missing id", req: TurnRequest{Action: "Ngồi thiền"}, wantErr: true},
		{name: "blank action", req: TurnRequest{GameStateID: uuid.New(), Action: "  "}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
