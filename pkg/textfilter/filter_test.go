package textfilter

import (
	"testing"
)

func TestProfanityFilter_FilterText(t *testing.T) {
	filter := NewProfanityFilter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple replacement",
			input:    "Ta đéo sợ ngươi!",
			expected: "Ta chẳng sợ ngươi!",
		},
		{
			name:     "case preservation - uppercase",
			input:    "ĐÉO có chuyện đó",
			expected: "CHẲNG có chuyện đó",
		},
		{
			name:     "case preservation - title case",
			input:    "Đéo cần biết",
			expected: "Chẳng cần biết",
		},
		{
			name:     "whole words only",
			input:    "Đêm nay trăng sáng, đường đi đẹp",
			expected: "Đêm nay trăng sáng, đường đi đẹp",
		},
		{
			name:     "punctuation around match",
			input:    "Hắn là đồ đĩ!?",
			expected: "Hắn là đồ kẻ xấu!?",
		},
		{
			name:     "no profanity",
			input:    "Kiếm khí tung hoành ngàn dặm.",
			expected: "Kiếm khí tung hoành ngàn dặm.",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.FilterText(tt.input); got != tt.expected {
				t.Errorf("FilterText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestProfanityFilter_ContainsProfanity(t *testing.T) {
	filter := NewProfanityFilter()
	if !filter.ContainsProfanity("đồ ĐÉO ra gì") {
		t.Error("expected profanity to be detected")
	}
	if filter.ContainsProfanity("đạo hữu xin dừng bước") {
		t.Error("unexpected profanity detected")
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		text, sub string
		expected  bool
	}{
		{"Ngươi đã gặp LÃO TRƯƠNG ở Vọng Nguyệt Thành", "lão trương", true},
		{"Ngươi đã gặp Lão Trương", "Vọng Nguyệt", false},
		{"bất kỳ", "", false},
	}
	for _, tt := range tests {
		if got := ContainsFold(tt.text, tt.sub); got != tt.expected {
			t.Errorf("ContainsFold(%q, %q) = %v, want %v", tt.text, tt.sub, got, tt.expected)
		}
	}
	if !EqualFold("Hồi Xuân Đan", "hồi xuân đan") {
		t.Error("expected EqualFold to ignore case")
	}
}

func TestSortByName(t *testing.T) {
	names := []string{"Đan", "Bảo", "Dao", "An"}
	SortByName(names, func(s string) string { return s })
	want := []string{"An", "Bảo", "Dao", "Đan"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("SortByName = %v, want %v", names, want)
		}
	}
}

func TestTrimChoiceNumber(t *testing.T) {
	if got := TrimChoiceNumber("  2. Rút kiếm"); got != "Rút kiếm" {
		t.Errorf("TrimChoiceNumber = %q", got)
	}
}
