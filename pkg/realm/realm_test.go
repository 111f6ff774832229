package realm

import (
	"testing"
)

var pathOfImmortals = []string{"Phàm Nhân", "Luyện Khí", "Trúc Cơ"}

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		tiers    []string
		expected string
	}{
		{name: "empty system", level: 5, tiers: nil, expected: MortalName},
		{name: "mortal at zero", level: 0, tiers: pathOfImmortals, expected: "Phàm Nhân"},
		{name: "negative level clamps to mortal", level: -3, tiers: pathOfImmortals, expected: "Phàm Nhân"},
		{name: "first stage", level: 1, tiers: pathOfImmortals, expected: "Luyện Khí Tầng 1"},
		{name: "last numbered stage", level: 13, tiers: pathOfImmortals, expected: "Luyện Khí Tầng 13"},
		{name: "second realm early", level: 14, tiers: pathOfImmortals, expected: "Trúc Cơ Sơ Kỳ"},
		{name: "second realm peak", level: 17, tiers: pathOfImmortals, expected: "Trúc Cơ Đại Viên Mãn"},
		{name: "summit", level: 18, tiers: pathOfImmortals, expected: "Trúc Cơ Đại Viên Mãn (Đỉnh Phong)"},
		{name: "far past summit", level: 99, tiers: pathOfImmortals, expected: "Trúc Cơ Đại Viên Mãn (Đỉnh Phong)"},
		{name: "no mortal realm treats zero as stage one", level: 0, tiers: []string{"Luyện Khí", "Trúc Cơ"}, expected: "Luyện Khí Tầng 1"},
		{name: "no mortal realm second realm", level: 15, tiers: []string{"Luyện Khí", "Trúc Cơ"}, expected: "Trúc Cơ Trung Kỳ"},
		{name: "mortal only", level: 3, tiers: []string{"Phàm Nhân"}, expected: UnknownName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.level, tt.tiers); got != tt.expected {
				t.Errorf("Name(%d) = %q, want %q", tt.level, got, tt.expected)
			}
		})
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  int
		expectErr bool
	}{
		{name: "mortal", input: "Phàm Nhân", expected: 0},
		{name: "numbered stage", input: "Luyện Khí Tầng 7", expected: 7},
		{name: "case insensitive", input: "luyện khí tầng 12", expected: 12},
		{name: "bare first realm", input: "Luyện Khí", expected: 1},
		{name: "out of range stage falls back to first", input: "Luyện Khí Tầng 40", expected: 1},
		{name: "minor stage", input: "Trúc Cơ Hậu Kỳ", expected: 16},
		{name: "bare later realm", input: "Trúc Cơ", expected: 14},
		{name: "padded", input: "  Trúc Cơ Trung Kỳ ", expected: 15},
		{name: "summit", input: "Trúc Cơ Đại Viên Mãn (Đỉnh Phong)", expected: 18},
		{name: "unknown", input: "Kim Đan", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LevelFor(tt.input, pathOfImmortals)
			if tt.expectErr {
				if ok {
					t.Errorf("LevelFor(%q) = %d, want not found", tt.input, got)
				}
				return
			}
			if !ok {
				t.Fatalf("LevelFor(%q) not found", tt.input)
			}
			if got != tt.expected {
				t.Errorf("LevelFor(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelFor_EmptySystem(t *testing.T) {
	if _, ok := LevelFor("Phàm Nhân", nil); ok {
		t.Error("expected no level for empty system")
	}
}

func TestRoundTrip(t *testing.T) {
	summit := MaxLevel(pathOfImmortals) + 1
	for level := 0; level <= 30; level++ {
		name := Name(level, pathOfImmortals)
		got, ok := LevelFor(name, pathOfImmortals)
		if !ok {
			t.Fatalf("level %d: name %q did not resolve", level, name)
		}
		want := min(level, summit)
		if got != want {
			t.Errorf("level %d: LevelFor(%q) = %d, want %d", level, name, got, want)
		}
		if back := Name(got, pathOfImmortals); back != name {
			t.Errorf("level %d: name did not survive round trip: %q != %q", level, back, name)
		}
	}
}

func TestOptions(t *testing.T) {
	opts := Options(pathOfImmortals, 0)
	if len(opts) != 19 {
		t.Fatalf("expected 19 options (0..18), got %d", len(opts))
	}
	last := opts[len(opts)-1]
	if last.Level != 18 || last.Name != "Trúc Cơ Đại Viên Mãn (Đỉnh Phong)" {
		t.Errorf("unexpected last option %+v", last)
	}

	capped := Options(pathOfImmortals, 5)
	if len(capped) != 6 {
		t.Errorf("expected 6 capped options, got %d", len(capped))
	}

	empty := Options(nil, 10)
	if len(empty) != 1 || empty[0].Name != MortalName {
		t.Errorf("unexpected options for empty system: %+v", empty)
	}
}
