package source

import "testing"

func TestPositionFor(t *testing.T) {
	f := NewFile("main.lm", "let x = 1;\nreturn x;\n")

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{Line: 1, Column: 1}},
		{4, Position{Line: 1, Column: 5}},
		{11, Position{Line: 2, Column: 1}},
		{18, Position{Line: 2, Column: 8}},
	}

	for _, tt := range tests {
		got := f.PositionFor(tt.offset)
		if got != tt.want {
			t.Errorf("PositionFor(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
	}
}

func TestFormatCaret(t *testing.T) {
	f := NewFile("main.lm", "return true;\n")
	got := f.Format(Range{Begin: 7, End: 11}, "expected 'i32', found 'bool'")
	want := "main.lm:1:8: error: expected 'i32', found 'bool'\n" +
		"  return true;\n" +
		"         ^"
	if got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
}
