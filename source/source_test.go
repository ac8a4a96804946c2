package source

import "testing"

func TestLineIndex(t *testing.T) {
	content := []byte("ab\ncde\n\nf")
	li := NewLineIndex(content)

	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{0, 0}},
		{2, Position{0, 2}},
		{3, Position{1, 0}},
		{5, Position{1, 2}},
		{7, Position{2, 0}},
		{8, Position{3, 0}},
		{9, Position{3, 1}},
		{42, Position{3, 1}},
	}
	for _, tt := range tests {
		if got := li.Position(tt.offset); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
		if tt.offset <= len(content) {
			if got := li.Offset(tt.want); got != tt.offset {
				t.Errorf("Offset(%+v) = %d, want %d", tt.want, got, tt.offset)
			}
		}
	}
}

func TestSpanContains(t *testing.T) {
	s := Span{Start: Position{1, 4}, End: Position{1, 9}}
	if !s.Contains(Position{1, 4}) || !s.Contains(Position{1, 9}) {
		t.Error("span bounds should be inclusive")
	}
	if s.Contains(Position{1, 3}) || s.Contains(Position{2, 0}) {
		t.Error("position outside span reported as contained")
	}
}

func TestUTF16Columns(t *testing.T) {
	// é takes two bytes and one unit, 𝄞 four bytes and two units.
	li := NewLineIndex([]byte("aéb\n\U0001D11Ex \"y\"\nplain"))

	tests := []struct {
		bytes, units Position
	}{
		{Position{0, 0}, Position{0, 0}},
		{Position{0, 1}, Position{0, 1}},
		{Position{0, 3}, Position{0, 2}},
		{Position{0, 4}, Position{0, 3}},
		{Position{1, 4}, Position{1, 2}},
		{Position{1, 7}, Position{1, 5}},
		{Position{2, 3}, Position{2, 3}},
	}
	for _, tt := range tests {
		if got := li.ToUTF16(tt.bytes); got != tt.units {
			t.Errorf("ToUTF16(%+v) = %+v, want %+v", tt.bytes, got, tt.units)
		}
		if got := li.FromUTF16(tt.units); got != tt.bytes {
			t.Errorf("FromUTF16(%+v) = %+v, want %+v", tt.units, got, tt.bytes)
		}
	}

	if got := li.ToUTF16(Position{0, 40}); got != (Position{0, 3}) {
		t.Errorf("ToUTF16 past the line end = %+v", got)
	}
	if got := li.FromUTF16(Position{0, 40}); got != (Position{0, 4}) {
		t.Errorf("FromUTF16 past the line end = %+v", got)
	}
}
