package scanner

import (
	"testing"

	"nickandperla.net/snailfish/internal/token"
)

func collect(t *testing.T, s *Scanner) []*Item {
	t.Helper()
	var items []*Item
	for {
		item, err := s.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		items = append(items, item)
		if item.Token == token.EOF {
			return items
		}
	}
}

func TestScanPair(t *testing.T) {
	items := collect(t, NewFromString("[12,[3,4]]"))

	expected := []struct {
		tok    token.Token
		value  string
		column int
	}{
		{token.LBRACKET, "[", 1},
		{token.NUMBER, "12", 2},
		{token.COMMA, ",", 4},
		{token.LBRACKET, "[", 5},
		{token.NUMBER, "3", 6},
		{token.COMMA, ",", 7},
		{token.NUMBER, "4", 8},
		{token.RBRACKET, "]", 9},
		{token.RBRACKET, "]", 10},
		{token.EOF, "", 11},
	}
	if len(items) != len(expected) {
		t.Fatalf("expected %d items, got %d", len(expected), len(items))
	}
	for i, want := range expected {
		got := items[i]
		if got.Token != want.tok || got.Value != want.value || got.Column != want.column {
			t.Errorf("item %d: expected %s %q at column %d, got %s %q at column %d",
				i, want.tok, want.value, want.column, got.Token, got.Value, got.Column)
		}
		if got.Line != 1 {
			t.Errorf("item %d: expected line 1, got %d", i, got.Line)
		}
	}
}

func TestScanIllegal(t *testing.T) {
	items := collect(t, NewFromString("[1, x]"))
	// [ 1 , ' ' x ] EOF
	if items[3].Token != token.ILLEGAL || items[3].Rune() != ' ' || items[3].Column != 4 {
		t.Errorf("expected ILLEGAL space at column 4, got %s %q at %d", items[3].Token, items[3].Value, items[3].Column)
	}
	if items[4].Token != token.ILLEGAL || items[4].Rune() != 'x' {
		t.Errorf("expected ILLEGAL 'x', got %s %q", items[4].Token, items[4].Value)
	}
}

func TestScanLineTracking(t *testing.T) {
	items := collect(t, NewFromString("1\n[2,3]").WithLine(7))

	if items[0].Line != 7 || items[0].Column != 1 {
		t.Errorf("expected first item at 7:1, got %d:%d", items[0].Line, items[0].Column)
	}
	// The newline itself is reported where it occurs.
	if items[1].Token != token.ILLEGAL || items[1].Line != 7 || items[1].Column != 2 {
		t.Errorf("expected newline at 7:2, got %s at %d:%d", items[1].Token, items[1].Line, items[1].Column)
	}
	if items[2].Token != token.LBRACKET || items[2].Line != 8 || items[2].Column != 1 {
		t.Errorf("expected '[' at 8:1, got %s at %d:%d", items[2].Token, items[2].Line, items[2].Column)
	}
}

func TestPeek(t *testing.T) {
	s := NewFromString("42]")

	peeked, err := s.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next, err := s.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peeked != next {
		t.Errorf("expected Next to return the peeked item")
	}
	if next.Value != "42" {
		t.Errorf("expected '42', got '%s'", next.Value)
	}

	after, _ := s.Next()
	if after.Token != token.RBRACKET || after.Column != 3 {
		t.Errorf("expected ']' at column 3, got %s at %d", after.Token, after.Column)
	}
}
