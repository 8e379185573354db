package interpolation

import (
	"errors"
	"strings"
	"testing"
)

func TestProtectRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Hello there", want: "Hello there"},
		{name: "player and format", in: "Hello [Player Name], see {0} gold.", want: "Hello [Player Name], see {0} gold."},
		{name: "player with spaces", in: "[ Player  Name ] waits.", want: "[ Player  Name ] waits."},
		{name: "url tags", in: "Visit [url=http://x]here[/url] now", want: "Visit [url=http://x]here[/url] now"},
		{name: "newlines and quotes", in: "\"Stop!\"\n\nHe said.\r\n", want: "\"Stop!\"\n\nHe said."},
		{name: "leading quote space", in: `" hello`, want: `"hello`},
		{name: "surrounding whitespace", in: "  padded  ", want: "padded"},
		{name: "repeated literal", in: "{0} and {0} and {1}", want: "{0} and {0} and {1}"},
		{name: "nested literals", in: "a\n\"b\"\nc\n", want: "a\n\"b\"\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok, err := Protect(tt.in)
			if err != nil || !ok {
				t.Fatalf("protect: ok=%v err=%v", ok, err)
			}
			if got := Restore(p.Text, p.Placeholders); got != tt.want {
				t.Fatalf("round trip = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProtectOneKeyPerLiteral(t *testing.T) {
	p, _, err := Protect("{0} + {0} = {1}")
	if err != nil {
		t.Fatalf("protect: %v", err)
	}
	if len(p.Placeholders) != 2 {
		t.Fatalf("want 2 keys, got %v", p.Placeholders)
	}
	if p.Text != "[0000] + [0000] = [0001]" {
		t.Fatalf("unexpected protected text %q", p.Text)
	}
	if p.Placeholders["0000"] != "{0}" || p.Placeholders["0001"] != "{1}" {
		t.Fatalf("unexpected map %v", p.Placeholders)
	}
}

func TestProtectHidesMarkup(t *testing.T) {
	p, _, err := Protect("Hello [Player Name], see {0} gold.")
	if err != nil {
		t.Fatalf("protect: %v", err)
	}
	if strings.Contains(p.Text, "Player") || strings.Contains(p.Text, "{0}") {
		t.Fatalf("protected text leaks literals: %q", p.Text)
	}
	if p.Text != "Hello [0000], see [0001] gold." {
		t.Fatalf("unexpected protected text %q", p.Text)
	}
}

func TestProtectEmpty(t *testing.T) {
	_, ok, err := Protect("")
	if err != nil || ok {
		t.Fatalf("empty text should be skipped, ok=%v err=%v", ok, err)
	}
}

func TestProtectCollision(t *testing.T) {
	for _, in := range []string{"see [0003] here", "see [ 00 - 01 ] here"} {
		if _, _, err := Protect(in); !errors.Is(err, ErrPlaceholderCollision) {
			t.Fatalf("%q: expected collision, got %v", in, err)
		}
	}
}

func TestRestoreToleratesWhitespace(t *testing.T) {
	got := Restore("Take [ 0000 ] and [0001 ]", Map{"0000": "{0}", "0001": "[Player Name]"})
	if got != "Take {0} and [Player Name]" {
		t.Fatalf("unexpected restore %q", got)
	}
}

func TestRestoreLiteralDollar(t *testing.T) {
	got := Restore("cost [0000]", Map{"0000": "$1"})
	if got != "cost $1" {
		t.Fatalf("replacement must be literal, got %q", got)
	}
}
