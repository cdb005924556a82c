package eagle

import "testing"

func TestUnescapeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"{slash}", "/"},
		{"A{colon}B", "A:B"},
		{"{dblquote}x{dblquote}", "\"x\""},
		{"{brace}", "{"},
		{"{}", "{"},
		{"${VAR}", "${VAR}"},
		{"_{SUB}", "_{SUB}"},
		{"^{SUP}", "^{SUP}"},
		{"{unknown}", "{unknown}"},
		{"{a{slash}b}", "{a/b}"}, // nested token resolves inside
		{"trailing{", "trailing{"}, // unterminated brace yields a literal brace
	}

	for _, c := range cases {
		if got := UnescapeText(c.in); got != c.want {
			t.Errorf("UnescapeText(%q) = %q, expected %q", c.in, got, c.want)
		}
	}
}

func TestUnescapeTextTerminates(t *testing.T) {
	// Deeply nested braces must not recurse forever: the cursor strictly
	// advances on every step.
	in := ""
	for i := 0; i < 50; i++ {
		in += "{"
	}
	_ = UnescapeText(in)
}

func TestEscapeNetName(t *testing.T) {
	if got := EscapeNetName("A/B"); got != "A{slash}B" {
		t.Errorf("Expected 'A{slash}B', got %q", got)
	}
	if got := EscapeNetName("A\nB\r"); got != "AB" {
		t.Errorf("Expected line breaks dropped, got %q", got)
	}
	if got := EscapeNetName("GND"); got != "GND" {
		t.Errorf("Expected plain name unchanged, got %q", got)
	}
}

func TestSanitizeName(t *testing.T) {
	if got := SanitizeName("74*LS00"); got != "74*LS00" {
		t.Errorf("Expected asterisk kept (it is stripped upstream), got %q", got)
	}
	if got := SanitizeName("A:B/C D"); got != "A_B_C_D" {
		t.Errorf("Expected 'A_B_C_D', got %q", got)
	}
}

func TestTranslateBusName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"A[0..7]", "A[0..7]"}, // vector names pass through
		{"CLK,RST", "{CLK RST}"},
		{"!WR,RD", "{!WR! RD}"}, // odd overbar markers get closed
		{"D0", "{D0}"},
	}

	for _, c := range cases {
		if got := TranslateBusName(c.in); got != c.want {
			t.Errorf("TranslateBusName(%q) = %q, expected %q", c.in, got, c.want)
		}
	}
}

func TestParseBusVector(t *testing.T) {
	vec, ok := ParseBusVector("DATA[0..15]")
	if !ok {
		t.Fatal("Expected DATA[0..15] to parse as a bus vector")
	}
	if vec.Name != "DATA" || vec.Start != 0 || vec.End != 15 {
		t.Errorf("Unexpected vector: %+v", vec)
	}

	if _, ok := ParseBusVector("CLK,RST"); ok {
		t.Error("Expected member list not to parse as a vector")
	}
}
