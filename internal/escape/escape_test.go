package escape

import "testing"

func TestTextIdempotentOnSafeInput(t *testing.T) {
	cases := []string{"", "Hello world", "the quick brown fox 123"}
	for _, c := range cases {
		if got := Text(c); got != c {
			t.Errorf("Text(%q) = %q, want unchanged", c, got)
		}
	}
}

func TestTextEscapesEachSpecialCharacter(t *testing.T) {
	cases := map[string]string{
		`\`: `\textbackslash{}`,
		`%`: `\%`,
		`$`: `\$`,
		`_`: `\_`,
		`&`: `\&`,
		`#`: `\#`,
		`{`: `\{`,
		`}`: `\}`,
		`~`: `\textasciitilde{}`,
		`^`: `\textasciicircum{}`,
	}
	for in, want := range cases {
		if got := Text(in); got != want {
			t.Errorf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextSoundness(t *testing.T) {
	got := Text("Hello % world & friends_done {x}")
	for _, bad := range []string{"%", "&", "_", "{", "}"} {
		// every bare occurrence must be preceded by a backslash
		count := 0
		for i := 0; i < len(got); i++ {
			if string(got[i]) == bad {
				if i == 0 || got[i-1] != '\\' {
					count++
				}
			}
		}
		if count != 0 {
			t.Errorf("found %d bare occurrences of %q in %q", count, bad, got)
		}
	}
}

func TestMinimalParagraphScenario(t *testing.T) {
	got := Text("Hello % world")
	want := `Hello \% world`
	if got != want {
		t.Errorf("Text(%q) = %q, want %q", "Hello % world", got, want)
	}
}

func TestURL(t *testing.T) {
	if got := URL("https://example.com/a%20b#frag"); got != `https://example.com/a\%20b\#frag` {
		t.Errorf("URL() = %q", got)
	}
}
