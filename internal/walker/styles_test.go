package walker

import "testing"

func TestLookupStyle(t *testing.T) {
	cases := []struct {
		name string
		want styleCommand
	}{
		{"Heading 1", styleSection},
		{"Heading 3", styleSubsubsection},
		{"Title", styleTitle},
		{"CCS", styleDrop},
		{"Author", styleAuthor},
		{"Bib_entry", styleBibliography},
		{"SomeUnmappedStyle", styleNone},
		{"", styleNone},
	}
	for _, c := range cases {
		if got := lookupStyle(c.name); got != c.want {
			t.Errorf("lookupStyle(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestHeadingCommand(t *testing.T) {
	if got := styleSection.headingCommand(); got != `\section` {
		t.Errorf("headingCommand() = %q, want \\section", got)
	}
	if got := styleAuthor.headingCommand(); got != "" {
		t.Errorf("headingCommand() for styleAuthor = %q, want empty", got)
	}
}

func TestDetectHeadingFromContent(t *testing.T) {
	cases := []struct {
		text string
		cmd  string
	}{
		{"CHƯƠNG 1. Giới thiệu", `\section*`},
		{"1.2.3 Chi tiết triển khai", `\subsubsection*`},
		{"2.1 Phương pháp nghiên cứu", `\subsection*`},
		{"1. Introduction to the Problem", `\section*`},
		{"just a regular sentence.", ""},
	}
	for _, c := range cases {
		if got := detectHeadingFromContent(c.text); got != c.cmd {
			t.Errorf("detectHeadingFromContent(%q) = %q, want %q", c.text, got, c.cmd)
		}
	}
}

func TestStarIfNumbered(t *testing.T) {
	if got := starIfNumbered(`\section`, "1.2 Something"); got != `\section*` {
		t.Errorf("starIfNumbered() = %q, want \\section*", got)
	}
	if got := starIfNumbered(`\section`, "Something without a number"); got != `\section` {
		t.Errorf("starIfNumbered() = %q, want \\section", got)
	}
	if got := starIfNumbered("", "1.2 Something"); got != "" {
		t.Errorf("starIfNumbered() with empty cmd = %q, want empty", got)
	}
}
