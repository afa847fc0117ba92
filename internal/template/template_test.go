package template

import (
	"strings"
	"testing"

	"github.com/trantaidat7388-dot/word2latex/internal/semantic"
)

func TestFindMatchingBrace(t *testing.T) {
	s := `\title{A {nested} thing}`
	open := strings.Index(s, "{")
	closeIdx := findMatchingBrace(s, open)
	if closeIdx != len(s)-1 {
		t.Errorf("findMatchingBrace() = %d, want %d (the final closing brace)", closeIdx, len(s)-1)
	}
}

func TestFindMatchingBraceIgnoresEscapedBraces(t *testing.T) {
	s := `{a \{ b}`
	closeIdx := findMatchingBrace(s, 0)
	if closeIdx != len(s)-1 {
		t.Errorf("findMatchingBrace() = %d, want %d", closeIdx, len(s)-1)
	}
}

func TestReplaceTitlePreservesThanks(t *testing.T) {
	tmpl := `\title{Dummy Title\thanks{Funded by X}}`
	got := replaceTitle(tmpl, "My Real Title")
	want := `\title{My Real Title` + "\n" + `\thanks{Funded by X}}`
	if got != want {
		t.Errorf("replaceTitle() = %q, want %q", got, want)
	}
}

func TestReplaceTitleNoThanks(t *testing.T) {
	tmpl := `\title{Dummy}`
	got := replaceTitle(tmpl, "Real")
	if got != `\title{Real}` {
		t.Errorf("replaceTitle() = %q", got)
	}
}

func TestReplaceAuthorJoinsWithDoubleBackslash(t *testing.T) {
	tmpl := `\author{John Smith}`
	authors := []semantic.AuthorEntry{
		{Kind: "author", Text: "Jane Doe"},
		{Kind: "affil", Text: "Some University"},
	}
	got := replaceAuthor(tmpl, authors)
	want := "\\author{Jane Doe \\\\\nSome University}"
	if got != want {
		t.Errorf("replaceAuthor() = %q, want %q", got, want)
	}
}

func TestReplaceAbstract(t *testing.T) {
	tmpl := "\\begin{abstract}\nDummy abstract text.\n\\end{abstract}"
	got := replaceAbstract(tmpl, "Real abstract.")
	want := "\\begin{abstract}\nReal abstract.\n\\end{abstract}"
	if got != want {
		t.Errorf("replaceAbstract() = %q, want %q", got, want)
	}
}

func TestReplaceKeywordsIEEEEnv(t *testing.T) {
	tmpl := "\\begin{IEEEkeywords}\nfoo, bar\n\\end{IEEEkeywords}"
	got := replaceKeywords(tmpl, "real, keywords")
	want := "\\begin{IEEEkeywords}\nreal, keywords\n\\end{IEEEkeywords}"
	if got != want {
		t.Errorf("replaceKeywords() = %q, want %q", got, want)
	}
}

func TestReplaceKeywordsBoldFallback(t *testing.T) {
	tmpl := `\textbf{Keywords:} foo, bar` + "\n"
	got := replaceKeywords(tmpl, "real, keywords")
	if !strings.Contains(got, `\textbf{Keywords:} real, keywords`) {
		t.Errorf("replaceKeywords() = %q", got)
	}
}

func TestStripLatexCommands(t *testing.T) {
	in := `\textbf{bold} and \href{http://x}{link} and \textcolor{red}{warn}`
	got := stripLatexCommands(in)
	want := "bold and link and warn"
	if got != want {
		t.Errorf("stripLatexCommands() = %q, want %q", got, want)
	}
}

func TestFilterLeadingMetadataStopsAtFirstSection(t *testing.T) {
	body := "ARTICLE TITLE\nISSN: 1234-5678\n\\section*{Introduction}\nReal content.\n"
	got := filterLeadingMetadata(body)
	if strings.Contains(got, "ARTICLE TITLE") {
		t.Errorf("filterLeadingMetadata() kept metadata before the first section: %q", got)
	}
	if !strings.Contains(got, "Real content.") {
		t.Errorf("filterLeadingMetadata() dropped real content: %q", got)
	}
}

func TestFilterLeadingMetadataPatternFallback(t *testing.T) {
	body := "DOI: 10.1234/x\nReceived: Jan 1 Accepted: Feb 2\nThe actual first sentence of the paper.\n"
	got := filterLeadingMetadata(body)
	if strings.Contains(got, "DOI:") {
		t.Errorf("filterLeadingMetadata() kept a metadata line: %q", got)
	}
	if !strings.Contains(got, "The actual first sentence") {
		t.Errorf("filterLeadingMetadata() dropped real content: %q", got)
	}
}

func TestReplaceBodyInsertsAfterLatestMarker(t *testing.T) {
	tmpl := "\\maketitle\n\\begin{abstract}\ndummy\n\\end{abstract}\nOld body.\n\\end{document}"
	got := replaceBody(tmpl, "New body content.")
	if !strings.Contains(got, "New body content.") {
		t.Errorf("replaceBody() missing new body: %q", got)
	}
	if strings.Contains(got, "Old body.") {
		t.Errorf("replaceBody() should have removed the old dummy body: %q", got)
	}
	if idx := strings.Index(got, "New body content."); idx < strings.Index(got, `\end{abstract}`) {
		t.Errorf("replaceBody() inserted body before \\end{abstract}: %q", got)
	}
}

func TestIsStructured(t *testing.T) {
	if !IsStructured(`\maketitle`) {
		t.Error("IsStructured() should be true for a template with \\maketitle")
	}
	if !IsStructured(`\title{X}`) {
		t.Error("IsStructured() should be true for a template with \\title{}")
	}
	if IsStructured("plain template with %%CONTENT%%") {
		t.Error("IsStructured() should be false for a bare %%CONTENT%% template")
	}
}

func TestEnsurePackagesInsertsMissingOnes(t *testing.T) {
	tmpl := "\\documentclass{article}\n\\begin{document}\nhello\n\\end{document}"
	got := ensurePackages(tmpl)
	for _, want := range []string{`\usepackage{multirow}`, `\usepackage{multicol}`, `\usepackage{float}`, `\usepackage{subcaption}`, `\usepackage{hyperref}`, `\hypersetup{colorlinks=true`} {
		if !strings.Contains(got, want) {
			t.Errorf("ensurePackages() missing %q in:\n%s", want, got)
		}
	}
	if strings.Index(got, `\usepackage{multirow}`) > strings.Index(got, `\begin{document}`) {
		t.Errorf("ensurePackages() should insert packages before \\begin{document}")
	}
}

func TestEnsurePackagesSkipsAlreadyPresentOnes(t *testing.T) {
	tmpl := "\\usepackage{multirow}\n\\usepackage{multicol}\n\\usepackage{float}\n\\usepackage{subcaption}\n\\usepackage{hyperref}\n\\hypersetup{colorlinks=true}\n\\begin{document}\n\\end{document}"
	got := ensurePackages(tmpl)
	if got != tmpl {
		t.Errorf("ensurePackages() changed a template that already has everything:\ngot:  %q\nwant: %q", got, tmpl)
	}
}

func TestInjectUnstructuredTemplate(t *testing.T) {
	tmpl := "\\documentclass{article}\n\\begin{document}\n%%CONTENT%%\n\\end{document}"
	doc := semantic.Document{Body: "ignored in unstructured mode"}
	got := Inject(tmpl, doc, "flat rendered content")
	if !strings.Contains(got, "flat rendered content") {
		t.Errorf("Inject() = %q, want the flat content substituted", got)
	}
	if strings.Contains(got, "ignored in unstructured mode") {
		t.Errorf("Inject() should not use doc.Body in unstructured mode: %q", got)
	}
}

func TestInjectStructuredTemplate(t *testing.T) {
	tmpl := "\\documentclass{article}\n\\begin{document}\n\\title{Dummy}\n\\author{Dummy Author}\n\\maketitle\n" +
		"\\begin{abstract}\ndummy\n\\end{abstract}\nOld body.\n\\end{document}"
	doc := semantic.Document{
		Title:    "Real Title",
		Authors:  []semantic.AuthorEntry{{Kind: "author", Text: "Real Author"}},
		Abstract: "Real abstract.",
		Body:     "Real body paragraph.",
	}
	got := Inject(tmpl, doc, "unused flat content")
	for _, want := range []string{"Real Title", "Real Author", "Real abstract.", "Real body paragraph."} {
		if !strings.Contains(got, want) {
			t.Errorf("Inject() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Old body.") {
		t.Errorf("Inject() should have replaced the dummy body: %q", got)
	}
}
