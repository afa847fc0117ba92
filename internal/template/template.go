// Package template injects the Document Walker/Semantic Classifier's
// output into a target LaTeX template (§4.H): targeted title/author/
// abstract/keywords/body replacement for a structured template, or a
// single marker substitution for an unstructured one. Grounded on
// chuyen_doi.py's _thay_the_title/_thay_the_author/_thay_the_abstract/
// _thay_the_keywords/_thay_the_body/_tim_cap_ngoac/inject_into_template,
// read in full.
package template

import (
	"regexp"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/escape"
	"github.com/trantaidat7388-dot/word2latex/internal/semantic"
)

// ContentMarker is the substitution point for an unstructured template.
const ContentMarker = "%%CONTENT%%"

// findMatchingBrace returns the index of the '}' that closes the '{'
// at openIdx, honoring nesting and backslash-escaped braces. Returns
// -1 if openIdx isn't a brace or no match is found.
func findMatchingBrace(s string, openIdx int) int {
	if openIdx < 0 || openIdx >= len(s) || s[openIdx] != '{' {
		return -1
	}
	depth := 0
	for i := openIdx; i < len(s); i++ {
		switch s[i] {
		case '{':
			if i == 0 || s[i-1] != '\\' {
				depth++
			}
		case '}':
			if i == 0 || s[i-1] != '\\' {
				depth--
				if depth == 0 {
					return i
				}
			}
		}
	}
	return -1
}

var reTitleCmd = regexp.MustCompile(`\\title\s*\{`)

// replaceTitle swaps \title{…}'s argument for title, preserving a
// nested \thanks{…} child.
func replaceTitle(tmpl, title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return tmpl
	}
	loc := reTitleCmd.FindStringIndex(tmpl)
	if loc == nil {
		return tmpl
	}
	openIdx := loc[1] - 1
	closeIdx := findMatchingBrace(tmpl, openIdx)
	if closeIdx == -1 {
		return tmpl
	}

	old := tmpl[openIdx+1 : closeIdx]
	newContent := title
	if tm := reThanksCmd.FindStringIndex(old); tm != nil {
		thanksOpen := tm[1] - 1
		thanksClose := findMatchingBrace(old, thanksOpen)
		if thanksClose != -1 {
			newContent += "\n" + old[tm[0]:thanksClose+1]
		}
	}
	return tmpl[:openIdx+1] + newContent + tmpl[closeIdx:]
}

var reThanksCmd = regexp.MustCompile(`\\thanks\s*\{`)

var reAuthorCmd = regexp.MustCompile(`\\author\s*\{`)

// replaceAuthor swaps \author{…}'s whole argument for the collected
// author/affiliation lines, joined with LaTeX line breaks.
func replaceAuthor(tmpl string, authors []semantic.AuthorEntry) string {
	if len(authors) == 0 {
		return tmpl
	}
	loc := reAuthorCmd.FindStringIndex(tmpl)
	if loc == nil {
		return tmpl
	}
	openIdx := loc[1] - 1
	closeIdx := findMatchingBrace(tmpl, openIdx)
	if closeIdx == -1 {
		return tmpl
	}

	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		parts = append(parts, escape.Text(a.Text))
	}
	newArg := strings.Join(parts, " \\\\\n")
	return tmpl[:loc[0]] + `\author{` + newArg + `}` + tmpl[closeIdx+1:]
}

var reAbstractEnv = regexp.MustCompile(`(?s)(\\begin\{abstract\})(.*?)(\\end\{abstract\})`)

// replaceAbstract swaps the range inside \begin{abstract}...\end{abstract}.
func replaceAbstract(tmpl, abstract string) string {
	abstract = strings.TrimSpace(abstract)
	if abstract == "" {
		return tmpl
	}
	loc := reAbstractEnv.FindStringSubmatchIndex(tmpl)
	if loc == nil {
		return tmpl
	}
	// Submatch 2 (the inner body) spans loc[4]:loc[5].
	return tmpl[:loc[4]] + "\n" + abstract + "\n" + tmpl[loc[5]:]
}

var reIEEEKeywordsEnv = regexp.MustCompile(`(?s)(\\begin\{IEEEkeywords\})(.*?)(\\end\{IEEEkeywords\})`)
var reKeywordsBold = regexp.MustCompile(`(?i)\\textbf\{(Keywords|Index Terms)\s*:?\}[^\n]*`)

// replaceKeywords tries the IEEEkeywords environment first, then a
// standalone \textbf{Keywords:} line.
func replaceKeywords(tmpl, keywords string) string {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return tmpl
	}
	if loc := reIEEEKeywordsEnv.FindStringSubmatchIndex(tmpl); loc != nil {
		return tmpl[:loc[4]] + "\n" + keywords + "\n" + tmpl[loc[5]:]
	}
	if loc := reKeywordsBold.FindStringSubmatchIndex(tmpl); loc != nil {
		label := tmpl[loc[2]:loc[3]]
		replacement := `\textbf{` + label + `:} ` + keywords
		return tmpl[:loc[0]] + replacement + tmpl[loc[1]:]
	}
	return tmpl
}

var (
	reTextColorRGB  = regexp.MustCompile(`\\textcolor\[[^\]]*\]\{[^}]*\}\{([^}]*)\}`)
	reTextColorName = regexp.MustCompile(`\\textcolor\{[^}]*\}\{([^}]*)\}`)
	reTextFormat    = regexp.MustCompile(`\\text(?:bf|it|rm|tt|sf|sc)\{([^}]*)\}`)
	reHref          = regexp.MustCompile(`\\href\{[^}]*\}\{([^}]*)\}`)
	reCmdWithArg    = regexp.MustCompile(`\\[a-zA-Z]+\*?\{([^}]*)\}`)
	reBareCmd       = regexp.MustCompile(`\\[a-zA-Z]+\*?`)
)

// stripLatexCommands reduces one line of rendered LaTeX to its plain
// text, so the leftover-metadata filter can pattern-match against the
// wording rather than markup.
func stripLatexCommands(text string) string {
	result := reTextColorRGB.ReplaceAllString(text, "$1")
	result = reTextColorName.ReplaceAllString(result, "$1")
	result = reTextFormat.ReplaceAllString(result, "$1")
	result = reHref.ReplaceAllString(result, "$1")
	result = reCmdWithArg.ReplaceAllString(result, "$1")
	result = reBareCmd.ReplaceAllString(result, "")
	result = strings.NewReplacer("{", "", "}", "").Replace(result)
	return strings.TrimSpace(result)
}

var reFirstSection = regexp.MustCompile(`^\\section\*?\{`)

// metadataPatterns are the leftover Word front-matter lines a body
// wrongly classified as ordinary text (an "ARTICLE TITLE" layout
// table, a journal's submission boilerplate) so the injected body
// doesn't duplicate the template's own header.
var metadataPatterns = regexp.MustCompile(`(?i)` + strings.Join([]string{
	`ARTICLE\s+TITLE`,
	`ARTICLE\s+INFORMATION`,
	`Full\s+Name\s+of\s+Author`,
	`Affiliation\s+for\s+Author`,
	`authors\s+have\s+contributed\s+equally`,
	`ABSTRACT`,
	`TOM\s+TAT|T[ÓO]M\s+T[AẮ]T`,
	`Journal.*?ISSN`,
	`ISSN:\s*\d`,
	`Volume:\s*`,
	`Issue:\s*`,
	`Firstname`,
	`Correspondence:`,
	`Citation:`,
	`DOI:`,
	`OPEN\s+ACCESS`,
	`Creative\s+Commons`,
	`CC\s+BY`,
	`Received:.*Accepted:`,
	`Published:.*\d{4}`,
	`BE\s+CONCISE.*SPECIFIC.*RELEVANT`,
	`CAPITALIZED.*BOLD.*TIMES`,
	`NOT\s+EXCEED\s+20\s+WORDS`,
	`provided the original work`,
	`permission of the author`,
	`^\*\s*Note:`,
	`abc@xyz`,
	`keyword\s+\d`,
	`tu\s+khoa\s+\d|t[ừu]\s+kh[oó]a\s+\d`,
}, "|"))

// filterLeadingMetadata drops the leading run of Word-layout metadata
// lines from a rendered body, preferring the first \section*{…} as
// the real start-of-content marker and falling back to line-by-line
// pattern matching against the plain-text form of each line.
func filterLeadingMetadata(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if reFirstSection.MatchString(strings.TrimSpace(line)) {
			if i > 0 {
				return strings.Join(lines[i:], "\n")
			}
			return body
		}
	}

	contentStart := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		plain := stripLatexCommands(trimmed)
		if plain == "" {
			contentStart = i + 1
			continue
		}
		if metadataPatterns.MatchString(plain) {
			contentStart = i + 1
			continue
		}
		break
	}
	if contentStart > 0 {
		return strings.Join(lines[contentStart:], "\n")
	}
	return body
}

var (
	reEndIEEEKeywords = regexp.MustCompile(`\\end\{IEEEkeywords\}`)
	reEndAbstract     = regexp.MustCompile(`\\end\{abstract\}`)
	reMaketitle       = regexp.MustCompile(`\\maketitle`)
	reEndDocument     = regexp.MustCompile(`\\end\{document\}`)
)

// replaceBody overwrites every dummy placeholder between the latest
// of \end{IEEEkeywords}/\end{abstract}/\maketitle and \end{document}
// with the collected body text.
func replaceBody(tmpl, body string) string {
	if strings.TrimSpace(body) == "" {
		return tmpl
	}
	body = filterLeadingMetadata(body)

	start := -1
	for _, re := range []*regexp.Regexp{reEndIEEEKeywords, reEndAbstract, reMaketitle} {
		if loc := re.FindStringIndex(tmpl); loc != nil && loc[1] > start {
			start = loc[1]
		}
	}
	if start == -1 {
		return tmpl
	}

	endLoc := reEndDocument.FindStringIndex(tmpl)
	if endLoc == nil {
		return tmpl
	}
	end := endLoc[0]
	if end < start {
		return tmpl
	}

	return tmpl[:start] + "\n\n" + body + "\n\n" + tmpl[end:]
}

// IsStructured reports whether tmpl carries semantic markers (a
// structured ACM/IEEE-style template) rather than a bare
// %%CONTENT%% placeholder.
func IsStructured(tmpl string) bool {
	return strings.Contains(tmpl, `\maketitle`) ||
		reTitleCmd.MatchString(tmpl) ||
		strings.Contains(tmpl, `\begin{abstract}`)
}

// requiredPackages is the fixed list of package requirements §4.H
// mandates, each guarded by its own presence check.
func requiredPackages(tmpl string) []string {
	var lines []string
	if !strings.Contains(tmpl, `\usepackage{multirow}`) {
		lines = append(lines, `\usepackage{multirow}`)
	}
	if !strings.Contains(tmpl, `\usepackage{multicol}`) {
		lines = append(lines, `\usepackage{multicol}`)
	}
	if !strings.Contains(tmpl, `\usepackage{float}`) {
		lines = append(lines, `\usepackage{float}`)
	}
	if !strings.Contains(tmpl, `\usepackage{subcaption}`) && !strings.Contains(tmpl, `\usepackage{subfig}`) {
		lines = append(lines, `\usepackage{subcaption}`)
	}
	const hypersetup = `\hypersetup{colorlinks=true,linkcolor=black,urlcolor=blue,citecolor=black}`
	switch {
	case !strings.Contains(tmpl, `{hyperref}`):
		lines = append(lines, `\usepackage{hyperref}`, hypersetup)
	case !strings.Contains(tmpl, "colorlinks") && !strings.Contains(tmpl, `\hypersetup`):
		lines = append(lines, hypersetup)
	}
	return lines
}

// ensurePackages injects any missing required package lines right
// before \begin{document}, or appends them at the end if the template
// has no \begin{document} marker at all.
func ensurePackages(tmpl string) string {
	lines := requiredPackages(tmpl)
	if len(lines) == 0 {
		return tmpl
	}
	block := strings.Join(lines, "\n") + "\n"
	const beginDoc = `\begin{document}`
	if idx := strings.Index(tmpl, beginDoc); idx != -1 {
		return tmpl[:idx] + block + tmpl[idx:]
	}
	return tmpl + "\n" + block
}

// Inject produces the final LaTeX source for tmpl. For a structured
// template it performs the targeted title/author/abstract/keywords/
// body replacements against doc, falling back to a bare
// %%CONTENT%% substitution if one remains; for an unstructured
// template it substitutes %%CONTENT%% with flat.
func Inject(tmpl string, doc semantic.Document, flat string) string {
	tmpl = ensurePackages(tmpl)

	if !IsStructured(tmpl) {
		return strings.ReplaceAll(tmpl, ContentMarker, flat)
	}

	tmpl = replaceTitle(tmpl, doc.Title)
	tmpl = replaceAuthor(tmpl, doc.Authors)
	tmpl = replaceAbstract(tmpl, doc.Abstract)
	tmpl = replaceKeywords(tmpl, doc.Keywords)
	tmpl = replaceBody(tmpl, doc.Body)

	if strings.Contains(tmpl, ContentMarker) {
		tmpl = strings.ReplaceAll(tmpl, ContentMarker, doc.Body)
	}
	return tmpl
}
