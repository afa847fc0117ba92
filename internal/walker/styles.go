package walker

import (
	"regexp"
	"strings"
)

// styleCommand classifies a paragraph's named style for §4.F's
// dispatch. The zero value styleNone means "unmapped": the paragraph
// falls through to body text and content-based heading detection.
type styleCommand int

const (
	styleNone styleCommand = iota
	styleDrop              // CCS, Keywords-metadata, ORCID, TOC Heading: emit nothing
	styleSection
	styleSubsection
	styleSubsubsection
	styleParagraphHeading
	styleTitle
	styleSubtitle
	styleAuthor
	styleAffiliation
	styleAbstract
	styleEquation
	styleEquationUnnumbered
	styleBibliography
)

// styleMap is the Word style name -> command table. The first seven
// entries are the ones actually present in the style mapping this
// system was distilled from; that source table does not define the
// author/affiliation/abstract/equation/bibliography entries its own
// paragraph dispatcher checks against, so those style names below are
// this module's own choice, grounded in spec.md's descriptive
// language ("ACM-style author/affiliation", "a display-equation
// style", "a bibliography-entry style") and common ACM/IEEE template
// conventions rather than a literal source mapping. See DESIGN.md.
var styleMap = map[string]styleCommand{
	"Heading 1":   styleSection,
	"Heading 2":   styleSubsection,
	"Heading 3":   styleSubsubsection,
	"Heading 4":   styleParagraphHeading,
	"Title":       styleTitle,
	"Subtitle":    styleSubtitle,
	"TOC Heading": styleDrop,
	"CCS":         styleDrop,
	"CCS Concepts": styleDrop,
	"Keywords-metadata": styleDrop,
	"ORCID":              styleDrop,

	"Author":           styleAuthor,
	"Author_document":  styleAuthor,
	"Affiliation":      styleAffiliation,
	"Affil":            styleAffiliation,
	"Abstract":         styleAbstract,
	"Abstract_document": styleAbstract,

	"DisplayFormula":        styleEquation,
	"Equation":              styleEquation,
	"DisplayFormulaUnnum":   styleEquationUnnumbered,
	"Equation*":             styleEquationUnnumbered,

	"Bib_entry":   styleBibliography,
	"Bibliography": styleBibliography,
	"References":   styleBibliography,
}

func lookupStyle(name string) styleCommand {
	if cmd, ok := styleMap[name]; ok {
		return cmd
	}
	return styleNone
}

// headingCommand returns the LaTeX sectioning command for the fixed
// style-mapped heading commands, or "" if cmd isn't one of them.
func (cmd styleCommand) headingCommand() string {
	switch cmd {
	case styleSection:
		return `\section`
	case styleSubsection:
		return `\subsection`
	case styleSubsubsection:
		return `\subsubsection`
	case styleParagraphHeading:
		return `\paragraph`
	default:
		return ""
	}
}

// headingPatterns detects a heading from content alone, tried only
// when the style is empty/Normal and the text is short. Grounded on
// config.py's HEADING_PATTERNS.
var headingPatterns = []struct {
	re  *regexp.Regexp
	cmd string
}{
	{regexp.MustCompile(`(?i)^(CHƯƠNG|CHAPTER)\s*(\d+|[IVXLC]+)[.:]?\s*(.+)$`), `\section*`},
	{regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)\.?\s*(.+)$`), `\subsubsection*`},
	{regexp.MustCompile(`^(\d+)\.(\d+)\.?\s*([A-ZÀ-Ỹ].+)$`), `\subsection*`},
	{regexp.MustCompile(`^(\d+)\.\s+([A-ZÀ-Ỹ][a-zA-ZÀ-ỹ\s]{10,})$`), `\section*`},
}

func detectHeadingFromContent(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, p := range headingPatterns {
		if p.re.MatchString(trimmed) {
			return p.cmd
		}
	}
	return ""
}

var (
	reOutlineNumberPrefix = regexp.MustCompile(`^[\d.]+\s*[A-Za-zÀ-ỹ]`)
	reChapterPrefix       = regexp.MustCompile(`(?i)^(CHƯƠNG|CHAPTER)\s*\d`)
)

// starIfNumbered appends "*" to a sectioning command when the text
// already carries its own outline numbering, so the typesetter does
// not renumber it.
func starIfNumbered(cmd, text string) string {
	if cmd == "" {
		return cmd
	}
	switch cmd {
	case `\section`, `\subsection`, `\subsubsection`, `\paragraph`:
		if reOutlineNumberPrefix.MatchString(text) || reChapterPrefix.MatchString(text) {
			return cmd + "*"
		}
	}
	return cmd
}
