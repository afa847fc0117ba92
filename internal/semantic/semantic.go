// Package semantic sorts the Document Walker's emitted fragments into
// the logical regions a structured template injects into: title,
// authors, abstract, keywords, and body (bibliography is a body
// sub-state, not a separate injection target). It is a small finite-
// state machine with monotone transitions, grounded on
// chuyen_doi.py's phan_tich_ngu_nghia and its _la_doan_title/
// _la_nhan_abstract/_la_nhan_keywords/_la_nhan_body predicates.
package semantic

import (
	"regexp"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/config"
)

// Region is one state of the classifier.
type Region int

const (
	RegionPreTitle Region = iota
	RegionTitle
	RegionAbstract
	RegionKeywords
	RegionBody
	RegionBibliography
)

func (r Region) String() string {
	switch r {
	case RegionPreTitle:
		return "pre-title"
	case RegionTitle:
		return "title"
	case RegionAbstract:
		return "abstract"
	case RegionKeywords:
		return "keywords"
	case RegionBody:
		return "body"
	case RegionBibliography:
		return "bibliography"
	default:
		return "unknown"
	}
}

// AuthorEntry is one collected author or affiliation line, in the
// order encountered.
type AuthorEntry struct {
	Kind string // "author" or "affil"
	Text string
}

// Hint is everything the walker knows about one paragraph that bears
// on region transitions. The walker resolves style names and content
// predicates; the classifier only reasons over these booleans so it
// never has to know the actual style-map strings.
type Hint struct {
	BlockIndex int
	Text       string // trimmed original text, unescaped

	IsTitleStyle        bool
	IsAuthorStyle        bool
	IsAffilStyle          bool
	IsAbstractStyle      bool
	IsKeywordsStyle      bool
	IsBibliographyStyle  bool

	// TitlePredicate is true when the paragraph looks like a title by
	// formatting alone: centred-and-bold, or large-font-and-bold, and
	// BlockIndex is within the first 10 blocks.
	TitlePredicate bool
}

var (
	reLeadingOrdinal = regexp.MustCompile(`^[\d.]+\s*`)
	reRomanHeading   = regexp.MustCompile(`^[IVX]+\.\s+`)
)

var abstractLabels = []string{"ABSTRACT", "TÓM TẮT", "TOM TAT"}
var keywordsLabels = []string{"KEYWORDS", "INDEX TERMS", "TỪ KHÓA", "TU KHOA", "KEY WORDS"}
var bodyLabels = []string{
	"INTRODUCTION", "GIỚI THIỆU", "GIOI THIEU", "MỞ ĐẦU", "MO DAU",
	"CHƯƠNG 1", "CHUONG 1", "CHAPTER 1", "I. INTRODUCTION",
	"BACKGROUND", "RELATED WORK", "LITERATURE REVIEW",
	"METHODOLOGY", "METHODS", "PHƯƠNG PHÁP",
}

func matchesLabel(text string, labels []string) bool {
	upper := strings.ToUpper(strings.TrimSpace(text))
	upper = strings.TrimSpace(reLeadingOrdinal.ReplaceAllString(upper, ""))
	for _, label := range labels {
		if upper == label || strings.HasPrefix(upper, label+":") {
			return true
		}
		// A bare prefix only counts as a label match when followed by
		// a word boundary (space or end of string) — "ABSTRACT" alone
		// or "ABSTRACT We study..." match; "ABSTRACTLY" does not.
		if strings.HasPrefix(upper, label) {
			rest := upper[len(label):]
			if rest == "" || rest[0] == ' ' {
				return true
			}
		}
	}
	return false
}

func isAbstractLabel(text string) bool { return matchesLabel(text, abstractLabels) }
func isKeywordsLabel(text string) bool { return matchesLabel(text, keywordsLabels) }
func isBodyLabel(text string) bool {
	if matchesLabel(text, bodyLabels) {
		return true
	}
	return reRomanHeading.MatchString(strings.TrimSpace(text))
}

// Classifier holds the FSM state, the safety-valve counters, and the
// per-region output buffers.
type Classifier struct {
	cfg    config.Config
	region Region

	abstractStreak int
	keywordsStreak int

	titleParts []string
	authors    []AuthorEntry
	abstract   strings.Builder
	keywords   strings.Builder
	body       strings.Builder
}

// New creates a Classifier starting in the pre-title region.
func New(cfg config.Config) *Classifier {
	return &Classifier{cfg: cfg, region: RegionPreTitle}
}

// Region returns the classifier's current state.
func (c *Classifier) Region() Region { return c.region }

// Observe applies one paragraph's transition rule and returns the
// resulting region. Bibliography entry/exit is driven purely by
// IsBibliographyStyle, independent of the title/abstract/keywords/body
// ladder, since a reference list can begin partway through the body
// and content may resume body text right after it.
func (c *Classifier) Observe(h Hint) Region {
	if h.IsBibliographyStyle {
		c.region = RegionBibliography
		return c.region
	}
	if c.region == RegionBibliography {
		// Leaving bibliography on any non-empty, non-bibliography entry.
		if strings.TrimSpace(h.Text) != "" {
			c.region = RegionBody
		} else {
			return c.region
		}
	}

	switch c.region {
	case RegionPreTitle:
		switch {
		case h.IsTitleStyle || h.TitlePredicate:
			c.region = RegionTitle
		case h.IsAbstractStyle || isAbstractLabel(h.Text):
			c.region = RegionAbstract
		case isBodyLabel(h.Text):
			c.region = RegionBody
		}
	case RegionTitle:
		switch {
		case h.IsTitleStyle || h.TitlePredicate || h.IsAuthorStyle || h.IsAffilStyle:
			// stays in title; authors/affiliations are collected
			// separately and don't themselves advance the region.
		case h.IsAbstractStyle || isAbstractLabel(h.Text):
			c.region = RegionAbstract
		case isBodyLabel(h.Text):
			c.region = RegionBody
		case strings.TrimSpace(h.Text) != "":
			c.region = RegionBody
		}
	case RegionAbstract:
		switch {
		case h.IsKeywordsStyle || isKeywordsLabel(h.Text):
			c.region = RegionKeywords
			c.abstractStreak = 0
		case isBodyLabel(h.Text):
			c.region = RegionBody
			c.abstractStreak = 0
		case strings.TrimSpace(h.Text) != "":
			c.abstractStreak++
			if c.abstractStreak > c.cfg.AbstractSafetyValve {
				c.region = RegionBody
			}
		}
	case RegionKeywords:
		switch {
		case isBodyLabel(h.Text):
			c.region = RegionBody
			c.keywordsStreak = 0
		case strings.TrimSpace(h.Text) != "":
			c.keywordsStreak++
			if c.keywordsStreak > c.cfg.KeywordsSafetyValve {
				c.region = RegionBody
			}
		}
	}
	return c.region
}

// AppendTitle adds one title fragment; title_parts are joined with
// spaces in Document().
func (c *Classifier) AppendTitle(text string) {
	if text != "" {
		c.titleParts = append(c.titleParts, text)
	}
}

// AppendAuthor records one author or affiliation line in order.
func (c *Classifier) AppendAuthor(kind, text string) {
	if text != "" {
		c.authors = append(c.authors, AuthorEntry{Kind: kind, Text: text})
	}
}

// AppendAbstract concatenates one abstract fragment.
func (c *Classifier) AppendAbstract(text string) {
	if text != "" {
		c.abstract.WriteString(text)
	}
}

// AppendKeywords concatenates one keywords fragment.
func (c *Classifier) AppendKeywords(text string) {
	if text != "" {
		c.keywords.WriteString(text)
	}
}

// AppendBody concatenates one body (or bibliography) fragment.
func (c *Classifier) AppendBody(text string) {
	if text != "" {
		c.body.WriteString(text)
	}
}

// Document is the classifier's final, read-only output for §4.H.
type Document struct {
	Title    string
	Authors  []AuthorEntry
	Abstract string
	Keywords string
	Body     string
}

// Document assembles the accumulated buffers.
func (c *Classifier) Document() Document {
	return Document{
		Title:    strings.TrimSpace(strings.Join(c.titleParts, " ")),
		Authors:  c.authors,
		Abstract: strings.TrimSpace(c.abstract.String()),
		Keywords: strings.TrimSpace(c.keywords.String()),
		Body:     c.body.String(),
	}
}
