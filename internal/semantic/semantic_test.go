package semantic

import (
	"testing"

	"github.com/trantaidat7388-dot/word2latex/internal/config"
)

func TestClassifierFullDocumentTransitions(t *testing.T) {
	c := New(config.Default())

	if r := c.Observe(Hint{BlockIndex: 0, IsTitleStyle: true, Text: "A Great Paper"}); r != RegionTitle {
		t.Fatalf("after title style, region = %v, want RegionTitle", r)
	}
	c.AppendTitle("A Great Paper")

	if r := c.Observe(Hint{BlockIndex: 1, IsAuthorStyle: true, Text: "Jane Doe"}); r != RegionTitle {
		t.Fatalf("author line should stay in title region, got %v", r)
	}
	c.AppendAuthor("author", "Jane Doe")

	if r := c.Observe(Hint{BlockIndex: 2, IsAbstractStyle: true, Text: "This paper studies..."}); r != RegionAbstract {
		t.Fatalf("abstract style should move to RegionAbstract, got %v", r)
	}
	c.AppendAbstract("This paper studies...")

	if r := c.Observe(Hint{BlockIndex: 3, IsKeywordsStyle: true, Text: "foo, bar"}); r != RegionKeywords {
		t.Fatalf("keywords style should move to RegionKeywords, got %v", r)
	}
	c.AppendKeywords("foo, bar")

	if r := c.Observe(Hint{BlockIndex: 4, Text: "1. Introduction"}); r != RegionBody {
		t.Fatalf("a body-start label should move to RegionBody, got %v", r)
	}
	c.AppendBody("1. Introduction")

	doc := c.Document()
	if doc.Title != "A Great Paper" {
		t.Errorf("Document().Title = %q", doc.Title)
	}
	if len(doc.Authors) != 1 || doc.Authors[0].Text != "Jane Doe" {
		t.Errorf("Document().Authors = %+v", doc.Authors)
	}
	if doc.Abstract != "This paper studies..." {
		t.Errorf("Document().Abstract = %q", doc.Abstract)
	}
	if doc.Keywords != "foo, bar" {
		t.Errorf("Document().Keywords = %q", doc.Keywords)
	}
	if doc.Body != "1. Introduction" {
		t.Errorf("Document().Body = %q", doc.Body)
	}
}

func TestClassifierAbstractSafetyValve(t *testing.T) {
	cfg := config.Default()
	cfg.AbstractSafetyValve = 2
	c := New(cfg)
	c.Observe(Hint{IsAbstractStyle: true, Text: "Abstract"})

	c.Observe(Hint{Text: "para one"})
	if c.Region() != RegionAbstract {
		t.Fatalf("first overflow paragraph should still be abstract, got %v", c.Region())
	}
	c.Observe(Hint{Text: "para two"})
	if c.Region() != RegionAbstract {
		t.Fatalf("second overflow paragraph should still be abstract, got %v", c.Region())
	}
	if got := c.Observe(Hint{Text: "para three"}); got != RegionBody {
		t.Fatalf("exceeding the safety valve should fall through to body, got %v", got)
	}
}

func TestClassifierBibliographyIsolatedFromLadder(t *testing.T) {
	c := New(config.Default())
	c.Observe(Hint{Text: "1. Introduction"})
	if c.Region() != RegionBody {
		t.Fatalf("setup: region = %v, want RegionBody", c.Region())
	}
	if got := c.Observe(Hint{IsBibliographyStyle: true, Text: "[1] Smith et al."}); got != RegionBibliography {
		t.Fatalf("bibliography style should override the ladder, got %v", got)
	}
	if got := c.Observe(Hint{Text: "Appendix A"}); got != RegionBody {
		t.Fatalf("leaving bibliography on a non-empty paragraph should return to body, got %v", got)
	}
}

func TestMatchesLabelStripsLeadingOrdinal(t *testing.T) {
	if !isAbstractLabel("1. Abstract") {
		t.Error("isAbstractLabel() should strip a leading ordinal before matching")
	}
	if !isKeywordsLabel("Keywords: foo, bar") {
		t.Error("isKeywordsLabel() should match a label: prefix")
	}
	if isAbstractLabel("Abstractly speaking") {
		t.Error("isAbstractLabel() should not match a mere prefix of another word")
	}
}
