// Package walker implements the Document Walker (§4.F): a single
// forward pass over a Word document's ordered block sequence that
// produces LaTeX fragments, delegating to the table, image, and math
// packages along the way, and feeding every paragraph fragment into
// a semantic.Classifier so a template injector can later address the
// title/author/abstract/keywords/body regions independently.
package walker

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/config"
	"github.com/trantaidat7388-dot/word2latex/internal/escape"
	"github.com/trantaidat7388-dot/word2latex/internal/imageclassify"
	"github.com/trantaidat7388-dot/word2latex/internal/ommlmath"
	"github.com/trantaidat7388-dot/word2latex/internal/ooxml"
	"github.com/trantaidat7388-dot/word2latex/internal/semantic"
	"github.com/trantaidat7388-dot/word2latex/internal/table"
	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockTable
)

// block is one top-level child of the document body, with its
// plain-text extract cached for caption look-ahead/look-behind so
// those routines don't re-walk the XML on every scan.
type block struct {
	kind      blockKind
	node      *xmlnode.Node
	text      string
	isHeading bool
}

// MediaResolver fetches the bytes and content type of a relationship
// target path (e.g. "word/media/image3.png").
type MediaResolver func(target string) (data []byte, contentType string, ok bool)

// Walker drives one document's traversal. Build with New, then call
// Walk once.
type Walker struct {
	cfg      config.Config
	rels     ooxml.RelationshipMap
	media    MediaResolver
	assets   AssetWriter
	external ommlmath.ExternalMathConverter
	demoMode bool

	images *imageExtractor
	math   *mathTranslator
	sem    *semantic.Classifier

	blocks []block

	list               listState
	consumed           map[int]bool
	tocEmitted         bool
	bibOpen            bool
	bibCount           int
	tableCount         int
	dataTableCount     int
	nonEmptyParaCount  int
	maketitleDone      bool
}

// New builds a Walker. demoMode selects "[H]" float placement
// (matching a fixed-position demo rendering) instead of "[htbp]".
func New(cfg config.Config, rels ooxml.RelationshipMap, media MediaResolver, assets AssetWriter, external ommlmath.ExternalMathConverter, demoMode bool) *Walker {
	resolve := partsOfFunc(rels, media)
	images := newImageExtractor(cfg, assets, resolve)
	w := &Walker{
		cfg:      cfg,
		rels:     rels,
		media:    media,
		assets:   assets,
		external: external,
		demoMode: demoMode,
		images:   images,
		math:     newMathTranslator(external, resolve, images),
		sem:      semantic.New(cfg),
		consumed: map[int]bool{},
	}
	return w
}

// Result is the walker's output: the region-sorted document plus the
// flat unstructured rendering (every region concatenated in document
// order), since §4.H injects into a structured template from the
// former and appends wholesale for an unstructured one.
type Result struct {
	Document     semantic.Document
	Unstructured string
}

// Walk runs the single forward pass over body's top-level children
// (w:p and w:tbl elements in document order) and returns the
// classified output.
func (w *Walker) Walk(body *xmlnode.Node) Result {
	w.blocks = collectBlocks(body)
	var unstructured strings.Builder

	for i, b := range w.blocks {
		if w.consumed[i] {
			continue
		}
		var fragment string
		switch b.kind {
		case blockTable:
			fragment = w.renderTableBlock(i, b)
		default:
			fragment = w.renderParagraphBlock(i, b)
		}
		if fragment == "" {
			continue
		}
		unstructured.WriteString(fragment)
		w.routeFragment(i, b, fragment)
	}

	if w.bibOpen {
		unstructured.WriteString("\\end{thebibliography}\n\n")
		w.sem.AppendBody("\\end{thebibliography}\n\n")
	}

	return Result{Document: w.sem.Document(), Unstructured: unstructured.String()}
}

// collectBlocks flattens body's direct w:p/w:tbl children into the
// ordered block sequence the rest of the walker scans by index.
func collectBlocks(body *xmlnode.Node) []block {
	var out []block
	for _, c := range body.Children {
		switch c.Local() {
		case "p":
			text := strings.TrimSpace(paragraphPlainText(c))
			cmd := lookupStyle(paragraphStyleName(c))
			isHeading := cmd.headingCommand() != "" || (cmd == styleNone && detectHeadingFromContent(text) != "")
			out = append(out, block{kind: blockParagraph, node: c, text: text, isHeading: isHeading})
		case "tbl":
			out = append(out, block{kind: blockTable, node: c})
		}
	}
	return out
}

func paragraphPlainText(p *xmlnode.Node) string {
	var b strings.Builder
	for _, r := range p.ChildrenNamed("r") {
		b.WriteString(runText(r))
	}
	for _, h := range p.ChildrenNamed("hyperlink") {
		for _, r := range h.FindAll("r") {
			b.WriteString(runText(r))
		}
	}
	return b.String()
}

func paragraphStyleName(p *xmlnode.Node) string {
	ppr := p.FirstChildNamed("pPr")
	if ppr == nil {
		return ""
	}
	styleNode := ppr.FirstChildNamed("pStyle")
	if styleNode == nil {
		return ""
	}
	return styleNode.AttrOr("val", "")
}

// routeFragment feeds one rendered fragment into the semantic
// classifier, observing the region transition and appending to the
// matching buffer. Author/affiliation/title lines were already
// buffered directly by renderParagraphBlock's style special-case and
// are not re-appended here.
func (w *Walker) routeFragment(idx int, b block, fragment string) {
	if b.kind == blockTable {
		w.sem.AppendBody(fragment)
		return
	}
	cmd := lookupStyle(paragraphStyleName(b.node))
	if cmd == styleTitle || cmd == styleAuthor || cmd == styleAffiliation {
		return
	}

	hint := semantic.Hint{
		BlockIndex:          idx,
		Text:                b.text,
		IsTitleStyle:        cmd == styleTitle,
		IsAuthorStyle:       cmd == styleAuthor,
		IsAffilStyle:        cmd == styleAffiliation,
		IsAbstractStyle:     cmd == styleAbstract,
		IsKeywordsStyle:     b.isKeywordsLiteral(),
		IsBibliographyStyle: cmd == styleBibliography,
		TitlePredicate:      idx < 10 && titleLooking(b.node),
	}
	region := w.sem.Observe(hint)
	switch region {
	case semantic.RegionAbstract:
		w.sem.AppendAbstract(fragment)
	case semantic.RegionKeywords:
		w.sem.AppendKeywords(fragment)
	default:
		w.sem.AppendBody(fragment)
	}
}

func (b block) isKeywordsLiteral() bool {
	name := paragraphStyleName(b.node)
	return name == "Keywords" || name == "KeyWordHead"
}

// titleLooking approximates the title predicate from formatting
// alone: centred-and-bold, or large-font-and-bold.
func titleLooking(p *xmlnode.Node) bool {
	ppr := p.FirstChildNamed("pPr")
	centred := false
	if ppr != nil {
		if jc := ppr.FirstChildNamed("jc"); jc != nil {
			centred = jc.AttrOr("val", "") == "center"
		}
	}
	runs := p.ChildrenNamed("r")
	if len(runs) == 0 {
		return false
	}
	allBold := true
	largeFont := false
	for _, r := range runs {
		if strings.TrimSpace(runText(r)) == "" {
			continue
		}
		if !runIsBold(r) {
			allBold = false
		}
		if rpr := r.FirstChildNamed("rPr"); rpr != nil {
			if sz := rpr.FirstChildNamed("sz"); sz != nil {
				if v, ok := sz.Attr("val"); ok {
					if n := parseHalfPoints(v); n >= 28 { // 14pt = 28 half-points
						largeFont = true
					}
				}
			}
		}
	}
	return allBold && (centred || largeFont)
}

func parseHalfPoints(v string) int {
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// renderParagraphBlock dispatches one paragraph per §4.F's exact
// precedence: style special-cases first, then content assembly,
// images, lists, and inline math substitution.
func (w *Walker) renderParagraphBlock(idx int, b block) string {
	p := b.node
	styleName := paragraphStyleName(p)
	cmd := lookupStyle(styleName)

	if b.text != "" {
		w.nonEmptyParaCount++
	}

	switch cmd {
	case styleDrop:
		return ""
	case styleTitle:
		title := escape.Text(b.text)
		w.sem.AppendTitle(title)
		return ""
	case styleSubtitle:
		return "\\subtitle{" + escape.Text(b.text) + "}\n"
	case styleAuthor:
		w.sem.AppendAuthor("author", escape.Text(b.text))
		return ""
	case styleAffiliation:
		w.sem.AppendAuthor("affil", escape.Text(b.text))
		return ""
	case styleAbstract:
		return w.enterAbstract(p)
	case styleEquation, styleEquationUnnumbered:
		return w.renderDisplayEquation(p, cmd == styleEquationUnnumbered)
	case styleBibliography:
		return w.renderBibliographyEntry(b.text)
	}

	// Leaving bibliography on any non-bibliography, non-empty block.
	closeBib := ""
	if w.bibOpen && strings.TrimSpace(b.text) != "" {
		closeBib = "\\end{thebibliography}\n\n"
		w.bibOpen = false
	}

	if isTOCHeading(b.text) {
		if !w.tocEmitted {
			w.tocEmitted = true
			return closeBib + "\\tableofcontents\n\\newpage\n\n"
		}
		return closeBib
	}

	listInfo := readListInfo(p)
	images := w.images.extractFromRuns(p, imageclassify.Context{
		InBodyRegion:           w.sem.Region() == semantic.RegionBody,
		ParagraphStyle:         styleName,
		ParagraphText:          b.text,
		NonEmptyParagraphCount: w.nonEmptyParaCount,
		BlockIndex:             idx,
		TotalBlocks:            len(w.blocks),
	})

	content := renderParagraphContent(p, w.rels)
	content = w.substituteMath(p, content)

	inline := w.shouldInline(images, b.text)
	if inline {
		return closeBib + w.renderInlineParagraph(images, content)
	}

	var figureLaTeX string
	if len(images) > 1 {
		subCaps, subIdx, ok := subCaptions(w.blocks, idx)
		if ok {
			w.consumed[subIdx] = true
		}
		caption, capIdx, hasCaption := figureCaption(w.blocks, idx, w.cfg)
		if hasCaption {
			w.consumed[capIdx] = true
		}
		firstCount := w.images.count - len(images) + 1
		figureLaTeX = renderFigureGroup(images, assetDirBase(w.assets), subCaps, caption, firstCount, w.demoMode)
	} else if len(images) == 1 {
		caption, capIdx, hasCaption := figureCaption(w.blocks, idx, w.cfg)
		if hasCaption {
			w.consumed[capIdx] = true
		}
		figureLaTeX = renderFigure(images[0], assetDirBase(w.assets), caption, w.images.count, w.demoMode)
	}

	if listInfo.has {
		listLaTeX := w.list.enter(listInfo.level)
		if strings.TrimSpace(content) == "" {
			return closeBib + figureLaTeX + listLaTeX
		}
		return closeBib + figureLaTeX + listLaTeX + "\\item " + content + "\n"
	}

	listClose := w.list.closeAll()
	out := closeBib + figureLaTeX + listClose
	if strings.TrimSpace(content) == "" {
		return out
	}

	headingCmd := cmd.headingCommand()
	if headingCmd == "" && (styleName == "" || styleName == "Normal") && len(b.text) < 80 {
		headingCmd = detectHeadingFromContent(b.text)
	}
	headingCmd = starIfNumbered(headingCmd, b.text)

	if headingCmd != "" {
		return out + headingCmd + "{" + content + "}\n\n"
	}
	return out + content + "\n\n"
}

var tocKeywords = []string{"TABLE OF CONTENTS", "MỤC LỤC"}

func isTOCHeading(text string) bool {
	if len(text) >= 50 {
		return false
	}
	upper := strings.ToUpper(strings.TrimSpace(text))
	for _, k := range tocKeywords {
		if upper == k {
			return true
		}
	}
	return false
}

// enterAbstract opens (or continues) the abstract environment,
// emitting the buffered author block and \maketitle on first entry.
func (w *Walker) enterAbstract(p *xmlnode.Node) string {
	var out string
	if !w.maketitleDone {
		out += w.authorBlockLaTeX()
		out += "\\maketitle\n\n"
		w.maketitleDone = true
	}
	if w.sem.Region() != semantic.RegionAbstract {
		out += "\\begin{abstract}\n"
	}
	content := renderParagraphContent(p, w.rels)
	content = w.substituteMath(p, content)
	if strings.TrimSpace(content) != "" {
		out += content + "\n"
	}
	return out
}

func (w *Walker) authorBlockLaTeX() string {
	doc := w.sem.Document()
	if len(doc.Authors) == 0 {
		return ""
	}
	var names, affils []string
	for _, a := range doc.Authors {
		if a.Kind == "affil" {
			affils = append(affils, a.Text)
		} else {
			names = append(names, a.Text)
		}
	}
	var b strings.Builder
	b.WriteString("\\author{" + strings.Join(names, " \\and ") + "}\n")
	if len(affils) > 0 {
		b.WriteString("\\affil{" + strings.Join(affils, "; ") + "}\n")
	}
	return b.String()
}

// renderDisplayEquation renders one equation-styled paragraph: modern
// OMML math first, falling back to a legacy Equation Editor object
// (MTEF via OLE, or its VML raster preview when MTEF can't be
// decoded), and finally to the paragraph's plain text.
func (w *Walker) renderDisplayEquation(p *xmlnode.Node, unnumbered bool) string {
	var latexParts []string
	for _, omath := range p.FindAll("oMath") {
		if latex := w.math.TranslateOMath(omath); strings.TrimSpace(latex) != "" {
			latexParts = append(latexParts, latex)
		}
	}

	if len(latexParts) == 0 {
		for _, obj := range p.FindAll("object") {
			ole := obj.FirstChildNamed("OLEObject")
			if ole == nil {
				continue
			}
			relID, ok := ole.Attr("id")
			if !ok {
				continue
			}
			if latex, ok := w.math.TranslateOLEObject(relID); ok && strings.TrimSpace(latex) != "" {
				latexParts = append(latexParts, latex)
				continue
			}
			if name := extractOLERaster(obj, w.math.resolve, w.images); name != "" {
				dir := assetDirBase(w.assets)
				return "\\begin{figure}[H]\n  \\centering\n  \\includegraphics[width=0.4\\linewidth]{" +
					dir + "/" + name + "}\n\\end{figure}\n\n"
			}
		}
	}

	body := strings.Join(latexParts, " ")
	if strings.TrimSpace(body) == "" {
		return renderParagraphContent(p, w.rels) + "\n\n"
	}
	if unnumbered {
		return "\\[\n  " + body + "\n\\]\n\n"
	}
	return "\\begin{equation}\n  " + body + "\n\\end{equation}\n\n"
}

func (w *Walker) renderBibliographyEntry(text string) string {
	var out string
	if !w.bibOpen {
		out += "\\begin{thebibliography}{99}\n"
		w.bibOpen = true
	}
	w.bibCount++
	out += "\\bibitem{ref" + strconv.Itoa(w.bibCount) + "} " + escape.Text(text) + "\n"
	return out
}

// shouldInline applies the small-image-with-long-text degrade rule:
// both dimensions under the inline threshold on every surviving
// image, and at least 20 characters of paragraph text.
func (w *Walker) shouldInline(images []extractedImage, text string) bool {
	if len(images) == 0 {
		return false
	}
	allSmall := true
	for _, img := range images {
		if img.dims.WidthEMU >= w.cfg.ImageInlineMaxEMU || img.dims.HeightEMU >= w.cfg.ImageInlineMaxEMU {
			allSmall = false
			break
		}
	}
	return allSmall && len([]rune(text)) >= w.cfg.ImageInlineMinRunText
}

func (w *Walker) renderInlineParagraph(images []extractedImage, content string) string {
	var parts []string
	dir := assetDirBase(w.assets)
	for _, img := range images {
		parts = append(parts, "\\includegraphics[height=1.2em]{"+dir+"/"+img.fileName+"}")
	}
	if strings.TrimSpace(content) != "" {
		parts = append(parts, content)
	}
	return strings.Join(parts, " ")
}

// substituteMath replaces each m:oMath run's source text with its
// translated $...$ form inside an already-rendered content string.
func (w *Walker) substituteMath(p *xmlnode.Node, content string) string {
	for _, omath := range p.FindAll("oMath") {
		original := strings.TrimSpace(omath.AllText())
		if original == "" {
			continue
		}
		latex := w.math.TranslateOMath(omath)
		if strings.TrimSpace(latex) == "" {
			continue
		}
		content = strings.Replace(content, original, "$"+latex+"$", 1)
	}
	return content
}

// renderTableBlock closes any open list context, then delegates to
// the table package, wiring it as table.Hooks.
func (w *Walker) renderTableBlock(idx int, b block) string {
	prefix := w.list.closeAll()

	caption, capIdx := w.tableCaption(idx)
	w.tableCount++

	ctx := table.Context{
		DocumentPositionPercent: 100 * float64(idx) / float64(maxInt(len(w.blocks)-1, 1)),
		ContentTableCount:       w.dataTableCount,
		TOCAlreadyEmitted:       w.tocEmitted,
	}
	placement := "[htbp]"
	if w.demoMode {
		placement = "[H]"
	}

	hooks := table.Hooks{
		Math:           w.math,
		Para:           paragraphRendererFor(w.rels),
		Image:          imageResolverFor(w.images),
		TablePlacement: placement,
		Caption:        table.StripCaptionPrefix(caption),
		TableIndex:     w.tableCount,
	}

	result := table.Render(b.node, ctx, hooks)
	if result.Kind == table.KindDataTable {
		w.dataTableCount++
	}
	if result.TOCEmitted {
		w.tocEmitted = true
	}
	if capIdx >= 0 {
		w.consumed[capIdx] = true
	}

	if result.Kind == table.KindFigureCarrier {
		return prefix + w.renderFigureCarrierImages(result.ImageRelIDs, idx)
	}
	return prefix + result.LaTeX
}

// tableCaption looks at the immediately preceding block for a
// "Table N:"/"Bảng N." label, mirroring the walker's look-behind for
// tables (the mirror image of the figure look-ahead).
func (w *Walker) tableCaption(idx int) (string, int) {
	prev := idx - 1
	if prev < 0 || w.blocks[prev].kind != blockParagraph {
		return "", -1
	}
	text := w.blocks[prev].text
	if reTableCaptionLead.MatchString(text) {
		return text, prev
	}
	return "", -1
}

func (w *Walker) renderFigureCarrierImages(relIDs []string, idx int) string {
	var images []extractedImage
	for _, relID := range relIDs {
		target, ok := w.rels.Target(relID)
		if !ok {
			continue
		}
		data, contentType, ok := w.media(target)
		if !ok || len(data) == 0 {
			continue
		}
		w.images.count++
		name := "hinh_" + strconv.Itoa(w.images.count) + "." + contentTypeExt(contentType)
		if w.assets != nil {
			if err := w.assets.Write(name, data); err != nil {
				w.images.count--
				continue
			}
		}
		images = append(images, extractedImage{fileName: name})
	}
	if len(images) == 0 {
		return ""
	}
	caption, capIdx, ok := figureCaption(w.blocks, idx, w.cfg)
	if ok {
		w.consumed[capIdx] = true
	}
	if len(images) == 1 {
		return renderFigure(images[0], assetDirBase(w.assets), caption, w.images.count, w.demoMode)
	}
	firstCount := w.images.count - len(images) + 1
	return renderFigureGroup(images, assetDirBase(w.assets), nil, caption, firstCount, w.demoMode)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

type paragraphRenderAdapter struct {
	rels ooxml.RelationshipMap
}

func (a paragraphRenderAdapter) RenderParagraph(p *xmlnode.Node) string {
	return renderParagraphContent(p, a.rels)
}

func paragraphRendererFor(rels ooxml.RelationshipMap) table.ParagraphRenderer {
	return paragraphRenderAdapter{rels: rels}
}

type imageResolverAdapter struct {
	images *imageExtractor
}

// ResolveImage saves the relationship's image bytes under the next
// hinh_N name on every call and returns the saved asset path, so
// a table cell's figure reuses the same writer and counter as body
// images.
func (a imageResolverAdapter) ResolveImage(relID string) (string, bool) {
	if a.images.partsOf == nil {
		return "", false
	}
	data, contentType, ok := a.images.partsOf(relID)
	if !ok || len(data) == 0 {
		return "", false
	}
	a.images.count++
	name := "hinh_" + strconv.Itoa(a.images.count) + "." + contentTypeExt(contentType)
	if a.images.assets != nil {
		if err := a.images.assets.Write(name, data); err != nil {
			a.images.count--
			return "", false
		}
	}
	return assetDirBase(a.images.assets) + "/" + name, true
}

func imageResolverFor(images *imageExtractor) table.ImageResolver {
	return imageResolverAdapter{images: images}
}

var reTableCaptionLead = regexp.MustCompile(`(?i)^(Bảng|Bang|Table)\s*\d+`)
