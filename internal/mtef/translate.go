package mtef

import (
	"math"
	"regexp"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/mathast"
)

// fencePairs gives the default bracket pair for a fence-template
// selector (0-7) when no explicit fence characters were found in the
// record stream itself.
var fencePairs = map[int][2]string{
	0: {`\langle`, `\rangle`},
	1: {`(`, `)`},
	2: {`\{`, `\}`},
	3: {`[`, `]`},
	4: {`|`, `|`},
	5: {`\|`, `\|`},
	6: {`\lfloor`, `\rfloor`},
	7: {`\lceil`, `\rceil`},
}

// fenceMatrixEnv gives the matrix environment implied by a fence
// selector, when a fenced group turns out to hold a grid of lines
// rather than plain text.
var fenceMatrixEnv = map[int]string{
	1: "pmatrix", 2: "Bmatrix", 3: "bmatrix", 4: "vmatrix", 5: "Vmatrix",
}

// embellCommand maps an EMBELL type byte to its LaTeX accent command,
// per spec.md §4.C and the reference _EMBELL_MAP.
var embellCommand = map[int]string{
	2: `\dot`, 3: `\ddot`, 4: `\dddot`, 5: `\hat`, 6: `\bar`,
	7: `\vec`, 8: `\tilde`, 9: `\check`, 17: `\overrightarrow`,
}

// charToNode converts a CHAR record into a leaf node, dispatching on
// font style the way the reference _char_to_latex does.
func charToNode(r record) mathast.Node {
	if r.charCode < 0x20 || r.charCode >= 0xFFFF {
		return &mathast.Char{}
	}
	rc := rune(r.charCode)
	if _, ok := unicodeToLatex[rc]; ok {
		return &mathast.Char{Text: charLatex(rc)}
	}
	ch := string(rc)

	switch ch {
	case "%":
		return &mathast.Char{Text: `\%`}
	case "&":
		return &mathast.Char{Text: `\&`}
	case "#":
		return &mathast.Char{Text: `\#`}
	case "_":
		return &mathast.Char{Text: `\_`}
	case "$":
		return &mathast.Char{Text: `\$`}
	}

	switch r.fontStyle {
	case fnFunction:
		if strings.ContainsAny(ch, "()[]{}|,;:.!?") {
			return &mathast.Char{Text: ch}
		}
		return &mathast.Char{Text: `\mathrm{` + ch + `}`}
	case fnText:
		return &mathast.Char{Text: `\text{` + ch + `}`}
	case fnVector:
		return &mathast.Char{Text: `\boldsymbol{` + ch + `}`}
	default:
		return &mathast.Char{Text: ch}
	}
}

// groupNode folds a record slice into a single node: empty becomes an
// empty Char, one record passes through, several become a Group.
func groupNode(records []record) mathast.Node {
	var kids []mathast.Node
	for _, r := range records {
		if n := recordToNode(r); n != nil {
			kids = append(kids, n)
		}
	}
	switch len(kids) {
	case 0:
		return &mathast.Char{}
	case 1:
		return kids[0]
	default:
		return &mathast.Group{Children: kids}
	}
}

func recordToNode(r record) mathast.Node {
	switch r.kind {
	case tagChar:
		return charToNode(r)
	case tagLine:
		return groupNode(r.children)
	case tagTmpl:
		return tmplToNode(r)
	case tagPile:
		return pileToNode(r.children)
	case tagMatrix:
		return matrixToNode(r)
	case tagEmbell:
		cmd, ok := embellCommand[r.embellType]
		if !ok {
			cmd = `\hat`
		}
		return &mathast.Char{Text: cmd}
	default:
		return nil
	}
}

// collectFenceChars mirrors the reference parser's trailing-CHAR fence
// scan: it takes the first non-empty slot, then strips matching fence
// characters off its tail to recover explicit left/right delimiters.
func collectFenceChars(slots [][]record) (remaining []record, left, right string) {
	var content []record
	for _, s := range slots {
		if len(s) > 0 {
			content = s
			break
		}
	}
	remaining = append([]record(nil), content...)

	var found []record
	for len(remaining) > 0 {
		last := remaining[len(remaining)-1]
		if last.kind != tagChar {
			break
		}
		ch := rune(last.charCode)
		if fenceChars[ch] || last.fontStyle == fnExpand {
			found = append([]record{last}, found...)
			remaining = remaining[:len(remaining)-1]
		} else {
			break
		}
	}

	switch len(found) {
	case 0:
	case 1:
		left = string(rune(found[0].charCode))
		right = left
	default:
		left = string(rune(found[0].charCode))
		right = string(rune(found[1].charCode))
	}
	return remaining, left, right
}

func isqrt(n int) int {
	if n < 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// fenceSelectorToNode implements TMPL selectors 0-9: a fenced group
// that may, if its slots hold a run of bare LINE records and nothing
// else, be a square matrix or a vertical pile instead of plain text.
func fenceSelectorToNode(selector int, slots [][]record) mathast.Node {
	remaining, left, right := collectFenceChars(slots)
	if left == "" {
		if pair, ok := fencePairs[selector]; ok {
			left, right = pair[0], pair[1]
		}
	}

	var lineRecords, nonLine []record
	for _, r := range remaining {
		switch {
		case r.kind == tagLine:
			lineRecords = append(lineRecords, r)
		case r.isSizeMarker():
			// ignored for the line/non-line split
		default:
			nonLine = append(nonLine, r)
		}
	}

	if len(lineRecords) > 1 && len(nonLine) == 0 {
		env := fenceMatrixEnv[selector]
		if env == "" {
			env = "matrix"
		}
		n := len(lineRecords)
		if s := isqrt(n); s*s == n && s > 1 {
			cells := make([]mathast.Node, 0, n)
			for _, lr := range lineRecords {
				cells = append(cells, recordToNode(lr))
			}
			return &mathast.Matrix{Rows: s, Cols: s, Env: env, Cells: cells}
		}
		cells := make([]mathast.Node, 0, n)
		for _, lr := range lineRecords {
			cells = append(cells, recordToNode(lr))
		}
		return &mathast.Matrix{Rows: n, Cols: 1, Env: env, Cells: cells}
	}

	content := groupNode(remaining)
	if isEmptyNode(content) {
		return &mathast.Delim{Open: left, Close: right}
	}
	if m, ok := content.(*mathast.Matrix); ok {
		return m // already an environment: don't add an outer fence
	}
	return &mathast.Delim{Open: left, Close: right, Inner: content}
}

func isEmptyNode(n mathast.Node) bool {
	c, ok := n.(*mathast.Char)
	return ok && c.Text == ""
}

func rootToNode(records []record) mathast.Node {
	parts := splitBySizeMarker(records)
	radicand := stripRedundantRadicandParens(groupNode(parts["full"]))
	var index mathast.Node
	if subRecs := parts["sub"]; len(subRecs) > 0 {
		index = groupNode(subRecs)
	}
	return &mathast.Root{Index: index, Radicand: radicand}
}

// stripRedundantRadicandParens drops one redundant balanced
// parenthesis pair wrapping an entire radicand, e.g. \sqrt{(x+1)} ->
// \sqrt{x+1}, since \sqrt{} already groups its argument. Mirrors
// _root_to_latex's depth-counted balance check: the parens must span
// the radicand's whole rendering, not just its first character.
func stripRedundantRadicandParens(radicand mathast.Node) mathast.Node {
	text := strings.TrimSpace(mathast.Render(radicand))
	if len(text) < 2 || text[0] != '(' || text[len(text)-1] != ')' {
		return radicand
	}
	depth := 0
	for i, c := range text {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && i < len(text)-1 {
			return radicand
		}
	}
	return &mathast.Char{Text: text[1 : len(text)-1]}
}

func fracToNode(slots [][]record) mathast.Node {
	switch {
	case len(slots) >= 2:
		return &mathast.Frac{Num: groupNode(slots[0]), Den: groupNode(slots[1])}
	case len(slots) == 1:
		parts := splitBySizeMarker(slots[0])
		return &mathast.Frac{Num: groupNode(parts["full"]), Den: groupNode(parts["sub"])}
	default:
		return &mathast.Frac{Num: &mathast.Char{}, Den: &mathast.Char{}}
	}
}

func bigopToNode(records []record, selector int) mathast.Node {
	parts := splitBySizeMarker(records)
	integrand := parts["full"]
	limitRecs := parts["sub"]
	symRecs := parts["sym"]

	op := ""
	for _, r := range symRecs {
		if r.kind == tagChar {
			op = mathast.Render(charToNode(r))
			break
		}
	}
	if op == "" {
		if v, ok := naryDefaultOp[byte(selector)]; ok {
			op = v
		} else {
			op = `\int`
		}
	}

	var lowerLines, upperLines []record
	for _, r := range limitRecs {
		if r.kind == tagLine {
			if lowerLines == nil {
				lowerLines = r.children
				continue
			}
			if upperLines == nil {
				upperLines = r.children
			}
		}
	}
	var dn, up mathast.Node
	if lowerLines != nil {
		dn = groupNode(lowerLines)
	}
	if upperLines != nil {
		up = groupNode(upperLines)
	}
	return &mathast.Nary{Op: op, Dn: dn, Up: up, Body: groupNode(integrand)}
}

func limitToNode(records []record) mathast.Node {
	parts := splitBySizeMarker(records)
	base := groupNode(parts["full"])
	if sub := parts["sub"]; len(sub) > 0 {
		return &mathast.Sub{Base: base, Dn: groupNode(sub)}
	}
	return base
}

func scriptToNode(records []record, selector int) mathast.Node {
	parts := splitBySizeMarker(records)
	base := groupNode(parts["full"])
	subRecs := parts["sub"]
	supRecs := parts["sym"]
	if len(supRecs) == 0 {
		supRecs = parts["sub2"]
	}

	switch selector {
	case 27:
		return &mathast.Sub{Base: base, Dn: groupNode(subRecs)}
	case 28:
		return &mathast.Sup{Base: base, Up: groupNode(subRecs)}
	default:
		return &mathast.SubSup{Base: base, Dn: groupNode(subRecs), Up: groupNode(supRecs)}
	}
}

func pileToNode(lines []record) mathast.Node {
	if len(lines) == 0 {
		return &mathast.Char{}
	}
	if len(lines) == 1 {
		return recordToNode(lines[0])
	}
	cells := make([]mathast.Node, 0, len(lines))
	for _, l := range lines {
		cells = append(cells, recordToNode(l))
	}
	return &mathast.Matrix{Rows: len(lines), Cols: 1, Env: "array", Cells: cells}
}

func matrixToNode(r record) mathast.Node {
	if r.rows == 1 && r.cols == 1 && len(r.cells) == 1 {
		cell := r.cells[0]
		var tmpl *record
		var fenceRecs, other []record
		for i := range cell {
			c := cell[i]
			if c.kind == tagTmpl && tmpl == nil {
				t := c
				tmpl = &t
			} else if c.kind == tagChar && c.fontStyle == fnExpand {
				fenceRecs = append(fenceRecs, c)
			} else {
				other = append(other, c)
			}
		}
		if tmpl != nil && len(fenceRecs) > 0 && len(other) == 0 && tmpl.selector >= 0 && tmpl.selector <= 9 {
			slots := append([][]record(nil), tmpl.slots...)
			if len(slots) == 0 {
				slots = append(slots, fenceRecs)
			} else {
				last := len(slots) - 1
				slots[last] = append(append([]record(nil), slots[last]...), fenceRecs...)
			}
			return fenceSelectorToNode(tmpl.selector, slots)
		}
		return groupNode(cell)
	}

	cells := make([]mathast.Node, 0, r.rows*r.cols)
	for i := 0; i < r.rows*r.cols; i++ {
		if i < len(r.cells) {
			cells = append(cells, groupNode(r.cells[i]))
		} else {
			cells = append(cells, &mathast.Char{})
		}
	}
	return &mathast.Matrix{Rows: r.rows, Cols: r.cols, Env: "matrix", Cells: cells}
}

// tmplToNode dispatches a TMPL record to its AST shape by selector,
// per spec.md §4.C's selector table.
func tmplToNode(r record) mathast.Node {
	var all []record
	for _, s := range r.slots {
		all = append(all, s...)
	}

	switch {
	case r.selector >= 0 && r.selector <= 9:
		return fenceSelectorToNode(r.selector, r.slots)
	case r.selector == 10 || r.selector == 13:
		return rootToNode(all)
	case r.selector == 11:
		return fracToNode(r.slots)
	case r.selector == 12:
		return &mathast.Bar{Kind: mathast.BarUnder, Base: groupNode(all)}
	case r.selector >= 15 && r.selector <= 22, r.selector == 24:
		return bigopToNode(all, r.selector)
	case r.selector == 23:
		return limitToNode(all)
	case r.selector >= 27 && r.selector <= 29:
		return scriptToNode(all, r.selector)
	case r.selector == 31:
		return &mathast.Accent{Kind: mathast.AccentVec, Base: groupNode(all)}
	case r.selector == 32:
		return &mathast.Accent{Kind: mathast.AccentTilde, Base: groupNode(all)}
	case r.selector == 33:
		return &mathast.Accent{Kind: mathast.AccentHat, Base: groupNode(all)}
	case r.selector == 34:
		return &mathast.Char{Text: `\overset{\frown}{` + mathast.Render(groupNode(all)) + `}`}
	case r.selector == 25 || r.selector == 36:
		return &mathast.Bar{Kind: mathast.BarOver, Base: groupNode(all)}
	case r.selector == 37 || r.selector == 26:
		return &mathast.Char{Text: `\cancel{` + mathast.Render(groupNode(all)) + `}`}
	default:
		return groupNode(all)
	}
}

var (
	reWhitespace   = regexp.MustCompile(`\s+`)
	reBareMathrm   = regexp.MustCompile(`\\mathrm\{([()\[\]{}|,;:.!?])\}`)
	reDifferential = regexp.MustCompile(`(^|[^\\])d([xtys])\b`)
)

// postProcess applies the cleanup pass spec.md §4.C requires after
// rendering: whitespace collapse, redundant \mathrm{} unwrapping
// around single punctuation characters, and a thin space before the
// differential letters dx, dt, dy, ds specifically, not already
// preceded by a backslash.
func postProcess(latex string) string {
	s := reWhitespace.ReplaceAllString(latex, " ")
	s = strings.TrimSpace(s)
	s = reBareMathrm.ReplaceAllString(s, "$1")
	s = reDifferential.ReplaceAllString(s, `$1\, d$2`)
	return s
}

// Translate parses raw MTEF bytes (as extracted by ExtractFromOLE) and
// returns the rendered, post-processed LaTeX math string. An empty or
// unparsable stream returns "".
func Translate(mtefData []byte) string {
	if len(mtefData) < 5 {
		return ""
	}
	records := newParser(mtefData).parse()
	if len(records) == 0 {
		return ""
	}
	node := groupNode(records)
	latex := mathast.Render(node)
	if strings.TrimSpace(latex) == "" {
		return ""
	}
	return postProcess(latex)
}
