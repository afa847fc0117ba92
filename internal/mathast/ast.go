// Package mathast defines the language-neutral math node algebra
// that both the OMML translator and the MTEF translator build, and
// that a single renderer turns into LaTeX.
package mathast

// Node is any math AST node. It is a closed sum type: the only
// implementations are the ones declared in this file.
type Node interface {
	isMathNode()
}

// Char is a leaf: literal text (already a LaTeX-safe math fragment,
// e.g. a variable name, a digit run, or a translated symbol command).
type Char struct {
	Text string
}

// Sup is base with a superscript.
type Sup struct {
	Base Node
	Up   Node
}

// Sub is base with a subscript.
type Sub struct {
	Base Node
	Dn   Node
}

// SubSup is base with both a subscript and a superscript.
type SubSup struct {
	Base Node
	Dn   Node
	Up   Node
}

// Frac is a fraction, numerator over denominator.
type Frac struct {
	Num Node
	Den Node
}

// Root is a radical; Index is nil for a plain square root.
type Root struct {
	Index    Node
	Radicand Node
}

// Delim is a fenced group, e.g. (inner) or [inner].
type Delim struct {
	Open  string
	Close string
	Inner Node
}

// Nary is an n-ary big operator (sum, integral, ...).
type Nary struct {
	Op   string // LaTeX operator command, e.g. \sum
	Dn   Node   // lower limit, may be nil
	Up   Node   // upper limit, may be nil
	Body Node
}

// Func is a named function applied to an argument, e.g. sin(x).
type Func struct {
	Name string // LaTeX function command, e.g. \sin
	Arg  Node
}

// AccentKind enumerates the accent marks the spec names.
type AccentKind int

const (
	AccentHat AccentKind = iota
	AccentTilde
	AccentGrave
	AccentAcute
	AccentDot
	AccentDDot
	AccentBar
	AccentVec
	AccentBreve
	AccentCheck
)

// Accent places a diacritic over Base.
type Accent struct {
	Kind AccentKind
	Base Node
}

// BarKind distinguishes an overbar from an underbar.
type BarKind int

const (
	BarOver BarKind = iota
	BarUnder
)

// Bar draws a line over or under Base.
type Bar struct {
	Kind BarKind
	Base Node
}

// Matrix is a rectangular grid of cells, row-major.
type Matrix struct {
	Rows int
	Cols int
	// Env is the target LaTeX environment, e.g. "pmatrix"; empty
	// means the renderer picks a default.
	Env   string
	Cells []Node // len == Rows*Cols
}

// Group is an unadorned sequence of sibling nodes rendered in order
// with no additional wrapping.
type Group struct {
	Children []Node
}

func (*Char) isMathNode()   {}
func (*Sup) isMathNode()    {}
func (*Sub) isMathNode()    {}
func (*SubSup) isMathNode() {}
func (*Frac) isMathNode()   {}
func (*Root) isMathNode()   {}
func (*Delim) isMathNode()  {}
func (*Nary) isMathNode()   {}
func (*Func) isMathNode()   {}
func (*Accent) isMathNode() {}
func (*Bar) isMathNode()    {}
func (*Matrix) isMathNode() {}
func (*Group) isMathNode()  {}
