package mathast

import "strings"

// accentCommand maps an AccentKind to its LaTeX command name.
var accentCommand = map[AccentKind]string{
	AccentHat:   `\hat`,
	AccentTilde: `\tilde`,
	AccentGrave: `\grave`,
	AccentAcute: `\acute`,
	AccentDot:   `\dot`,
	AccentDDot:  `\ddot`,
	AccentBar:   `\bar`,
	AccentVec:   `\vec`,
	AccentBreve: `\breve`,
	AccentCheck: `\check`,
}

// Render is the single pure function rendering a Math Node tree into
// a LaTeX math string. Both the OMML translator and the MTEF
// translator feed this same function, per spec.md §3/§9.
func Render(n Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	render(&b, n)
	return b.String()
}

func render(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case nil:
		return
	case *Char:
		b.WriteString(v.Text)
	case *Sup:
		renderBraced(b, v.Base)
		b.WriteString("^")
		renderBraced(b, v.Up)
	case *Sub:
		renderBraced(b, v.Base)
		b.WriteString("_")
		renderBraced(b, v.Dn)
	case *SubSup:
		renderBraced(b, v.Base)
		b.WriteString("_")
		renderBraced(b, v.Dn)
		b.WriteString("^")
		renderBraced(b, v.Up)
	case *Frac:
		b.WriteString(`\frac{`)
		render(b, v.Num)
		b.WriteString("}{")
		render(b, v.Den)
		b.WriteString("}")
	case *Root:
		if v.Index != nil {
			b.WriteString(`\sqrt[`)
			render(b, v.Index)
			b.WriteString("]{")
		} else {
			b.WriteString(`\sqrt{`)
		}
		render(b, v.Radicand)
		b.WriteString("}")
	case *Delim:
		open, close := v.Open, v.Close
		if open == "" {
			open = "."
		}
		if close == "" {
			close = "."
		}
		b.WriteString(`\left`)
		b.WriteString(open)
		render(b, v.Inner)
		b.WriteString(`\right`)
		b.WriteString(close)
	case *Nary:
		b.WriteString(v.Op)
		if v.Dn != nil {
			b.WriteString("_{")
			render(b, v.Dn)
			b.WriteString("}")
		}
		if v.Up != nil {
			b.WriteString("^{")
			render(b, v.Up)
			b.WriteString("}")
		}
		b.WriteString(" ")
		render(b, v.Body)
	case *Func:
		b.WriteString(v.Name)
		b.WriteString(" ")
		render(b, v.Arg)
	case *Accent:
		cmd, ok := accentCommand[v.Kind]
		if !ok {
			cmd = `\hat`
		}
		b.WriteString(cmd)
		b.WriteString("{")
		render(b, v.Base)
		b.WriteString("}")
	case *Bar:
		if v.Kind == BarOver {
			b.WriteString(`\overline{`)
		} else {
			b.WriteString(`\underline{`)
		}
		render(b, v.Base)
		b.WriteString("}")
	case *Matrix:
		env := v.Env
		if env == "" {
			env = "pmatrix"
		}
		b.WriteString(`\begin{`)
		b.WriteString(env)
		b.WriteString("}")
		for r := 0; r < v.Rows; r++ {
			for c := 0; c < v.Cols; c++ {
				if c > 0 {
					b.WriteString(" & ")
				}
				render(b, v.Cells[r*v.Cols+c])
			}
			if r < v.Rows-1 {
				b.WriteString(` \\ `)
			}
		}
		b.WriteString(`\end{`)
		b.WriteString(env)
		b.WriteString("}")
	case *Group:
		for _, c := range v.Children {
			render(b, c)
		}
	}
}

// renderBraced renders n wrapped in braces unless it is already a
// single Char of length 1 (so x^2 renders as x^2, not x^{2}, which
// matches how a human typesets a simple script but still round-trips
// correctly for multi-character scripts).
func renderBraced(b *strings.Builder, n Node) {
	if c, ok := n.(*Char); ok && len([]rune(c.Text)) == 1 {
		b.WriteString(c.Text)
		return
	}
	b.WriteString("{")
	render(b, n)
	b.WriteString("}")
}

// Balanced reports whether s has balanced braces and matched
// \left...\right pairs, the invariant spec.md §4.C/§8 requires of
// every non-empty Math Translator result.
func Balanced(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if i == 0 || s[i-1] != '\\' {
				depth++
			}
		case '}':
			if i == 0 || s[i-1] != '\\' {
				depth--
				if depth < 0 {
					return false
				}
			}
		}
	}
	if depth != 0 {
		return false
	}
	return strings.Count(s, `\left`) == strings.Count(s, `\right`)
}
