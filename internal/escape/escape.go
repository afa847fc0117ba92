// Package escape maps untrusted document text to LaTeX-safe text.
package escape

import "strings"

// special lists the ten characters LaTeX treats specially and their
// replacements, mirroring the cases of Text's switch. Text substitutes
// in a single pass over the input, so replacement text is never
// re-scanned and the order of entries here does not matter.
var special = []struct {
	from string
	to   string
}{
	{`\`, `\textbackslash{}`},
	{`%`, `\%`},
	{`$`, `\$`},
	{`_`, `\_`},
	{`&`, `\&`},
	{`#`, `\#`},
	{`{`, `\{`},
	{`}`, `\}`},
	{`~`, `\textasciitilde{}`},
	{`^`, `\textasciicircum{}`},
}

// Text escapes t so it can be safely embedded in LaTeX source.
// Text containing none of the ten special characters is returned
// unchanged.
func Text(t string) string {
	if !strings.ContainsAny(t, `\%$_&#{}~^`) {
		return t
	}
	var b strings.Builder
	b.Grow(len(t) + 16)
	for _, r := range t {
		switch r {
		case '\\':
			b.WriteString(`\textbackslash{}`)
		case '%':
			b.WriteString(`\%`)
		case '$':
			b.WriteString(`\$`)
		case '_':
			b.WriteString(`\_`)
		case '&':
			b.WriteString(`\&`)
		case '#':
			b.WriteString(`\#`)
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		case '~':
			b.WriteString(`\textasciitilde{}`)
		case '^':
			b.WriteString(`\textasciicircum{}`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// URL escapes the characters that must be escaped inside a \href
// target (% and #), per spec.md's hyperlink-handling rule.
func URL(u string) string {
	u = strings.ReplaceAll(u, `%`, `\%`)
	u = strings.ReplaceAll(u, `#`, `\#`)
	return u
}
