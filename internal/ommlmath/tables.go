package ommlmath

import "github.com/trantaidat7388-dot/word2latex/internal/mathast"

// charMap is the Unicode -> LaTeX command table used by the
// last-resort tier and by structured-tier leaf rendering. Grounded
// on original_source/src/config.py's OMML_CHAR_MAP.
var charMap = map[rune]string{
	'√': `\sqrt`, '∑': `\sum`, '∏': `\prod`, '∫': `\int`, '∞': `\infty`,
	'≤': `\leq`, '≥': `\geq`, '≠': `\neq`, '±': `\pm`, '∓': `\mp`,
	'×': `\times`, '÷': `\div`, '·': `\cdot`, '∂': `\partial`, '∇': `\nabla`,
	'∀': `\forall`, '∃': `\exists`, '∈': `\in`, '∉': `\notin`,
	'⊂': `\subset`, '⊃': `\supset`, '⊆': `\subseteq`, '⊇': `\supseteq`,
	'∪': `\cup`, '∩': `\cap`, '∅': `\emptyset`,
	'≈': `\approx`, '≡': `\equiv`, '≅': `\cong`, '∝': `\propto`,
	'←': `\leftarrow`, '→': `\rightarrow`, '↔': `\leftrightarrow`,
	'⇐': `\Leftarrow`, '⇒': `\Rightarrow`, '⇔': `\Leftrightarrow`,
	'…': `\ldots`, '⋯': `\cdots`, '⋮': `\vdots`, '⋱': `\ddots`,
	'α': `\alpha`, 'β': `\beta`, 'γ': `\gamma`, 'δ': `\delta`, 'ε': `\epsilon`,
	'ζ': `\zeta`, 'η': `\eta`, 'θ': `\theta`, 'ι': `\iota`, 'κ': `\kappa`,
	'λ': `\lambda`, 'μ': `\mu`, 'ν': `\nu`, 'ξ': `\xi`, 'π': `\pi`,
	'ρ': `\rho`, 'σ': `\sigma`, 'τ': `\tau`, 'υ': `\upsilon`, 'φ': `\phi`,
	'χ': `\chi`, 'ψ': `\psi`, 'ω': `\omega`,
	'Γ': `\Gamma`, 'Δ': `\Delta`, 'Θ': `\Theta`, 'Λ': `\Lambda`, 'Ξ': `\Xi`,
	'Π': `\Pi`, 'Σ': `\Sigma`, 'Υ': `\Upsilon`, 'Φ': `\Phi`, 'Ψ': `\Psi`,
	'Ω': `\Omega`,
}

// naryOperator maps the n-ary child character attribute to its
// LaTeX big-operator command. Unknown symbols fall back to \sum.
var naryOperator = map[string]string{
	"∫": `\int`, "∬": `\iint`, "∭": `\iiint`, "∮": `\oint`,
	"∏": `\prod`, "∐": `\coprod`, "∑": `\sum`,
	"⋀": `\bigwedge`, "⋁": `\bigvee`, "⋂": `\bigcap`, "⋃": `\bigcup`,
}

// mapText runs every character of s through the Unicode -> LaTeX
// table, passing through anything not in the table unchanged. Used
// both by the last-resort tier and by structured-tier leaf text, so
// a literal ∑ inside a run translates the same way in either tier.
func mapText(s string) string {
	var hasSpecial bool
	for _, r := range s {
		if _, ok := charMap[r]; ok {
			hasSpecial = true
			break
		}
	}
	if !hasSpecial {
		return s
	}
	var b []byte
	for _, r := range s {
		if cmd, ok := charMap[r]; ok {
			b = append(b, cmd...)
			b = append(b, ' ')
		} else {
			b = append(b, string(r)...)
		}
	}
	return string(b)
}

func naryOp(sym string) string {
	if op, ok := naryOperator[sym]; ok {
		return op
	}
	return `\sum`
}

// delimiter maps a fence character to its LaTeX form (braces need escaping).
var delimiter = map[string]string{
	"(": "(", ")": ")", "[": "[", "]": "]",
	"{": `\{`, "}": `\}`, "|": "|", "‖": `\|`,
	"⌊": `\lfloor`, "⌋": `\rfloor`, "⌈": `\lceil`, "⌉": `\rceil`,
	"⟨": `\langle`, "⟩": `\rangle`,
}

func delimText(ch string) string {
	if d, ok := delimiter[ch]; ok {
		return d
	}
	return ch
}

// accentKindFor maps the OMML acc element's character attribute to
// an AccentKind.
var accentKindFor = map[string]mathast.AccentKind{
	"̂": mathast.AccentHat,
	"̃": mathast.AccentTilde,
	"̀": mathast.AccentGrave,
	"́": mathast.AccentAcute,
	"̇": mathast.AccentDot,
	"̈": mathast.AccentDDot,
	"̅": mathast.AccentBar,
	"⃗": mathast.AccentVec,
	"̆": mathast.AccentBreve,
	"̌": mathast.AccentCheck,
}

// funcName maps a recognised function name to its LaTeX command.
var funcName = map[string]string{
	"sin": `\sin`, "cos": `\cos`, "tan": `\tan`,
	"sec": `\sec`, "csc": `\csc`, "cot": `\cot`,
	"sinh": `\sinh`, "cosh": `\cosh`, "tanh": `\tanh`,
	"ln": `\ln`, "log": `\log`, "exp": `\exp`,
	"lim": `\lim`, "max": `\max`, "min": `\min`,
	"sup": `\sup`, "inf": `\inf`,
	"det": `\det`, "dim": `\dim`, "ker": `\ker`,
	"deg": `\deg`, "gcd": `\gcd`, "arg": `\arg`,
	"mod": `\bmod`,
}
