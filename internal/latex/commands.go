// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

// Mode is the typesetting mode a command or environment appears in.
type Mode int

const (
	ModeText Mode = iota
	ModeMath
)

func (m Mode) String() string {
	if m == ModeMath {
		return "MATH"
	}
	return "TEXT"
}

// modeSet lists the modes a command or environment accepts.
type modeSet uint8

const (
	inText modeSet = 1 << iota
	inMath
	inBoth = inText | inMath
)

func (s modeSet) allows(m Mode) bool {
	if m == ModeMath {
		return s&inMath != 0
	}
	return s&inText != 0
}

type cmdKind int

const (
	cmdPlain cmdKind = iota
	cmdAccent
	cmdVerb
	cmdBegin
	cmdEnd
	cmdLeft
	cmdRight
	cmdOver
	cmdItem
	cmdDefine
	cmdDefineEnv
	cmdMathOpen
	cmdMathClose
)

// command describes a known control sequence.
type command struct {
	kind    cmdKind
	modes   modeSet
	args    int
	optArgs int

	// argMode forces the mode of the arguments, e.g. \text in math.
	argMode Mode
	setsArg bool
}

type envKind int

const (
	envPlain envKind = iota
	envList
	envTable
	envMathBody
	envMatrix
)

// environment describes a known \begin...\end block.
type environment struct {
	kind    envKind
	modes   modeSet
	args    int
	optArgs int
}

func textCmd(args int) command { return command{modes: inText, args: args} }
func mathCmd(args int) command { return command{modes: inMath, args: args} }
func anyCmd(args int) command  { return command{modes: inBoth, args: args} }

// builtinCommands returns a fresh command table. Validate copies it per
// call so user definitions never leak between values.
func builtinCommands() map[string]command {
	cmds := map[string]command{
		"begin":            {kind: cmdBegin, modes: inBoth},
		"end":              {kind: cmdEnd, modes: inBoth},
		"verb":             {kind: cmdVerb, modes: inText},
		"left":             {kind: cmdLeft, modes: inMath},
		"right":            {kind: cmdRight, modes: inMath},
		"over":             {kind: cmdOver, modes: inMath},
		"item":             {kind: cmdItem, modes: inText, optArgs: 1},
		"newcommand":       {kind: cmdDefine, modes: inBoth},
		"renewcommand":     {kind: cmdDefine, modes: inBoth},
		"providecommand":   {kind: cmdDefine, modes: inBoth},
		"newenvironment":   {kind: cmdDefineEnv, modes: inBoth},
		"renewenvironment": {kind: cmdDefineEnv, modes: inBoth},
		"(":                {kind: cmdMathOpen, modes: inBoth},
		"[":                {kind: cmdMathOpen, modes: inBoth},
		")":                {kind: cmdMathClose, modes: inBoth},
		"]":                {kind: cmdMathClose, modes: inBoth},

		"text":         {modes: inMath, args: 1, argMode: ModeText, setsArg: true},
		"mbox":         {modes: inBoth, args: 1, argMode: ModeText, setsArg: true},
		"hbox":         {modes: inBoth, args: 1, argMode: ModeText, setsArg: true},
		"textrm":       {modes: inBoth, args: 1, argMode: ModeText, setsArg: true},
		"textnormal":   {modes: inBoth, args: 1, argMode: ModeText, setsArg: true},
		"operatorname": mathCmd(1),
	}

	for _, n := range []string{
		"par", "section", "subsection", "subsubsection", "paragraph", "chapter",
		"section*", "subsection*", "subsubsection*", "chapter*",
		"tiny", "scriptsize", "footnotesize", "small", "normalsize", "large", "Large",
		"LARGE", "huge", "Huge", "noindent", "centering", "raggedright", "raggedleft",
		"newpage", "clearpage", "linebreak", "pagebreak", "hline", "cline", "bigskip",
		"medskip", "smallskip", "vfill", "hfill", "today", "LaTeX", "TeX", "LaTeXe", "BibTeX",
		"ss", "ae", "AE", "oe", "OE", "aa", "AA", "o", "O", "l", "L", "i", "j", "dag",
		"ddag", "S", "P", "copyright", "pounds", "textless", "textgreater", "textbar",
		"textbackslash", "textasciitilde", "textasciicircum", "textunderscore",
		"textquoteleft", "textquoteright", "textquotedblleft", "textquotedblright",
		"textendash", "textemdash", "textbullet", "textdegree", "textregistered",
		"texttrademark", "textellipsis", "textperiodcentered", "guillemotleft",
		"guillemotright", "bfseries", "itshape", "ttfamily", "rmfamily", "sffamily",
		"scshape", "upshape", "slshape", "mdseries", "normalfont", "em", "bf", "it",
		"tt", "rm", "sf", "sc", "sl", "@", "/", "slash",
	} {
		cmds[n] = textCmd(0)
	}
	for _, n := range []string{"section", "subsection", "subsubsection", "paragraph", "chapter",
		"section*", "subsection*", "subsubsection*", "chapter*", "cline"} {
		cmds[n] = textCmd(1)
	}

	for _, n := range []string{
		"textbf", "textit", "texttt", "textsf", "textsc", "textsl", "textup", "textmd",
		"emph", "underline", "textsuperscript", "textsubscript", "url", "footnote",
		"cite", "citep", "citet", "ref", "eqref", "label", "hspace", "hspace*",
		"vspace", "vspace*", "uppercase", "lowercase", "MakeUppercase", "MakeLowercase",
		"textcolor", "fbox", "framebox", "nocite", "pageref",
	} {
		cmds[n] = anyCmd(1)
	}
	cmds["href"] = anyCmd(2)
	cmds["textcolor"] = anyCmd(2)

	for _, n := range []string{
		"ldots", "dots", "\\", "newline", ",", ";", ":", "!", " ", "quad", "qquad",
		"#", "$", "%", "&", "{", "}", "_", "ensuremath",
	} {
		cmds[n] = anyCmd(0)
	}
	cmds["ensuremath"] = anyCmd(1)

	for _, n := range []string{
		"`", "'", "^", "\"", "~", "=", ".", "u", "v", "H", "c", "d", "b", "t", "k", "r",
	} {
		cmds[n] = command{kind: cmdAccent, modes: inText}
	}

	for _, n := range []string{
		"alpha", "beta", "gamma", "delta", "epsilon", "varepsilon", "zeta", "eta",
		"theta", "vartheta", "iota", "kappa", "lambda", "mu", "nu", "xi", "pi", "varpi",
		"rho", "varrho", "sigma", "varsigma", "tau", "upsilon", "phi", "varphi", "chi",
		"psi", "omega", "Gamma", "Delta", "Theta", "Lambda", "Xi", "Pi", "Sigma",
		"Upsilon", "Phi", "Psi", "Omega", "cdot", "times", "div", "pm", "mp", "leq",
		"geq", "le", "ge", "neq", "ne", "approx", "equiv", "sim", "simeq", "cong",
		"propto", "infty", "partial", "nabla", "sum", "prod", "int", "iint", "oint",
		"lim", "sin", "cos", "tan", "cot", "sec", "csc", "arcsin", "arccos", "arctan",
		"sinh", "cosh", "tanh", "log", "ln", "lg", "exp", "max", "min", "sup", "inf",
		"det", "dim", "ker", "deg", "gcd", "arg", "Pr", "rightarrow", "leftarrow",
		"Rightarrow", "Leftarrow", "leftrightarrow", "Leftrightarrow", "to", "gets",
		"mapsto", "longrightarrow", "longleftarrow", "Longrightarrow", "implies",
		"iff", "uparrow", "downarrow", "in", "notin", "ni", "subset", "subseteq",
		"supset", "supseteq", "cup", "cap", "bigcup", "bigcap", "setminus", "forall",
		"exists", "nexists", "neg", "lnot", "land", "lor", "wedge", "vee", "oplus",
		"otimes", "odot", "cdots", "vdots", "ddots", "prime", "circ", "bullet", "star",
		"ast", "langle", "rangle", "lfloor", "rfloor", "lceil", "rceil", "lbrace",
		"rbrace", "vert", "Vert", "emptyset", "varnothing", "mid", "parallel", "perp",
		"angle", "hbar", "ell", "Re", "Im", "aleph", "wp", "top", "bot", "models",
		"vdash", "dashv", "ll", "gg", "prec", "succ", "preceq", "succeq", "doteq",
		"displaystyle", "textstyle", "scriptstyle", "limits", "nolimits", "big",
		"Big", "bigg", "Bigg", "bigl", "bigr", "Bigl", "Bigr", "colon", "backslash",
		"lvert", "rvert", "lVert", "rVert", "triangle", "square", "Box", "diamond",
		"clubsuit", "heartsuit", "spadesuit", "flat", "sharp", "natural",
	} {
		cmds[n] = mathCmd(0)
	}
	for _, n := range []string{
		"widetilde", "widehat", "tilde", "hat", "bar", "vec", "dot", "ddot", "acute",
		"grave", "breve", "check", "overline", "underbrace", "overbrace", "mathrm",
		"mathbf", "mathit", "mathcal", "mathbb", "mathsf", "mathtt", "mathfrak",
		"boldsymbol", "sqrt", "not", "overrightarrow", "overleftarrow",
	} {
		cmds[n] = mathCmd(1)
	}
	cmds["sqrt"] = command{modes: inMath, args: 1, optArgs: 1}
	for _, n := range []string{"frac", "dfrac", "tfrac", "binom", "stackrel", "overset", "underset"} {
		cmds[n] = mathCmd(2)
	}
	return cmds
}

// builtinEnvironments returns a fresh environment table.
func builtinEnvironments() map[string]environment {
	envs := map[string]environment{
		"itemize":     {kind: envList, modes: inText},
		"enumerate":   {kind: envList, modes: inText, optArgs: 1},
		"description": {kind: envList, modes: inText},
		"tabular":     {kind: envTable, modes: inText, args: 1, optArgs: 1},
		"tabular*":    {kind: envTable, modes: inText, args: 2, optArgs: 1},
		"array":       {kind: envMatrix, modes: inMath, args: 1, optArgs: 1},
		"minipage":    {modes: inText, args: 1, optArgs: 1},
	}
	for _, n := range []string{"quote", "quotation", "center", "flushleft", "flushright", "verse", "abstract"} {
		envs[n] = environment{modes: inText}
	}
	for _, n := range []string{
		"math", "displaymath", "equation", "equation*", "eqnarray", "eqnarray*",
		"align", "align*", "gather", "gather*", "multline", "multline*",
	} {
		envs[n] = environment{kind: envMathBody, modes: inText}
	}
	for _, n := range []string{"matrix", "pmatrix", "bmatrix", "Bmatrix", "vmatrix", "Vmatrix", "smallmatrix", "cases", "aligned", "split"} {
		envs[n] = environment{kind: envMatrix, modes: inMath}
	}
	return envs
}

// reservedCommands cannot be redefined.
var reservedCommands = map[string]bool{
	"begin": true, "end": true, "newcommand": true, "renewcommand": true,
	"providecommand": true, "newenvironment": true, "renewenvironment": true,
	"left": true, "right": true, "over": true, "verb": true, "item": true,
	"(": true, ")": true, "[": true, "]": true, "\\": true,
}

// delimiters that may follow \left and \right.
var mathDelimiters = map[string]bool{
	"(": true, ")": true, "[": true, "]": true, "|": true, ".": true, "/": true,
	"<": true, ">": true, `\{`: true, `\}`: true, `\|`: true, `\langle`: true,
	`\rangle`: true, `\lfloor`: true, `\rfloor`: true, `\lceil`: true,
	`\rceil`: true, `\vert`: true, `\Vert`: true, `\lbrace`: true, `\rbrace`: true,
	`\uparrow`: true, `\downarrow`: true, `\backslash`: true, `\lvert`: true,
	`\rvert`: true, `\lVert`: true, `\rVert`: true,
}
