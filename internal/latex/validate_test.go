// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAccepts(t *testing.T) {
	inputs := []string{
		"Simple Text",
		`\section{X}`,
		`\newline`,
		`\par`,
		`\underline{Underlined}`,
		`\texttt{Monospace}`,
		`\textit{Italic}`,
		"Café",
		"αβγδε",
		`\# \$ \% \& \{ \} \_ \^ \\`,
		`\tiny Tiny Text`,
		`\small Small Text`,
		`\large Large Text`,
		`\verb|Verbatim|`,
		`$\widetilde{i}$`,
		`\ldots`,
		"\\begin{quote}Quoted Text\\end{quote}\n",
		`\begin{center}Centered Text\end{center}`,
		`$x + y = z$`,
		`\(a^2 + b^2 = c^2\)`,
		`\[E = mc^2\]`,
		`\begin{math} V = I \cdot R \end{math}`,
		`\begin{eqnarray} x + y &= z \\ a &= b + c \\ p &= \frac{q}{r} \end{eqnarray}`,
		`\[ \begin{pmatrix} a & b \\ c & d \end{pmatrix} \]`,
		`\[ \begin{bmatrix} x & y & z \\ u & v & w \end{bmatrix} \]`,
		`\begin{tabular}{|c|c|} \hline 1 & 2 \\ 3 & 4 \\ \hline \end{tabular}`,
		`\begin{tabular}{cc} A & B \\ C & D \end{tabular}`,
		`\begin{itemize} \item Item 1 \item Item 2 \item Item 3 \end{itemize}`,
		`\begin{enumerate} \item First \item Second \item Third \end{enumerate}`,
		`First Line \\ Second Line`,
		`Some \hspace{2cm} Space`,
		`\textbf{\emph{Bold and Emphasized Text}} $5-3_k$`,
		`\begin{itemize} \item\begin{quote} \textbf{Quoted} \emph{Text} \end{quote} \end{itemize}`,
		"\\textless{}xml\\textgreater{} \\textbar something \textbackslash",
		"No ampersand at all",
		`Properly escaped \&`,
		`\\\& With multiple backslashes`,
		`In the \& middle of \\\& something`,
		`#einstein# and #newton#`,
		`This is a {T}itle`,
		`Sch{\"o}n and M\"uller`,
		`$x^a_b$`,
		`$\left( \frac{1}{2} \right)$`,
		`50% of everything`,
		`\newcommand{\MyCommand}[1]{#1} \MyCommand{x}`,
		`\newenvironment{boxed}{[}{]} \begin{boxed}x\end{boxed}`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Empty(t, Validate(in))
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		input string
		code  Code
		args  []string
	}{
		{"Unbalanced braces {", TokUnclosedGroup, []string{"}"}},
		{`\`, TokNothingAfterBackslash, nil},
		{`1+1=2\]`, TokMathCloserNoOpener, []string{`\]`}},
		{`Braces inside: $\(1+1\)=2$`, MathAlreadyInMath, nil},
		{`$1+1=2$$`, MathDollarEnded, nil},
		{`$x`, MathUnclosed, []string{"$", "$"}},
		{`_ or ^ Outside Math-Environment`, MathScriptInText, nil},
		{`\$ inside math mode \($1+1=2$\)`, MathDollarInMath, nil},
		{`\verb `, TokVerbDelimiter, nil},
		{`\verb|open`, TokVerbUnterminated, nil},
		{`\undefinedCommand`, CmdUndefined, []string{"undefinedCommand"}},
		{`$\par$`, CmdWrongMode, []string{"par", "MATH"}},
		{`\textbf`, CmdMissingArgument, []string{"textbf", "1"}},
		{`\begin{itemize} \end{align}`, EnvEndMismatch, []string{"align", "itemize"}},
		{`\begin{ align }`, EnvBadName, nil},
		{`\begin{undefinedEnv}`, EnvUndefined, []string{"undefinedEnv"}},
		{`$\begin{itemize}$`, EnvWrongMode, []string{"itemize", "MATH"}},
		{`\begin{itemize}`, EnvStillOpen, []string{"itemize"}},
		{`\end{itemize}`, EnvUnexpectedEnd, nil},
		{`\begin{tabular}\end{tabular}`, EnvMissingArgument, []string{"tabular", "1"}},
		{`\newcommand{\`, DefNameMissing, nil},
		{`\newcommand{MyCommand}`, DefNameNoBackslash, nil},
		{`\newcommand{\MyCommand}{`, DefUnterminated, nil},
		{`\newcommand{\MyCommand}`, DefNoBody, []string{"MyCommand"}},
		{`\newcommand{\MyCommand`, DefNameNoCloseBrace, nil},
		{`\newcommand{\MyCommand}[0]{Text}`, DefBadArgCount, []string{"MyCommand", "0"}},
		{`\renewcommand{\begin}{}`, DefReserved, []string{"begin"}},
		{`\newcommand{\MyCommand}[`, DefArgCountUnclosed, nil},
		{`\newcommand{\MyCommand}[1]{#2}`, DefArgOutOfRange, []string{"MyCommand", "2", "1"}},
		{`\newcommand{\emph}{x}`, DefAlreadyDefined, []string{"emph"}},
		{`\renewcommand{\nothing}{x}`, DefRenewUndefined, []string{"nothing"}},
		{`\newenvironment{}`, DefEnvNameMissing, nil},
		{`\newenvironment{MyEnvironment}`, DefEnvPartMissing, []string{"begin", "MyEnvironment"}},
		{`\newenvironment{MyEnvironment}{#1}{}`, DefEnvBeginArgRange, []string{"MyEnvironment", "1", "0"}},
		{`\newenvironment{MyEnvironment}[1]{#1}{#2}`, DefEnvEndArgument, []string{"MyEnvironment", "2"}},
		{`\begin{itemize}content before first \item{}\end{itemize}`, EnvContentBeforeItem, nil},
		{`$1 \over \over 3$`, MathMultipleOver, nil},
		{`$x_$`, MathTrailingScript, nil},
		{`$x_i_j$`, MathDoubleScript, nil},
		{`$\right)$`, MathRightNoLeft, nil},
		{`$\left($`, MathLeftNoRight, nil},
		{`text } more`, TokUnexpectedCloseBrace, nil},
		{`\item alone`, EnvItemOutsideList, nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			errs := Validate(tt.input)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code, errs[0].Error())
			if tt.args != nil {
				assert.Equal(t, tt.args, errs[0].Args)
			}
		})
	}
}

func TestFormatMessage(t *testing.T) {
	got := FormatMessage(CmdWrongMode, "par", "MATH")
	assert.Equal(t, `Command \par cannot be used in MATH mode (CMD3001)`, got)

	errs := Validate(`\undefinedCommand`)
	require.Len(t, errs, 1)
	assert.Equal(t, `Undefined command \undefinedCommand (CMD3000)`, errs[0].Error())
}

func TestCodeID(t *testing.T) {
	assert.Equal(t, "TOK1000", TokUnclosedGroup.ID())
	assert.Equal(t, "MTH2003", MathScriptInText.ID())
	assert.Equal(t, "ENV4000", EnvEndMismatch.ID())
	assert.Equal(t, "DEF5008", DefReserved.ID())
	assert.Equal(t, "TEX0000", UnknownCode.ID())
}

func TestUserDefinitionsDoNotLeak(t *testing.T) {
	require.Empty(t, Validate(`\newcommand{\foo}{x}\foo`))
	errs := Validate(`\foo`)
	require.Len(t, errs, 1)
	assert.Equal(t, CmdUndefined, errs[0].Code)
}
