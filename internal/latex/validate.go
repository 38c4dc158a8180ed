// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex validates the TeX subset that appears in bibliography field
// values: text and math mode, commands with arguments, environments, \verb,
// and \newcommand / \newenvironment definitions.
//
// Validate is fail-fast: it reports the first error it finds and stops.
package latex

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type frameKind int

const (
	frameTop frameKind = iota
	frameGroup
	frameMath
	frameEnv
)

// frame is one nesting level: the whole input, a brace group, a math
// span, or an environment body.
type frame struct {
	kind   frameKind
	mode   Mode
	parent *frame

	opener string // math opener: $, $$, \(, \[
	env    string
	spec   environment

	seenItem bool

	// math bookkeeping for the current atom
	expectOperand bool
	subSet        bool
	supSet        bool
	overCount     int
	leftDepth     int
}

func (f *frame) insideEnv() bool {
	for x := f; x != nil; x = x.parent {
		if x.kind == frameEnv {
			return true
		}
	}
	return false
}

type parser struct {
	src  string
	pos  int
	cmds map[string]command
	envs map[string]environment
}

// Validate checks value and returns the first syntax error found, or nil
// when the value parses cleanly.
func Validate(value string) []Error {
	p := &parser{
		src:  value,
		cmds: builtinCommands(),
		envs: builtinEnvironments(),
	}
	err := p.parseList(&frame{kind: frameTop, mode: ModeText})
	if err == nil {
		return nil
	}
	var e Error
	if errors.As(err, &e) {
		return []Error{e}
	}
	return []Error{{Code: UnknownCode, Args: []string{err.Error()}}}
}

func (p *parser) fail(code Code, args ...string) error {
	return Error{Code: code, Args: args, Offset: p.pos}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) skipSpaces() {
	for !p.eof() && isSpaceByte(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) skipComment() {
	for !p.eof() && p.src[p.pos] != '\n' {
		p.pos++
	}
}

// parseList consumes tokens until f's terminator.
func (p *parser) parseList(f *frame) error {
	for {
		if p.eof() {
			return p.atEOF(f)
		}
		c := p.src[p.pos]

		if isSpaceByte(c) {
			p.pos++
			continue
		}
		if c == '%' {
			p.skipComment()
			continue
		}

		if f.kind == frameEnv && f.spec.kind == envList && !f.seenItem && !p.atItemOrEnd() {
			return p.fail(EnvContentBeforeItem)
		}

		switch c {
		case '{':
			p.atom(f)
			p.pos++
			if err := p.parseList(&frame{kind: frameGroup, mode: f.mode, parent: f}); err != nil {
				return err
			}
		case '}':
			if f.kind != frameGroup {
				return p.fail(TokUnexpectedCloseBrace)
			}
			if err := p.closeMath(f); err != nil {
				return err
			}
			p.pos++
			return nil
		case '$':
			done, err := p.dollar(f)
			if err != nil || done {
				return err
			}
		case '^', '_':
			if err := p.script(f, c); err != nil {
				return err
			}
		case '&':
			if f.mode == ModeMath && f.expectOperand {
				return p.fail(MathTrailingScript)
			}
			p.pos++
		case '\\':
			done, err := p.command(f)
			if err != nil || done {
				return err
			}
		default:
			p.atom(f)
			_, size := utf8.DecodeRuneInString(p.src[p.pos:])
			p.pos += size
		}
	}
}

func (p *parser) atEOF(f *frame) error {
	switch f.kind {
	case frameGroup:
		return p.fail(TokUnclosedGroup, "}")
	case frameMath:
		return p.fail(MathUnclosed, f.opener, closerFor(f.opener))
	case frameEnv:
		return p.fail(EnvStillOpen, f.env)
	}
	return nil
}

// atom records the start of a new math atom in f.
func (p *parser) atom(f *frame) {
	if f.mode != ModeMath {
		return
	}
	if f.expectOperand {
		f.expectOperand = false
		return
	}
	f.subSet, f.supSet = false, false
}

// closeMath runs the checks that apply when a math-mode frame ends.
func (p *parser) closeMath(f *frame) error {
	if f.mode != ModeMath {
		return nil
	}
	if f.expectOperand {
		return p.fail(MathTrailingScript)
	}
	if f.leftDepth > 0 {
		return p.fail(MathLeftNoRight)
	}
	return nil
}

func (p *parser) script(f *frame, c byte) error {
	if f.mode != ModeMath {
		return p.fail(MathScriptInText)
	}
	if f.expectOperand {
		return p.fail(MathDoubleScript)
	}
	if c == '_' {
		if f.subSet {
			return p.fail(MathDoubleScript)
		}
		f.subSet = true
	} else {
		if f.supSet {
			return p.fail(MathDoubleScript)
		}
		f.supSet = true
	}
	f.expectOperand = true
	p.pos++
	return nil
}

// dollar handles $ and $$. It reports done when f was closed.
func (p *parser) dollar(f *frame) (bool, error) {
	double := p.peekAt(1) == '$'
	if f.mode == ModeText {
		opener := "$"
		if double {
			opener = "$$"
		}
		p.atom(f)
		p.pos += len(opener)
		return false, p.parseList(&frame{kind: frameMath, mode: ModeMath, opener: opener, parent: f})
	}

	if f.kind != frameMath {
		return false, p.fail(MathDollarInMath)
	}
	switch f.opener {
	case "$":
		if double {
			return false, p.fail(MathDollarEnded)
		}
	case "$$":
		if !double {
			return false, p.fail(MathDollarInMath)
		}
	default:
		return false, p.fail(MathDollarInMath)
	}
	if err := p.closeMath(f); err != nil {
		return false, err
	}
	p.pos += len(f.opener)
	return true, nil
}

func closerFor(opener string) string {
	switch opener {
	case `\(`:
		return `\)`
	case `\[`:
		return `\]`
	}
	return opener
}

// readName reads a control-sequence name after the backslash.
func (p *parser) readName() string {
	start := p.pos
	for !p.eof() && isLetter(p.src[p.pos]) {
		p.pos++
	}
	if p.pos > start {
		return p.src[start:p.pos]
	}
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	if unicode.IsSpace(r) {
		return " "
	}
	return string(r)
}

// command handles a control sequence. It reports done when it closed f.
func (p *parser) command(f *frame) (bool, error) {
	p.pos++
	if p.eof() {
		return false, p.fail(TokNothingAfterBackslash)
	}
	name := p.readName()
	if p.peek() == '*' {
		if _, ok := p.cmds[name+"*"]; ok {
			name += "*"
			p.pos++
		}
	}

	cmd, ok := p.cmds[name]
	if !ok {
		return false, p.fail(CmdUndefined, name)
	}

	switch cmd.kind {
	case cmdMathOpen:
		if f.mode == ModeMath {
			return false, p.fail(MathAlreadyInMath)
		}
		p.atom(f)
		return false, p.parseList(&frame{kind: frameMath, mode: ModeMath, opener: `\` + name, parent: f})
	case cmdMathClose:
		closer := `\` + name
		if f.kind != frameMath || closerFor(f.opener) != closer {
			return false, p.fail(TokMathCloserNoOpener, closer)
		}
		return true, p.closeMath(f)
	case cmdEnd:
		return p.end(f)
	}

	if !cmd.modes.allows(f.mode) {
		return false, p.fail(CmdWrongMode, name, f.mode.String())
	}

	switch cmd.kind {
	case cmdVerb:
		return false, p.verb()
	case cmdAccent:
		p.accent()
		return false, nil
	case cmdBegin:
		return false, p.begin(f)
	case cmdLeft:
		p.atom(f)
		if err := p.delimiter("left"); err != nil {
			return false, err
		}
		f.leftDepth++
		return false, nil
	case cmdRight:
		if f.leftDepth == 0 {
			return false, p.fail(MathRightNoLeft)
		}
		if err := p.delimiter("right"); err != nil {
			return false, err
		}
		f.leftDepth--
		return false, nil
	case cmdOver:
		f.overCount++
		if f.overCount > 1 {
			return false, p.fail(MathMultipleOver)
		}
		f.subSet, f.supSet = false, false
		return false, nil
	case cmdItem:
		if f.kind != frameEnv || f.spec.kind != envList {
			return false, p.fail(EnvItemOutsideList)
		}
		f.seenItem = true
		p.skipSpaces()
		if p.peek() == '[' {
			if _, ok := p.readBalanced('[', ']'); !ok {
				return false, p.fail(TokUnclosedGroup, "]")
			}
		}
		return false, nil
	case cmdDefine:
		return false, p.defineCommand(name)
	case cmdDefineEnv:
		return false, p.defineEnvironment(name)
	}

	if name == `\` && f.mode == ModeMath && f.expectOperand {
		return false, p.fail(MathTrailingScript)
	}
	p.atom(f)
	return false, p.arguments(f, name, cmd)
}

// arguments parses the optional and required arguments of a plain command.
func (p *parser) arguments(f *frame, name string, cmd command) error {
	for i := 0; i < cmd.optArgs; i++ {
		p.skipSpaces()
		if p.peek() != '[' {
			break
		}
		if _, ok := p.readBalanced('[', ']'); !ok {
			return p.fail(TokUnclosedGroup, "]")
		}
	}

	mode := f.mode
	if cmd.setsArg {
		mode = cmd.argMode
	}
	for i := 1; i <= cmd.args; i++ {
		p.skipSpaces()
		if p.eof() || p.peek() == '}' {
			return p.fail(CmdMissingArgument, name, strconv.Itoa(i))
		}
		switch p.peek() {
		case '{':
			p.pos++
			if err := p.parseList(&frame{kind: frameGroup, mode: mode, parent: f}); err != nil {
				return err
			}
		case '\\':
			if _, err := p.command(f); err != nil {
				return err
			}
		default:
			_, size := utf8.DecodeRuneInString(p.src[p.pos:])
			p.pos += size
		}
	}
	return nil
}

func (p *parser) verb() error {
	if p.peek() == '*' {
		p.pos++
	}
	if p.eof() || isSpaceByte(p.peek()) {
		return p.fail(TokVerbDelimiter)
	}
	delim, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += size
		if r == delim {
			return nil
		}
		if r == '\n' {
			break
		}
	}
	return p.fail(TokVerbUnterminated)
}

// accent consumes an optional target: a letter, or leaves a following brace
// group or command to the main loop.
func (p *parser) accent() {
	if !p.eof() && isLetter(p.peek()) {
		p.pos++
		return
	}
	if !p.eof() && p.peek() >= utf8.RuneSelf {
		_, size := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += size
	}
}

func (p *parser) delimiter(which string) error {
	p.skipSpaces()
	if p.eof() {
		return p.fail(MathBadDelimiter, which)
	}
	var tok string
	if p.peek() == '\\' {
		start := p.pos
		p.pos++
		if p.eof() {
			return p.fail(TokNothingAfterBackslash)
		}
		p.readName()
		tok = p.src[start:p.pos]
	} else {
		_, size := utf8.DecodeRuneInString(p.src[p.pos:])
		tok = p.src[p.pos : p.pos+size]
		p.pos += size
	}
	if !mathDelimiters[tok] {
		return p.fail(MathBadDelimiter, which)
	}
	return nil
}

// envName reads "{name}" after \begin or \end.
func (p *parser) envName() (string, bool) {
	if p.peek() != '{' {
		return "", false
	}
	start := p.pos + 1
	i := start
	for i < len(p.src) && (isLetter(p.src[i]) || p.src[i] == '*') {
		i++
	}
	if i == start || i >= len(p.src) || p.src[i] != '}' {
		return "", false
	}
	p.pos = i + 1
	return p.src[start:i], true
}

func (p *parser) begin(f *frame) error {
	name, ok := p.envName()
	if !ok {
		return p.fail(EnvBadName)
	}
	spec, ok := p.envs[name]
	if !ok {
		return p.fail(EnvUndefined, name)
	}
	if !spec.modes.allows(f.mode) {
		return p.fail(EnvWrongMode, name, f.mode.String())
	}

	for i := 0; i < spec.optArgs; i++ {
		p.skipSpaces()
		if p.peek() != '[' {
			break
		}
		if _, ok := p.readBalanced('[', ']'); !ok {
			return p.fail(TokUnclosedGroup, "]")
		}
	}
	for i := 1; i <= spec.args; i++ {
		p.skipSpaces()
		if p.peek() != '{' {
			return p.fail(EnvMissingArgument, name, strconv.Itoa(i))
		}
		if _, ok := p.readBalanced('{', '}'); !ok {
			return p.fail(TokUnclosedGroup, "}")
		}
	}

	mode := ModeText
	if spec.kind == envMathBody || spec.kind == envMatrix {
		mode = ModeMath
	}
	p.atom(f)
	return p.parseList(&frame{kind: frameEnv, mode: mode, env: name, spec: spec, parent: f})
}

// end handles \end{name}. It reports done when it closed f.
func (p *parser) end(f *frame) (bool, error) {
	name, ok := p.envName()
	if !ok {
		return false, p.fail(EnvBadName)
	}
	if !f.insideEnv() {
		return false, p.fail(EnvUnexpectedEnd)
	}
	switch f.kind {
	case frameEnv:
		if name != f.env {
			return false, p.fail(EnvEndMismatch, name, f.env)
		}
		return true, p.closeMath(f)
	case frameMath:
		return false, p.fail(MathUnclosed, f.opener, closerFor(f.opener))
	default:
		return false, p.fail(TokUnclosedGroup, "}")
	}
}

// atItemOrEnd reports whether the input continues with \item or \end.
func (p *parser) atItemOrEnd() bool {
	rest := p.src[p.pos:]
	for _, kw := range []string{`\item`, `\end`} {
		if strings.HasPrefix(rest, kw) && (len(rest) == len(kw) || !isLetter(rest[len(kw)])) {
			return true
		}
	}
	return false
}

// readBalanced consumes an open...close span starting at the current
// position and returns its inner text. Escaped delimiters do not count.
func (p *parser) readBalanced(open, close byte) (string, bool) {
	if p.peek() != open {
		return "", false
	}
	start := p.pos + 1
	depth := 0
	for i := p.pos; i < len(p.src); i++ {
		switch p.src[i] {
		case '\\':
			i++
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				p.pos = i + 1
				return p.src[start:i], true
			}
		}
	}
	p.pos = len(p.src)
	return "", false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
