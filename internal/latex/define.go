// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"strconv"
	"strings"
)

// defineCommand parses the rest of \newcommand, \renewcommand or
// \providecommand and registers the new command.
func (p *parser) defineCommand(kind string) error {
	p.skipSpaces()
	if p.eof() {
		return p.fail(DefNameMissing)
	}

	var name string
	switch p.peek() {
	case '{':
		p.pos++
		p.skipSpaces()
		if p.eof() {
			return p.fail(DefNameMissing)
		}
		if p.peek() != '\\' {
			return p.fail(DefNameNoBackslash)
		}
		p.pos++
		if p.eof() {
			return p.fail(DefNameMissing)
		}
		name = p.readName()
		p.skipSpaces()
		if p.peek() != '}' {
			return p.fail(DefNameNoCloseBrace)
		}
		p.pos++
	case '\\':
		p.pos++
		if p.eof() {
			return p.fail(DefNameMissing)
		}
		name = p.readName()
	default:
		return p.fail(DefNameNoBackslash)
	}

	if reservedCommands[name] {
		return p.fail(DefReserved, name)
	}
	_, exists := p.cmds[name]
	switch {
	case kind == "newcommand" && exists:
		return p.fail(DefAlreadyDefined, name)
	case kind == "renewcommand" && !exists:
		return p.fail(DefRenewUndefined, name)
	}

	argc, hasDefault, err := p.argumentCount(name)
	if err != nil {
		return err
	}

	p.skipSpaces()
	if p.eof() {
		return p.fail(DefNoBody, name)
	}
	body, err := p.definitionBody()
	if err != nil {
		return err
	}
	if n, ok := highestPlaceholder(body); ok && n > argc {
		return p.fail(DefArgOutOfRange, name, strconv.Itoa(n), strconv.Itoa(argc))
	}

	if kind == "providecommand" && exists {
		return nil
	}
	cmd := command{modes: inBoth, args: argc}
	if hasDefault {
		cmd.args--
		cmd.optArgs = 1
	}
	p.cmds[name] = cmd
	return nil
}

// defineEnvironment parses the rest of \newenvironment or
// \renewenvironment and registers the environment.
func (p *parser) defineEnvironment(kind string) error {
	p.skipSpaces()
	name, ok := p.envName()
	if !ok {
		return p.fail(DefEnvNameMissing)
	}

	_, exists := p.envs[name]
	switch {
	case kind == "newenvironment" && exists:
		return p.fail(DefEnvAlreadyDefined, name)
	case kind == "renewenvironment" && !exists:
		return p.fail(DefEnvRenewUndefined, name)
	}

	argc, hasDefault, err := p.argumentCount(name)
	if err != nil {
		return err
	}

	p.skipSpaces()
	if p.peek() != '{' {
		return p.fail(DefEnvPartMissing, "begin", name)
	}
	beginBody, ok := p.readBalanced('{', '}')
	if !ok {
		return p.fail(DefUnterminated)
	}
	if n, ok := highestPlaceholder(beginBody); ok && n > argc {
		return p.fail(DefEnvBeginArgRange, name, strconv.Itoa(n), strconv.Itoa(argc))
	}

	p.skipSpaces()
	if p.peek() != '{' {
		return p.fail(DefEnvPartMissing, "end", name)
	}
	endBody, ok := p.readBalanced('{', '}')
	if !ok {
		return p.fail(DefUnterminated)
	}
	if n, ok := highestPlaceholder(endBody); ok {
		return p.fail(DefEnvEndArgument, name, strconv.Itoa(n))
	}

	env := environment{modes: inBoth, args: argc}
	if hasDefault {
		env.args--
		env.optArgs = 1
	}
	p.envs[name] = env
	return nil
}

// argumentCount parses the optional "[n]" and "[default]" that follow a
// definition name.
func (p *parser) argumentCount(name string) (int, bool, error) {
	p.skipSpaces()
	if p.peek() != '[' {
		return 0, false, nil
	}
	spec, ok := p.readBalanced('[', ']')
	if !ok {
		return 0, false, p.fail(DefArgCountUnclosed)
	}
	spec = strings.TrimSpace(spec)
	n, err := strconv.Atoi(spec)
	if err != nil || n < 1 || n > 9 {
		return 0, false, p.fail(DefBadArgCount, name, spec)
	}

	p.skipSpaces()
	if p.peek() != '[' {
		return n, false, nil
	}
	if _, ok := p.readBalanced('[', ']'); !ok {
		return 0, false, p.fail(DefUnterminated)
	}
	return n, true, nil
}

// definitionBody reads a braced body or a single token.
func (p *parser) definitionBody() (string, error) {
	if p.peek() == '{' {
		body, ok := p.readBalanced('{', '}')
		if !ok {
			return "", p.fail(DefUnterminated)
		}
		return body, nil
	}
	start := p.pos
	if p.peek() == '\\' {
		p.pos++
		if p.eof() {
			return "", p.fail(TokNothingAfterBackslash)
		}
		p.readName()
	} else {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

// highestPlaceholder returns the largest #n in body. "##" is an escaped
// hash and does not count.
func highestPlaceholder(body string) (int, bool) {
	highest, found := 0, false
	for i := 0; i < len(body)-1; i++ {
		if body[i] != '#' {
			continue
		}
		next := body[i+1]
		if next == '#' {
			i++
			continue
		}
		if next >= '1' && next <= '9' {
			if d := int(next - '0'); d > highest {
				highest = d
			}
			found = true
		}
	}
	return highest, found
}
