// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"fmt"
	"strconv"
	"strings"
)

// Code identifies a kind of TeX syntax error.
type Code uint16

const (
	UnknownCode Code = 0

	// Tokenisation
	TokUnclosedGroup         Code = 1000
	TokNothingAfterBackslash Code = 1001
	TokMathCloserNoOpener    Code = 1002
	TokUnexpectedCloseBrace  Code = 1003
	TokVerbDelimiter         Code = 1004
	TokVerbUnterminated      Code = 1005

	// Math mode
	MathAlreadyInMath  Code = 2000
	MathDollarEnded    Code = 2001
	MathUnclosed       Code = 2002
	MathScriptInText   Code = 2003
	MathDollarInMath   Code = 2004
	MathMultipleOver   Code = 2005
	MathTrailingScript Code = 2006
	MathDoubleScript   Code = 2007
	MathRightNoLeft    Code = 2008
	MathLeftNoRight    Code = 2009
	MathBadDelimiter   Code = 2010

	// Commands
	CmdUndefined       Code = 3000
	CmdWrongMode       Code = 3001
	CmdMissingArgument Code = 3002

	// Environments
	EnvEndMismatch       Code = 4000
	EnvBadName           Code = 4001
	EnvUndefined         Code = 4002
	EnvWrongMode         Code = 4003
	EnvStillOpen         Code = 4004
	EnvUnexpectedEnd     Code = 4005
	EnvMissingArgument   Code = 4006
	EnvContentBeforeItem Code = 4007
	EnvItemOutsideList   Code = 4008

	// User definitions
	DefNameMissing       Code = 5000
	DefNameNoBackslash   Code = 5001
	DefUnterminated      Code = 5002
	DefNoBody            Code = 5003
	DefRenewUndefined    Code = 5004
	DefAlreadyDefined    Code = 5005
	DefNameNoCloseBrace  Code = 5006
	DefBadArgCount       Code = 5007
	DefReserved          Code = 5008
	DefArgCountUnclosed  Code = 5009
	DefArgOutOfRange     Code = 5010
	DefEnvNameMissing    Code = 5011
	DefEnvPartMissing    Code = 5012
	DefEnvRenewUndefined Code = 5013
	DefEnvAlreadyDefined Code = 5014
	DefEnvBeginArgRange  Code = 5015
	DefEnvEndArgument    Code = 5016
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown TeX error",

	TokUnclosedGroup:         `Input ended before required terminator "{0}" was found`,
	TokNothingAfterBackslash: `Nothing follows \`,
	TokMathCloserNoOpener:    "Delimiter {0} closes math mode but no matching opener was found",
	TokUnexpectedCloseBrace:  "Found } without a matching {",
	TokVerbDelimiter:         `\verb must be followed by a non-whitespace delimiter character`,
	TokVerbUnterminated:      `Line ended before the end delimiter of \verb was found`,

	MathAlreadyInMath:  `Already in math mode, cannot use \( or \[`,
	MathDollarEnded:    "$ was ended by $$",
	MathUnclosed:       "Math mode opened by {0} but matching {1} was never found",
	MathScriptInText:   "Superscript (^) and subscript (_) characters are not allowed in text mode",
	MathDollarInMath:   "$ characters cannot be used inside math mode",
	MathMultipleOver:   `Ambiguous multiple use of \over at current level`,
	MathTrailingScript: "Trailing subscript or superscript token",
	MathDoubleScript:   "Double subscript or superscript is ambiguous, use curly brackets",
	MathRightNoLeft:    `\right had no preceding \left`,
	MathLeftNoRight:    `\left had no following \right`,
	MathBadDelimiter:   `\{0} must be followed by a delimiter`,

	CmdUndefined:       `Undefined command \{0}`,
	CmdWrongMode:       `Command \{0} cannot be used in {1} mode`,
	CmdMissingArgument: `Command \{0} is missing required argument #{1}`,

	EnvEndMismatch:       `Found \end of environment {0} instead of {1}`,
	EnvBadName:           "Expected a valid environment name enclosed in braces without whitespace",
	EnvUndefined:         "Undefined environment {0}",
	EnvWrongMode:         "Environment {0} cannot be used in {1} mode",
	EnvStillOpen:         "Environment {0} was still open at end of input",
	EnvUnexpectedEnd:     `Unexpected \end, no environment is currently open`,
	EnvMissingArgument:   "Environment {0} is missing required argument #{1}",
	EnvContentBeforeItem: `Found content before first \item`,
	EnvItemOutsideList:   `\item can only be used inside a list environment`,

	DefNameMissing:       "Input ended before name of new command was found",
	DefNameNoBackslash:   `Name of new command must be preceded by \`,
	DefUnterminated:      "Input ended before end of new command definition",
	DefNoBody:            "No definition provided for new command {0}",
	DefRenewUndefined:    `Command \{0} has not been defined so cannot be renewed`,
	DefAlreadyDefined:    `Command \{0} already exists, use \renewcommand to redefine it`,
	DefNameNoCloseBrace:  "No } found after new command name",
	DefBadArgCount:       "Number of arguments in definition of {0} must be an integer between 1 and 9, not {1}",
	DefReserved:          "Reserved command {0} cannot be redefined",
	DefArgCountUnclosed:  "Input ended before end of argument count specification",
	DefArgOutOfRange:     "Definition of command {0} refers to argument #{1} but only {2} have been declared",
	DefEnvNameMissing:    "Expected to read name of new environment enclosed in braces",
	DefEnvPartMissing:    "No {0} definition provided for new environment {1}",
	DefEnvRenewUndefined: "Environment {0} has not been defined so cannot be renewed",
	DefEnvAlreadyDefined: `Environment {0} already exists, use \renewenvironment to redefine it`,
	DefEnvBeginArgRange:  "Definition of begin of environment {0} refers to argument #{1} but only {2} have been declared",
	DefEnvEndArgument:    "Definition of end of environment {0} refers to argument #{1} but arguments may not be used here",
}

// ID returns the stable identifier of c, e.g. "CMD3000".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("TOK%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("MTH%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("CMD%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("ENV%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DEF%04d", ic)
	}
	return "TEX0000"
}

// Title returns the message template of c with {n} placeholders.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Error is one syntax error found by Validate.
type Error struct {
	Code   Code
	Args   []string
	Offset int
}

// Message fills the template of e.Code with e.Args.
func (e Error) Message() string {
	msg := e.Code.Title()
	for i, a := range e.Args {
		msg = strings.ReplaceAll(msg, "{"+strconv.Itoa(i)+"}", a)
	}
	return msg
}

// Error renders "<message> (<id>)".
func (e Error) Error() string {
	return FormatMessage(e.Code, e.Args...)
}

// FormatMessage renders the message text for code with args the same way
// Error does.
func FormatMessage(code Code, args ...string) string {
	return Error{Code: code, Args: args}.Message() + " (" + code.ID() + ")"
}
