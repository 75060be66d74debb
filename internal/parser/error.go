package parser

import (
	"fmt"

	"lumen/internal/lexer"
	"lumen/internal/source"
)

// ParseError reports a syntax error found while parsing, rendered the same
// way internal/diag renders a compile error: a caret under the offending
// token in its source line.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// errorf records tok's position and panics with a *ParseError, unwound by
// ParseProgram's recover.
func (p *Parser) errorf(tok lexer.Token, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r := source.Range{Begin: tok.Begin, End: tok.End}
	panic(&ParseError{Offset: tok.Begin, Message: p.file.Format(r, msg)})
}
