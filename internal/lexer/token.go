// Package lexer turns UTF-8 source text into a flat token stream for
// internal/parser, grounded on the teacher's pkg/compiler/lexer.go
// hand-written scanner shape (no external lexer generator), retargeted to
// this language's grammar: `fn`/`let`/`mutable` declarations, the builtin
// scalar keywords of internal/types, and the operator set internal/ast's
// BinOpKind/UnaryOpKind/AssignOpKind enumerate.
package lexer

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota

	IDENT
	INT
	STRING
	CHAR

	// Keywords
	FN
	LET
	MUTABLE
	RETURN
	IF
	ELSE
	WHILE
	FOR
	LOOP
	BREAK
	CONTINUE
	TRUE
	FALSE
	STRUCT
	UNION
	EXTERN

	// Builtin type keywords
	KwVoid
	KwI8
	KwI16
	KwI32
	KwI64
	KwU8
	KwU16
	KwU32
	KwU64
	KwBool
	KwChar
	KwF32
	KwF64
	KwISize
	KwUSize

	// Delimiters
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET

	// Punctuation
	COMMA
	SEMICOLON
	COLON
	COLON_ASSIGN // :=
	ARROW        // ->
	ELLIPSIS     // ...

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AMP
	NOT

	PLUS_PLUS
	MINUS_MINUS

	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN

	EQ
	NE
	LT
	LE
	GT
	GE
)

var keywords = map[string]TokenType{
	"fn": FN, "let": LET, "mutable": MUTABLE, "return": RETURN,
	"if": IF, "else": ELSE, "while": WHILE, "for": FOR, "loop": LOOP,
	"break": BREAK, "continue": CONTINUE, "true": TRUE, "false": FALSE,
	"struct": STRUCT, "union": UNION, "extern": EXTERN,
	"void": KwVoid, "i8": KwI8, "i16": KwI16, "i32": KwI32, "i64": KwI64,
	"u8": KwU8, "u16": KwU16, "u32": KwU32, "u64": KwU64,
	"bool": KwBool, "char": KwChar, "f32": KwF32, "f64": KwF64,
	"isize": KwISize, "usize": KwUSize,
}

var tokenNames = map[TokenType]string{
	EOF: "EOF", IDENT: "IDENT", INT: "INT", STRING: "STRING", CHAR: "CHAR",
	FN: "fn", LET: "let", MUTABLE: "mutable", RETURN: "return",
	IF: "if", ELSE: "else", WHILE: "while", FOR: "for", LOOP: "loop",
	BREAK: "break", CONTINUE: "continue", TRUE: "true", FALSE: "false",
	STRUCT: "struct", UNION: "union", EXTERN: "extern",
	LBRACE: "{", RBRACE: "}", LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]",
	COMMA: ",", SEMICOLON: ";", COLON: ":", COLON_ASSIGN: ":=", ARROW: "->", ELLIPSIS: "...",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", AMP: "&", NOT: "!",
	PLUS_PLUS: "++", MINUS_MINUS: "--",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=",
	SLASH_ASSIGN: "/=", PERCENT_ASSIGN: "%=",
	EQ: "==", NE: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=",
}

func (tt TokenType) String() string {
	if n, ok := tokenNames[tt]; ok {
		return n
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit, carrying the byte range it was scanned
// from so the parser can tag every AST node for diagnostics.
type Token struct {
	Type   TokenType
	Lexeme string
	Begin  int
	End    int
}

func (t Token) String() string {
	return fmt.Sprintf("%-12s %q", t.Type, t.Lexeme)
}
