package parser

import (
	"fmt"
	"martianoff/staticify/internal/tree"
	"martianoff/staticify/staticerr"
	"unicode"

	"github.com/antlr4-go/antlr/v4"
)

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
}

var literalWords = map[string]bool{"true": true, "false": true, "null": true}

// Longest operators first.
var operators = []string{
	">>>=", "<<=", ">>=", ">>>", "...", "->", "::", "++", "--", "&&", "||",
	"==", "!=", "<=", ">=", "+=", "-=", "*=", "/=", "&=", "|=", "^=", "%=",
	"<<", ">>",
}

// lexer splits Java source into tokens. Whitespace and comments are attached
// to the following token as its prefix.
type lexer struct {
	input  antlr.CharStream
	line   int
	column int
}

func newLexer(src string) *lexer {
	return &lexer{input: antlr.NewInputStream(src), line: 1, column: 1}
}

func (l *lexer) peek(k int) rune {
	c := l.input.LA(k)
	if c == antlr.TokenEOF {
		return -1
	}
	return rune(c)
}

func (l *lexer) advance() rune {
	c := l.peek(1)
	if c < 0 {
		return c
	}
	l.input.Consume()
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return c
}

func (l *lexer) textFrom(start int) string {
	if l.input.Index() <= start {
		return ""
	}
	return l.input.GetText(start, l.input.Index()-1)
}

func (l *lexer) tokenize() ([]tree.Token, error) {
	var toks []tree.Token
	for {
		prefixStart := l.input.Index()
		if err := l.skipTrivia(); err != nil {
			return nil, err
		}
		prefix := l.textFrom(prefixStart)

		line, col := l.line, l.column
		start := l.input.Index()
		c := l.peek(1)
		if c < 0 {
			toks = append(toks, tree.Token{Kind: tree.EOF, Prefix: prefix, Line: line, Column: col})
			return toks, nil
		}

		var kind tree.TokenKind
		switch {
		case isIdentStart(c):
			for isIdentPart(l.peek(1)) {
				l.advance()
			}
			kind = tree.Identifier
		case unicode.IsDigit(c) || (c == '.' && unicode.IsDigit(l.peek(2))):
			l.scanNumber()
			kind = tree.Literal
		case c == '"':
			if err := l.scanString(line, col); err != nil {
				return nil, err
			}
			kind = tree.Literal
		case c == '\'':
			if err := l.scanChar(line, col); err != nil {
				return nil, err
			}
			kind = tree.Literal
		default:
			l.scanOperator()
			kind = tree.Operator
		}

		text := l.textFrom(start)
		if kind == tree.Identifier {
			switch {
			case keywords[text]:
				kind = tree.Keyword
			case literalWords[text]:
				kind = tree.Literal
			}
		}
		toks = append(toks, tree.Token{Kind: kind, Prefix: prefix, Text: text, Line: line, Column: col})
	}
}

func (l *lexer) skipTrivia() error {
	for {
		c := l.peek(1)
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			l.advance()
		case c == '/' && l.peek(2) == '/':
			for c := l.peek(1); c >= 0 && c != '\n'; c = l.peek(1) {
				l.advance()
			}
		case c == '/' && l.peek(2) == '*':
			line, col := l.line, l.column
			l.advance()
			l.advance()
			for {
				if l.peek(1) < 0 {
					return staticerr.NewSyntaxError(line, col, "unterminated comment")
				}
				if l.peek(1) == '*' && l.peek(2) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
}

func (l *lexer) scanNumber() {
	for {
		c := l.peek(1)
		switch {
		case isIdentPart(c) || c == '.':
			l.advance()
			if (c == 'e' || c == 'E' || c == 'p' || c == 'P') && (l.peek(1) == '+' || l.peek(1) == '-') {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) scanString(line, col int) error {
	if l.peek(2) == '"' && l.peek(3) == '"' {
		l.advance()
		l.advance()
		l.advance()
		for {
			switch c := l.advance(); {
			case c < 0:
				return staticerr.NewSyntaxError(line, col, "unterminated text block")
			case c == '\\':
				l.advance()
			case c == '"' && l.peek(1) == '"' && l.peek(2) == '"':
				l.advance()
				l.advance()
				return nil
			}
		}
	}
	l.advance()
	for {
		switch c := l.advance(); {
		case c < 0 || c == '\n':
			return staticerr.NewSyntaxError(line, col, "unterminated string literal")
		case c == '\\':
			l.advance()
		case c == '"':
			return nil
		}
	}
}

func (l *lexer) scanChar(line, col int) error {
	l.advance()
	for {
		switch c := l.advance(); {
		case c < 0 || c == '\n':
			return staticerr.NewSyntaxError(line, col, "unterminated character literal")
		case c == '\\':
			l.advance()
		case c == '\'':
			return nil
		}
	}
}

func (l *lexer) scanOperator() {
	for _, op := range operators {
		if l.lookingAt(op) {
			for range op {
				l.advance()
			}
			return
		}
	}
	l.advance()
}

func (l *lexer) lookingAt(s string) bool {
	for i, r := range []rune(s) {
		if l.peek(i+1) != r {
			return false
		}
	}
	return true
}

func isIdentStart(c rune) bool {
	return c == '_' || c == '$' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return c >= 0 && (isIdentStart(c) || unicode.IsDigit(c))
}

func describe(tok tree.Token) string {
	if tok.Kind == tree.EOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", tok.Text)
}
