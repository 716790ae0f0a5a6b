package mermaid

import (
	"strings"

	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/zerr"
)

// lexMode is the state of the mode-stack automaton. The default mode
// tokenizes structure; a content mode treats everything up to the matching
// closing delimiter as one opaque token.
type lexMode int

const (
	modeDefault lexMode = iota
	modeContent
)

var keywords = map[string]bool{
	"flowchart": true,
	"graph":     true,
	"classDef":  true,
	"class":     true,
}

var closerFor = map[byte]byte{
	'[': ']',
	'(': ')',
	'{': '}',
}

var shapeFor = map[byte]domain.Shape{
	'[': domain.ShapeSquare,
	'(': domain.ShapeRound,
	'{': domain.ShapeCurly,
}

// Lexer tokenizes diagram source text.
type Lexer struct {
	src   string
	pos   int
	line  int
	col   int
	modes []lexMode
}

// Lex tokenizes src and returns the ordered token sequence, ending with a
// TokenEOF. Malformed input yields an error carrying line and column.
func Lex(src string) ([]Token, error) {
	l := &Lexer{src: src, line: 1, col: 1, modes: []lexMode{modeDefault}}
	return l.run()
}

func (l *Lexer) run() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		// Collapse runs of newlines into one statement terminator.
		if tok.Kind == TokenNewline && len(tokens) > 0 && tokens[len(tokens)-1].Kind == TokenNewline {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
		// classDef payload is CSS-ish text that the default mode cannot
		// tokenize: read the class name, then swallow the rest of the
		// line as one opaque style token.
		if tok.Kind == TokenKeyword && tok.Text == "classDef" {
			name, err := l.next()
			if err != nil {
				return nil, err
			}
			if name.Kind != TokenIdent {
				return nil, zerr.With(zerr.With(
					zerr.Wrap(domain.ErrLex, "classDef requires a class name"),
					"line", name.Line), "column", name.Col)
			}
			tokens = append(tokens, name, l.lexStyleRest())
		}
	}
}

func (l *Lexer) next() (Token, error) {
	l.skipBlanks()
	if l.pos >= len(l.src) {
		return l.token(TokenEOF, ""), nil
	}

	c := l.src[l.pos]
	switch {
	case c == '\n':
		tok := l.token(TokenNewline, "\n")
		l.advance(1)
		return tok, nil
	case c == '%' && l.peekPrefix("%%"):
		return l.lexCommentOrInit()
	case c == '[' || c == '(' || c == '{':
		return l.lexContent(TokenContent, c, closerFor[c])
	case c == '|':
		return l.lexEdgeLabel()
	case c == '-':
		return l.lexArrow()
	case c == ',':
		tok := l.token(TokenComma, ",")
		l.advance(1)
		return tok, nil
	case isIdentByte(c):
		return l.lexIdent()
	default:
		return Token{}, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrLex, "unexpected character"),
			"char", string(c)), "line", l.line)
	}
}

// lexIdent reads an identifier and promotes keywords. After the classDef
// keyword and its name, the rest of the line is captured as one opaque
// style-content token since CSS-ish payload does not tokenize in the default
// mode.
func (l *Lexer) lexIdent() (Token, error) {
	start := l.pos
	tok := l.token(TokenIdent, "")
	for l.pos < len(l.src) && isIdentByte(l.src[l.pos]) {
		l.advance(1)
	}
	tok.Text = l.src[start:l.pos]
	if keywords[tok.Text] {
		tok.Kind = TokenKeyword
	}
	return tok, nil
}

// lexStyleRest captures the remainder of the current line as raw style
// content.
func (l *Lexer) lexStyleRest() Token {
	l.skipBlanks()
	start := l.pos
	tok := l.token(TokenStyleContent, "")
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance(1)
	}
	tok.Text = strings.TrimRight(l.src[start:l.pos], " \t")
	return tok
}

// lexContent pushes the content-capturing mode, reads verbatim up to the
// matching closer and pops back. Nested same-kind delimiters inside label
// text are not supported; the first closer ends the capture.
func (l *Lexer) lexContent(kind TokenKind, open, close byte) (Token, error) {
	openLine, openCol := l.line, l.col
	l.modes = append(l.modes, modeContent)
	l.advance(1)

	start := l.pos
	for l.pos < len(l.src) {
		if l.src[l.pos] == close {
			text := l.src[start:l.pos]
			l.advance(1)
			l.modes = l.modes[:len(l.modes)-1]
			return Token{
				Kind:  kind,
				Text:  text,
				Shape: shapeFor[open],
				Line:  openLine,
				Col:   openCol,
			}, nil
		}
		l.advance(1)
	}
	return Token{}, zerr.With(zerr.With(zerr.With(
		zerr.Wrap(domain.ErrLex, "unterminated bracket content"),
		"delimiter", string(open)), "line", openLine), "column", openCol)
}

func (l *Lexer) lexEdgeLabel() (Token, error) {
	openLine, openCol := l.line, l.col
	l.modes = append(l.modes, modeContent)
	l.advance(1)
	start := l.pos
	for l.pos < len(l.src) {
		if l.src[l.pos] == '|' {
			text := l.src[start:l.pos]
			l.advance(1)
			l.modes = l.modes[:len(l.modes)-1]
			return Token{Kind: TokenEdgeLabel, Text: text, Line: openLine, Col: openCol}, nil
		}
		if l.src[l.pos] == '\n' {
			break
		}
		l.advance(1)
	}
	return Token{}, zerr.With(zerr.With(zerr.With(
		zerr.Wrap(domain.ErrLex, "unterminated edge label"),
		"delimiter", "|"), "line", openLine), "column", openCol)
}

func (l *Lexer) lexArrow() (Token, error) {
	if l.peekPrefix("-->") {
		tok := l.token(TokenArrow, "-->")
		l.advance(3)
		return tok, nil
	}
	return Token{}, zerr.With(zerr.With(
		zerr.Wrap(domain.ErrLex, "malformed arrow"),
		"line", l.line), "column", l.col)
}

// lexCommentOrInit reads a %% line comment or a %%{init ...}%% block. Both
// are opaque; they carry no semantic weight.
func (l *Lexer) lexCommentOrInit() (Token, error) {
	openLine, openCol := l.line, l.col
	if l.peekPrefix("%%{") {
		if end := strings.Index(l.src[l.pos:], "}%%"); end >= 0 {
			text := l.src[l.pos : l.pos+end+3]
			l.advance(end + 3)
			return Token{Kind: TokenInit, Text: text, Line: openLine, Col: openCol}, nil
		}
		return Token{}, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrLex, "unterminated init block"),
			"line", openLine), "column", openCol)
	}
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance(1)
	}
	return Token{Kind: TokenComment, Text: l.src[start:l.pos], Line: openLine, Col: openCol}, nil
}

func (l *Lexer) skipBlanks() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c != ' ' && c != '\t' && c != '\r' {
			return
		}
		l.advance(1)
	}
}

func (l *Lexer) advance(n int) {
	for range n {
		if l.pos < len(l.src) && l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) peekPrefix(p string) bool {
	return strings.HasPrefix(l.src[l.pos:], p)
}

func (l *Lexer) token(kind TokenKind, text string) Token {
	return Token{Kind: kind, Text: text, Line: l.line, Col: l.col}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
