package mermaid

import (
	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/zerr"
)

// Parser consumes the token sequence into a Diagram AST.
type Parser struct {
	tokens []Token
	pos    int
}

// Parse tokenizes and parses diagram source text.
func Parse(src string) (*Diagram, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already lexed token sequence.
func ParseTokens(tokens []Token) (*Diagram, error) {
	p := &Parser{tokens: tokens}
	return p.parseDiagram()
}

func (p *Parser) parseDiagram() (*Diagram, error) {
	p.skipNewlines()

	kw, err := p.expect(TokenKeyword, "flowchart or graph")
	if err != nil {
		return nil, err
	}
	if kw.Text != "flowchart" && kw.Text != "graph" {
		return nil, p.errorAt(kw, "flowchart or graph")
	}
	dir, err := p.expect(TokenIdent, "direction")
	if err != nil {
		return nil, err
	}

	d := &Diagram{Keyword: kw.Text, Direction: dir.Text}
	for {
		p.skipNewlines()
		if p.peek().Kind == TokenEOF {
			return d, nil
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		d.Statements = append(d.Statements, stmt)
	}
}

func (p *Parser) parseStatement() (Statement, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenComment:
		p.pos++
		return Comment{Text: tok.Text, Line: tok.Line}, nil
	case TokenInit:
		p.pos++
		return InitBlock{Content: tok.Text, Line: tok.Line}, nil
	case TokenKeyword:
		switch tok.Text {
		case "classDef":
			return p.parseClassDef()
		case "class":
			return p.parseClassAssign()
		}
		return nil, p.errorAt(tok, "classDef or class")
	case TokenIdent:
		return p.parseNodeOrEdge()
	default:
		return nil, p.errorAt(tok, "statement")
	}
}

// parseNodeOrEdge disambiguates by lookahead: an identifier followed by an
// arrow is an edge, anything else is a node declaration.
func (p *Parser) parseNodeOrEdge() (Statement, error) {
	id := p.tokens[p.pos]
	p.pos++

	if p.peek().Kind == TokenArrow {
		p.pos++
		label := ""
		if p.peek().Kind == TokenEdgeLabel {
			label = p.peek().Text
			p.pos++
		}
		to, err := p.expect(TokenIdent, "target node id")
		if err != nil {
			return nil, err
		}
		return Edge{From: id.Text, To: to.Text, Label: label, Line: id.Line}, nil
	}

	decl := NodeDecl{ID: id.Text, Shape: domain.ShapeNone, Line: id.Line}
	if p.peek().Kind == TokenContent {
		decl.Shape = p.peek().Shape
		decl.Label = p.peek().Text
		p.pos++
	}
	return decl, nil
}

func (p *Parser) parseClassDef() (Statement, error) {
	kw := p.tokens[p.pos]
	p.pos++
	name, err := p.expect(TokenIdent, "class name")
	if err != nil {
		return nil, err
	}
	css, err := p.expect(TokenStyleContent, "style properties")
	if err != nil {
		return nil, err
	}
	return ClassDef{Name: name.Text, CSS: css.Text, Line: kw.Line}, nil
}

func (p *Parser) parseClassAssign() (Statement, error) {
	kw := p.tokens[p.pos]
	p.pos++

	var ids []string
	for {
		id, err := p.expect(TokenIdent, "node id")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id.Text)
		if p.peek().Kind != TokenComma {
			break
		}
		p.pos++
	}
	name, err := p.expect(TokenIdent, "class name")
	if err != nil {
		return nil, err
	}
	return ClassAssign{Nodes: ids, Class: name.Text, Line: kw.Line}, nil
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) expect(kind TokenKind, what string) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return Token{}, p.errorAt(tok, what)
	}
	p.pos++
	return tok, nil
}

func (p *Parser) errorAt(tok Token, expected string) error {
	return zerr.With(zerr.With(zerr.With(
		zerr.Wrap(domain.ErrParse, "unexpected token"),
		"got", tok.Text), "expected", expected), "line", tok.Line)
}

func (p *Parser) skipNewlines() {
	for p.peek().Kind == TokenNewline {
		p.pos++
	}
}
