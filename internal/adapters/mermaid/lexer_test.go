package mermaid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flo/internal/adapters/mermaid"
	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/zerr"
)

func kinds(tokens []mermaid.Token) []mermaid.TokenKind {
	out := make([]mermaid.TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLex_Statements(t *testing.T) {
	src := "flowchart TD\n    I1[data/score.xml]\n    I1 --> T1\n"
	tokens, err := mermaid.Lex(src)
	require.NoError(t, err)

	assert.Equal(t, []mermaid.TokenKind{
		mermaid.TokenKeyword, mermaid.TokenIdent, mermaid.TokenNewline,
		mermaid.TokenIdent, mermaid.TokenContent, mermaid.TokenNewline,
		mermaid.TokenIdent, mermaid.TokenArrow, mermaid.TokenIdent, mermaid.TokenNewline,
		mermaid.TokenEOF,
	}, kinds(tokens))
	assert.Equal(t, "flowchart", tokens[0].Text)
	assert.Equal(t, "data/score.xml", tokens[4].Text)
	assert.Equal(t, domain.ShapeSquare, tokens[4].Shape)
}

func TestLex_ContentIsOpaque(t *testing.T) {
	// Inside a bracketed label nothing is structural: arrows, pipes and
	// keywords pass through verbatim, whitespace preserved.
	src := "flowchart TD\n    T1{class --> |a| graph  spaced}\n"
	tokens, err := mermaid.Lex(src)
	require.NoError(t, err)

	require.Equal(t, mermaid.TokenContent, tokens[4].Kind)
	assert.Equal(t, "class --> |a| graph  spaced", tokens[4].Text)
	assert.Equal(t, domain.ShapeCurly, tokens[4].Shape)
}

func TestLex_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		shape domain.Shape
	}{
		{name: "square", src: "flowchart TD\nN[x]\n", shape: domain.ShapeSquare},
		{name: "round", src: "flowchart TD\nN(x)\n", shape: domain.ShapeRound},
		{name: "curly", src: "flowchart TD\nN{x}\n", shape: domain.ShapeCurly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := mermaid.Lex(tt.src)
			require.NoError(t, err)
			require.Equal(t, mermaid.TokenContent, tokens[4].Kind)
			assert.Equal(t, tt.shape, tokens[4].Shape)
		})
	}
}

func TestLex_EdgeLabel(t *testing.T) {
	tokens, err := mermaid.Lex("flowchart TD\nA -->|uses| B\n")
	require.NoError(t, err)

	require.Equal(t, mermaid.TokenEdgeLabel, tokens[5].Kind)
	assert.Equal(t, "uses", tokens[5].Text)
}

func TestLex_CommentsAndInit(t *testing.T) {
	src := "flowchart TD\n%% a note\n%%{init: {\"theme\": \"dark\"}}%%\nA[x]\n"
	tokens, err := mermaid.Lex(src)
	require.NoError(t, err)

	require.Equal(t, mermaid.TokenComment, tokens[3].Kind)
	assert.Equal(t, "%% a note", tokens[3].Text)
	require.Equal(t, mermaid.TokenInit, tokens[5].Kind)
	assert.Equal(t, "%%{init: {\"theme\": \"dark\"}}%%", tokens[5].Text)
}

func TestLex_CollapsesNewlineRuns(t *testing.T) {
	tokens, err := mermaid.Lex("flowchart TD\n\n\n\nA[x]\n\n")
	require.NoError(t, err)

	assert.Equal(t, []mermaid.TokenKind{
		mermaid.TokenKeyword, mermaid.TokenIdent, mermaid.TokenNewline,
		mermaid.TokenIdent, mermaid.TokenContent, mermaid.TokenNewline,
		mermaid.TokenEOF,
	}, kinds(tokens))
}

func TestLex_ClassDefStyleRest(t *testing.T) {
	tokens, err := mermaid.Lex("flowchart TD\nclassDef inputStyle fill:#90EE90,stroke:#333\n")
	require.NoError(t, err)

	require.Equal(t, mermaid.TokenKeyword, tokens[3].Kind)
	assert.Equal(t, "classDef", tokens[3].Text)
	require.Equal(t, mermaid.TokenIdent, tokens[4].Kind)
	assert.Equal(t, "inputStyle", tokens[4].Text)
	require.Equal(t, mermaid.TokenStyleContent, tokens[5].Kind)
	assert.Equal(t, "fill:#90EE90,stroke:#333", tokens[5].Text)
}

func TestLex_MultiLineLabel(t *testing.T) {
	// Bracket content is verbatim, newlines included: command lines in
	// labels keep their formatting.
	src := "flowchart TD\n    R(python prepare.py \\\n    --strict)\n"
	tokens, err := mermaid.Lex(src)
	require.NoError(t, err)

	var content *mermaid.Token
	for i := range tokens {
		if tokens[i].Kind == mermaid.TokenContent {
			content = &tokens[i]
			break
		}
	}
	require.NotNil(t, content)
	assert.Equal(t, "python prepare.py \\\n    --strict", content.Text)
}

func TestLex_UnterminatedBracket(t *testing.T) {
	// The error must point at the opening delimiter, not at end of input.
	src := "flowchart TD\n    A[never closed\n"
	_, err := mermaid.Lex(src)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrLex)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T: %v", err, err)
	meta := zErr.Metadata()
	assert.Equal(t, "[", meta["delimiter"])
	assert.Equal(t, 2, meta["line"])
	assert.Equal(t, 6, meta["column"])
}

func TestLex_UnterminatedEdgeLabel(t *testing.T) {
	_, err := mermaid.Lex("flowchart TD\nA -->|no close B\n")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrLex)
}

func TestLex_MalformedArrow(t *testing.T) {
	_, err := mermaid.Lex("flowchart TD\nA -> B\n")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrLex)
}
