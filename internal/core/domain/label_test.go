package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/flo/internal/core/domain"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantText string
		wantDesc string
	}{
		{
			name:     "plain text",
			raw:      "prepare",
			wantText: "prepare",
		},
		{
			name:     "line break splits description",
			raw:      "prepare<br/>normalize the sources",
			wantText: "prepare",
			wantDesc: "normalize the sources",
		},
		{
			name:     "line break variants",
			raw:      "render<br >engrave",
			wantText: "render",
			wantDesc: "engrave",
		},
		{
			name:     "only first break splits",
			raw:      "a<br/>b<br/>c",
			wantText: "a",
			wantDesc: "b<br/>c",
		},
		{
			name:     "leading icon is trimmed",
			raw:      "🎼 build_pdf",
			wantText: "build_pdf",
		},
		{
			name:     "surrounding whitespace is trimmed",
			raw:      "  data/score.xml <br/> raw score ",
			wantText: "data/score.xml",
			wantDesc: "raw score",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label := domain.ParseLabel(tt.raw)
			assert.Equal(t, tt.wantText, label.Text)
			assert.Equal(t, tt.wantDesc, label.Description)
		})
	}
}

func TestLabel_IsCommand(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"python prepare.py in.xml", true},
		{"script: render.sh", true},
		{"lilypond -o build main.ly", true},
		{"prepare", false},
		{"build/notes.csv", false},
		{"Update The Docs", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Label{Text: tt.text}.IsCommand())
		})
	}
}

func TestLabel_IsFile(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"build/notes.csv", true},
		{"score.pdf", true},
		{"data/score.xml", true},
		{"publish", false},
		{"two words.txt", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Label{Text: tt.text}.IsFile())
		})
	}
}
