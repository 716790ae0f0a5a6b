package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// ScriptPrefix marks a runnable label that invokes a project script instead
// of a plain command line, e.g. "script:extract_ties.py -i in.svg -o out.csv".
const ScriptPrefix = "script:"

var (
	lineBreakMarker = regexp.MustCompile(`<br\s*/?>`)
	filePattern     = regexp.MustCompile(`^\S+\.[A-Za-z0-9]{1,5}$`)
	programPattern  = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

// Label is the structured form of a node's raw label text. Text is the
// payload (a task title, a file path or a command template), Description the
// optional human-readable remainder after a <br/> marker. Icon prefixes are
// discarded during parsing.
type Label struct {
	Text        string
	Description string
}

// ParseLabel splits raw label content on the first line-break marker, trims
// a leading icon/emoji if present and returns the structured label.
func ParseLabel(raw string) Label {
	text := raw
	desc := ""
	if loc := lineBreakMarker.FindStringIndex(raw); loc != nil {
		text = raw[:loc[0]]
		desc = strings.TrimSpace(raw[loc[1]:])
	}
	return Label{
		Text:        trimIcon(strings.TrimSpace(text)),
		Description: desc,
	}
}

// IsCommand reports whether the label payload reads like a command
// invocation: a script: reference, or a bare program name followed by at
// least one argument.
func (l Label) IsCommand() bool {
	if strings.HasPrefix(l.Text, ScriptPrefix) {
		return true
	}
	fields := strings.Fields(l.Text)
	if len(fields) < 2 {
		return false
	}
	return programPattern.MatchString(fields[0])
}

// IsFile reports whether the label payload reads like a file path: a single
// token ending in a short extension.
func (l Label) IsFile() bool {
	return filePattern.MatchString(l.Text)
}

// trimIcon drops a leading run of non-ASCII symbol runes (icons, emoji) and
// the whitespace following it. Labels such as "🎼 build_pdf" become
// "build_pdf".
func trimIcon(s string) string {
	trimmed := strings.TrimLeftFunc(s, func(r rune) bool {
		return r > unicode.MaxASCII || unicode.IsSymbol(r)
	})
	return strings.TrimLeft(trimmed, " \t")
}
