package style_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.trai.ch/flo/internal/ui/style"
)

func TestRenderers(t *testing.T) {
	t.Parallel()

	for name, render := range map[string]func(string) string{
		"ok":      style.OK,
		"failed":  style.Failed,
		"skipped": style.Skipped,
		"cached":  style.Cached,
		"muted":   style.Muted,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, strings.Contains(render("payload"), "payload"))
		})
	}

	assert.True(t, strings.Contains(style.Name.Render("build"), "build"))
}
