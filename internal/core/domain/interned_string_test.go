package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flo/internal/core/domain"
)

func TestInternedString_Equality(t *testing.T) {
	a := domain.NewInternedString("prepare")
	b := domain.NewInternedString("prepare")
	c := domain.NewInternedString("render")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, "prepare", a.String())
}

func TestInternedString_ZeroValue(t *testing.T) {
	var zero domain.InternedString
	assert.Equal(t, "", zero.String())
}

func TestInternedString_JSONRoundTrip(t *testing.T) {
	entry := domain.Task{Name: domain.NewInternedString("prepare")}

	data, err := json.Marshal(entry.Name)
	require.NoError(t, err)
	assert.Equal(t, `"prepare"`, string(data))

	var back domain.InternedString
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, entry.Name, back)
}
