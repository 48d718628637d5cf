package hostenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindLookup(t *testing.T) {
	env := New()

	_, ok := env.Lookup("Module")
	assert.False(t, ok)

	env.Bind("Module", 42)
	v, ok := env.Lookup("Module")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	env.Bind("Module", "replaced")
	v, _ = env.Lookup("Module")
	assert.Equal(t, "replaced", v)

	env.Unbind("Module")
	_, ok = env.Lookup("Module")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	env := New()
	env.Bind("a", 1)
	env.Bind("b", 2)
	assert.ElementsMatch(t, []string{"a", "b"}, env.Names())
}

func TestDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	SetDefault(nil)
	assert.Nil(t, Default())

	env := New()
	SetDefault(env)
	assert.Same(t, env, Default())
}
