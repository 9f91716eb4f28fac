package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicEnvironment_Frozen(t *testing.T) {
	env := NewDeterministicEnvironment("/home/test")

	assert.Equal(t, Epoch, env.Now())
	assert.Equal(t, Epoch, env.Now())

	home, err := env.HomeDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/test", home)
}

func TestDeterministicEnvironment_Stepping(t *testing.T) {
	env := NewSteppingEnvironment("", time.Second)

	first := env.Now()
	second := env.Now()

	assert.Equal(t, Epoch, first)
	assert.Equal(t, Epoch.Add(time.Second), second)
	assert.Equal(t, Epoch.Add(2*time.Second), env.Current())
}

func TestDeterministicEnvironment_AdvanceAndReset(t *testing.T) {
	env := NewDeterministicEnvironment("")

	env.Advance(time.Hour)
	assert.Equal(t, Epoch.Add(time.Hour), env.Now())

	env.Reset()
	assert.Equal(t, Epoch, env.Now())
}
