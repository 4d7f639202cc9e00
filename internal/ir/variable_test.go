package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariable_ValidRange(t *testing.T) {
	assert.True(t, Variable(0).Valid())
	assert.True(t, Variable(MaxVariables-1).Valid())
	assert.False(t, Variable(MaxVariables).Valid())
	assert.False(t, NoVariable.Valid())
}

func TestVariable_String(t *testing.T) {
	assert.Equal(t, "v0", Variable(0).String())
	assert.Equal(t, "<none>", NoVariable.String())
}
