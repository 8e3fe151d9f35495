package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCond(t *testing.T) {
	assert.Equal(t, "a", If(true, "a").Else("b"))
	assert.Equal(t, "b", If(false, "a").Else("b"))
	assert.Equal(t, 1, If(true, 1).Else(2))
	assert.Zero(t, If(false, 1).Else(0))
}
