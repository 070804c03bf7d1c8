package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ox/internal/heap"
)

func TestPoolInternsIdenticalText(t *testing.T) {
	h := heap.NewHeap()
	pool := NewPool(h)

	a := pool.Intern("hello")
	b := pool.Intern("hello")
	assert.Equal(t, a, b)

	c := pool.Intern("world")
	assert.NotEqual(t, a, c)
}

func TestStringLengthIsRuneCount(t *testing.T) {
	h := heap.NewHeap()
	v := NewString(h, "héllo")
	s, ok := AsString(v)
	require.True(t, ok)
	assert.Equal(t, 5, s.Length)
	assert.NotEqual(t, s.Length, len(s.Text))
}
