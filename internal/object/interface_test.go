package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ox/internal/heap"
)

func TestInterfaceInheritCopiesProperties(t *testing.T) {
	h := heap.NewHeap()
	parent := NewInterfaceValue(h, "Shape")
	interfaceOf(parent).Props.DeclareVar("sides", heap.Number(0))
	interfaceOf(parent).Props.DeclareConst("$class", heap.Number(999)) // must not be copied
	interfaceOf(parent).Props.DeclareConst("$scope", heap.Number(999)) // must not be copied

	child := NewInterfaceValue(h, "Square")
	interfaceOf(child).Inherit(parent)

	_, hasSides := interfaceOf(child).Props.Lookup("sides")
	assert.True(t, hasSides)
	_, hasClass := interfaceOf(child).Props.Lookup("$class")
	assert.False(t, hasClass)
	_, hasScope := interfaceOf(child).Props.Lookup("$scope")
	assert.False(t, hasScope)
}

func TestInterfaceInstanceOfIsTransitive(t *testing.T) {
	h := heap.NewHeap()
	grandparent := NewInterfaceValue(h, "Drawable")
	parent := NewInterfaceValue(h, "Shape")
	interfaceOf(parent).Inherit(grandparent)
	child := NewInterfaceValue(h, "Square")
	interfaceOf(child).Inherit(parent)

	require.True(t, interfaceOf(child).InstanceOf(interfaceOf(parent)))
	require.True(t, interfaceOf(child).InstanceOf(interfaceOf(grandparent)))
	assert.True(t, interfaceOf(child).InstanceOf(interfaceOf(child)))
}

func TestInterfaceInstanceOfFalseForUnrelated(t *testing.T) {
	h := heap.NewHeap()
	a := NewInterfaceValue(h, "A")
	b := NewInterfaceValue(h, "B")
	assert.False(t, interfaceOf(a).InstanceOf(interfaceOf(b)))
}
