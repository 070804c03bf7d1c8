package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ox/internal/heap"
)

func TestClassNewInstanceInvokesInit(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	classVal := NewClass(h, "Point", heap.Null())
	class, _ := ClassOf(classVal)

	var sawArgs []float64
	class.Init = caller.register(h, func(this heap.Value, args []heap.Value) (heap.Value, error) {
		obj := this.Object().Data.(*Object)
		obj.Props.DeclareVar("x", args[0])
		sawArgs = append(sawArgs, args[0].Num())
		return heap.Null(), nil
	})

	inst, err := class.NewInstance(h, caller, classVal, []heap.Value{heap.Number(5)})
	require.NoError(t, err)
	require.Len(t, sawArgs, 1)
	assert.Equal(t, float64(5), sawArgs[0])

	x, err := inst.Object().Data.(*Object).Get(caller, inst, "x")
	require.NoError(t, err)
	assert.Equal(t, float64(5), x.Num())
}

func TestClassInheritanceSharesInstanceProperties(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	shapeVal := NewClass(h, "Shape", heap.Null())
	shape, _ := ClassOf(shapeVal)
	interfaceOf(shape.Instance).Props.DeclareVar("sides", heap.Number(0))

	squareVal := NewClass(h, "Square", shapeVal)
	square, _ := ClassOf(squareVal)

	inst, err := square.NewInstance(h, caller, squareVal, nil)
	require.NoError(t, err)

	v, err := inst.Object().Data.(*Object).Get(caller, inst, "sides")
	require.NoError(t, err)
	assert.Equal(t, float64(0), v.Num())
}

func TestInstanceOf(t *testing.T) {
	h := heap.NewHeap()
	caller := newStubCaller()
	shapeVal := NewClass(h, "Shape", heap.Null())
	shape, _ := ClassOf(shapeVal)
	squareVal := NewClass(h, "Square", shapeVal)
	square, _ := ClassOf(squareVal)

	inst, err := square.NewInstance(h, caller, squareVal, nil)
	require.NoError(t, err)

	assert.True(t, InstanceOf(inst, square))
	assert.True(t, InstanceOf(inst, shape))

	otherVal := NewClass(h, "Other", heap.Null())
	other, _ := ClassOf(otherVal)
	assert.False(t, InstanceOf(inst, other))
}
