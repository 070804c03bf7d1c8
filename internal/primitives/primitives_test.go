package primitives

import "testing"

func TestListPushRemove(t *testing.T) {
	var l List[string]
	a := &ListNode[string]{}
	b := &ListNode[string]{}
	l.PushBack(a, "a")
	l.PushBack(b, "b")
	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2", l.Len())
	}
	l.Remove(a)
	if l.Len() != 1 || l.Front().Value() != "b" {
		t.Fatalf("remove front did not leave b as head")
	}
}

func TestVectorGrowAndPop(t *testing.T) {
	v := NewVector[int](0)
	for i := 0; i < 5; i++ {
		v.Push(i)
	}
	if v.Len() != 5 {
		t.Fatalf("len = %d, want 5", v.Len())
	}
	if got := v.Pop(); got != 4 {
		t.Fatalf("pop = %d, want 4", got)
	}
	v.SetCapacity(100)
	if v.Cap() < 100 {
		t.Fatalf("cap = %d, want >= 100", v.Cap())
	}
}

func TestHashInsertionOrderPreserved(t *testing.T) {
	h := NewHash[string, int](StringKeyOps)
	h.Set("x", 1)
	h.Set("y", 2)
	h.Set("z", 3)
	h.Set("y", 20) // update existing: must not reorder
	keys := h.Keys()
	want := []string{"x", "y", "z"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys[%d] = %q, want %q", i, keys[i], k)
		}
	}
	v, ok := h.Get("y")
	if !ok || v != 20 {
		t.Fatalf("get y = %v, %v, want 20, true", v, ok)
	}
}

func TestHashDelete(t *testing.T) {
	h := NewHash[string, int](StringKeyOps)
	h.Set("a", 1)
	h.Set("b", 2)
	if !h.Delete("a") {
		t.Fatal("delete a should report present")
	}
	if _, ok := h.Get("a"); ok {
		t.Fatal("a should be gone")
	}
	if h.Len() != 1 {
		t.Fatalf("len = %d, want 1", h.Len())
	}
}

func TestCharBufferAppendf(t *testing.T) {
	var buf CharBuffer
	buf.AppendString("hello ")
	buf.Appendf("%d world", 3)
	if buf.String() != "hello 3 world" {
		t.Fatalf("got %q", buf.String())
	}
}
