package jobs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddRemove(t *testing.T) {
	r := New(4)

	r.Add(100)
	r.Add(200)

	assert.True(t, r.Contains(100))
	assert.True(t, r.Contains(200))
	assert.Equal(t, 2, r.Len())

	assert.True(t, r.Remove(100))
	assert.False(t, r.Contains(100))
	assert.Equal(t, 1, r.Len())
}

func TestRemoveUnknownPid(t *testing.T) {
	r := New(4)
	r.Add(100)

	assert.False(t, r.Remove(999))
	assert.Equal(t, 1, r.Len())
}

func TestCapacityOverflowDropsSilently(t *testing.T) {
	r := New(2)

	r.Add(1)
	r.Add(2)
	r.Add(3)

	assert.Equal(t, 2, r.Len())
	assert.False(t, r.Contains(3))
}

func TestPidsInsertionOrder(t *testing.T) {
	r := New(8)

	r.Add(30)
	r.Add(10)
	r.Add(20)
	r.Remove(10)

	assert.Equal(t, []int{30, 20}, r.Pids())
}

func TestDefaultCapacity(t *testing.T) {
	r := New(0)
	for pid := 1; pid <= DefaultCapacity+5; pid++ {
		r.Add(pid)
	}
	assert.Equal(t, DefaultCapacity, r.Len())
}

func TestPrint(t *testing.T) {
	r := New(4)
	r.Add(42)
	r.Add(7)

	var buf bytes.Buffer
	r.Print(&buf)

	assert.Equal(t, "42\n7\n", buf.String())
}
