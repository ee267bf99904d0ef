package vertex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teebox/annotator/internal/render"
)

func indices(r *Ring) []int {
	var out []int
	for _, n := range r.Nodes() {
		out = append(out, n.Index)
	}
	return out
}

func handles(r *Ring) []render.ID {
	var out []render.ID
	for _, n := range r.Nodes() {
		out = append(out, n.Handle)
	}
	return out
}

func TestNewRing(t *testing.T) {
	closed := NewRing(true, []render.ID{10, 11, 12})
	require.Equal(t, 3, closed.Len())
	assert.Equal(t, []int{0, 1, 2}, indices(closed))
	assert.Equal(t, render.ID(12), closed.Head().Prev().Handle)
	assert.Equal(t, closed.Head(), closed.Tail().Next())

	open := NewRing(false, []render.ID{10, 11, 12})
	assert.Nil(t, open.Head().Prev())
	assert.Nil(t, open.Tail().Next())
	assert.Equal(t, render.ID(12), open.Tail().Handle)

	empty := NewRing(true, nil)
	assert.Equal(t, 0, empty.Len())
	assert.Nil(t, empty.Tail())
	assert.Empty(t, empty.Nodes())
}

func TestRingInsert(t *testing.T) {
	tests := []struct {
		name    string
		closed  bool
		at      int
		before  bool
		handles []render.ID
	}{
		{name: "closed middle", closed: true, at: 1, handles: []render.ID{1, 2, 99, 3, 4}},
		{name: "closed after tail", closed: true, at: 3, handles: []render.ID{1, 2, 3, 4, 99}},
		{name: "open after head", closed: false, at: 0, handles: []render.ID{1, 99, 2, 3, 4}},
		{name: "open before tail", closed: false, at: 3, before: true, handles: []render.ID{1, 2, 3, 99, 4}},
		{name: "open before head", closed: false, at: 0, before: true, handles: []render.ID{99, 1, 2, 3, 4}},
		{name: "closed before head", closed: true, at: 0, before: true, handles: []render.ID{99, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing(tt.closed, []render.ID{1, 2, 3, 4})
			at := r.Nodes()[tt.at]
			var n *Node
			if tt.before {
				n = r.InsertBefore(at, 99)
			} else {
				n = r.InsertAfter(at, 99)
			}
			assert.Equal(t, tt.handles, handles(r))
			assert.Equal(t, []int{0, 1, 2, 3, 4}, indices(r))
			assert.Equal(t, 5, r.Len())
			assert.Equal(t, n, r.Nodes()[n.Index])
		})
	}
}

func TestRingRemove(t *testing.T) {
	tests := []struct {
		name    string
		closed  bool
		at      int
		handles []render.ID
	}{
		{name: "closed head", closed: true, at: 0, handles: []render.ID{2, 3, 4}},
		{name: "closed tail", closed: true, at: 3, handles: []render.ID{1, 2, 3}},
		{name: "closed middle", closed: true, at: 1, handles: []render.ID{1, 3, 4}},
		{name: "open head", closed: false, at: 0, handles: []render.ID{2, 3, 4}},
		{name: "open tail", closed: false, at: 3, handles: []render.ID{1, 2, 3}},
		{name: "open middle", closed: false, at: 2, handles: []render.ID{1, 2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing(tt.closed, []render.ID{1, 2, 3, 4})
			r.Remove(r.Nodes()[tt.at])
			assert.Equal(t, tt.handles, handles(r))
			assert.Equal(t, []int{0, 1, 2}, indices(r))
			if tt.closed {
				assert.Equal(t, r.Head(), r.Tail().Next())
			} else {
				assert.Nil(t, r.Tail().Next())
				assert.Nil(t, r.Head().Prev())
			}
		})
	}
}

func TestRingRemoveLast(t *testing.T) {
	r := NewRing(false, []render.ID{7})
	r.Remove(r.Head())
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Head())
}
