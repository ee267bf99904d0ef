// Package vertex implements vertex-level editing of one polygon or polyline.
//
// The handles of a shape are kept in a doubly linked ring: closed for
// polygons, open for polylines. Every node carries the offset of its vertex
// in the shape's live path, and every insert or delete shifts the indices
// of the nodes downstream of the change so the two never drift apart.
package vertex

import "github.com/teebox/annotator/internal/render"

// Node is one vertex handle.
type Node struct {
	prev, next *Node
	Handle     render.ID
	Index      int
}

// Prev returns the previous node; nil at the start of an open ring.
func (n *Node) Prev() *Node { return n.prev }

// Next returns the next node; nil at the end of an open ring.
func (n *Node) Next() *Node { return n.next }

// Ring is a circular (closed) or linear (open) doubly linked list.
type Ring struct {
	closed bool
	head   *Node
	size   int
}

// NewRing links one node per handle in order, indexed from zero.
func NewRing(closed bool, handles []render.ID) *Ring {
	r := &Ring{closed: closed}
	var prev *Node
	for i, h := range handles {
		n := &Node{Handle: h, Index: i, prev: prev}
		if prev == nil {
			r.head = n
		} else {
			prev.next = n
		}
		prev = n
		r.size++
	}
	if closed && r.head != nil {
		r.head.prev = prev
		prev.next = r.head
	}
	return r
}

// Closed reports whether the ring wraps around.
func (r *Ring) Closed() bool { return r.closed }

// Head is the node at index zero.
func (r *Ring) Head() *Node { return r.head }

// Len is the number of nodes.
func (r *Ring) Len() int { return r.size }

// Tail is the node with the highest index.
func (r *Ring) Tail() *Node {
	if r.head == nil {
		return nil
	}
	if r.closed {
		return r.head.prev
	}
	n := r.head
	for n.next != nil {
		n = n.next
	}
	return n
}

// Each visits every node once, head first, until fn returns false.
func (r *Ring) Each(fn func(*Node) bool) {
	for n := r.head; n != nil; n = n.next {
		if !fn(n) {
			return
		}
		if n.next == r.head {
			return
		}
	}
}

// Nodes returns the nodes in index order.
func (r *Ring) Nodes() []*Node {
	out := make([]*Node, 0, r.size)
	r.Each(func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// shift adds delta to the index of from and every node after it, stopping
// at the end of an open ring or before wrapping back to the head.
func (r *Ring) shift(from *Node, delta int) {
	for n := from; n != nil; n = n.next {
		n.Index += delta
		if n.next == r.head {
			return
		}
	}
}

// InsertAfter links a new node right after at, at index at.Index+1.
func (r *Ring) InsertAfter(at *Node, h render.ID) *Node {
	n := &Node{Handle: h, Index: at.Index + 1, prev: at, next: at.next}
	if at.next != nil {
		at.next.prev = n
	}
	at.next = n
	r.size++
	// appending after the tail of a closed ring wraps to the head,
	// which keeps index zero
	if n.next != nil && n.next != r.head {
		r.shift(n.next, 1)
	}
	return n
}

// InsertBefore links a new node right before at, taking over its index.
func (r *Ring) InsertBefore(at *Node, h render.ID) *Node {
	n := &Node{Handle: h, Index: at.Index, prev: at.prev, next: at}
	if at.prev != nil {
		at.prev.next = n
	}
	at.prev = n
	if at == r.head {
		r.head = n
	}
	r.size++
	r.shift(at, 1)
	return n
}

// Remove unlinks n and shifts the indices after it down by one.
func (r *Ring) Remove(n *Node) {
	next := n.next
	wasHead := n == r.head

	if r.size == 1 {
		r.head = nil
		r.size = 0
		n.prev, n.next = nil, nil
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if wasHead {
		r.head = next
	}
	n.prev, n.next = nil, nil
	r.size--

	if wasHead || (next != nil && next != r.head) {
		r.shift(next, -1)
	}
}
