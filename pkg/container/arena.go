package container

// Nil is the arena index meaning "no node" — the empty-bucket / end-of-list
// sentinel for Arena.
const Nil int32 = -1

// node is one arena-backed doubly linked list entry: a key, an element, and
// the two links. Storing nodes in a flat slice instead of one heap
// allocation per node is the "arrays of (key, elt, next_index) arena
// entries" alternative the design notes call out in place of the source's
// intrusive per-node malloc.
type node[K any, E any] struct {
	key        K
	elt        E
	prev, next int32
	free       bool
}

// Arena is a pool of doubly linked list nodes shared by every bucket of a
// chaining hash table. Each bucket is identified only by the arena index of
// its head (Nil when empty); Arena itself holds no notion of "buckets" — it
// just allocates, links, and recycles (key, elt) nodes. HT-DIVCHN keeps one
// int32 head per bucket and drives PushFront/Unlink against this arena.
type Arena[K any, E any] struct {
	nodes    []node[K, E]
	freeHead int32
}

// NewArena creates an empty arena with the given node-capacity hint.
func NewArena[K any, E any](capHint int) *Arena[K, E] {
	return &Arena[K, E]{
		nodes:    make([]node[K, E], 0, capHint),
		freeHead: Nil,
	}
}

// Key returns the key stored at idx.
func (a *Arena[K, E]) Key(idx int32) K {
	return a.nodes[idx].key
}

// Elt returns the element stored at idx.
func (a *Arena[K, E]) Elt(idx int32) E {
	return a.nodes[idx].elt
}

// SetElt overwrites the element stored at idx in place (used when an insert
// replaces the value of an already-present key).
func (a *Arena[K, E]) SetElt(idx int32, e E) {
	a.nodes[idx].elt = e
}

// Next returns the arena index following idx within its bucket, or Nil.
func (a *Arena[K, E]) Next(idx int32) int32 {
	return a.nodes[idx].next
}

// Prev returns the arena index preceding idx within its bucket, or Nil.
func (a *Arena[K, E]) Prev(idx int32) int32 {
	return a.nodes[idx].prev
}

// PushFront allocates a (key, elt) node — reusing a freed slot if one
// exists — and links it at the front of the bucket headed by *head,
// returning the new node's arena index.
func (a *Arena[K, E]) PushFront(head *int32, key K, elt E) int32 {
	idx := a.alloc()
	a.nodes[idx] = node[K, E]{key: key, elt: elt, prev: Nil, next: *head}
	if *head != Nil {
		a.nodes[*head].prev = idx
	}
	*head = idx
	return idx
}

// Unlink removes the node at idx from the bucket headed by *head and
// returns the node to the free list for reuse. O(1) given the index — no
// rescan of the bucket is required, which is the invariant the design
// notes call out for arena-backed chaining.
func (a *Arena[K, E]) Unlink(head *int32, idx int32) {
	n := &a.nodes[idx]
	if n.prev != Nil {
		a.nodes[n.prev].next = n.next
	} else {
		*head = n.next
	}
	if n.next != Nil {
		a.nodes[n.next].prev = n.prev
	}
	a.free(idx)
}

func (a *Arena[K, E]) alloc() int32 {
	if a.freeHead != Nil {
		idx := a.freeHead
		a.freeHead = a.nodes[idx].next
		a.nodes[idx].free = false
		return idx
	}
	a.nodes = append(a.nodes, node[K, E]{})
	return int32(len(a.nodes) - 1)
}

func (a *Arena[K, E]) free(idx int32) {
	var zeroK K
	var zeroE E
	a.nodes[idx] = node[K, E]{key: zeroK, elt: zeroE, next: a.freeHead, prev: Nil, free: true}
	a.freeHead = idx
}
