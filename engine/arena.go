package engine

// arenaIndex addresses one slot in an arena. nullIndex marks "no
// order" the way a nil pointer would in a pointer-based list.
type arenaIndex int32

const nullIndex arenaIndex = -1

// Paging parameters: 2^16 slots per page. Appending into a
// pre-capacitated page never reallocates its backing array, so slot
// addresses (arenaIndex values) stay valid for the slot's lifetime.
const (
	pageShift = 16
	pageSize  = 1 << pageShift
	pageMask  = pageSize - 1
)

// restingOrder is what actually lives in the arena: the resting
// Order plus the intrusive doubly-linked-list pointers that give
// priceLevel O(1) insertion at the tail and O(1) removal from any
// position, and the level it currently belongs to (set by pushBack,
// cleared by unlink; Cancel reaches the level through the book's
// location index). Order itself stays a clean value type; none of
// this bookkeeping leaks into its public API.
type restingOrder struct {
	order Order
	prev  arenaIndex
	next  arenaIndex
	level *priceLevel
}

// arena is a paged, free-list-backed pool of restingOrder slots. It
// exists so that cancelling an order never needs to walk a queue: the
// location index gives the arena index directly, and freeing a slot
// is O(1).
type arena struct {
	pages    [][]restingOrder
	freeHead arenaIndex
}

func newArena() *arena {
	a := &arena{freeHead: nullIndex}
	a.pages = append(a.pages, make([]restingOrder, 0, pageSize))
	return a
}

// alloc returns the index of a fresh (or reused) slot. The slot's
// contents are left however they were before allocation; callers
// overwrite every field they care about.
func (a *arena) alloc() arenaIndex {
	if a.freeHead != nullIndex {
		idx := a.freeHead
		page, offset := idx.split()
		a.freeHead = a.pages[page][offset].next
		return idx
	}

	lastPage := len(a.pages) - 1
	if len(a.pages[lastPage]) >= pageSize {
		a.pages = append(a.pages, make([]restingOrder, 0, pageSize))
		lastPage++
	}
	offset := len(a.pages[lastPage])
	a.pages[lastPage] = append(a.pages[lastPage], restingOrder{})
	return arenaIndex((lastPage << pageShift) | offset)
}

// free returns idx to the pool. Its next field is repurposed to chain
// the free list; every other field is left stale until the slot is
// reallocated.
func (a *arena) free(idx arenaIndex) {
	if idx == nullIndex {
		return
	}
	page, offset := idx.split()
	a.pages[page][offset].next = a.freeHead
	a.freeHead = idx
}

// get returns a pointer to the slot at idx. The pointer is valid
// until the arena's pages slice itself is replaced (reset) — pages
// are never reallocated once appended, only appended to.
func (a *arena) get(idx arenaIndex) *restingOrder {
	page, offset := idx.split()
	return &a.pages[page][offset]
}

// reset drops every slot, keeping the first page's backing array to
// avoid an immediate reallocation on the next order submitted.
func (a *arena) reset() {
	a.pages[0] = a.pages[0][:0]
	a.pages = a.pages[:1]
	a.freeHead = nullIndex
}

func (idx arenaIndex) split() (page, offset int) {
	return int(idx) >> pageShift, int(idx) & pageMask
}
