package engine

import "github.com/google/btree"

// priceLevel is the FIFO queue of every resting order at one price on
// one side of one symbol's book, realised as the head/tail of an
// intrusive doubly-linked list threaded through the OrderBook's
// arena. count and totalQuantity are maintained incrementally so
// queries never need to walk the list.
type priceLevel struct {
	price         Price
	head          arenaIndex
	tail          arenaIndex
	count         int
	totalQuantity Quantity
}

// pushBack appends idx to the tail of the level's queue, updating its
// aggregate quantity from the order currently stored at idx.
func (l *priceLevel) pushBack(a *arena, idx arenaIndex) {
	ro := a.get(idx)
	ro.level = l
	ro.prev = nullIndex
	ro.next = nullIndex
	if l.tail == nullIndex {
		l.head = idx
		l.tail = idx
	} else {
		a.get(l.tail).next = idx
		ro.prev = l.tail
		l.tail = idx
	}
	l.count++
	l.totalQuantity += ro.order.remainingQuantity
}

// unlink removes idx from the level's queue in O(1), leaving the
// level's aggregate quantity untouched — callers that fill or cancel
// an order are responsible for adjusting totalQuantity themselves,
// since a partial fill unlinks nothing but still must shrink it.
func (l *priceLevel) unlink(a *arena, idx arenaIndex) {
	ro := a.get(idx)
	if ro.prev != nullIndex {
		a.get(ro.prev).next = ro.next
	} else {
		l.head = ro.next
	}
	if ro.next != nullIndex {
		a.get(ro.next).prev = ro.prev
	} else {
		l.tail = ro.prev
	}
	ro.prev = nullIndex
	ro.next = nullIndex
	ro.level = nil
	l.count--
}

// Less implements btree.Item, ordering levels by price ascending. The
// ladder decides which end is "best" per side (see top()); the tree
// itself is always ascending.
func (l *priceLevel) Less(than btree.Item) bool {
	return l.price < than.(*priceLevel).price
}

// ladder is the ordered price -> level index for one side of one
// symbol's book, backed by github.com/google/btree in place of the
// teacher's non-existent splay-tree modules (see DESIGN.md).
type ladder struct {
	side OrderSide
	tree *btree.BTree
}

func newLadder(side OrderSide) *ladder {
	return &ladder{side: side, tree: btree.New(32)}
}

// top returns the best level for this side: highest price for bids,
// lowest for asks. Both are O(log n) via btree's Max/Min.
func (l *ladder) top() *priceLevel {
	var item btree.Item
	if l.side == Buy {
		item = l.tree.Max()
	} else {
		item = l.tree.Min()
	}
	if item == nil {
		return nil
	}
	return item.(*priceLevel)
}

// get returns the level at price, or nil if none exists.
func (l *ladder) get(price Price) *priceLevel {
	item := l.tree.Get(&priceLevel{price: price})
	if item == nil {
		return nil
	}
	return item.(*priceLevel)
}

// getOrCreate returns the level at price, creating and inserting an
// empty one if none exists yet.
func (l *ladder) getOrCreate(price Price) *priceLevel {
	if level := l.get(price); level != nil {
		return level
	}
	level := &priceLevel{price: price, head: nullIndex, tail: nullIndex}
	l.tree.ReplaceOrInsert(level)
	return level
}

// remove drops the level at price entirely. Callers must ensure the
// level's queue is empty first: no price level may exist with an
// empty queue.
func (l *ladder) remove(price Price) {
	l.tree.Delete(&priceLevel{price: price})
}

// levelCount returns the number of distinct price levels on this side.
func (l *ladder) levelCount() int { return l.tree.Len() }

// forEach visits up to n levels in best-first order, or every level
// if n is 0. The callback must not mutate the ladder.
func (l *ladder) forEach(n int, fn func(*priceLevel)) {
	visited := 0
	iter := func(item btree.Item) bool {
		if n > 0 && visited >= n {
			return false
		}
		fn(item.(*priceLevel))
		visited++
		return true
	}
	if l.side == Buy {
		l.tree.Descend(iter)
	} else {
		l.tree.Ascend(iter)
	}
}
