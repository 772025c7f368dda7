package engine

import "sync/atomic"

// sequence is the package-level monotonic counter backing Timestamp.
var sequence atomic.Uint64

func nextTimestamp() Timestamp {
	return Timestamp(sequence.Add(1))
}

// Order is a value-like record describing one trading intention. Its
// identity fields never change after construction; only
// remainingQuantity is mutated, and only through Fill.
type Order struct {
	id                OrderId
	symbol            Symbol
	side              OrderSide
	orderType         OrderType
	price             Price
	originalQuantity  Quantity
	remainingQuantity Quantity
	timestamp         Timestamp
}

// NewOrder constructs an order of the given type, validating every invariant an
// order must satisfy. It fails with *InvalidArgumentError if any is
// violated.
func NewOrder(id OrderId, symbol Symbol, side OrderSide, orderType OrderType, price Price, quantity Quantity) (Order, error) {
	if id == 0 {
		return Order{}, &InvalidArgumentError{Reason: "order id must not be zero"}
	}
	if err := validateSymbolFormat(symbol); err != nil {
		return Order{}, err
	}
	if quantity < MinQuantity {
		return Order{}, &InvalidArgumentError{Reason: "quantity must be at least 1"}
	}

	switch orderType {
	case Market:
		if price != MarketPrice {
			return Order{}, &InvalidArgumentError{Reason: "market orders must carry price 0"}
		}
	case Limit:
		if price < MinPrice || price > MaxPrice {
			return Order{}, &InvalidArgumentError{Reason: "limit price out of bounds"}
		}
	default:
		return Order{}, &InvalidArgumentError{Reason: "unknown order type"}
	}

	if side != Buy && side != Sell {
		return Order{}, &InvalidArgumentError{Reason: "unknown order side"}
	}

	return Order{
		id:                id,
		symbol:            symbol,
		side:              side,
		orderType:         orderType,
		price:             price,
		originalQuantity:  quantity,
		remainingQuantity: quantity,
		timestamp:         nextTimestamp(),
	}, nil
}

// NewMarketOrder constructs a Market order (price is always 0).
func NewMarketOrder(id OrderId, symbol Symbol, side OrderSide, quantity Quantity) (Order, error) {
	return NewOrder(id, symbol, side, Market, MarketPrice, quantity)
}

// ID returns the order's identifier.
func (o Order) ID() OrderId { return o.id }

// Symbol returns the instrument the order trades.
func (o Order) Symbol() Symbol { return o.symbol }

// Side returns the order's direction.
func (o Order) Side() OrderSide { return o.side }

// Type returns the order's execution semantics.
func (o Order) Type() OrderType { return o.orderType }

// Price returns the order's limit price, or MarketPrice for a Market order.
func (o Order) Price() Price { return o.price }

// OriginalQuantity returns the quantity requested at construction.
func (o Order) OriginalQuantity() Quantity { return o.originalQuantity }

// RemainingQuantity returns the quantity not yet filled.
func (o Order) RemainingQuantity() Quantity { return o.remainingQuantity }

// Timestamp returns the order's construction sequence number.
func (o Order) Timestamp() Timestamp { return o.timestamp }

// IsFullyFilled reports whether nothing remains to be filled.
func (o Order) IsFullyFilled() bool { return o.remainingQuantity == 0 }

// IsPartiallyFilled reports whether the order has been filled but not
// completely.
func (o Order) IsPartiallyFilled() bool {
	return o.remainingQuantity > 0 && o.remainingQuantity < o.originalQuantity
}

// Fill decrements remainingQuantity by n, returning the quantity
// actually filled (always n on success). It fails if n is zero or
// exceeds what remains.
func (o *Order) Fill(n Quantity) (Quantity, error) {
	if n == 0 {
		return 0, &InvalidArgumentError{Reason: "fill quantity must not be zero"}
	}
	if n > o.remainingQuantity {
		return 0, &InvalidArgumentError{Reason: "fill quantity exceeds remaining quantity"}
	}
	o.remainingQuantity -= n
	return n, nil
}

// CanMatchWith reports whether o may cross against other: same
// symbol, opposite sides, and either side is a Market order, or o's
// buy price is at least other's sell price.
func (o Order) CanMatchWith(other Order) bool {
	if o.symbol != other.symbol || o.side == other.side {
		return false
	}
	if o.orderType == Market || other.orderType == Market {
		return true
	}
	if o.side == Buy {
		return o.price >= other.price
	}
	return other.price >= o.price
}

// HasHigherPriorityThan is defined only for same-symbol, same-side
// pairs. Buys: higher price wins, ties broken by earlier timestamp.
// Sells: lower price wins, ties broken by earlier timestamp. Returns
// false whenever symbol or side differ. It is never true when an order
// is compared against itself, since equal timestamps break no tie.
func (o Order) HasHigherPriorityThan(other Order) bool {
	if o.symbol != other.symbol || o.side != other.side {
		return false
	}
	if o.price == other.price {
		return o.timestamp < other.timestamp
	}
	if o.side == Buy {
		return o.price > other.price
	}
	return o.price < other.price
}
