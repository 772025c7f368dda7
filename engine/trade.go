package engine

// Trade records one execution between an aggressor order and a
// resting passive order. Once emitted it is immutable. ExecutionPrice
// always equals the passive order's limit price; the aggressor's role
// is not recorded.
type Trade struct {
	TradeID        TradeId
	BuyOrderID     OrderId
	SellOrderID    OrderId
	ExecutionPrice Price
	Quantity       Quantity
	Timestamp      Timestamp
}
