package engine

// match runs agg against the opposite-side ladder until agg is fully
// filled or the top of that ladder can no longer match, appending one
// Trade per execution. Called with ob.mu held.
func (ob *OrderBook) match(agg *Order) []Trade {
	var trades []Trade
	opposite := ob.oppositeLadder(agg.side)

	for agg.remainingQuantity > 0 {
		level := opposite.top()
		if level == nil {
			break
		}
		if level.count == 0 {
			// Defensive: an emptied level that was not pruned promptly.
			opposite.remove(level.price)
			continue
		}

		idx := level.head
		ro := ob.arena.get(idx)
		passive := ro.order

		if !agg.CanMatchWith(passive) {
			break
		}

		tradeQty := min(agg.remainingQuantity, passive.remainingQuantity)
		tradePrice := passive.price

		ob.nextTradeID++
		buyID, sellID := agg.id, passive.id
		if agg.side == Sell {
			buyID, sellID = passive.id, agg.id
		}

		trade := Trade{
			TradeID:        TradeId(ob.nextTradeID),
			BuyOrderID:     buyID,
			SellOrderID:    sellID,
			ExecutionPrice: tradePrice,
			Quantity:       tradeQty,
			Timestamp:      nextTimestamp(),
		}
		trades = append(trades, trade)

		agg.Fill(tradeQty)
		passive.Fill(tradeQty)
		ro.order = passive
		level.totalQuantity -= tradeQty

		if passive.IsFullyFilled() {
			level.unlink(ob.arena, idx)
			ob.arena.free(idx)
			delete(ob.locations, passive.id)
			if level.count == 0 {
				opposite.remove(level.price)
			}
		}
	}

	return trades
}
