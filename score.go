package main

// UpperBound is the terminal total reached if a terminal producer were
// completed on every remaining tick, starting with this one:
// stock + Σ_{i=0}^{ticks-1} (producers + i). No feasible schedule beats it.
func UpperBound(stock, producers, ticks int) int {
	return stock + ticks*producers + ticks*(ticks-1)/2
}

// SelfSufficient reports whether a terminal producer can be built on every
// remaining tick from here: for each input of the terminal producer the
// current stock covers the cost and the fleet replaces it within one tick.
// When true, UpperBound is the exact optimum of the subtree.
func (bp *Blueprint) SelfSufficient(stock, producers Amounts) bool {
	cost := bp.Costs[bp.Terminal()]
	return producers.covers(cost) && stock.covers(cost)
}

// rootBound is the bound from the starting state of a search.
func rootBound(horizon int) int {
	return UpperBound(0, 0, horizon)
}
