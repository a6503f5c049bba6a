package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// InceptionValue is the base-normalized starting value of every simulated
// portfolio.
var InceptionValue = decimal.NewFromInt(10000)

type Holding struct {
	Symbol     string
	EntryPrice decimal.Decimal
	Quantity   decimal.Decimal
}

func (h Holding) DeepCopy() *Holding {
	return &Holding{
		Symbol:     h.Symbol,
		EntryPrice: h.EntryPrice,
		Quantity:   h.Quantity,
	}
}

// Portfolio is the mutable state a simulator advances period by period.
// Value is the aggregate dollar value at the last evaluated prices.
type Portfolio struct {
	Holdings map[string]*Holding
	Value    decimal.Decimal
}

func NewPortfolio() *Portfolio {
	return &Portfolio{
		Holdings: map[string]*Holding{},
		Value:    InceptionValue,
	}
}

// HeldSymbols returns held symbols in ascending order.
func (p Portfolio) HeldSymbols() []string {
	symbols := []string{}
	for symbol := range p.Holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

func (p Portfolio) DeepCopy() *Portfolio {
	newPortfolio := &Portfolio{
		Holdings: map[string]*Holding{},
		Value:    p.Value,
	}
	for symbol, holding := range p.Holdings {
		newPortfolio.Holdings[symbol] = holding.DeepCopy()
	}

	return newPortfolio
}

// TotalValue marks every holding to the given prices. A symbol missing
// from the price map is carried at its entry price rather than dropped,
// so a partially incomplete snapshot never zeroes out a position.
func (p Portfolio) TotalValue(priceMap map[string]decimal.Decimal) decimal.Decimal {
	totalValue := decimal.Zero
	for symbol, holding := range p.Holdings {
		price, ok := priceMap[symbol]
		if !ok {
			price = holding.EntryPrice
		}
		totalValue = totalValue.Add(holding.Quantity.Mul(price))
	}

	return totalValue
}

// PortfolioShortfall records a period where fewer valid candidates
// existed than the requested portfolio size. Degraded mode, not an error.
type PortfolioShortfall struct {
	YearsAgo  int `json:"yearsAgo"`
	Requested int `json:"requested"`
	Filled    int `json:"filled"`
}

func (s PortfolioShortfall) String() string {
	return fmt.Sprintf("filled %d of %d requested positions at offset %d", s.Filled, s.Requested, s.YearsAgo)
}
