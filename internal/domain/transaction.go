package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKind_Buy       TransactionKind = "BUY"
	TransactionKind_Hold      TransactionKind = "HOLD"
	TransactionKind_Rebalance TransactionKind = "REBALANCE"
	TransactionKind_SellAll   TransactionKind = "SELL_ALL"
)

// TransactionHeader is the audit trail every ledger entry carries:
// which period it belongs to and what the portfolio was worth at that
// instant.
type TransactionHeader struct {
	TransactionID  uuid.UUID       `json:"transactionID"`
	YearsAgo       int             `json:"yearsAgo"`
	Date           time.Time       `json:"date"`
	PortfolioValue decimal.Decimal `json:"portfolioValue"`
}

func (h TransactionHeader) Header() TransactionHeader {
	return h
}

func NewTransactionHeader(yearsAgo int, portfolioValue decimal.Decimal) TransactionHeader {
	return TransactionHeader{
		TransactionID:  uuid.New(),
		YearsAgo:       yearsAgo,
		Date:           time.Now().UTC().AddDate(-yearsAgo, 0, 0),
		PortfolioValue: portfolioValue,
	}
}

// TradeFill pairs a symbol with the prices it was bought and/or sold at,
// so individual realized returns can be recomputed from the ledger. A nil
// price means the snapshot had no figure for that leg.
type TradeFill struct {
	Symbol    string           `json:"symbol"`
	BuyPrice  *decimal.Decimal `json:"buyPrice,omitempty"`
	SellPrice *decimal.Decimal `json:"sellPrice,omitempty"`
}

// Transaction is one entry in a simulation ledger. Each kind is its own
// concrete type carrying only its relevant fields; consumers type switch
// rather than probing field presence.
type Transaction interface {
	Kind() TransactionKind
	Header() TransactionHeader
}

type BuyTransaction struct {
	TransactionHeader
	Bought []TradeFill `json:"bought"`
}

func (t BuyTransaction) Kind() TransactionKind {
	return TransactionKind_Buy
}

type HoldTransaction struct {
	TransactionHeader
	Kept []string `json:"kept"`
}

func (t HoldTransaction) Kind() TransactionKind {
	return TransactionKind_Hold
}

type RebalanceTransaction struct {
	TransactionHeader
	Kept   []string    `json:"kept"`
	Sold   []TradeFill `json:"sold"`
	Bought []TradeFill `json:"bought"`
}

func (t RebalanceTransaction) Kind() TransactionKind {
	return TransactionKind_Rebalance
}

type SellAllTransaction struct {
	TransactionHeader
	Sold []TradeFill `json:"sold"`
}

func (t SellAllTransaction) Kind() TransactionKind {
	return TransactionKind_SellAll
}
