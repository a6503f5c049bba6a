package repository

import (
	"database/sql"
	"fmt"

	"stockscreener/internal/db/models/postgres/public/model"
	"stockscreener/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// TickerRepository lists the fixed stock universe.
type TickerRepository interface {
	List() ([]model.Ticker, error)
	AddMany(tx *sql.Tx, tickers []model.Ticker) error
}

type tickerRepositoryHandler struct {
	Db qrm.Queryable
}

func NewTickerRepository(db *sql.DB) TickerRepository {
	return tickerRepositoryHandler{
		Db: db,
	}
}

func (h tickerRepositoryHandler) List() ([]model.Ticker, error) {
	query := postgres.SELECT(table.Ticker.AllColumns).
		FROM(table.Ticker).
		ORDER_BY(table.Ticker.Symbol.ASC())

	tickers := []model.Ticker{}
	err := query.Query(h.Db, &tickers)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}

	return tickers, nil
}

func (h tickerRepositoryHandler) AddMany(tx *sql.Tx, tickers []model.Ticker) error {
	if len(tickers) == 0 {
		return nil
	}
	query := upsertTickersQuery(tickers)

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to add %d tickers: %w", len(tickers), err)
	}

	return nil
}

func upsertTickersQuery(tickers []model.Ticker) postgres.InsertStatement {
	return table.Ticker.
		INSERT(table.Ticker.AllColumns).
		MODELS(tickers).
		ON_CONFLICT(table.Ticker.Symbol).
		DO_UPDATE(
			postgres.SET(
				table.Ticker.Name.SET(table.Ticker.EXCLUDED.Name),
				table.Ticker.Sector.SET(table.Ticker.EXCLUDED.Sector),
			),
		)
}
