package repository

import (
	"database/sql"
	"fmt"
	"time"

	"stockscreener/internal/db/models/postgres/public/model"
	"stockscreener/internal/db/models/postgres/public/table"
	"stockscreener/internal/domain"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// SnapshotRepository is the persisted factor snapshot cache. Rows are
// written by the ingestion pipeline; the core only reads them.
type SnapshotRepository interface {
	GetSnapshot(yearsAgo int) ([]domain.StockSnapshot, error)
	ListOffsets() ([]int, error)
	AddMany(tx *sql.Tx, snapshots []model.FactorSnapshot) error
}

type snapshotRepositoryHandler struct {
	Db qrm.Queryable
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return snapshotRepositoryHandler{
		Db: db,
	}
}

func (h snapshotRepositoryHandler) GetSnapshot(yearsAgo int) ([]domain.StockSnapshot, error) {
	query := postgres.SELECT(
		table.FactorSnapshot.AllColumns,
		table.Ticker.AllColumns,
	).FROM(
		table.FactorSnapshot.
			INNER_JOIN(
				table.Ticker,
				table.Ticker.Symbol.EQ(table.FactorSnapshot.Symbol),
			),
	).WHERE(
		table.FactorSnapshot.YearsAgo.EQ(postgres.Int32(int32(yearsAgo))),
	).ORDER_BY(table.FactorSnapshot.Symbol.ASC())

	rows := []struct {
		model.FactorSnapshot
		Ticker model.Ticker
	}{}
	err := query.Query(h.Db, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot for offset %d: %w", yearsAgo, err)
	}

	out := make([]domain.StockSnapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshotFromModel(row.FactorSnapshot, row.Ticker))
	}

	return out, nil
}

func (h snapshotRepositoryHandler) ListOffsets() ([]int, error) {
	query := postgres.SELECT(
		table.FactorSnapshot.YearsAgo,
	).DISTINCT().FROM(
		table.FactorSnapshot,
	).ORDER_BY(table.FactorSnapshot.YearsAgo.ASC())

	rows := []model.FactorSnapshot{}
	err := query.Query(h.Db, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot offsets: %w", err)
	}

	offsets := []int{}
	for _, row := range rows {
		offsets = append(offsets, int(row.YearsAgo))
	}

	return offsets, nil
}

func (h snapshotRepositoryHandler) AddMany(tx *sql.Tx, snapshots []model.FactorSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	now := time.Now().UTC()
	models := make([]model.FactorSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		s.UpdatedAt = &now
		models = append(models, s)
	}

	query := upsertSnapshotsQuery(models)

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to add %d snapshot rows: %w", len(snapshots), err)
	}

	return nil
}

func upsertSnapshotsQuery(models []model.FactorSnapshot) postgres.InsertStatement {
	return table.FactorSnapshot.
		INSERT(table.FactorSnapshot.AllColumns).
		MODELS(models).
		ON_CONFLICT(table.FactorSnapshot.Symbol, table.FactorSnapshot.YearsAgo).
		DO_UPDATE(
			postgres.SET(
				table.FactorSnapshot.Price.SET(table.FactorSnapshot.EXCLUDED.Price),
				table.FactorSnapshot.MarketCap.SET(table.FactorSnapshot.EXCLUDED.MarketCap),
				table.FactorSnapshot.Adtv.SET(table.FactorSnapshot.EXCLUDED.Adtv),
				table.FactorSnapshot.PriceToSales.SET(table.FactorSnapshot.EXCLUDED.PriceToSales),
				table.FactorSnapshot.SalesGrowth.SET(table.FactorSnapshot.EXCLUDED.SalesGrowth),
				table.FactorSnapshot.GfScore.SET(table.FactorSnapshot.EXCLUDED.GfScore),
				table.FactorSnapshot.PeRatio.SET(table.FactorSnapshot.EXCLUDED.PeRatio),
				table.FactorSnapshot.DebtToEquity.SET(table.FactorSnapshot.EXCLUDED.DebtToEquity),
				table.FactorSnapshot.OperatingMargin.SET(table.FactorSnapshot.EXCLUDED.OperatingMargin),
				table.FactorSnapshot.Roic.SET(table.FactorSnapshot.EXCLUDED.Roic),
				table.FactorSnapshot.FcfYield.SET(table.FactorSnapshot.EXCLUDED.FcfYield),
				table.FactorSnapshot.UpdatedAt.SET(table.FactorSnapshot.EXCLUDED.UpdatedAt),
			),
		)
}

func snapshotFromModel(row model.FactorSnapshot, ticker model.Ticker) domain.StockSnapshot {
	return domain.StockSnapshot{
		Symbol:   row.Symbol,
		Name:     ticker.Name,
		Sector:   ticker.Sector,
		YearsAgo: int(row.YearsAgo),
		Price:    row.Price,
		Metrics: map[domain.Metric]*float64{
			domain.Metric_MarketCap:       row.MarketCap,
			domain.Metric_Adtv:            row.Adtv,
			domain.Metric_PriceToSales:    row.PriceToSales,
			domain.Metric_SalesGrowth:     row.SalesGrowth,
			domain.Metric_GfScore:         row.GfScore,
			domain.Metric_PeRatio:         row.PeRatio,
			domain.Metric_DebtToEquity:    row.DebtToEquity,
			domain.Metric_OperatingMargin: row.OperatingMargin,
			domain.Metric_Roic:            row.Roic,
			domain.Metric_FcfYield:        row.FcfYield,
		},
	}
}
