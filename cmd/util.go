package cmd

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"stockscreener/api"
	"stockscreener/internal/repository"
	l1_service "stockscreener/internal/service/l1"
	l2_service "stockscreener/internal/service/l2"
	l3_service "stockscreener/internal/service/l3"
	"stockscreener/internal/util"
	"stockscreener/pkg/gurufocus"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const gurufocusRequestsPerMinute = 60

// Dependencies is everything an entrypoint might need. Db and the
// write-side repositories are nil when running off a CSV export.
type Dependencies struct {
	Db                 *sql.DB
	ApiHandler         *api.ApiHandler
	GuruFocusClient    *gurufocus.Client
	TickerRepository   repository.TickerRepository
	SnapshotRepository repository.SnapshotRepository
}

func CloseDependencies(deps *Dependencies) {
	if deps.Db == nil {
		return
	}
	err := deps.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*Dependencies, error) {
	// missing .env is fine; secrets may come from the environment
	_ = godotenv.Load()

	deps := &Dependencies{}

	// a CSV export replaces the database entirely, for offline runs
	// against a downloaded snapshot file
	var snapshotRepository repository.SnapshotRepository
	if csvPath := os.Getenv("SCREENER_SNAPSHOT_FILE"); csvPath != "" {
		csvRepository, err := repository.NewCsvSnapshotRepository(csvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot file %s: %w", csvPath, err)
		}
		snapshotRepository = csvRepository
	} else {
		secrets, err := util.LoadSecrets()
		if err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}

		dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to db: %w", err)
		}
		deps.Db = dbConn
		deps.GuruFocusClient = gurufocus.NewClient(secrets.GuruFocusApiKey, gurufocusRequestsPerMinute)
		deps.TickerRepository = repository.NewTickerRepository(dbConn)
		snapshotRepository = repository.NewSnapshotRepository(dbConn)
	}
	deps.SnapshotRepository = snapshotRepository

	snapshotService := l1_service.NewSnapshotService(snapshotRepository)
	rankingService := l2_service.NewRankingService(snapshotService)
	garpService := l2_service.NewGarpService(snapshotService, rankingService)
	annualRebalanceService := l3_service.NewAnnualRebalanceService(snapshotService, rankingService)
	holdWinnersService := l3_service.NewHoldWinnersService(snapshotService, rankingService)
	equalWeightService := l3_service.NewEqualWeightService(snapshotService, rankingService)
	weightSearchService := l3_service.NewWeightSearchService(annualRebalanceService)

	deps.ApiHandler = &api.ApiHandler{
		RankingService:         rankingService,
		GarpService:            garpService,
		EqualWeightService:     equalWeightService,
		AnnualRebalanceService: annualRebalanceService,
		HoldWinnersService:     holdWinnersService,
		WeightSearchService:    weightSearchService,
	}

	return deps, nil
}
