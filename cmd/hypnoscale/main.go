package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/config"
	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/pipeline"
	"github.com/andresuchdata/hypnoscale/internal/repository/postgres"
	"github.com/andresuchdata/hypnoscale/internal/service"
	"github.com/andresuchdata/hypnoscale/internal/storage"
	"github.com/andresuchdata/hypnoscale/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const envKey ctxKey = "env"

// env holds the connections opened for one command.
type env struct {
	cfg  *config.Config
	db   *postgres.DB
	pool *pgxpool.Pool
}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func newFileFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "file",
		Usage:    usage,
		Required: true,
	}
}

func initEnv(c *cli.Context) error {
	cfg := config.Load()
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	dsn := c.String("db-url")
	if dsn == "" {
		dsn = cfg.Database.DSN()
	}

	db, err := postgres.Open(postgres.DriverPGX, dsn)
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(c.Context, config.DatabaseConfig{URL: dsn})
	if err != nil {
		db.Close()
		return err
	}

	c.Context = context.WithValue(c.Context, envKey, &env{cfg: cfg, db: db, pool: pool})
	return nil
}

func closeEnv(c *cli.Context) error {
	e, ok := c.Context.Value(envKey).(*env)
	if !ok || e == nil {
		return nil
	}
	e.pool.Close()
	return e.db.Close()
}

func envFrom(c *cli.Context) *env {
	return c.Context.Value(envKey).(*env)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "hypnoscale",
		Usage: "Order sync, inventory seeding and reporting jobs",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Before: initEnv,
		After:  closeEnv,
		Commands: []*cli.Command{
			{
				Name:   "seed-batches",
				Usage:  "Insert inventory batches from a JSON file",
				Flags:  []cli.Flag{newFileFlag("JSON array of batches")},
				Action: seedBatches,
			},
			{
				Name:  "sync-orders",
				Usage: "Import storefront orders from a JSON export",
				Flags: []cli.Flag{
					newFileFlag("JSON order export"),
					&cli.StringFlag{
						Name:  "source",
						Usage: "Label recorded on the sync run",
						Value: "file",
					},
				},
				Action: syncOrders,
			},
			{
				Name:  "sync-ads",
				Usage: "Upsert ad spend from a saved insights export",
				Flags: []cli.Flag{
					newFileFlag("Insights export, one or more JSON pages"),
					&cli.StringFlag{
						Name:    "account",
						Usage:   "Ad account id for rows without one",
						EnvVars: []string{"FACEBOOK_AD_ACCOUNT_ID"},
					},
				},
				Action: syncAds,
			},
			{
				Name:   "generate-insights",
				Usage:  "Build and store the daily executive briefing",
				Action: generateInsights,
			},
			{
				Name:  "export-snapshot",
				Usage: "Upload a finance dashboard snapshot to object storage",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "start", Usage: "Range start, YYYY-MM-DD"},
					&cli.StringFlag{Name: "end", Usage: "Range end, YYYY-MM-DD"},
				},
				Action: exportSnapshot,
			},
			{
				Name:   "list-snapshots",
				Usage:  "List stored finance snapshots",
				Action: listSnapshots,
			},
			{
				Name:  "show-snapshot",
				Usage: "Print a stored finance snapshot",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Usage: "Snapshot object key", Required: true},
				},
				Action: showSnapshot,
			},
			{
				Name:  "sync-runs",
				Usage: "List recent order sync runs",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "days", Usage: "Look back this many days", Value: 7},
					&cli.IntFlag{Name: "limit", Usage: "Maximum runs to list", Value: 20},
					&cli.StringFlag{Name: "id", Usage: "Show a single run"},
				},
				Action: listSyncRuns,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

func seedBatches(c *cli.Context) error {
	e := envFrom(c)

	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read batches file: %w", err)
	}

	var batches []domain.NewBatch
	if err := json.Unmarshal(data, &batches); err != nil {
		return fmt.Errorf("failed to parse batches file: %w", err)
	}
	for i, b := range batches {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("batch %d: %w", i, err)
		}
	}

	n, err := postgres.NewOrderStore(e.pool).SeedBatches(c.Context, batches)
	if err != nil {
		return err
	}

	logger.Log.Info().Int64("batches", n).Msg("Inventory batches seeded")
	return nil
}

func syncOrders(c *cli.Context) error {
	e := envFrom(c)

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open orders file: %w", err)
	}
	defer f.Close()

	orders, err := pipeline.ParseOrders(f)
	if err != nil {
		return err
	}

	syncer := pipeline.NewOrderSyncer(
		postgres.NewOrderStore(e.pool),
		pipeline.NewRepository(e.db.DB.DB),
		pipeline.DefaultSyncConfig(),
	)

	bar := progressbar.Default(int64(len(orders)), "syncing orders")
	result, err := syncer.Sync(c.Context, c.String("source"), orders, func() { _ = bar.Add(1) })
	_ = bar.Finish()
	if err != nil {
		return err
	}

	for _, s := range result.Shortfalls {
		logger.Log.Warn().Str("base_product", s.BaseProduct).Int64("units", s.Units).Msg("Insufficient stock for deduction")
	}
	if len(result.Discovered) > 0 {
		logger.Log.Info().Strs("product_ids", result.Discovered).Msg("New products awaiting mapping")
	}
	return nil
}

func syncAds(c *cli.Context) error {
	e := envFrom(c)

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open insights file: %w", err)
	}
	defer f.Close()

	rows, err := pipeline.ParseInsights(f)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		logger.Log.Info().Msg("No ad insights found in export")
		return nil
	}

	syncer := pipeline.NewAdSyncer(postgres.NewAdSpendStore(e.pool), pipeline.DefaultSyncConfig())

	bar := progressbar.Default(int64(len(rows)), "syncing ad spend")
	result, err := syncer.Sync(c.Context, c.String("account"), rows, func() { _ = bar.Add(1) })
	_ = bar.Finish()
	if err != nil {
		return err
	}

	if result.Failed > 0 {
		logger.Log.Warn().Int("failed", result.Failed).Msg("Some ad insights were not saved")
	}
	return nil
}

func generateInsights(c *cli.Context) error {
	e := envFrom(c)

	insights := service.NewInsightService(postgres.NewFinanceRepository(e.db), postgres.NewInsightRepository(e.db), e.cfg.Fetch)
	briefing, err := insights.Generate(c.Context)
	if err != nil {
		return err
	}

	logger.Log.Info().
		Str("this_week", briefing.ThisWeek.StringFixed(2)).
		Str("last_week", briefing.LastWeek.StringFixed(2)).
		Float64("growth_percent", briefing.GrowthPercent).
		Str("status", string(briefing.Insight.Status)).
		Msg("Daily briefing stored")
	return nil
}

func newSnapshots(c *cli.Context) (*service.SnapshotService, error) {
	e := envFrom(c)

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()

	client, err := storage.NewMinioClient(ctx, e.cfg.Storage)
	if err != nil {
		return nil, err
	}

	finance := service.NewFinanceService(postgres.NewFinanceRepository(e.db), service.NewViewLoader(nil), e.cfg.Fetch, e.cfg.Finance)
	return service.NewSnapshotService(finance, storage.NewSnapshotStore(client, e.cfg.Storage.Prefix)), nil
}

func exportSnapshot(c *cli.Context) error {
	snapshots, err := newSnapshots(c)
	if err != nil {
		return err
	}

	r, err := domain.ParseDateRange(c.String("start"), c.String("end"), time.Now().UTC())
	if err != nil {
		return err
	}

	key, dashboard, err := snapshots.ExportFinance(c.Context, r)
	if err != nil {
		return err
	}

	logger.Log.Info().
		Str("key", key).
		Float64("revenue", dashboard.Metrics.TotalRevenue).
		Msg("Finance snapshot exported")
	return nil
}

func listSnapshots(c *cli.Context) error {
	snapshots, err := newSnapshots(c)
	if err != nil {
		return err
	}

	objects, err := snapshots.List(c.Context)
	if err != nil {
		return err
	}

	for _, o := range objects {
		fmt.Printf("%s\t%d\t%s\n", o.Key, o.Size, o.LastModified.Format(time.RFC3339))
	}
	return nil
}

func showSnapshot(c *cli.Context) error {
	snapshots, err := newSnapshots(c)
	if err != nil {
		return err
	}

	dashboard, err := snapshots.Load(c.Context, c.String("key"))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func listSyncRuns(c *cli.Context) error {
	e := envFrom(c)

	repo := pipeline.NewRepository(e.db.DB.DB)

	var runs []*pipeline.SyncRun
	if id := c.String("id"); id != "" {
		run, err := repo.GetRun(c.Context, id)
		if err != nil {
			return err
		}
		runs = append(runs, run)
	} else {
		since := time.Now().UTC().AddDate(0, 0, -c.Int("days"))
		list, err := repo.ListRuns(c.Context, since, c.Int("limit"))
		if err != nil {
			return err
		}
		runs = list
	}

	for _, r := range runs {
		fmt.Printf("%s\t%s\t%s\ttotal=%d synced=%d skipped=%d failed=%d\t%s\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Status,
			r.TotalOrders, r.Synced, r.Skipped, r.Failed, r.ErrorMessage)
	}
	return nil
}
