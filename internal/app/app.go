package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/riskibarqy/fantasy-roster/external/catalog"
	"github.com/riskibarqy/fantasy-roster/external/jobqueue"
	"github.com/riskibarqy/fantasy-roster/internal/config"
	"github.com/riskibarqy/fantasy-roster/internal/domain/club"
	"github.com/riskibarqy/fantasy-roster/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-roster/internal/domain/lineup"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/domain/round"
	cacherepo "github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-roster/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-roster/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-roster/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-roster/internal/platform/id"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

type repositories struct {
	players   player.Repository
	clubs     club.Repository
	rounds    round.Repository
	squads    fantasy.Repository
	transfers fantasy.TransferRepository
	lineups   lineup.Repository
}

// NewHTTPServer wires repositories, services and the router. The returned
// cleanup closes the database pool when one was opened.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if db == nil {
			return nil
		}
		return db.Close()
	}

	var (
		recorder       metrics.Recorder = metrics.Nop{}
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder = metrics.NewService(registry)
		metricsHandler = metrics.NewHandler(registry)
	}

	var provider usecase.CatalogProvider
	if cfg.CatalogEnabled {
		provider = catalog.NewClient(catalog.ClientConfig{
			BaseURL:        cfg.CatalogBaseURL,
			Token:          cfg.CatalogToken,
			Timeout:        cfg.CatalogTimeout,
			MaxRetries:     cfg.CatalogMaxRetries,
			PageSize:       cfg.CatalogPageSize,
			Concurrency:    cfg.CatalogConcurrency,
			Logger:         logger,
			CircuitBreaker: cfg.CatalogCircuit,
		})
	}

	queue := usecase.NewNoopJobQueue()
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker:   cfg.QStashCircuit,
		}, logger)
	}

	rules := cfg.Rules
	synthesizer := fantasy.NewSynthesizer(rules, fantasy.WithAttempts(cfg.SynthesisAttempts))

	catalogSvc := usecase.NewCatalogService(repos.players, repos.clubs, provider, recorder, logger)
	squadSvc := usecase.NewSquadService(
		repos.players,
		repos.squads,
		repos.transfers,
		repos.rounds,
		rules,
		synthesizer,
		idgen.NewUUIDGenerator(),
		recorder,
		logger,
	)
	lineupSvc := usecase.NewLineupService(repos.players, repos.squads, repos.lineups, repos.rounds, rules, recorder, logger)
	validationSvc := usecase.NewValidationService(repos.players, rules, cfg.ValidationWorkers, recorder, logger)
	scheduleSvc := usecase.NewRoundScheduleService(repos.rounds, queue, logger)

	handler := httpapi.NewHandler(catalogSvc, squadSvc, lineupSvc, validationSvc, scheduleSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		SwaggerEnabled:     cfg.AppEnv != config.EnvProd,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, *sqlx.DB, error) {
	var (
		repos repositories
		db    *sqlx.DB
	)

	if cfg.DBURL == "" {
		var (
			players []player.Player
			clubs   []club.Club
			rounds  []round.Round
		)
		if cfg.SeedMemory {
			players = memory.SeedPlayers()
			clubs = memory.SeedClubs()
			rounds = memory.SeedRounds()
		}
		squads := memory.NewSquadRepository()
		repos = repositories{
			players:   memory.NewPlayerRepository(players),
			clubs:     memory.NewClubRepository(clubs),
			rounds:    memory.NewRoundRepository(rounds),
			squads:    squads,
			transfers: memory.NewTransferRepository(squads),
			lineups:   memory.NewLineupRepository(),
		}
		logger.Info("using in-memory repositories", "seeded", cfg.SeedMemory)
	} else {
		var err error
		db, err = openDB(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		if cfg.SeedMemory {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
			}
		}
		repos = repositories{
			players:   postgres.NewPlayerRepository(db),
			clubs:     postgres.NewClubRepository(db),
			rounds:    postgres.NewRoundRepository(db),
			squads:    postgres.NewSquadRepository(db),
			transfers: postgres.NewTransferRepository(db),
			lineups:   postgres.NewLineupRepository(db),
		}
		logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL))
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
		repos.clubs = cacherepo.NewClubRepository(repos.clubs, store)
		repos.rounds = cacherepo.NewRoundRepository(repos.rounds, store)
	}

	return repos, db, nil
}
