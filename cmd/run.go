package cmd

import (
	"context"
	"fmt"
	"time"

	"challenger/application"
	"challenger/config"
	"challenger/database"
	"challenger/domain/interfaces"
	"challenger/infrastructure"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// runtime holds the shared components every subcommand builds on
type runtime struct {
	cfg        *config.Config
	db         *database.DB
	natsClient *infrastructure.NATSClient
	publisher  *infrastructure.NATSEventPublisher
	engine     *application.ChallengeEngine
}

// newRuntime connects to the database and, when enabled, NATS and wires the engine
func newRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	rt := &runtime{cfg: cfg, db: db}

	if cfg.NATSEnabled {
		log.WithField("servers", cfg.NATSServers).Info("Connecting to NATS...")
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(connectCtx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		rt.natsClient = natsClient
	} else {
		log.Info("NATS disabled, events are handled in process only")
	}

	rt.publisher = infrastructure.NewNATSEventPublisher(rt.natsClient, infrastructure.NewEventSubjectMapper())
	if err := rt.publisher.EnsureDomainEventStream(); err != nil {
		rt.close()
		return nil, fmt.Errorf("failed to ensure domain event stream: %w", err)
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, rt.publisher)
	rt.engine = application.NewChallengeEngine(uowFactory, cfg, cfg.SettlementBatchSize)

	return rt, nil
}

func (rt *runtime) close() {
	if rt.natsClient != nil {
		if err := rt.natsClient.Close(); err != nil {
			log.WithError(err).Error("Error closing NATS connection")
		}
	}
	log.Info("Closing database connection...")
	rt.db.Close()
}

// Run starts the long-running engine process with the settlement worker
func Run(ctx context.Context) error {
	log.Info("Starting challenge engine...")

	cfg := config.Get()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	cleanup, err := wireSideEffects(ctx, rt, true)
	if err != nil {
		return err
	}
	defer cleanup()

	worker := application.NewSettlementWorker(rt.engine, rt.db, cfg.SettlementLockKey, cfg.SettlementInterval)
	stopWorker, err := worker.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start settlement worker: %w", err)
	}

	log.WithField("environment", cfg.Environment).Info("Challenge engine is running")
	<-ctx.Done()

	log.Info("Shutting down challenge engine...")
	stopWorker()

	log.Info("Shutdown completed")
	return nil
}

// newNotifier uses Discord direct messages when a token is configured and falls back to logging otherwise
func newNotifier(cfg *config.Config) (interfaces.Notifier, func(), error) {
	if cfg.DiscordToken == "" {
		log.Info("No DISCORD_TOKEN configured, notifications are logged only")
		return infrastructure.NewLogNotifier(), func() {}, nil
	}

	// Direct messages only use the REST API, so the gateway is never opened
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	log.Info("Discord notifications enabled")

	closeSession := func() {
		session.Client.CloseIdleConnections()
	}
	return infrastructure.NewDiscordNotifier(session, cfg.NotificationRatePerSecond), closeSession, nil
}
