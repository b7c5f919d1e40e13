package application

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/deduction-backend/internal/config"
	"github.com/rocketscienceinc/deduction-backend/internal/deduction"
	"github.com/rocketscienceinc/deduction-backend/internal/entity"
	"github.com/rocketscienceinc/deduction-backend/internal/repository"
	"github.com/rocketscienceinc/deduction-backend/internal/usecase"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	deck := entity.NewStandardDeck()
	sessionRepo := repository.NewSessionRepository()

	tuning := deduction.Tuning{
		HandIncreaseFactor:     conf.Engine.HandIncreaseFactor,
		EnvelopeDecreaseFactor: conf.Engine.EnvelopeDecreaseFactor,
		RefutationBaseIncrease: conf.Engine.RefutationBaseIncrease,
		RefutationGrowthFactor: conf.Engine.RefutationGrowthFactor,
		ConfidenceThreshold:    conf.Engine.ConfidenceThreshold,
	}

	manager := usecase.NewSessionManager(
		logger,
		sessionRepo,
		deck,
		conf.Engine.HandSize,
		conf.Engine.TopLikelyCards,
		tuning,
		deduction.StrategyKind(conf.Engine.Strategy),
	)

	// The event-collection surface (setup and suggestion input) mounts
	// on the manager; until one is attached the process waits for
	// shutdown.
	log.Info("deduction engine ready",
		"deck_size", deck.Size(),
		"hand_size", conf.Engine.HandSize,
		"strategy", conf.Engine.Strategy,
	)

	<-ctx.Done()
	log.Info("Application context canceled, shutting down", "active_sessions", manager.ActiveSessions(ctx))

	return nil
}
