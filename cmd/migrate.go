package cmd

import (
	"context"
	"fmt"

	"github.com/jsupa/turbo-template/domain/user"
	"github.com/jsupa/turbo-template/infrastructure/persistence"
	"github.com/jsupa/turbo-template/pkg/logger"

	"go.uber.org/zap"
)

// Migrate connects, ensures the schema and disconnects. A failed disconnect is
// returned when nothing else failed first.
func Migrate(ctx context.Context, manager *persistence.Manager, repo user.Repository) (err error) {
	if err := manager.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if closeErr := manager.Disconnect(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	logger.Info("Schema is up to date",
		zap.String("driver", manager.DriverName()),
		zap.String("target", manager.Target()),
	)
	return nil
}
