package infrastructure

import (
	"context"

	"facegate.io/infrastructure/env"
	startup "facegate.io/infrastructure/startUp"
)

type serverInterface interface {
	Start(ctx context.Context) error
}

// StartServer wires every service and blocks until ctx is cancelled.
func StartServer(ctx context.Context, cfg *env.Config) error {
	services, err := startup.StartServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer startup.CleanUpServices(context.Background(), services)

	var server serverInterface = &ginServer{
		cfg:    cfg,
		engine: NewRouter(cfg, services.Recognition, services.Store),
	}
	return server.Start(ctx)
}
