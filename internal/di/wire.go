//go:build wireinject
// +build wireinject

package di

import (
	"MacroBot/internal/usecase"
	"MacroBot/pkg/config"
	"MacroBot/pkg/server"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideErrorPublisher,
	ProvideLogger,
	ProvidePostgresClient,
	ProvideStore,
	ProvideCache,
	ProvideMetrics,
)

// InitializeBot wires the webhook server.
func InitializeBot(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		infraSet,
		ProvideMessenger,
		ProvideLookup,
		ProvideLineHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeNotifier wires one digest notification cycle.
func InitializeNotifier(cfg *config.Config) (*usecase.ChangeNotifier, func(), error) {
	wire.Build(
		infraSet,
		ProvideMessenger,
		ProvideUpdateScanner,
		ProvideChangeNotifier,
	)
	return nil, nil, nil
}

// InitializeSync wires one ingestion run.
func InitializeSync(cfg *config.Config) (*usecase.IngestionSync, func(), error) {
	wire.Build(
		infraSet,
		ProvideSeriesSource,
		ProvideIngestionSync,
	)
	return nil, nil, nil
}
