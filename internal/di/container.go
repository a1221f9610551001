// Package di provides dependency injection configuration for the Hondana server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/hondana-app/hondana-server/internal/config"
	"github.com/hondana-app/hondana-server/internal/di/providers"
	"github.com/hondana-app/hondana-server/internal/logger"
	"github.com/hondana-app/hondana-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideVerifier)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Catalog clients
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideNDLClient)
	do.Provide(injector, providers.ProvideOpenBDClient)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideShelfService)
	do.Provide(injector, providers.ProvideReviewService)
	do.Provide(injector, providers.ProvideSocialService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideFeedService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.ShelfService](injector)
	_ = do.MustInvoke[*service.ReviewService](injector)
	_ = do.MustInvoke[*service.SocialService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.FeedService](injector)

	// Server last, so everything it needs already exists
	_, err := do.Invoke[*providers.HTTPServerHandle](injector)
	return err
}
