package providers

import (
	"github.com/samber/do/v2"

	"github.com/hondana-app/hondana-server/internal/logger"
	"github.com/hondana-app/hondana-server/internal/metadata/googlebooks"
	"github.com/hondana-app/hondana-server/internal/metadata/ndl"
	"github.com/hondana-app/hondana-server/internal/metadata/openbd"
	"github.com/hondana-app/hondana-server/internal/service"
	"github.com/hondana-app/hondana-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(_ do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSearchService provides the aggregated book search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	google := do.MustInvoke[*googlebooks.Client](i)
	library := do.MustInvoke[*ndl.Client](i)
	covers := do.MustInvoke[*openbd.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(google, library, covers, log.Logger), nil
}

// ProvideBookService provides the book resolution service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	google := do.MustInvoke[*googlebooks.Client](i)
	covers := do.MustInvoke[*openbd.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, google, covers, log.Logger), nil
}

// ProvideShelfService provides the shelf service.
func ProvideShelfService(i do.Injector) (*service.ShelfService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	bookService := do.MustInvoke[*service.BookService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShelfService(storeHandle.Store, bookService, log.Logger), nil
}

// ProvideReviewService provides the review service.
func ProvideReviewService(i do.Injector) (*service.ReviewService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReviewService(storeHandle.Store, log.Logger), nil
}

// ProvideSocialService provides the follow and profile service.
func ProvideSocialService(i do.Injector) (*service.SocialService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSocialService(storeHandle.Store, log.Logger), nil
}

// ProvideUserService provides the profile management service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideFeedService provides the home feed service.
func ProvideFeedService(i do.Injector) (*service.FeedService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFeedService(storeHandle.Store, log.Logger), nil
}
