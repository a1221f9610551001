package api

import (
	"github.com/hondana-app/hondana-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Search *service.SearchService
	Book   *service.BookService
	Shelf  *service.ShelfService
	Review *service.ReviewService
	Social *service.SocialService
	User   *service.UserService
	Feed   *service.FeedService
}
