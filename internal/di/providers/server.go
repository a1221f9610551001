package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/hondana-app/hondana-server/internal/api"
	"github.com/hondana-app/hondana-server/internal/config"
	"github.com/hondana-app/hondana-server/internal/logger"
	"github.com/hondana-app/hondana-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	verifierHandle := do.MustInvoke[*VerifierHandle](i)

	services := &api.Services{
		Search: do.MustInvoke[*service.SearchService](i),
		Book:   do.MustInvoke[*service.BookService](i),
		Shelf:  do.MustInvoke[*service.ShelfService](i),
		Review: do.MustInvoke[*service.ReviewService](i),
		Social: do.MustInvoke[*service.SocialService](i),
		User:   do.MustInvoke[*service.UserService](i),
		Feed:   do.MustInvoke[*service.FeedService](i),
	}

	handler := api.NewServer(services, verifierHandle.Verifier, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
