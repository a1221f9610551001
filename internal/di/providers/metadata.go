package providers

import (
	"github.com/samber/do/v2"

	"github.com/hondana-app/hondana-server/internal/config"
	"github.com/hondana-app/hondana-server/internal/logger"
	"github.com/hondana-app/hondana-server/internal/metadata/googlebooks"
	"github.com/hondana-app/hondana-server/internal/metadata/ndl"
	"github.com/hondana-app/hondana-server/internal/metadata/openbd"
)

// ProvideGoogleBooksClient provides the primary bibliographic catalog client.
func ProvideGoogleBooksClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return googlebooks.New(cfg.Catalog.GoogleBooksAPIKey, log.Logger), nil
}

// ProvideNDLClient provides the library catalog client.
func ProvideNDLClient(i do.Injector) (*ndl.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return ndl.New(log.Logger), nil
}

// ProvideOpenBDClient provides the cover and ISBN lookup client.
func ProvideOpenBDClient(i do.Injector) (*openbd.Client, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return openbd.New(log.Logger), nil
}
