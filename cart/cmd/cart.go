package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/shopindream/storefront/cart/internal/controller"
	"github.com/shopindream/storefront/cart/internal/mirror"
	cartOtel "github.com/shopindream/storefront/cart/internal/otel"
	"github.com/shopindream/storefront/cart/internal/service"
	"github.com/shopindream/storefront/cart/internal/session"
	"github.com/shopindream/storefront/cart/internal/storage"
	"github.com/shopindream/storefront/cart/internal/store"
	"github.com/shopindream/storefront/internal/backend"
	"github.com/shopindream/storefront/internal/config"
	"github.com/shopindream/storefront/internal/constants"
	inErrors "github.com/shopindream/storefront/internal/errors"
	"github.com/shopindream/storefront/internal/infra"
	"github.com/shopindream/storefront/internal/log"
	"github.com/shopindream/storefront/internal/middleware"
	"github.com/shopindream/storefront/internal/otel"
)

func RunCartService(c context.Context) {
	c, span := cartOtel.Tracer.Start(c, "RunCartService")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.AppCartService).
		Str(log.KeyTag, "main RunCartService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppCartService)
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.AppCartService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		logger.Info().Msg("shutting down otel")
		c = logger.WithContext(c)
		if err := otel.ShutdownOtel(c, otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing backend client").Logger()
	logger.Info().Msg("initializing backend client")
	client := backend.NewClient(time.Duration(cfg.Backend.TimeoutSec) * time.Second)
	cartMirror := mirror.New(client, cfg.Backend.CartURL)
	logger.Info().Msg("initialized backend client")

	logger = logger.With().Str(log.KeyProcess, "initializing cart storage").Logger()
	logger.Info().Msg("initializing cart storage")
	c = logger.WithContext(c)
	newAdapter, err := newAdapterFactory(c, cfg)
	if err != nil {
		err = fmt.Errorf("failed initializing cart storage with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized cart storage")

	logger = logger.With().Str(log.KeyProcess, "initializing session manager").Logger()
	logger.Info().Msg("initializing session manager")
	sessions := session.NewManager(func(sessionID string) *service.CartService {
		return service.NewCartService(
			store.NewStore(),
			newAdapter(sessionID),
			cartMirror,
			client,
			cfg.Backend.CheckoutURL,
		)
	})
	logger.Info().Msg("initialized session manager")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.AppCartService),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.Session,
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	controller.AttachCartController(router, sessions)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	httpServer := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger = logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	if err := httpServer.Shutdown(context.Background()); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown http server")
}

// newAdapterFactory selects the persistence driver once at startup and
// returns a per-session adapter constructor.
func newAdapterFactory(
	c context.Context,
	cfg *config.Config,
) (func(sessionID string) storage.Adapter, error) {
	switch cfg.Storage.Driver {
	case "redis":
		cache := infra.NewCacheClient(c, cfg.Cache)
		return func(sessionID string) storage.Adapter {
			return storage.NewRedisStore(cache, sessionID)
		}, nil
	case "", "file":
		dir := cfg.Storage.Dir
		if dir == "" {
			dir = "./data/carts"
		}
		return func(sessionID string) storage.Adapter {
			return storage.NewFileStore(filepath.Join(dir, "cart-"+sessionID+".json"))
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver=%s", cfg.Storage.Driver)
}
