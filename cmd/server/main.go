package main

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/brightnest/bookingcore/pkg/booking"
	"github.com/brightnest/bookingcore/pkg/config"
	"github.com/brightnest/bookingcore/pkg/dispatch"
	"github.com/brightnest/bookingcore/pkg/httpapi"
	"github.com/brightnest/bookingcore/pkg/httpserver"
	"github.com/brightnest/bookingcore/pkg/logger"
	"github.com/brightnest/bookingcore/pkg/notification"
	"github.com/brightnest/bookingcore/pkg/pg"
	"github.com/brightnest/bookingcore/pkg/stream"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_SERVICE_NAME" envDefault:"bookingcore"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	WebhookSecret string `env:"WEBHOOK_SECRET,required"`
	AdminToken    string `env:"ADMIN_TOKEN"`

	NotificationCapacity int           `env:"NOTIFICATION_CAPACITY" envDefault:"1000"`
	HeartbeatInterval    time.Duration `env:"STREAM_HEARTBEAT_INTERVAL" envDefault:"30s"`
	StreamWriteTimeout   time.Duration `env:"STREAM_WRITE_TIMEOUT" envDefault:"2s"`
	StreamBufferSize     int           `env:"STREAM_BUFFER_SIZE" envDefault:"16"`

	// RedisURL left empty keeps fan-out in-process; set it to share the
	// live stream across instances.
	RedisURL     string `env:"REDIS_URL"`
	RedisChannel string `env:"REDIS_STREAM_CHANNEL" envDefault:"bookingcore:notifications"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Env, cfg.ServiceName))
	logger.SetAsDefault(log)

	bookings, cleanupPG, err := buildBookingStore(ctx, log)
	if err != nil {
		return err
	}
	defer cleanupPG()

	broadcaster, err := buildBroadcaster(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := broadcaster.Close(); err != nil {
			log.Error("failed to close broadcaster", logger.Error(err))
		}
	}()

	store, err := notification.NewStore(cfg.NotificationCapacity)
	if err != nil {
		return err
	}
	feed := notification.NewFeed(store, broadcaster, notification.WithFeedLogger(log))

	var pmCfg dispatch.PostmarkConfig
	config.MustLoad(&pmCfg)

	dispatchOpts := []dispatch.Option{
		dispatch.WithLogger(log),
		dispatch.WithSender(dispatch.ChannelSMS, dispatch.NewDevSender()),
	}
	if pmCfg.ServerToken != "" {
		email, err := dispatch.NewPostmarkSender(pmCfg)
		if err != nil {
			return err
		}
		dispatchOpts = append(dispatchOpts, dispatch.WithSender(dispatch.ChannelEmail, email))
		log.Info("email channel enabled", logger.Channel("email"))
	} else {
		dispatchOpts = append(dispatchOpts, dispatch.WithSender(dispatch.ChannelEmail, dispatch.NewDevSender()))
		log.Warn("no postmark token configured, email channel runs in dev mode")
	}
	dispatcher := dispatch.New(dispatchOpts...)

	reconciler := booking.NewReconciler(cfg.WebhookSecret, bookings, feed,
		booking.WithAutomation(dispatcher),
		booking.WithReconcilerLogger(log),
	)

	apiOpts := []httpapi.Option{
		httpapi.WithHeartbeatInterval(cfg.HeartbeatInterval),
		httpapi.WithLogger(log),
	}
	if cfg.AdminToken != "" {
		apiOpts = append(apiOpts, httpapi.WithAdminGuard(tokenGuard(cfg.AdminToken)))
	} else {
		log.Warn("no admin token configured, admin endpoints are open")
	}
	api := httpapi.New(reconciler, feed, broadcaster, dispatcher, apiOpts...)

	srv := httpserver.New(
		httpserver.WithAddr(cfg.HTTPAddr),
		// Write timeout stays at zero: the notification stream holds
		// connections open indefinitely.
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("server listening", slog.String("addr", cfg.HTTPAddr))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("server stopped")
		}),
	)
	return srv.Run(ctx, api.Router())
}

// buildBookingStore connects Postgres when a DSN is configured and falls
// back to the in-memory store otherwise.
func buildBookingStore(ctx context.Context, log *slog.Logger) (booking.Store, func(), error) {
	var cfg pg.Config
	config.MustLoad(&cfg)

	if cfg.ConnectionString == "" {
		log.Warn("no postgres configured, bookings are held in memory")
		return booking.NewMemoryStore(), func() {}, nil
	}

	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
		pool.Close()
		return nil, nil, err
	}

	log.Info("postgres booking store ready")
	return booking.NewPostgresStore(pool), pool.Close, nil
}

// buildBroadcaster returns the Redis-backed broadcaster when a URL is
// configured, so multiple instances share one live stream.
func buildBroadcaster(ctx context.Context, cfg appConfig, log *slog.Logger) (stream.Broadcaster, error) {
	memOpts := []stream.MemoryOption{
		stream.WithBufferSize(cfg.StreamBufferSize),
		stream.WithWriteTimeout(cfg.StreamWriteTimeout),
	}

	if cfg.RedisURL == "" {
		return stream.NewMemoryBroadcaster(memOpts...), nil
	}

	client, err := stream.ConnectRedis(ctx, cfg.RedisURL, 3, 2*time.Second)
	if err != nil {
		return nil, err
	}
	log.Info("redis stream fan-out enabled")
	return stream.NewRedisBroadcaster(client, cfg.RedisChannel, log, memOpts...)
}

func tokenGuard(token string) httpapi.AdminGuard {
	return func(r *http.Request) bool {
		got := r.Header.Get("Authorization")
		want := "Bearer " + token
		return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
	}
}
