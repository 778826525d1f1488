package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"kassenboard/internal/catalog"
	"kassenboard/internal/common/httpx"
	"kassenboard/internal/common/logger"
	"kassenboard/internal/config"
	"kassenboard/internal/connections/database"
	"kassenboard/internal/connections/rabbitmq"
	"kassenboard/internal/httpapi"
	"kassenboard/internal/hub"
	"kassenboard/internal/notify"
	"kassenboard/internal/service"
	"kassenboard/internal/store"
)

func main() {
	port := flag.Int("port", 0, "listen port (overrides PORT env)")
	flag.Parse()

	lg := logger.New("bootstrap")
	cfg := config.FromEnv()
	if *port != 0 {
		cfg.Port = *port
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Store: durable when DATABASE_URL is set and reachable, otherwise the
	// board falls back to the ephemeral in-memory store.
	var (
		st   store.Orders = store.NewMemory()
		pool *pgxpool.Pool
	)
	if cfg.Durable() {
		p, err := database.Connect(ctx, cfg.DSN())
		if err != nil {
			lg.Error("db_unreachable", err, map[string]any{"fallback": "ephemeral"})
		} else {
			pool = p
			defer pool.Close()
			pg := store.NewPostgres(pool, logger.New("store"))
			if err := pg.EnsureSchema(ctx); err != nil {
				lg.Error("schema_init_failed", err, nil)
			}
			if err := pg.LoadActive(ctx); err != nil {
				lg.Error("orders_load_failed", err, nil)
			}
			st = pg
		}
	}

	// Event mirror: no-op unless RABBITMQ_URL is configured.
	var notifier service.Notifier = notify.Noop{}
	if cfg.RabbitURL != "" {
		mq, err := rabbitmq.Dial(cfg.RabbitURL)
		if err != nil {
			lg.Error("rabbitmq_unreachable", err, nil)
		} else {
			defer mq.Close()
			pub, err := notify.NewAMQPPublisher(mq, logger.New("notify"))
			if err != nil {
				lg.Error("exchange_declare_failed", err, nil)
			} else {
				notifier = pub
			}
		}
	}

	h := hub.New(logger.New("hub"))
	svc := service.NewOrderService(st, h, notifier, logger.New("orders"))
	h.Bind(svc)
	go h.Run(ctx)

	var pinger httpapi.Pinger
	if pool != nil {
		pinger = pool
	}
	api := httpapi.NewHandler(catalog.Default(), pinger, logger.New("http"))
	mux := httpapi.Router(api, h, cfg.PublicDir)

	lg.Info("service_started", map[string]any{"port": cfg.Port, "durable": pool != nil, "mirror": cfg.RabbitURL != ""})
	srv := httpx.New(":"+strconv.Itoa(cfg.Port), mux)
	if err := srv.Run(ctx); err != nil {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
}
