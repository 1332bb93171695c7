package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	adminApi "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/admin/api"
	adminApp "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/admin/app"
	adminRepo "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/admin/repo"
	collectionApi "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/api"
	collectionApp "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/app"
	collectionRepo "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/collection/repo"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/maps"
	mapsApi "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/maps/api"
	notificationApi "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/notification/api"
	notificationApp "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/notification/app"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/notification/consumer"
	notificationDomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/notification/domain"
	notificationRepo "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/notification/repo"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/notify/email"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/notify/sms"
	paymentApi "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/api"
	paymentApp "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/app"
	paymentRepo "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/repo"
	rewardApi "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/api"
	rewardApp "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/app"
	rewardRepo "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/reward/repo"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/cache"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/config"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/db"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/health"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/middleware"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/models"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/mq"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/util"
	trackingApi "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/api"
	trackingApp "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/app"
	trackingDomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/domain"
	trackingRepo "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/tracking/repo"
	userApi "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/api"
	userApp "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/app"
	userRepo "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/user/repo"
)

func main() {
	service := flag.String("service", "", "Service to run: api|notifier")
	flag.Parse()

	// Allow service to be specified via environment variable
	if *service == "" {
		*service = os.Getenv("SERVICE")
	}
	if *service == "" {
		*service = "api"
	}

	switch *service {
	case "api":
		runAPIService()
	case "notifier":
		runNotifierService()
	default:
		fmt.Println("Usage: ecowastego -service=[api|notifier]")
		fmt.Println("   or: SERVICE=notifier ecowastego")
		os.Exit(1)
	}
}

// infra holds the connections both services open.
type infra struct {
	cfg     *models.Config
	log     *util.Logger
	stats   *db.QueryStats
	db      *pgxpool.Pool
	rmqConn *amqp091.Connection
	rmqCh   *amqp091.Channel
	redis   *redis.Client
}

func connect(name string) *infra {
	log := util.New()
	log.Info(name, "Starting service initialization...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Config", err)
	}
	log.OK("Config", "Configuration loaded successfully")

	stats := db.NewQueryStats(log, cfg.Database.SlowQuery)
	database, err := db.ConnectToDB(context.Background(), &cfg.Database, stats)
	if err != nil {
		log.Fatal("Database", err)
	}
	log.OK("Database", "Connected successfully")

	rmqConn, rmqCh, err := mq.ConnectToRMQ(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal("RabbitMQ", err)
	}
	log.OK("RabbitMQ", "Connected successfully")

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("Redis", "not reachable, rate limiting fails open: "+err.Error())
		} else {
			log.OK("Redis", "Connected successfully")
		}
		cancel()
	}

	return &infra{cfg: cfg, log: log, stats: stats, db: database, rmqConn: rmqConn, rmqCh: rmqCh, redis: rdb}
}

func (in *infra) close() {
	if in.redis != nil {
		in.redis.Close()
	}
	in.rmqCh.Close()
	in.rmqConn.Close()
	in.db.Close()
	in.log.Sync()
}

func runAPIService() {
	in := connect("APIService")
	defer in.close()
	log, cfg := in.log, in.cfg

	if err := mq.DeclareTopology(in.rmqCh, cfg.RabbitMQ.Exchange, ""); err != nil {
		log.Fatal("RabbitMQ", err)
	}

	publisher := mq.NewPublisher(in.rmqCh, cfg.RabbitMQ.Exchange)
	sharedCache := cache.New[any](cfg.Cache.MaxSize, cfg.Cache.TTL)
	verifier := middleware.NewTokenVerifier(cfg.Supabase.JWTSecret)

	users := userRepo.NewCachedRepo(userRepo.NewUserRepo(in.db), sharedCache)
	auth := middleware.Auth(verifier, users, log)

	var provider trackingDomain.RouteProvider
	var geocoder mapsApi.Geocoder
	if cfg.Maps.APIKey != "" {
		mapsClient, err := maps.NewClient(cfg.Maps.APIKey, cfg.Maps.Timeout)
		if err != nil {
			log.Fatal("Maps", err)
		}
		provider, geocoder = mapsClient, mapsClient
		log.OK("Maps", "Google Maps client ready")
	} else {
		log.Warn("Maps", "GOOGLE_MAPS_API_KEY not set, ETAs use the straight-line approximation")
	}
	estimator := trackingDomain.NewEstimator(provider, log)

	collections := collectionRepo.NewCollectionRepo(in.db)
	wsManager := trackingApi.NewWSManager(verifier, log)

	mux := http.NewServeMux()
	checks := []health.Check{health.Postgres(in.db), health.RabbitMQ(in.rmqConn)}
	if in.redis != nil {
		checks = append(checks, health.Redis(in.redis))
	}
	mux.HandleFunc("GET /health", health.Handler("ecowastego-api", checks...))

	userApi.NewHandler(userApp.NewUserService(users, log), log).RegisterRoutes(mux, auth)
	collectionApi.NewHandler(collectionApp.NewCollectionService(collections, publisher, log), log).RegisterRoutes(mux, auth)
	paymentApi.NewHandler(paymentApp.NewPaymentService(paymentRepo.NewPaymentRepo(in.db), publisher, log), log).RegisterRoutes(mux, auth)
	rewardApi.NewHandler(rewardApp.NewRewardService(rewardRepo.NewRewardRepo(in.db), log)).RegisterRoutes(mux, auth)
	trackingApi.NewHandler(
		trackingApp.NewTrackingService(trackingRepo.NewTrackingRepo(in.db), collections, estimator, wsManager, publisher, log),
		wsManager, log,
	).RegisterRoutes(mux, auth)
	mapsApi.NewHandler(estimator, geocoder).RegisterRoutes(mux, auth)
	notificationApi.NewHandler(
		notificationApp.NewNotificationService(notificationRepo.NewNotificationRepo(in.db), users, nil, nil, nil, log),
	).RegisterRoutes(mux, auth)
	adminApi.NewHandler(adminApp.NewAdminService(adminRepo.NewAdminRepo(in.db), in.stats, sharedCache)).RegisterRoutes(mux, auth)

	var handler http.Handler = mux
	if in.redis != nil {
		handler = middleware.RateLimit(in.redis, cfg.Redis.RateLimitRPS, cfg.Redis.TrustProxy, log)(handler)
	}
	handler = middleware.AccessLog(log)(handler)
	handler = middleware.RequestID(handler)

	serve(in, "ecowastego-api", handler, nil)
}

func runNotifierService() {
	in := connect("NotifierService")
	defer in.close()
	log, cfg := in.log, in.cfg

	if err := mq.DeclareTopology(in.rmqCh, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, "collection.#", "payment.#"); err != nil {
		log.Fatal("RabbitMQ", err)
	}

	var smsSender notificationDomain.SMSSender
	if smsClient := sms.NewClient(cfg.SMS); smsClient.Configured() {
		smsSender = smsClient
	} else {
		log.Warn("SMS", "MNOTIFY_API_KEY not set, SMS disabled")
	}
	var mailer notificationDomain.ReceiptMailer
	if m := email.NewMailer(cfg.SMTP); m != nil {
		mailer = m
	} else {
		log.Warn("SMTP", "SMTP_HOST not set, receipts disabled")
	}

	service := notificationApp.NewNotificationService(
		notificationRepo.NewNotificationRepo(in.db),
		userRepo.NewUserRepo(in.db),
		paymentRepo.NewPaymentRepo(in.db),
		smsSender, mailer, log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	statusConsumer := consumer.NewStatusConsumer(service, in.rmqCh, cfg.RabbitMQ.Queue, log)
	if err := statusConsumer.Start(ctx); err != nil {
		log.Fatal("StatusConsumer", err)
	}
	log.OK("StatusConsumer", "Started successfully")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Handler("ecowastego-notifier", health.Postgres(in.db), health.RabbitMQ(in.rmqConn)))

	serve(in, "ecowastego-notifier", middleware.RequestID(mux), cancel)
}

// serve runs the HTTP server until SIGINT/SIGTERM, then drains it.
func serve(in *infra, name string, handler http.Handler, onStop func()) {
	log, cfg := in.log, in.cfg

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.OK("HTTP", fmt.Sprintf("%s running on :%s", name, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn(name, "Shutting down...")
	if onStop != nil {
		onStop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP", err)
	} else {
		log.OK("HTTP", "Server stopped gracefully")
	}
	log.Info(name, "Shutdown complete")
}
