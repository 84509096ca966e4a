package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"levelwatch/internal/advisor"
	"levelwatch/internal/config"
	"levelwatch/internal/handler"
	"levelwatch/internal/metrics"
	"levelwatch/internal/notify"
	"levelwatch/internal/provider"
	"levelwatch/internal/service"
	"levelwatch/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "levelwatch/docs"
)

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	initTracerFunc  = tracing.InitTracer
	newProviderFunc = func(tracer trace.Tracer, timeout time.Duration) service.SnapshotProvider {
		return provider.NewYahooProvider(tracer, timeout)
	}
	newAdvisorFunc = func(tracer trace.Tracer, cfg *config.Config) service.AnalysisGenerator {
		return advisor.New(tracer, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	newEmailNotifierFunc = func(cfg *config.Config) service.Notifier {
		return notify.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.GmailUser, cfg.GmailPass, cfg.ToEmail)
	}
	newTelegramNotifierFunc = func(cfg *config.Config, timeout time.Duration) (service.Notifier, error) {
		return notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID, timeout)
	}
	newAlertServiceFunc = func(
		tracer trace.Tracer,
		p service.SnapshotProvider,
		g service.AnalysisGenerator,
		notifiers ...service.Notifier,
	) handler.AlertProcessor {
		return service.NewAlertService(tracer, p, g, notifiers...)
	}
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Levelwatch Alert Webhook API
// @version         1.0
// @description     Receives TradingView price alerts, generates an AI analysis and emails it.

// @host      localhost:5000
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second

	snapshots := newProviderFunc(tracer, timeout)
	generator := newAdvisorFunc(tracer, cfg)

	notifiers := []service.Notifier{newEmailNotifierFunc(cfg)}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		tg, err := newTelegramNotifierFunc(cfg, timeout)
		if err != nil {
			log.Printf("telegram channel disabled: %v", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	alerts := newAlertServiceFunc(tracer, snapshots, generator, notifiers...)

	m := metrics.New(prometheus.DefaultRegisterer)
	h := newHandlerFunc(tracer, cfg.WebhookSecret, alerts, m)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("levelwatch"))
	r.Use(cors.Default())

	h.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ListenPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
