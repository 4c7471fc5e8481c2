package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/twaclaw/cowtracker-app/pkg/bridge"
	"github.com/twaclaw/cowtracker-app/pkg/common"
	"github.com/twaclaw/cowtracker-app/pkg/db"
	"github.com/twaclaw/cowtracker-app/pkg/herd"
	herdHttp "github.com/twaclaw/cowtracker-app/pkg/http"
	"github.com/twaclaw/cowtracker-app/pkg/mailer"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	herdDbType := os.Getenv(common.EnvKeyHerdDBType)
	switch herdDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown HERD_DB_TYPE: " + herdDbType)
	}

	conf, err := herd.LoadThresholds()
	if err != nil {
		log.Fatal("Failed to load threshold configuration: ", err)
	}

	logger := common.GetLogger()

	smtpPort, err := strconv.Atoi(os.Getenv(common.EnvKeySmtpPort))
	if err != nil {
		log.Fatal("Invalid SMTP_PORT, or not set in .env, should be an int value")
	}
	recipients := strings.Split(os.Getenv(common.EnvKeySmtpRecipients), ",")
	for i := range recipients {
		recipients[i] = strings.TrimSpace(recipients[i])
	}
	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Server:   os.Getenv(common.EnvKeySmtpServer),
		Port:     smtpPort,
		User:     os.Getenv(common.EnvKeySmtpUser),
		Password: os.Getenv(common.EnvKeySmtpPassword),
	})

	herdCore := herd.Herd{
		Db:    *dbInstance,
		Conf:  conf,
		State: herd.NewStateStore(),
	}
	dispatcher := herdCore.NewDispatcher(sender, recipients, 64)
	herdCore.WithServices(herd.ServiceOpts{
		Ingest: herdCore.GetIIngest(),
		Notify: dispatcher,
	})

	if err := herdCore.RebuildState(); err != nil {
		log.Fatal("Failed to rebuild device state from store: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go dispatcher.Run(ctx)

	sweeper := herdCore.NewSweeper()
	go sweeper.Run(ctx)
	logger.Info("Silence sweeper started", zap.Duration("period", conf.SweepPeriod))

	ttnPort, err := strconv.Atoi(os.Getenv(common.EnvKeyTTNPort))
	if err != nil {
		log.Fatal("Invalid TTN_PORT, or not set in .env, should be an int value")
	}
	ttnClient := bridge.NewClient(bridge.Config{
		Host:   os.Getenv(common.EnvKeyTTNHost),
		Port:   ttnPort,
		AppID:  os.Getenv(common.EnvKeyTTNAppID),
		AppKey: os.Getenv(common.EnvKeyTTNAppKey),
	}, herdCore.Ingest)
	if err := ttnClient.Connect(); err != nil {
		log.Fatal("Failed to connect to TTN broker: ", err)
	}
	defer ttnClient.Disconnect()
	herdCore.WithServices(herd.ServiceOpts{Downlink: ttnClient})

	var defaultRate float64 = 1
	var defaultBurst int64 = 5
	if raw := os.Getenv(common.EnvKeyDownlinkRate); raw != "" {
		if defaultRate, err = strconv.ParseFloat(raw, 64); err != nil {
			log.Fatal("Invalid HERD_DOWNLINK_RATE, should be a float64 value")
		}
	}
	if raw := os.Getenv(common.EnvKeyDownlinkBurst); raw != "" {
		if defaultBurst, err = strconv.ParseInt(raw, 10, 64); err != nil {
			log.Fatal("Invalid HERD_DOWNLINK_BURST, should be an int value")
		}
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyHerdHttpHostPort))
	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &herdHttp.RestfulServer{
		Server:           gin.Default(),
		Herd:             &herdCore,
		RateLimiterStore: herd.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
