package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-order-saga.git/internal/config"
	kafkax "github.com/ariefcatur/go-order-saga.git/internal/kafka"
	"github.com/ariefcatur/go-order-saga.git/internal/mailer"
	"github.com/ariefcatur/go-order-saga.git/internal/orders"
	"github.com/ariefcatur/go-order-saga.git/internal/redisx"
	"github.com/ariefcatur/go-order-saga.git/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.ServiceName + "-mailer")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &mailer.Service{
		Log:         log,
		Redis:       rdb,
		Sender:      &mailer.SMTPSender{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom},
		ServiceName: cfg.ServiceName + "-mailer",
	}

	group := getenv("MAILER_GROUP", "mailer-svc")
	workers := mustAtoi(os.Getenv("MAILER_WORKERS"), "4")
	cons := kafkax.NewConsumer(log, cfg.KafkaBrokers, group, orders.TopicEmails, workers)

	go func() {
		log.Info("mailer consumer started", "group", group, "topic", orders.TopicEmails, "workers", workers)
		if err := cons.Start(ctx, svc.HandleEmail); err != nil {
			log.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down mailer")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
