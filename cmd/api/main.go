package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-order-saga.git/internal/config"
	"github.com/ariefcatur/go-order-saga.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-order-saga.git/internal/kafka"
	"github.com/ariefcatur/go-order-saga.git/internal/ledger"
	"github.com/ariefcatur/go-order-saga.git/internal/notify"
	"github.com/ariefcatur/go-order-saga.git/internal/orders"
	"github.com/ariefcatur/go-order-saga.git/internal/orderstore"
	"github.com/ariefcatur/go-order-saga.git/internal/postgres"
	"github.com/ariefcatur/go-order-saga.git/internal/redisx"
	"github.com/ariefcatur/go-order-saga.git/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.ServiceName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ledger and order store live in separate databases on purpose; the
	// saga compensates instead of sharing a transaction
	ledgerDB, err := postgres.Connect(ctx, cfg.LedgerDSN)
	if err != nil {
		log.Error("ledger db connect", "err", err)
		os.Exit(1)
	}
	defer ledgerDB.Close()

	ordersDB, err := postgres.Connect(ctx, cfg.OrdersDSN)
	if err != nil {
		log.Error("orders db connect", "err", err)
		os.Exit(1)
	}
	defer ordersDB.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	pCreated := kafkax.NewProducer(log, cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pUpdated := kafkax.NewProducer(log, cfg.KafkaBrokers, orders.TopicStatusUpdated, 1024)
	pUpdated.Start(ctx)
	pEmails := kafkax.NewProducer(log, cfg.KafkaBrokers, orders.TopicEmails, 1024)
	pEmails.Start(ctx)

	dispatch := &notify.Dispatcher{
		Created:     pCreated,
		Updated:     pUpdated,
		Emails:      pEmails,
		ServiceName: cfg.ServiceName,
	}

	coord := orders.NewCoordinator(log,
		&ledger.Repo{DB: ledgerDB},
		&orderstore.Repo{DB: ordersDB},
		&redisx.OrderCache{Redis: rdb},
		dispatch,
		orders.CoordinatorOpts{
			AdminEmail:          cfg.AdminEmail,
			EmailOnStatusUpdate: cfg.EmailOnStatusUpdate,
		})

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{Coordinator: coord}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	// close inboxes -> flush & close writers
	pCreated.Close()
	pUpdated.Close()
	pEmails.Close()
	cancel()
	pCreated.WaitClosed()
	pUpdated.WaitClosed()
	pEmails.WaitClosed()
}
