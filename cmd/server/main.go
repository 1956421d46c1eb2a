package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"storekeep-be/internal/codec"
	"storekeep-be/internal/config"
	"storekeep-be/internal/db"
	"storekeep-be/internal/lineitem"
	"storekeep-be/internal/logger"
	"storekeep-be/internal/order"
	"storekeep-be/internal/product"
	"storekeep-be/internal/promotion"

	"go.uber.org/zap"
)

const defaultFulfillInterval = time.Minute

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	ids, err := codec.New(cfg.IDCodecSalt)
	if err != nil {
		log.Fatalf("failed to build id codec: %v", err)
	}

	promoRepo := promotion.NewRepository(database)
	productRepo := product.NewRepository(database, promoRepo)
	itemRepo := lineitem.NewRepository(database)
	orderRepo := order.NewRepository(database)

	orderSvc := order.NewService(orderRepo, itemRepo, productRepo, ids)

	go fulfillLoop(orderSvc, cfg.FulfillInterval)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	logger.L().Sugar().Infof("server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, logger.HTTP(mux)))
}

// fulfillLoop sweeps every open order on a fixed interval. Per-order
// failures are logged inside the pass and never stop the loop.
func fulfillLoop(svc order.Service, configured string) {
	interval := defaultFulfillInterval
	if configured != "" {
		d, err := time.ParseDuration(configured)
		if err != nil {
			log.Fatalf("invalid FULFILL_INTERVAL: %v", err)
		}
		interval = d
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := svc.FulfillOpen(context.Background()); err != nil {
			logger.L().Error("fulfillment pass failed", zap.Error(err))
		}
	}
}
