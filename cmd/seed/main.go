package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tmarts/boxoffice/internal/app"
	"github.com/tmarts/boxoffice/internal/clock"
	"github.com/tmarts/boxoffice/internal/config"
	"github.com/tmarts/boxoffice/internal/logger"
	"github.com/tmarts/boxoffice/internal/storage/postgres"
	"github.com/tmarts/boxoffice/migrations"
	"go.uber.org/zap"
)

var categories = []string{"concert", "sports", "theater", "conference", "workshop", "festival", "comedy"}

var cities = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
	"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose",
	"Austin", "Jacksonville", "Fort Worth", "Columbus", "Charlotte",
	"San Francisco", "Indianapolis", "Seattle", "Denver", "Boston",
}

var ticketPools = []int{100, 500, 1000, 2000, 5000}

func main() {
	eventCount := flag.Int("events", 1500, "number of events to create")
	buyerShare := flag.Float64("buyer-share", 0.3, "fraction of events that receive purchases")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	zlog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		zlog.Fatal("apply migrations", zap.Error(err))
	}

	zlog.Info("clearing existing data")
	if _, err := pool.Exec(ctx, `TRUNCATE purchases, events RESTART IDENTITY CASCADE`); err != nil {
		zlog.Fatal("truncate", zap.Error(err))
	}

	eventRepo := postgres.NewEventRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	catalog := app.NewCatalogService(eventRepo, clock.NewSystem())

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	zlog.Info("creating events", zap.Int("count", *eventCount))
	eventIDs := make([]string, 0, *eventCount)
	for i := 0; i < *eventCount; i++ {
		event, err := catalog.CreateEvent(ctx, app.CreateEventInput{
			Name:         fmt.Sprintf("Showcase %04d", i+1),
			Description:  "Seeded event for local development.",
			Date:         now.Add(time.Duration(rng.Intn(180*24)) * time.Hour),
			Venue:        fmt.Sprintf("Venue %d", rng.Intn(200)+1),
			City:         cities[rng.Intn(len(cities))],
			Category:     categories[rng.Intn(len(categories))],
			TotalTickets: ticketPools[rng.Intn(len(ticketPools))],
			Price:        15.0 + rng.Float64()*235.0,
		})
		if err != nil {
			zlog.Fatal("create event", zap.Error(err))
		}
		eventIDs = append(eventIDs, event.ID)
	}

	// Purchases go through the same reserve-then-record path as the API, so
	// seeding can never bypass the atomic decrement. Backdating works by
	// pinning the service clock per purchase.
	zlog.Info("creating purchases")
	purchaseCount := 0
	for _, eventID := range eventIDs {
		if rng.Float64() > *buyerShare {
			continue
		}
		for n := rng.Intn(20) + 1; n > 0; n-- {
			createdAt := now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour)
			svc := app.NewPurchaseService(eventRepo, purchaseRepo, clock.NewFixed(createdAt), zlog)

			_, err := svc.PurchaseTickets(ctx, app.PurchaseTicketsInput{
				EventID:       eventID,
				CustomerEmail: fmt.Sprintf("buyer%d@example.com", rng.Intn(10000)),
				CustomerName:  fmt.Sprintf("Buyer %d", rng.Intn(10000)),
				Quantity:      rng.Intn(5) + 1,
			})
			if err != nil {
				// Sold out is expected for small events; anything else is not.
				zlog.Debug("seed purchase skipped", zap.String("event_id", eventID), zap.Error(err))
				continue
			}
			purchaseCount++
		}
	}

	zlog.Info("seed complete",
		zap.Int("events", len(eventIDs)),
		zap.Int("purchases", purchaseCount),
	)
}
