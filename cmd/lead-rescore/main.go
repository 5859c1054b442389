// Command lead-rescore queues a rescore task for every open lead. Run it
// after changing the scoring weights so stored scores catch up with the
// current table.
package main

import (
	"context"

	leadrepo "github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/scheduler"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/config"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/db"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead rescore backfill")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	ids, err := leadrepo.New(pool).ListOpenIDs(ctx)
	if err != nil {
		log.Error("failed to list open leads", "error", err)
		return
	}
	if len(ids) == 0 {
		log.Info("no open leads to rescore")
		return
	}

	queued := 0
	for _, id := range ids {
		if err := client.EnqueueLeadRescore(ctx, scheduler.LeadRescorePayload{LeadID: id.String()}); err != nil {
			log.Error("failed to enqueue rescore task", "leadId", id, "error", err)
			continue
		}
		queued++
	}

	log.Info("rescore tasks queued", "queued", queued, "openLeads", len(ids))
}
