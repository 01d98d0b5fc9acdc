package main

import (
	"context"
	"fmt"
	"time"

	"onghub/internal/domain/application"
	"onghub/internal/domain/feedback"
	"onghub/internal/domain/nomenclature"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/cache"
	"onghub/internal/infrastructure/metrics"
	"onghub/internal/infrastructure/registry"
	"onghub/internal/infrastructure/storage/postgres"
	"onghub/internal/infrastructure/storage/postgres/application_repo"
	"onghub/internal/infrastructure/storage/postgres/feedback_repo"
	"onghub/internal/infrastructure/storage/postgres/nomenclature_repo"
	"onghub/internal/infrastructure/storage/postgres/organization_repo"
	"onghub/pkg/logger"
)

type config struct {
	Pool             *postgres.Pool
	ANAFURL          string
	ANAFTimeout      time.Duration
	RedisURL         string
	NomenclatureTTL  time.Duration
	HistoryThreshold int
}

type services struct {
	Organizations *organization.Service
	Applications  *application.Service
	Feedback      *feedback.Service
	Nomenclature  *nomenclature.Service

	// Redis is nil when the in-process cache is used.
	Redis *cache.Redis
}

func (s *services) Close() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
}

// buildServices wires repositories, caches and clients into the domain
// services. Every collaborator is passed explicitly.
func buildServices(ctx context.Context, cfg config) (*services, error) {
	txm := postgres.NewTxManager(cfg.Pool)
	out := &services{}

	var nomCache nomenclature.Cache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(cfg.RedisURL, cfg.NomenclatureTTL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		out.Redis = rc
		nomCache = rc
		logger.Info(ctx, "nomenclature cache: redis", "ttl", cfg.NomenclatureTTL.String())
	} else {
		nomCache = cache.NewMemory(cfg.NomenclatureTTL)
		logger.Info(ctx, "nomenclature cache: memory", "ttl", cfg.NomenclatureTTL.String())
	}
	out.Nomenclature = nomenclature.NewService(nomenclature_repo.New(txm), nomCache)

	history, err := postgres.NewHistoryStore(txm, cfg.HistoryThreshold)
	if err != nil {
		out.Close()
		return nil, fmt.Errorf("history store: %w", err)
	}

	repos := organization_repo.New(txm)
	out.Organizations = organization.NewService(organization.Deps{
		TxManager:     txm,
		Organizations: repos.Organizations,
		Generals:      repos.Generals,
		Activities:    repos.Activities,
		Legals:        repos.Legals,
		Contacts:      repos.Contacts,
		Financials:    repos.Financials,
		Reports:       repos.Reports,
		History:       history,
		References:    out.Nomenclature,
		Registry:      registry.NewClient(registry.Config{BaseURL: cfg.ANAFURL, Timeout: cfg.ANAFTimeout}),
		General:       organization.NewGeneralService(repos.Generals, repos.Contacts, txm),
		Activity:      organization.NewActivityService(repos.Activities, out.Nomenclature, txm),
		Legal:         organization.NewLegalService(repos.Legals, repos.Contacts, txm),
		Financial:     organization.NewFinancialService(repos.Financials, txm),
		Report:        organization.NewReportService(repos.Reports, txm),
		Observer:      metrics.CreateObserver{},
	})

	out.Applications = application.NewService(application_repo.New(txm), txm)
	out.Feedback = feedback.NewService(feedback_repo.New(txm))

	return out, nil
}
