package scheduler

import (
	"context"
	"time"

	"sales-warehouse/backend/internal/config"
	"sales-warehouse/backend/internal/logger"
	"sales-warehouse/backend/internal/service"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the recurring warehouse hygiene jobs: a dedup candidate
// scan and an archive preview. Both jobs only observe and log; merges and
// archives always go through an operator.
type Scheduler struct {
	cron           *cron.Cron
	dedupService   *service.DedupService
	archiveService *service.ArchiveService
	cfg            config.SchedulerConfig
}

func NewScheduler(dedupService *service.DedupService, archiveService *service.ArchiveService, cfg config.SchedulerConfig) *Scheduler {
	c := cron.New(cron.WithSeconds())

	return &Scheduler{
		cron:           c,
		dedupService:   dedupService,
		archiveService: archiveService,
		cfg:            cfg,
	}
}

func (s *Scheduler) Start() error {
	logger.Info().
		Str("dedup_spec", s.cfg.DedupScanSpec).
		Str("archive_spec", s.cfg.ArchiveScanSpec).
		Msg("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.DedupScanSpec, s.runDedupScan); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.ArchiveScanSpec, s.runArchivePreview); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	logger.Info().Msg("stopping scheduler")
	s.cron.Stop()
}

// runDedupScan logs the current duplicate-candidate counts by tier so
// operators notice when imports introduce new duplicates.
func (s *Scheduler) runDedupScan() {
	ctx := context.Background()

	matches, err := s.dedupService.FindMatches(ctx, s.cfg.DedupScanMinScore)
	if err != nil {
		logger.Error().Err(err).Msg("scheduled dedup scan failed")
		return
	}

	tiers := make(map[string]int)
	for _, m := range matches {
		tiers[string(m.MatchType)]++
	}

	logger.Info().
		Int("total", len(matches)).
		Int("exact", tiers["exact"]).
		Int("high", tiers["high"]).
		Int("medium", tiers["medium"]).
		Msg("scheduled dedup scan")
}

// runArchivePreview logs how many records have gone inactive past the
// configured window.
func (s *Scheduler) runArchivePreview() {
	ctx := context.Background()
	cutoff := time.Now().AddDate(-s.cfg.ArchiveCutoffYears, 0, 0)

	preview, err := s.archiveService.PreviewArchive(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("scheduled archive preview failed")
		return
	}

	logger.Info().
		Time("cutoff", cutoff).
		Int64("customers", preview.Customers).
		Int64("products", preview.Products).
		Msg("scheduled archive preview")
}

// Entries returns the scheduled jobs, useful for diagnostics
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}
