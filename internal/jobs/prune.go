package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/growthyari/growthyari-server/internal/repository"
)

const pruneTimeout = 30 * time.Second

// PruneJob periodically deletes declined connection requests older than the
// retention period. Pending and accepted requests are never touched.
type PruneJob struct {
	requestRepo repository.ConnectionRequestRepository
	retention   time.Duration
	interval    time.Duration
	done        chan struct{}
	stopOnce    sync.Once
}

func NewPruneJob(
	requestRepo repository.ConnectionRequestRepository,
	retention time.Duration,
	interval time.Duration,
) *PruneJob {
	return &PruneJob{
		requestRepo: requestRepo,
		retention:   retention,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (j *PruneJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("retention", j.retention).Msg("prune job started")
}

func (j *PruneJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.done)
		log.Info().Msg("prune job stopped")
	})
}

func (j *PruneJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.prune()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.prune()
		}
	}
}

func (j *PruneJob) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	count, err := j.requestRepo.DeleteDeclinedBefore(ctx, time.Now().Add(-j.retention))
	if err != nil {
		log.Error().Err(err).Msg("failed to prune declined connection requests")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("pruned declined connection requests")
	}
}
