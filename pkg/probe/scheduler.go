package probe

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"sitemap-audit/pkg/config"
	"sitemap-audit/pkg/models"
)

// URLProber probes one URL and returns its SEO signal record.
// Implemented by *Prober; tests substitute their own.
type URLProber interface {
	Probe(ctx context.Context, pageURL string) models.SeoProbeResult
}

// ProgressFunc receives completedCount/totalCount after every finished probe.
// Values are monotonically increasing and reach exactly 1.0 after the last
// completion.
type ProgressFunc func(fraction float64)

// Scheduler runs a URLProber over a batch of URLs under a concurrency cap,
// with one retry per failed probe and completion-order result collection.
type Scheduler struct {
	prober URLProber
	cfg    *config.AppConfig
	log    *logrus.Entry
}

// NewScheduler creates a Scheduler around the given prober.
func NewScheduler(prober URLProber, cfg *config.AppConfig, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		prober: prober,
		cfg:    cfg,
		log:    log.WithField("component", "probe_scheduler"),
	}
}

// Run probes every URL and returns the results in completion order.
// At most ProbeConcurrency probes are in flight at once; a worker holds its
// admission slot across both attempts, waiting ProbeRetryDelay between them,
// and the second outcome is final whether or not it succeeded. Cancelling ctx
// stops the collection loop, abandons in-flight probes, and returns only the
// results observed before cancellation.
func (s *Scheduler) Run(ctx context.Context, urls []string, progress ProgressFunc) []models.SeoProbeResult {
	total := len(urls)
	if total == 0 {
		return nil
	}

	concurrency := s.cfg.ProbeConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	s.log.WithFields(logrus.Fields{"urls": total, "concurrency": concurrency}).Info("Starting probe run")

	sem := semaphore.NewWeighted(int64(concurrency))
	// Buffered to total so abandoned workers never block on send after the
	// coordinator has stopped draining.
	completions := make(chan models.SeoProbeResult, total)

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	for _, u := range urls {
		go func(pageURL string) {
			if err := sem.Acquire(workerCtx, 1); err != nil {
				return // cancelled while waiting for a slot
			}
			defer sem.Release(1)

			res := s.prober.Probe(workerCtx, pageURL)
			if res.FetchError != "" {
				select {
				case <-time.After(s.cfg.ProbeRetryDelay):
					res = s.prober.Probe(workerCtx, pageURL)
				case <-workerCtx.Done():
					// keep the first attempt's outcome
				}
			}
			completions <- res
		}(u)
	}

	results := make([]models.SeoProbeResult, 0, total)
	for completed := 0; completed < total; {
		select {
		case res := <-completions:
			results = append(results, res)
			completed++
			if progress != nil {
				progress(float64(completed) / float64(total))
			}
		case <-ctx.Done():
			s.log.Warnf("Probe run stopped early after %d/%d completions: %v", completed, total, ctx.Err())
			return results
		}
	}

	s.log.WithField("results", len(results)).Info("Probe run finished")
	return results
}
