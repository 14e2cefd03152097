package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"sitemap-audit/pkg/config"
	"sitemap-audit/pkg/crawl"
	"sitemap-audit/pkg/export"
	"sitemap-audit/pkg/fetch"
	"sitemap-audit/pkg/models"
	"sitemap-audit/pkg/probe"
)

const version = "0.3.0"

// stringSliceFlag collects repeated flag occurrences.
type stringSliceFlag []string

func (s *stringSliceFlag) String() string { return strings.Join(*s, ",") }

func (s *stringSliceFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		configPath     = flag.String("config", "", "Path to YAML config file (optional)")
		seed           = flag.String("seed", "", "Sitemap URL or site root to traverse")
		files          stringSliceFlag
		maxURLs        = flag.Int("max-urls", 0, "Cap on discovered leaf URLs (overrides config)")
		concurrency    = flag.Int("concurrency", 0, "Max probes in flight (overrides config)")
		doProbe        = flag.Bool("probe", false, "Probe discovered URLs for SEO signals")
		sitemapTimeout = flag.Duration("sitemap-timeout", 0, "Per-sitemap fetch timeout (overrides config)")
		probeTimeout   = flag.Duration("probe-timeout", 0, "Per-probe timeout (overrides config)")
		outPath        = flag.String("out", "", "Output file (.csv or .xlsx); stdout CSV when empty")
		logLevel       = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		showVersion    = flag.Bool("version", false, "Show version and exit")
	)
	flag.Var(&files, "file", "Local sitemap file to parse instead of fetching (repeatable)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sitemap-audit %s\n", version)
		return
	}

	// .env is optional; real env vars win over file entries.
	_ = godotenv.Load()

	log := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	runID := uuid.NewString()[:8]
	runLog := log.WithField("run_id", runID)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		runLog.Fatalf("Config load failed: %v", err)
	}
	applyOverrides(cfg, *maxURLs, *concurrency, *sitemapTimeout, *probeTimeout)
	warnings, err := cfg.Validate()
	for _, w := range warnings {
		runLog.Warn(w)
	}
	if err != nil {
		runLog.Fatalf("Config validation failed: %v", err)
	}

	if *seed == "" && len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Either -seed or at least one -file is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records := gatherRecords(ctx, cfg, *seed, files, log, runLog)
	if len(records) == 0 {
		runLog.Warn("No URLs found")
		return
	}
	runLog.Infof("Discovered %d URLs", len(records))

	if !*doProbe {
		if err := writeLeafOutput(*outPath, records); err != nil {
			runLog.Fatalf("Writing output failed: %v", err)
		}
		return
	}

	urls := make([]string, len(records))
	for i, rec := range records {
		urls[i] = rec.URL
	}

	probeClient := fetch.NewProbeClient(cfg.HTTPClientSettings, cfg.ProbeTimeout, log)
	prober := probe.NewProber(probeClient, cfg, log)
	scheduler := probe.NewScheduler(prober, cfg, log)

	start := time.Now()
	lastLogged := -1
	results := scheduler.Run(ctx, urls, func(fraction float64) {
		pct := int(fraction * 100)
		if pct/10 > lastLogged/10 {
			lastLogged = pct
			runLog.Infof("Probing... %d%%", pct)
		}
	})
	runLog.Infof("Probed %d/%d URLs in %s", len(results), len(urls), time.Since(start).Round(time.Millisecond))
	logSummary(runLog, results)

	if err := writeProbeOutput(*outPath, results); err != nil {
		runLog.Fatalf("Writing output failed: %v", err)
	}
}

// loadConfig returns the file-based config when a path is given, otherwise
// defaults with env overrides applied.
func loadConfig(path string) (*config.AppConfig, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	if ua := os.Getenv("SITEMAP_AUDIT_USER_AGENT"); ua != "" {
		cfg.UserAgent = ua
	}
	return cfg, nil
}

func applyOverrides(cfg *config.AppConfig, maxURLs, concurrency int, sitemapTimeout, probeTimeout time.Duration) {
	if maxURLs > 0 {
		cfg.MaxURLs = maxURLs
	}
	if concurrency > 0 {
		cfg.ProbeConcurrency = concurrency
	}
	if sitemapTimeout > 0 {
		cfg.SitemapFetchTimeout = sitemapTimeout
	}
	if probeTimeout > 0 {
		cfg.ProbeTimeout = probeTimeout
	}
}

// gatherRecords produces the leaf URL set either from local files or by
// traversing from the seed, discovering sitemaps via robots.txt when the
// seed is a site root.
func gatherRecords(ctx context.Context, cfg *config.AppConfig, seed string, files []string, log *logrus.Logger, runLog *logrus.Entry) []models.LeafURLRecord {
	if len(files) > 0 {
		var records []models.LeafURLRecord
		seen := make(map[string]bool)
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				runLog.Errorf("Cannot read %s: %v", path, err)
				continue
			}
			for _, rec := range crawl.ParseUploaded(data, filepath.Base(path)) {
				if seen[rec.URL] {
					continue
				}
				seen[rec.URL] = true
				records = append(records, rec)
			}
		}
		return records
	}

	client := fetch.NewClient(cfg.HTTPClientSettings, log)
	fetcher := fetch.NewFetcher(client, cfg, log)
	engine := crawl.NewEngine(fetcher, log)

	seeds := []string{seed}
	if !fetch.IsLikelySitemapURL(seed) {
		if discovered := fetch.DiscoverSitemaps(ctx, fetcher, seed, runLog); len(discovered) > 0 {
			seeds = discovered
		}
	}

	result := engine.TraverseAll(ctx, seeds, cfg.MaxURLs)
	for _, msg := range result.Errors {
		runLog.Warn(msg)
	}
	runLog.Infof("Processed %d sitemap(s), %d fetch error(s)", len(result.ProcessedSitemaps), len(result.Errors))
	return result.LeafURLs
}

func logSummary(runLog *logrus.Entry, results []models.SeoProbeResult) {
	var ok, redirects, errors, noindex, nonCanonical int
	for i := range results {
		r := &results[i]
		switch {
		case r.FetchError != "":
			errors++
		case r.IsRedirect():
			redirects++
		case r.FinalStatus != nil && *r.FinalStatus == 200:
			ok++
		case r.FinalStatus != nil && *r.FinalStatus >= 400:
			errors++
		}
		if r.Noindex {
			noindex++
		}
		if r.Canonical != "" && !r.CanonicalMatch {
			nonCanonical++
		}
	}
	runLog.Infof("Summary: %d OK, %d redirects, %d errors, %d noindex, %d non-canonical",
		ok, redirects, errors, noindex, nonCanonical)
}

func writeLeafOutput(path string, records []models.LeafURLRecord) error {
	switch {
	case path == "":
		return export.WriteLeafCSV(os.Stdout, records)
	case strings.HasSuffix(path, ".xlsx"):
		return export.WriteLeafExcel(path, records)
	default:
		return export.WriteLeafCSVFile(path, records)
	}
}

func writeProbeOutput(path string, results []models.SeoProbeResult) error {
	switch {
	case path == "":
		return export.WriteProbeCSV(os.Stdout, results)
	case strings.HasSuffix(path, ".xlsx"):
		return export.WriteProbeExcel(path, results)
	default:
		return export.WriteProbeCSVFile(path, results)
	}
}
