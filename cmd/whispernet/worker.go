package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	appreview "github.com/bryanwahyu/whispernet/internal/application/review"
	"github.com/bryanwahyu/whispernet/internal/config"
	domain "github.com/bryanwahyu/whispernet/internal/domain/review"
	"github.com/bryanwahyu/whispernet/internal/infra/ai/openai"
	"github.com/bryanwahyu/whispernet/internal/infra/httpserver"
	"github.com/bryanwahyu/whispernet/internal/infra/scheduler"
	"github.com/bryanwahyu/whispernet/internal/log"
	"github.com/bryanwahyu/whispernet/internal/middleware"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a review worker",
	Long:  "Serve POST /analyse, GET /health and GET /metrics on $PORT (default 8080).",
	Args:  cobra.NoArgs,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc := newReviewService(cfg)
	log.WithFields(log.Fields{
		"worker_id":       svc.WorkerID,
		"model":           svc.Model,
		"max_line_length": svc.Rules.MaxLineLength,
		"narrator":        svc.Narrator != nil,
	}).Info("worker configured")

	stopReporter, err := startReporter(cfg)
	if err != nil {
		return err
	}
	defer stopReporter()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := httpserver.NewRouter(svc, cfg.Server.MaxBodyBytes)
	return httpserver.NewServer(cfg.Addr(), handler).Run(ctx)
}

func newReviewService(cfg *config.Config) *appreview.Service {
	rules := domain.DefaultRules()
	rules.MaxLineLength = cfg.Worker.MaxLineLength
	rules.Label = cfg.Worker.Label
	rules.AlwaysCount = cfg.Worker.AlwaysCount

	svc := appreview.NewService(rules, cfg.Worker.ID, cfg.ResponseModel())
	if cfg.AI.Enabled {
		svc.Narrator = openai.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	}
	return svc
}

// startReporter logs a metrics snapshot periodically when an interval is set.
func startReporter(cfg *config.Config) (func(), error) {
	if cfg.Metrics.ReportIntervalSeconds <= 0 {
		return func() {}, nil
	}

	interval := time.Duration(cfg.Metrics.ReportIntervalSeconds) * time.Second
	r, err := scheduler.NewReporter(interval, middleware.GetMetrics, func(m map[string]interface{}) {
		log.WithFields(log.Fields(m)).Info("metrics")
	})
	if err != nil {
		return nil, err
	}
	r.Start()

	return func() {
		if err := r.Stop(); err != nil {
			log.WithError(err).Warn("stopping metrics reporter")
		}
	}, nil
}
