package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/whispernet/internal/application"
	"github.com/bryanwahyu/whispernet/internal/application/aggregate"
	"github.com/bryanwahyu/whispernet/internal/config"
	"github.com/bryanwahyu/whispernet/internal/infra/gitlab"
	"github.com/bryanwahyu/whispernet/internal/infra/httpserver"
	"github.com/bryanwahyu/whispernet/internal/infra/worker"
	"github.com/bryanwahyu/whispernet/internal/log"
)

var aggregatorCmd = &cobra.Command{
	Use:   "aggregator",
	Short: "Run the aggregator that fans requests out to workers",
	Long: `Serve POST /analyse and POST /gitlab_review, forwarding each request to every
URL in $WORKER_URLS. GET /demo serves a small review page.`,
	Args: cobra.NoArgs,
	RunE: runAggregator,
}

func init() {
	rootCmd.AddCommand(aggregatorCmd)
}

func runAggregator(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc := newAggregateService(cfg)
	log.WithFields(log.Fields{
		"workers":    len(svc.URLs),
		"publishing": svc.Publisher != nil,
	}).Info("aggregator configured")
	if len(svc.URLs) == 0 {
		log.Warn("WORKER_URLS is empty; every request will return no results")
	}

	stopReporter, err := startReporter(cfg)
	if err != nil {
		return err
	}
	defer stopReporter()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := httpserver.NewAggregatorRouter(svc, cfg.Server.MaxBodyBytes)
	return httpserver.NewServer(cfg.Addr(), handler).
		WithWriteTimeout(2*workerTimeout(cfg) + 5*time.Second).
		Run(ctx)
}

func workerTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Aggregator.TimeoutSeconds) * time.Second
}

func newAggregateService(cfg *config.Config) *aggregate.Service {
	svc := &aggregate.Service{
		Workers: worker.NewClient(workerTimeout(cfg)),
		URLs:    cfg.Aggregator.WorkerURLs,
		Clock:   application.SystemClock{},
	}
	if cfg.GitLabEnabled() {
		gl := cfg.Aggregator.GitLab
		svc.Publisher = gitlab.NewPublisher(gl.APIURL, gl.Token, gl.Project, gl.Branch, gl.File, workerTimeout(cfg))
	}
	return svc
}
