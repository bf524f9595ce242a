package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emperror.dev/errors"
	"github.com/klimeurt/repo-collector/internal/collector"
	"github.com/klimeurt/repo-collector/internal/config"
	"github.com/klimeurt/repo-collector/internal/logging"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const scanTimeout = 30 * time.Minute

var rootFlags struct {
	Debug bool
}

var rootCmd = &cobra.Command{
	Use:           "collector",
	Short:         "Publish the repositories of a GitHub organization to NATS on a schedule",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return errors.Wrap(err, "failed to load configuration")
		}
		if err := logging.Setup(cfg.LogLevel, rootFlags.Debug); err != nil {
			return err
		}

		scanner, err := collector.New(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to create scanner")
		}
		defer scanner.Close()

		scan := func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, scanTimeout)
			defer cancel()

			if err := scanner.ScanRepositories(ctx); err != nil {
				logrus.WithError(err).Error("scan failed")
			}
		}

		c := cron.New()
		if _, err := c.AddFunc(cfg.CronSchedule, func() { scan(cmd.Context()) }); err != nil {
			return errors.Wrapf(err, "failed to add cron job for schedule %q", cfg.CronSchedule)
		}

		c.Start()
		logrus.WithField("schedule", cfg.CronSchedule).Info("cron scheduler started")

		if cfg.RunOnStartup {
			logrus.Info("running initial scan on startup")
			scan(cmd.Context())
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logrus.Info("shutting down")
		<-c.Stop().Done()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(
		&rootFlags.Debug, "debug", false,
		"enable verbose debug logging",
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("collector failed")
	}
}
