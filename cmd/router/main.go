package main

import (
	"os"
	"os/signal"
	"syscall"

	"emperror.dev/errors"
	"github.com/klimeurt/repo-collector/internal/config"
	"github.com/klimeurt/repo-collector/internal/logging"
	"github.com/klimeurt/repo-collector/internal/router"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootFlags struct {
	Debug bool
}

var rootCmd = &cobra.Command{
	Use:           "router",
	Short:         "Route repository records to subjects by archival status",
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

		r, err := router.New(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to create router")
		}

		if err := r.Start(); err != nil {
			r.Stop()
			return errors.Wrap(err, "failed to start router")
		}
		defer r.Stop()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logrus.Info("received shutdown signal, stopping router")
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
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Fatal("router failed")
	}
}
