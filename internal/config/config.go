package config

import (
	"emperror.dev/errors"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	GitHubOrg     string
	GitHubToken   string
	GitHubBaseURL string
	NATSUrl       string
	NATSSubject   string
	CronSchedule  string
	RunOnStartup  bool
	LogLevel      string
	// Router specific configuration
	SourceSubject          string
	ArchivedReposSubject   string
	ActiveReposSubject     string
	UnknownReposSubject    string
	ProcessStartupMessages bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NATS_SUBJECT", "github.repositories")
	v.SetDefault("CRON_SCHEDULE", "0 0 * * 0") // Weekly on Sunday at midnight
	v.SetDefault("RUN_ON_STARTUP", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SOURCE_SUBJECT", "github.repositories")
	v.SetDefault("ARCHIVED_REPOS_SUBJECT", "repos.archived")
	v.SetDefault("ACTIVE_REPOS_SUBJECT", "repos.active")
	v.SetDefault("UNKNOWN_REPOS_SUBJECT", "repos.unknown")
	v.SetDefault("PROCESS_STARTUP_MESSAGES", true)

	cfg := &Config{
		GitHubOrg:              v.GetString("GITHUB_ORG"),
		GitHubToken:            v.GetString("GITHUB_TOKEN"),
		GitHubBaseURL:          v.GetString("GITHUB_BASE_URL"),
		NATSUrl:                v.GetString("NATS_URL"),
		NATSSubject:            v.GetString("NATS_SUBJECT"),
		CronSchedule:           v.GetString("CRON_SCHEDULE"),
		RunOnStartup:           v.GetBool("RUN_ON_STARTUP"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		SourceSubject:          v.GetString("SOURCE_SUBJECT"),
		ArchivedReposSubject:   v.GetString("ARCHIVED_REPOS_SUBJECT"),
		ActiveReposSubject:     v.GetString("ACTIVE_REPOS_SUBJECT"),
		UnknownReposSubject:    v.GetString("UNKNOWN_REPOS_SUBJECT"),
		ProcessStartupMessages: v.GetBool("PROCESS_STARTUP_MESSAGES"),
	}

	// Validate required fields
	if cfg.GitHubOrg == "" {
		return nil, errors.New("GITHUB_ORG environment variable is required")
	}
	if cfg.GitHubToken == "" {
		return nil, errors.New("GITHUB_TOKEN environment variable is required")
	}

	return cfg, nil
}
