package collector

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"emperror.dev/errors"
	"github.com/google/go-github/v57/github"
	"github.com/google/uuid"
	"github.com/klimeurt/repo-collector/internal/config"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// ScanIDHeader carries the ID of the scan that produced a message
const ScanIDHeader = "Scan-Id"

// Scanner handles the GitHub scanning operations
type Scanner struct {
	config   *config.Config
	ghClient *github.Client
	nc       *nats.Conn
}

// NewGitHubClient creates a token-authenticated GitHub client. A non-empty
// GitHubBaseURL points it at a GitHub Enterprise API root.
func NewGitHubClient(cfg *config.Config) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.GitHubToken},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	ghClient := github.NewClient(tc)

	if cfg.GitHubBaseURL != "" {
		baseURL := cfg.GitHubBaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid GitHub base URL %q", cfg.GitHubBaseURL)
		}
		ghClient.BaseURL = u
	}

	return ghClient, nil
}

// New creates a new Scanner instance
func New(cfg *config.Config) (*Scanner, error) {
	ghClient, err := NewGitHubClient(cfg)
	if err != nil {
		return nil, err
	}

	nc, err := nats.Connect(cfg.NATSUrl)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to NATS")
	}

	return &Scanner{
		config:   cfg,
		ghClient: ghClient,
		nc:       nc,
	}, nil
}

// ScanRepositories lists the organization's repositories and publishes
// each page as it arrives
func (s *Scanner) ScanRepositories(ctx context.Context) error {
	scanID := uuid.NewString()
	log := logrus.WithFields(logrus.Fields{
		"org":     s.config.GitHubOrg,
		"scan_id": scanID,
	})
	log.Info("starting repository scan")

	opt := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var found, published int
	for {
		repos, resp, err := s.ghClient.Repositories.ListByOrg(ctx, s.config.GitHubOrg, opt)
		if err != nil {
			return errors.Wrapf(err, "failed to list repositories for %s", s.config.GitHubOrg)
		}
		found += len(repos)

		for _, repo := range repos {
			if err := s.publishRepository(scanID, repo); err != nil {
				// Continue processing other repositories
				log.WithError(err).WithField("repository", repo.GetName()).Warn("failed to publish repository")
				continue
			}
			published++
		}

		if resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}

	log.WithFields(logrus.Fields{
		"found":     found,
		"published": published,
	}).Info("repository scan finished")
	return nil
}

// publishRepository publishes a repository record to the NATS subject
func (s *Scanner) publishRepository(scanID string, repo *github.Repository) error {
	r := FromGitHub(repo)

	data, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to marshal repository")
	}

	msg := nats.NewMsg(s.config.NATSSubject)
	msg.Header.Set(ScanIDHeader, scanID)
	msg.Data = data

	if err := s.nc.PublishMsg(msg); err != nil {
		return errors.Wrap(err, "failed to publish to NATS")
	}

	logrus.WithFields(logrus.Fields{
		"repository":     r.GetName(),
		"archived":       r.IsArchived(),
		"archived_known": r.ArchivedKnown(),
	}).Debug("published repository")
	return nil
}

// Close cleanly shuts down the scanner
func (s *Scanner) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
