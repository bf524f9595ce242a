package router

import (
	"context"
	"encoding/json"
	"strings"

	"emperror.dev/errors"
	giturls "github.com/chainguard-dev/git-urls"
	"github.com/klimeurt/repo-collector/internal/collector"
	"github.com/klimeurt/repo-collector/internal/config"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// ArchiveResolver populates a missing archived flag
type ArchiveResolver interface {
	Resolve(ctx context.Context, owner, name string) (*bool, error)
}

// Processor handles message processing and routing
type Processor struct {
	config   *config.Config
	resolver ArchiveResolver
	nc       *nats.Conn
}

// NewProcessor creates a new Processor instance
func NewProcessor(cfg *config.Config, resolver ArchiveResolver, nc *nats.Conn) *Processor {
	return &Processor{
		config:   cfg,
		resolver: resolver,
		nc:       nc,
	}
}

// ProcessMessage decodes a repository record and routes it by archival
// status. Records whose status cannot be established go to the unknown
// subject, never to the active one.
func (p *Processor) ProcessMessage(ctx context.Context, msg *nats.Msg) error {
	var repo collector.Repository
	if err := json.Unmarshal(msg.Data, &repo); err != nil {
		return errors.Wrap(err, "failed to unmarshal repository message")
	}

	log := logrus.WithField("repository", repo.GetName())
	if scanID := msg.Header.Get(collector.ScanIDHeader); scanID != "" {
		log = log.WithField("scan_id", scanID)
	}

	if !repo.ArchivedKnown() {
		p.resolve(ctx, log, &repo)
	}

	subject := p.subjectFor(&repo)
	log.WithField("subject", subject).Info("routing repository")

	data, err := json.Marshal(&repo)
	if err != nil {
		return errors.Wrap(err, "failed to marshal repository")
	}

	out := nats.NewMsg(subject)
	for k, v := range msg.Header {
		out.Header[k] = v
	}
	out.Data = data

	if err := p.nc.PublishMsg(out); err != nil {
		return errors.Wrapf(err, "failed to publish to %s", subject)
	}

	return nil
}

// resolve fills in the archived flag from GitHub; failures leave it unset
func (p *Processor) resolve(ctx context.Context, log *logrus.Entry, repo *collector.Repository) {
	owner, name, err := repoFromURL(repo.GetHTMLURL())
	if err != nil {
		log.WithError(err).Warn("cannot resolve archived status")
		return
	}

	archived, err := p.resolver.Resolve(ctx, owner, name)
	if err != nil {
		log.WithError(err).Warnf("failed to resolve archived status of %s/%s", owner, name)
		return
	}
	repo.SetArchived(archived)
}

func (p *Processor) subjectFor(repo *collector.Repository) string {
	switch {
	case !repo.ArchivedKnown():
		return p.config.UnknownReposSubject
	case repo.IsArchived():
		return p.config.ArchivedReposSubject
	default:
		return p.config.ActiveReposSubject
	}
}

// repoFromURL extracts owner and repository name from a GitHub web or clone URL
func repoFromURL(rawURL string) (string, string, error) {
	// Example URLs:
	// https://github.com/owner/repo
	// https://github.com/owner/repo.git
	// git@github.com:owner/repo.git
	if rawURL == "" {
		return "", "", errors.New("repository URL is empty")
	}

	u, err := giturls.Parse(rawURL)
	if err != nil {
		return "", "", errors.Wrapf(err, "failed to parse repository URL %q", rawURL)
	}
	if u.Host == "" {
		return "", "", errors.Errorf("unable to parse owner from URL: %s", rawURL)
	}

	slug := strings.TrimSuffix(u.Path, ".git")
	slug = strings.Trim(slug, "/")

	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("unable to parse owner from URL: %s", rawURL)
	}
	return parts[0], parts[1], nil
}
