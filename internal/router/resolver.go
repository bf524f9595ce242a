package router

import (
	"context"
	"net/http"

	"emperror.dev/errors"
	"github.com/google/go-github/v57/github"
	"github.com/klimeurt/repo-collector/internal/collector"
	"github.com/klimeurt/repo-collector/internal/config"
)

// ErrRepositoryNotFound is returned when GitHub has no such repository
var ErrRepositoryNotFound = errors.New("repository not found")

// Resolver looks up the archived flag of repositories that arrive without one
type Resolver struct {
	config   *config.Config
	ghClient *github.Client
}

// NewResolver creates a new Resolver instance
func NewResolver(cfg *config.Config) (*Resolver, error) {
	ghClient, err := collector.NewGitHubClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		config:   cfg,
		ghClient: ghClient,
	}, nil
}

// Resolve fetches the repository and returns its archived flag. A nil flag
// with a nil error means GitHub did not report one.
func (r *Resolver) Resolve(ctx context.Context, owner, name string) (*bool, error) {
	repo, resp, err := r.ghClient.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.WithStack(ErrRepositoryNotFound)
		}
		return nil, errors.Wrapf(err, "failed to look up %s/%s", owner, name)
	}

	return repo.Archived, nil
}
