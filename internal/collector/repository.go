package collector

import (
	"time"

	"github.com/google/go-github/v57/github"
)

// Repository represents a GitHub repository with its archival status.
// The base fields live on the embedded go-github model; Archived shadows
// the base model's field and is owned by this type.
type Repository struct {
	github.Repository

	// Archived is nil until populated. Unset means unknown, not false.
	Archived *bool `json:"archived,omitempty"`
}

// NewRepository returns an empty record with every field unset
func NewRepository() *Repository {
	return &Repository{}
}

// FromGitHub builds a record from a go-github listing or lookup result.
// A nil repo yields an empty record.
func FromGitHub(repo *github.Repository) *Repository {
	if repo == nil {
		return NewRepository()
	}

	r := NewRepository().
		SetID(repo.GetID()).
		SetName(repo.GetName()).
		SetDescription(repo.Description).
		SetHTMLURL(repo.GetHTMLURL()).
		SetIsFork(repo.Fork).
		SetIsPrivate(repo.Private).
		SetLanguage(repo.Language).
		SetArchived(repo.Archived)

	if repo.CreatedAt != nil {
		r.SetCreatedAt(repo.CreatedAt.Time)
	}
	if repo.PushedAt != nil {
		r.SetPushedAt(repo.PushedAt.Time)
	}
	return r
}

func (r *Repository) SetName(name string) *Repository {
	r.Name = github.String(name)
	return r
}

// SetDescription sets the description; nil marks it absent
func (r *Repository) SetDescription(description *string) *Repository {
	r.Description = copyString(description)
	return r
}

func (r *Repository) SetID(id int64) *Repository {
	r.ID = github.Int64(id)
	return r
}

func (r *Repository) SetHTMLURL(htmlURL string) *Repository {
	r.HTMLURL = github.String(htmlURL)
	return r
}

// SetIsFork sets the fork flag; nil leaves it unset
func (r *Repository) SetIsFork(fork *bool) *Repository {
	r.Fork = copyBool(fork)
	return r
}

func (r *Repository) SetCreatedAt(createdAt time.Time) *Repository {
	r.CreatedAt = &github.Timestamp{Time: createdAt}
	return r
}

func (r *Repository) SetPushedAt(pushedAt time.Time) *Repository {
	r.PushedAt = &github.Timestamp{Time: pushedAt}
	return r
}

// SetIsPrivate sets the visibility flag; nil leaves it unset
func (r *Repository) SetIsPrivate(private *bool) *Repository {
	r.Private = copyBool(private)
	return r
}

// SetLanguage sets the primary language; nil marks it absent
func (r *Repository) SetLanguage(language *string) *Repository {
	r.Language = copyString(language)
	return r
}

// SetArchived sets the archived flag; nil marks it unknown again
func (r *Repository) SetArchived(archived *bool) *Repository {
	r.Archived = copyBool(archived)
	return r
}

// IsArchived reports the archived flag, treating unset as false.
// Use ArchivedKnown or the Archived field where unknown matters.
func (r *Repository) IsArchived() bool {
	return r.Archived != nil && *r.Archived
}

// GetArchived shadows the promoted go-github getter so it reads this
// record's flag rather than the base model's.
func (r *Repository) GetArchived() bool {
	return r.IsArchived()
}

// ArchivedKnown reports whether the archived flag has been populated
func (r *Repository) ArchivedKnown() bool {
	return r.Archived != nil
}

// String formats the record like the go-github model, with this record's
// archived flag in place of the base one.
func (r Repository) String() string {
	base := r.Repository
	base.Archived = r.Archived
	return base.String()
}

// copyBool detaches the stored flag from the caller's pointer
func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	return github.Bool(*b)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	return github.String(*s)
}
