package collector

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositorySettersChain(t *testing.T) {
	r := NewRepository()

	assert.Same(t, r, r.SetName("demo"))
	assert.Same(t, r, r.SetDescription(github.String("a demo")))
	assert.Same(t, r, r.SetID(42))
	assert.Same(t, r, r.SetHTMLURL("https://github.com/org/demo"))
	assert.Same(t, r, r.SetIsFork(github.Bool(true)))
	assert.Same(t, r, r.SetCreatedAt(time.Now()))
	assert.Same(t, r, r.SetPushedAt(time.Now()))
	assert.Same(t, r, r.SetIsPrivate(github.Bool(false)))
	assert.Same(t, r, r.SetLanguage(github.String("Go")))
	assert.Same(t, r, r.SetArchived(github.Bool(true)))
}

func TestRepositoryAllFields(t *testing.T) {
	createdAt := time.Date(2019, 3, 14, 15, 9, 26, 535897932, time.UTC)
	pushedAt := time.Date(2024, 7, 1, 8, 30, 0, 123, time.FixedZone("BST", 3600))

	r := NewRepository().
		SetID(42).
		SetName("demo").
		SetDescription(github.String("")).
		SetHTMLURL("https://github.com/org/demo").
		SetIsFork(github.Bool(false)).
		SetCreatedAt(createdAt).
		SetPushedAt(pushedAt).
		SetIsPrivate(github.Bool(true)).
		SetLanguage(github.String("Go")).
		SetArchived(github.Bool(false))

	assert.Equal(t, int64(42), r.GetID())
	assert.Equal(t, "demo", r.GetName())
	require.NotNil(t, r.Description)
	assert.Equal(t, "", *r.Description)
	assert.Equal(t, "https://github.com/org/demo", r.GetHTMLURL())
	require.NotNil(t, r.Fork)
	assert.False(t, *r.Fork)
	assert.True(t, r.GetCreatedAt().Time.Equal(createdAt))
	assert.Equal(t, createdAt.Nanosecond(), r.GetCreatedAt().Time.Nanosecond())
	assert.Equal(t, pushedAt, r.GetPushedAt().Time)
	require.NotNil(t, r.Private)
	assert.True(t, *r.Private)
	assert.Equal(t, "Go", r.GetLanguage())
	require.NotNil(t, r.Archived)
	assert.False(t, r.IsArchived())
	assert.True(t, r.ArchivedKnown())
}

func TestRepositoryLastWriteWins(t *testing.T) {
	r := NewRepository().
		SetName("first").
		SetLanguage(github.String("Go")).
		SetName("second").
		SetArchived(github.Bool(true)).
		SetID(1).
		SetArchived(github.Bool(false)).
		SetID(-7)

	assert.Equal(t, "second", r.GetName())
	assert.Equal(t, "Go", r.GetLanguage())
	assert.Equal(t, int64(-7), r.GetID())
	assert.False(t, r.IsArchived())
	assert.True(t, r.ArchivedKnown())

	// Resetting to nil makes the flag unknown again
	r.SetArchived(nil).SetIsFork(nil).SetIsPrivate(nil)
	assert.Nil(t, r.Archived)
	assert.Nil(t, r.Fork)
	assert.Nil(t, r.Private)
}

func TestRepositoryOptionalTextReset(t *testing.T) {
	r := NewRepository().
		SetDescription(github.String("a demo")).
		SetLanguage(github.String(""))

	require.NotNil(t, r.Description)
	assert.Equal(t, "a demo", *r.Description)
	require.NotNil(t, r.Language)
	assert.Equal(t, "", *r.Language)

	r.SetDescription(nil).SetLanguage(nil)
	assert.Nil(t, r.Description)
	assert.Nil(t, r.Language)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestRepositorySetDescriptionCopiesValue(t *testing.T) {
	description := "before"
	r := NewRepository().SetDescription(&description)
	description = "after"

	assert.Equal(t, "before", r.GetDescription())
}

func TestRepositoryString(t *testing.T) {
	r := NewRepository().SetID(42).SetName("demo").SetArchived(github.Bool(true))

	assert.Contains(t, fmt.Sprint(r), "Archived:true")
	assert.Contains(t, fmt.Sprint(*r), `Name:"demo"`)

	shadowed := NewRepository().SetName("demo")
	shadowed.Repository.Archived = github.Bool(true)
	assert.NotContains(t, fmt.Sprint(shadowed), "Archived")
	// The embedded model is left untouched
	assert.True(t, *shadowed.Repository.Archived)
}

func TestRepositoryNoCrossFieldCoupling(t *testing.T) {
	a := NewRepository().SetName("demo").SetIsFork(github.Bool(true)).SetArchived(github.Bool(true))
	b := NewRepository().SetArchived(github.Bool(true)).SetIsFork(github.Bool(true)).SetName("demo")

	assert.Equal(t, a, b)
	assert.Nil(t, a.Private)
	assert.Nil(t, a.Description)
	assert.Nil(t, a.ID)
}

func TestRepositoryArchivedDefault(t *testing.T) {
	r := NewRepository().SetID(42)

	assert.False(t, r.IsArchived())
	assert.False(t, r.GetArchived())
	assert.False(t, r.ArchivedKnown())
	assert.Nil(t, r.Archived)
}

func TestRepositoryArchivedScenario(t *testing.T) {
	assert.True(t, NewRepository().SetID(42).SetName("demo").SetArchived(github.Bool(true)).IsArchived())
}

func TestRepositorySetArchivedCopiesValue(t *testing.T) {
	archived := true
	r := NewRepository().SetArchived(&archived)
	archived = false

	assert.True(t, r.IsArchived())
}

func TestRepositoryArchivedShadowsBase(t *testing.T) {
	r := NewRepository()
	r.Repository.Archived = github.Bool(true)

	assert.False(t, r.GetArchived())
	assert.False(t, r.ArchivedKnown())
}

func TestRepositoryJSON(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	pushedAt := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	r := NewRepository().
		SetID(1296269).
		SetName("test-repo").
		SetDescription(github.String("")).
		SetHTMLURL("https://github.com/org/test-repo").
		SetIsFork(github.Bool(false)).
		SetCreatedAt(createdAt).
		SetPushedAt(pushedAt).
		SetIsPrivate(github.Bool(false)).
		SetLanguage(github.String("Go")).
		SetArchived(github.Bool(true))

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, true, fields["archived"])
	assert.Equal(t, "", fields["description"])

	var decoded Repository
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.GetID(), decoded.GetID())
	assert.Equal(t, r.GetName(), decoded.GetName())
	require.NotNil(t, decoded.Description)
	assert.Equal(t, "", *decoded.Description)
	assert.Equal(t, "https://github.com/org/test-repo", decoded.GetHTMLURL())
	require.NotNil(t, decoded.Fork)
	assert.False(t, *decoded.Fork)
	require.NotNil(t, decoded.Private)
	assert.False(t, *decoded.Private)
	require.NotNil(t, decoded.Language)
	assert.Equal(t, "Go", *decoded.Language)
	assert.True(t, decoded.GetCreatedAt().Time.Equal(createdAt))
	assert.True(t, decoded.GetPushedAt().Time.Equal(pushedAt))
	assert.True(t, decoded.IsArchived())
	assert.Nil(t, decoded.Repository.Archived)
}

func TestRepositoryJSONUnsetFields(t *testing.T) {
	data, err := json.Marshal(NewRepository().SetName("test-repo"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"test-repo"}`, string(data))

	var decoded Repository
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.ArchivedKnown())
	assert.Nil(t, decoded.Description)
	assert.Nil(t, decoded.Fork)
}

func TestFromGitHub(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	r := FromGitHub(&github.Repository{
		ID:        github.Int64(7),
		Name:      github.String("demo"),
		HTMLURL:   github.String("https://github.com/org/demo"),
		CloneURL:  github.String("https://github.com/org/demo.git"),
		Fork:      github.Bool(true),
		CreatedAt: &github.Timestamp{Time: createdAt},
		Language:  github.String("Go"),
		Archived:  github.Bool(true),
	})

	assert.Equal(t, int64(7), r.GetID())
	assert.Equal(t, "demo", r.GetName())
	assert.Equal(t, "https://github.com/org/demo", r.GetHTMLURL())
	assert.True(t, r.GetFork())
	assert.True(t, r.GetCreatedAt().Time.Equal(createdAt))
	assert.Nil(t, r.PushedAt)
	assert.Nil(t, r.Description)
	assert.Nil(t, r.Private)
	assert.Equal(t, "Go", r.GetLanguage())
	assert.True(t, r.IsArchived())
	// Only the record's own fields are carried over
	assert.Nil(t, r.CloneURL)
}

func TestFromGitHubNil(t *testing.T) {
	r := FromGitHub(nil)

	require.NotNil(t, r)
	assert.Equal(t, NewRepository(), r)
}

func TestFromGitHubArchivedUnset(t *testing.T) {
	r := FromGitHub(&github.Repository{Name: github.String("demo")})

	assert.False(t, r.ArchivedKnown())
	assert.False(t, r.IsArchived())
}
