package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultPathMissing(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triage.yaml")
	content := `
project:
  org: acme
  number: 7
priorityDueDays:
  P0: 5
pullRequestSources:
  - owner: acme
    name: widgets
    filterReviewers: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Project{Org: "acme", Number: 7}, cfg.Project)
	assert.Equal(t, 5, cfg.PriorityDueDays["P0"])
	require.Len(t, cfg.PullRequestSources, 1)
	assert.True(t, cfg.PullRequestSources[0].FilterReviewers)
	// untouched sections keep their defaults
	assert.Len(t, cfg.IssueSources, 2)
	assert.Equal(t, "llk-ai-consultant", cfg.Consultant.Label)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project: [unclosed"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveSources(t *testing.T) {
	sources := []Repository{
		{Tag: "local"},
		{Owner: "tenstorrent", Name: "tt-metal"},
	}
	got, err := ResolveSources(sources, "me/mine")
	require.NoError(t, err)
	assert.Equal(t, []Repository{
		{Owner: "me", Name: "mine", Tag: "local"},
		{Owner: "tenstorrent", Name: "tt-metal", Tag: "tt-metal"},
	}, got)

	_, err = ResolveSources(sources, "not-a-repo")
	assert.Error(t, err)
}

func TestSplitRepository(t *testing.T) {
	owner, name, err := SplitRepository("a/b")
	require.NoError(t, err)
	assert.Equal(t, "a", owner)
	assert.Equal(t, "b", name)

	for _, bad := range []string{"", "a", "a/", "/b", "a/b/c"} {
		_, _, err := SplitRepository(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadReviewers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewers.txt")
	require.NoError(t, os.WriteFile(path, []byte("alice\n\n# comment\n  bob  \n"), 0644))

	got, err := LoadReviewers(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, got)

	_, err = LoadReviewers(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	env := map[string]string{
		"GH_TOKEN":          "gh",
		"GITHUB_REPOSITORY": "o/r",
		"GITHUB_REF":        "refs/pull/42/merge",
	}
	e := LoadEnv(func(k string) string { return env[k] })
	assert.Equal(t, "gh", e.Token)
	assert.NoError(t, e.Require(true))

	env["GITHUB_TOKEN"] = "primary"
	assert.Equal(t, "primary", LoadEnv(func(k string) string { return env[k] }).Token)

	assert.ErrorIs(t, Env{}.Require(false), ErrMissingToken)
	assert.ErrorIs(t, Env{Token: "x"}.Require(true), ErrMissingRepository)
	assert.NoError(t, Env{Token: "x"}.Require(false))
}

func TestPullRequestNumberFromRef(t *testing.T) {
	assert.Equal(t, "42", PullRequestNumberFromRef("refs/pull/42/merge"))
	assert.Equal(t, "", PullRequestNumberFromRef("main"))
}
