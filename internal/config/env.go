package config

import (
	"os"
	"strings"
)

// Env holds the workflow environment shared by every subcommand.
type Env struct {
	Token      string
	Repository string
	Ref        string
}

// LoadEnv reads the environment through getenv; nil means os.Getenv.
func LoadEnv(getenv func(string) string) Env {
	if getenv == nil {
		getenv = os.Getenv
	}
	token := getenv("GITHUB_TOKEN")
	if token == "" {
		token = getenv("GH_TOKEN")
	}
	return Env{
		Token:      token,
		Repository: getenv("GITHUB_REPOSITORY"),
		Ref:        getenv("GITHUB_REF"),
	}
}

// Require returns the first missing mandatory value.
func (e Env) Require(repository bool) error {
	if e.Token == "" {
		return ErrMissingToken
	}
	if repository && e.Repository == "" {
		return ErrMissingRepository
	}
	return nil
}

// PullRequestNumberFromRef extracts the number from refs/pull/<n>/merge.
func PullRequestNumberFromRef(ref string) string {
	parts := strings.Split(ref, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
