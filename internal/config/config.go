// Package config loads gh-triage settings from the environment and an optional YAML file.
package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var logger = log.WithField("package", "config")

// DefaultPath is read when --config is not given. A missing file there is not an error.
const DefaultPath = ".github/triage.yaml"

var (
	ErrMissingToken      = errors.New("missing GITHUB_TOKEN")
	ErrMissingRepository = errors.New("missing GITHUB_REPOSITORY")
)

// Repository is one source of issues or pull requests. An empty Owner and Name
// stand for the repository the workflow runs in.
type Repository struct {
	Owner           string `yaml:"owner"`
	Name            string `yaml:"name"`
	Tag             string `yaml:"tag"`
	FilterLabel     string `yaml:"filterLabel"`
	FilterReviewers bool   `yaml:"filterReviewers"`
}

func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

type Project struct {
	Org    string `yaml:"org"`
	Number int    `yaml:"number"`
}

type Output struct {
	IssuesReport    string `yaml:"issuesReport"`
	PendingReport   string `yaml:"pendingReport"`
	GeneratedPrompt string `yaml:"generatedPrompt"`
	AIResponse      string `yaml:"aiResponse"`
}

type Consultant struct {
	Label        string `yaml:"label"`
	DefaultIssue int    `yaml:"defaultIssue"`
}

type Config struct {
	Project            Project        `yaml:"project"`
	IssueSources       []Repository   `yaml:"issueSources"`
	PullRequestSources []Repository   `yaml:"pullRequestSources"`
	PriorityDueDays    map[string]int `yaml:"priorityDueDays"`
	BountyLabel        string         `yaml:"bountyLabel"`
	ReviewersFile      string         `yaml:"reviewersFile"`
	Output             Output         `yaml:"output"`
	Consultant         Consultant     `yaml:"consultant"`
}

// Default mirrors the LLK team setup: the current repository plus LLK-labelled
// tt-metal work, tracked on project 166.
func Default() *Config {
	return &Config{
		Project: Project{Org: "tenstorrent", Number: 166},
		IssueSources: []Repository{
			{Tag: "tt-llk"},
			{Owner: "tenstorrent", Name: "tt-metal", Tag: "tt-metal", FilterLabel: "LLK"},
		},
		PullRequestSources: []Repository{
			{Tag: "tt-llk"},
			{Owner: "tenstorrent", Name: "tt-metal", Tag: "tt-metal", FilterReviewers: true},
		},
		PriorityDueDays: map[string]int{"P0": 20, "P1": 30, "P2": 60},
		BountyLabel:     "bounty",
		ReviewersFile:   ".github/scripts/reviewers.txt",
		Output: Output{
			IssuesReport:    "sorted-issues.html",
			PendingReport:   "pending-prs.html",
			GeneratedPrompt: "generated_prompt.txt",
			AIResponse:      "ai_response.md",
		},
		Consultant: Consultant{Label: "llk-ai-consultant", DefaultIssue: 598},
	}
}

// Load returns the defaults overlaid with the YAML file at path. When path is
// DefaultPath and the file does not exist the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultPath {
			logger.WithField("path", path).Debug("no config file, using defaults")
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// ResolveSources fills repositories that name no owner with currentRepo ("owner/name")
// and defaults empty tags to the repository name.
func ResolveSources(sources []Repository, currentRepo string) ([]Repository, error) {
	resolved := make([]Repository, 0, len(sources))
	for _, s := range sources {
		if s.Owner == "" || s.Name == "" {
			owner, name, err := SplitRepository(currentRepo)
			if err != nil {
				return nil, err
			}
			s.Owner, s.Name = owner, name
		}
		if s.Tag == "" {
			s.Tag = s.Name
		}
		resolved = append(resolved, s)
	}
	return resolved, nil
}

// SplitRepository splits "owner/name".
func SplitRepository(nameWithOwner string) (string, string, error) {
	parts := strings.Split(nameWithOwner, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid repository format %q, expected owner/repo", nameWithOwner)
	}
	return parts[0], parts[1], nil
}

// LoadReviewers reads one login per line, skipping blank lines and '#' comments.
func LoadReviewers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading reviewers")
	}
	defer f.Close()

	var reviewers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reviewers = append(reviewers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading reviewers")
	}
	return reviewers, nil
}
