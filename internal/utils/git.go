package utils

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/cli/go-gh/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "utils")

// GetBaseDir returns the directory to clone PRs into.
func GetBaseDir() string {
	if b := os.Getenv("BASE_DIR"); b != "" {
		return ExpandHome(b)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "workspace")
}

// ExpandHome expands a leading '~' in a path to the user home directory.
func ExpandHome(p string) string {
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[1:])
	}
	return p
}

// ConfirmClone asks on in whether dir should be created. Anything but an explicit "n" means yes.
func ConfirmClone(in io.Reader, repositoryNameWithOwner, dir string) bool {
	logger.Infof("Clone %s into %s? [Y/n]: ", repositoryNameWithOwner, dir)
	resp, _ := bufio.NewReader(in).ReadString('\n')
	return !strings.EqualFold(strings.TrimSpace(resp), "n")
}

// CloneAndCheckout clones the repository under baseDir when missing, checks out the
// pull request and replaces the current process with a shell in that checkout.
func CloneAndCheckout(ctx context.Context, repositoryNameWithOwner string, prNumber int, baseDir string) error {
	dir := filepath.Join(baseDir, repositoryNameWithOwner)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if !ConfirmClone(os.Stdin, repositoryNameWithOwner, dir) {
			logger.Info("Skipping clone.")
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(dir), 0755); err != nil {
			return errors.Wrap(err, "mkdir")
		}
		logger.Infof("Cloning %s into %s", repositoryNameWithOwner, dir)
		if _, stderr, err := gh.ExecContext(ctx, "repo", "clone", repositoryNameWithOwner, dir); err != nil {
			return errors.Wrap(err, stderr.String())
		}
	} else {
		logger.Infof("Found existing repository %s", repositoryNameWithOwner)
	}

	if err := os.Chdir(dir); err != nil {
		return errors.Wrap(err, "chdir")
	}

	if _, stderr, err := gh.ExecContext(ctx, "pr", "checkout", strconv.Itoa(prNumber)); err != nil {
		return errors.Wrap(err, stderr.String())
	}
	logger.Infof("Checked out PR #%d in %s", prNumber, dir)

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	// replace current process with a shell in the checked-out repo
	return errors.Wrap(syscall.Exec(shell, []string{shell}, os.Environ()), "exec shell")
}
