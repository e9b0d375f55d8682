package utils

import (
	"fmt"
	"os/exec"

	"github.com/pkg/errors"
)

// OpenURL opens the given URL in the default browser.
func OpenURL(u string) error {
	for _, opener := range []string{"xdg-open", "open"} {
		cmd, err := exec.LookPath(opener)
		if err != nil {
			continue
		}
		return errors.Wrapf(exec.Command(cmd, u).Start(), "%s %s", opener, u)
	}
	fmt.Printf("Please open this URL manually: %s\n", u)
	return nil
}
