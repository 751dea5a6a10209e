package reconcile

import (
	"fmt"
	"os"
	"os/user"
)

// fieldUser is the window field naming who changed the window.
const fieldUser = "user"

// detectOperator returns "user@host" for the account running the tool.
func detectOperator() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}

	return currentUser.Username + "@" + hostname, nil
}
