package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Stubbed in tests to exercise each platform branch.
var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser launches the default browser at url, typically to show an OAuth
// consent page. The command is started and not waited on, so a slow browser
// never blocks the auth flow.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch rt := getRuntime(); rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
