package service

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenBrowser opens a file:// or http:// URL in the default browser without
// waiting for it to exit.
func OpenBrowser(url string) error {
	name, args, err := browserCommand(runtime.GOOS, url, exec.LookPath)
	if err != nil {
		return err
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// browserCommand picks the opener for goos. lookPath resolves candidates on
// Linux, where several desktop openers exist.
func browserCommand(goos, url string, lookPath func(string) (string, error)) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "cmd", []string{"/c", "start", url}, nil
	case "linux", "freebsd", "openbsd":
		for _, candidate := range []string{"xdg-open", "gnome-open", "kde-open"} {
			if _, err := lookPath(candidate); err == nil {
				return candidate, []string{url}, nil
			}
		}
		return "", nil, fmt.Errorf("no suitable browser opener found")
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
