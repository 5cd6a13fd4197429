//go:build linux

package login

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func autostartDir() string {
	config := os.Getenv("XDG_CONFIG_HOME")
	if config == "" {
		home, _ := os.UserHomeDir()
		config = filepath.Join(home, ".config")
	}
	return filepath.Join(config, "autostart")
}

func desktopPath() string {
	return filepath.Join(autostartDir(), appName+".desktop")
}

func Enabled() bool {
	_, err := os.Stat(desktopPath())
	return err == nil
}

// Enable writes an XDG autostart entry running the current executable with
// args.
func Enable(args ...string) error {
	exe, err := executable()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(autostartDir(), 0755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}

	argv := make([]string, 0, len(args)+1)
	for _, a := range append([]string{exe}, args...) {
		argv = append(argv, quoteExec(a))
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=heimdall
Comment=Global hotkey daemon
Exec=%s
Terminal=false
NoDisplay=true
X-GNOME-Autostart-enabled=true
`, strings.Join(argv, " "))

	if err := os.WriteFile(desktopPath(), []byte(entry), 0644); err != nil {
		return fmt.Errorf("write autostart entry: %w", err)
	}
	return nil
}

func Disable() error {
	if err := os.Remove(desktopPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove autostart entry: %w", err)
	}
	return nil
}

// quoteExec quotes one argument of a .desktop Exec line.
func quoteExec(arg string) string {
	if !strings.ContainsAny(arg, " \t\n\"'\\><~|&;$*?#()`") {
		return arg
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(arg) + `"`
}
