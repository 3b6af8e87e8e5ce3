package alert

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/mzurek/gpwpulse/internal/logging"
)

// DesktopNotifier attempts a system-level notification through whatever the
// platform provides. When no notifier command is available it falls back to
// flashing the terminal title for a few seconds.
type DesktopNotifier struct {
	command    string
	titleReset *time.Timer
}

func NewDesktopNotifier() *DesktopNotifier {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{"osascript"}
	case "linux":
		candidates = []string{"notify-send", "kdialog"}
	}
	return &DesktopNotifier{command: findCommand(candidates...)}
}

func (d *DesktopNotifier) Notify(n Notification) {
	if d.command == "" {
		d.flashTitle(n.Message)
		return
	}

	var cmd *exec.Cmd
	switch d.command {
	case "osascript":
		script := fmt.Sprintf("display notification %q with title %q", n.Message, "gpwpulse")
		cmd = exec.Command("osascript", "-e", script)
	case "kdialog":
		cmd = exec.Command("kdialog", "--passivepopup", n.Message, "5", "--title", "gpwpulse")
	default:
		cmd = exec.Command(d.command, "gpwpulse", n.Message)
	}

	if err := cmd.Start(); err != nil {
		logging.Log.Debug("desktop notification failed", zap.Error(err))
		d.flashTitle(n.Message)
		return
	}
	go func() { _ = cmd.Wait() }()
}

const titleFlashDuration = 5 * time.Second

// flashTitle sets the terminal title to the alert message, reverting after
// titleFlashDuration. A later flash supersedes a pending revert.
func (d *DesktopNotifier) flashTitle(message string) {
	setTerminalTitle(message)
	if d.titleReset != nil {
		d.titleReset.Stop()
	}
	d.titleReset = time.AfterFunc(titleFlashDuration, func() {
		setTerminalTitle("gpwpulse")
	})
}

func setTerminalTitle(title string) {
	fmt.Fprintf(os.Stdout, "\x1b]0;%s\x07", title)
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
