package ui

import (
	"fmt"
	"os/exec"
	"runtime"

	"talentpipe/pkg/pipeline"
)

// NotificationSender shows a desktop notification with a title and a body.
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender shells out to notify-send.
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender shells out to osascript.
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// WindowsNotificationSender raises a toast through PowerShell.
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
		$text = $template.GetElementsByTagName("text")
		$text.Item(0).AppendChild($template.CreateTextNode(%q)) | Out-Null
		$text.Item(1).AppendChild($template.CreateTextNode(%q)) | Out-Null
		$toast = [Windows.UI.Notifications.ToastNotification]::new($template)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("talentpipe").Show($toast)
	`, title, message)
	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Run()
}

// Notifier sends a desktop notification when a run ends. It is a
// pipeline.Reporter that ignores everything but Done.
type Notifier struct {
	pipeline.NopReporter
	sender NotificationSender
}

// NewNotifier picks the sender for the current platform
func NewNotifier() *Notifier {
	var sender NotificationSender
	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	case "windows":
		sender = &WindowsNotificationSender{}
	}
	return &Notifier{sender: sender}
}

// NewNotifierWithSender is used by tests and by callers with their own channel
func NewNotifierWithSender(sender NotificationSender) *Notifier {
	return &Notifier{sender: sender}
}

// Done notifies with the run outcome
func (n *Notifier) Done(summary pipeline.Summary) {
	if n.sender == nil {
		return
	}
	title, message := NotificationText(summary)
	// Notifications are best effort
	_ = n.sender.Send(title, message)
}

// NotificationText is the title and body used for a finished run
func NotificationText(summary pipeline.Summary) (string, string) {
	switch summary.State {
	case pipeline.StateStopped:
		return "talentpipe stopped", fmt.Sprintf("Stopped by user after %d profiles", summary.Processed)
	case pipeline.StateFailed:
		return "talentpipe failed", "The pipeline could not start"
	default:
		return "talentpipe complete", fmt.Sprintf("Found %d profiles, processed %d (%d failed)",
			summary.Found, summary.Processed, summary.Failed)
	}
}
