// Package notify reports interactive task failures on the console and, when
// enabled, as desktop notifications.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/gen2brain/beeep"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.Notifier = (*ConsoleNotifier)(nil)
	_ ports.Notifier = (*DesktopNotifier)(nil)
	_ ports.Notifier = Multi(nil)
)

// New returns the notifier for a run: the console always, plus the desktop
// when desktop is true.
func New(logger ports.Logger, desktop bool) ports.Notifier {
	console := NewConsoleNotifier(logger)
	if !desktop {
		return console
	}
	return Multi{console, NewDesktopNotifier()}
}

// location formats the file and line of n, or "" when unknown.
func location(n domain.Notification) string {
	switch {
	case n.File == "":
		return ""
	case n.Line > 0:
		return fmt.Sprintf("%s:%d", n.File, n.Line)
	default:
		return n.File
	}
}

// ConsoleNotifier logs notifications as errors.
type ConsoleNotifier struct {
	logger ports.Logger
}

// NewConsoleNotifier creates a new ConsoleNotifier.
func NewConsoleNotifier(logger ports.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger}
}

// Notify logs n with its location as metadata.
func (c *ConsoleNotifier) Notify(_ context.Context, n domain.Notification) error {
	err := zerr.Wrap(zerr.New(n.Message), n.Title)
	if loc := location(n); loc != "" {
		err = zerr.With(err, "file", loc)
	}
	c.logger.Error(err)
	return nil
}

// DesktopNotifier shows notifications through the desktop environment.
type DesktopNotifier struct {
	send func(title, message, icon string) error
}

// NewDesktopNotifier creates a DesktopNotifier backed by beeep.
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{send: beeep.Notify}
}

// NewDesktopNotifierWithSender creates a DesktopNotifier with a custom send function.
func NewDesktopNotifierWithSender(send func(title, message, icon string) error) *DesktopNotifier {
	return &DesktopNotifier{send: send}
}

// Notify shows n. The location, when known, is the first line of the body.
func (d *DesktopNotifier) Notify(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body := n.Message
	if loc := location(n); loc != "" {
		body = loc + "\n" + body
	}
	if err := d.send(n.Title, body, ""); err != nil {
		return zerr.Wrap(err, "failed to show desktop notification")
	}
	return nil
}

// Multi delivers a notification to every notifier in order. Failures are
// joined and do not stop later notifiers.
type Multi []ports.Notifier

// Notify sends n to every notifier.
func (m Multi) Notify(ctx context.Context, n domain.Notification) error {
	var errs error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
