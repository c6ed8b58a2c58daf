// Package service contains the application logic of the nightcrew backend:
// submitting group drafts and sending chat messages through the optimistic
// pipeline. Services depend on the remote.Client boundary and on small
// interfaces for user-facing side effects, never on HTTP types.
package service

import (
	"context"
	"log/slog"

	"github.com/pkordes/nightcrew/backend/internal/mutation"
)

// Notifier surfaces a one-shot, user-visible alert.
type Notifier interface {
	Alert(ctx context.Context, title, message string)
}

// Navigator receives the "go back" signal emitted after a successful
// group submission.
type Navigator interface {
	Back()
}

// NavigatorFunc adapts a func to Navigator.
type NavigatorFunc func()

// Back calls f.
func (f NavigatorFunc) Back() { f() }

// LogNotifier writes alerts to a structured logger.
type LogNotifier struct {
	Log *slog.Logger
}

// Alert logs the alert at warn level.
func (n LogNotifier) Alert(ctx context.Context, title, message string) {
	n.Log.WarnContext(ctx, "user alert", "title", title, "message", message)
}

// observer logs every status transition of a mutation at debug level.
func observer(log *slog.Logger) mutation.Observer {
	return func(key string, s mutation.Status, err error) {
		if err != nil {
			log.Debug("mutation settled", "key", key, "status", s.String(), "error", err)
			return
		}
		log.Debug("mutation transition", "key", key, "status", s.String())
	}
}
