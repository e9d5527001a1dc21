package notify

import (
	"context"

	"github.com/reppay/custody"
	"github.com/tendermint/tendermint/libs/log"
)

// Logger writes every event to a log.
type Logger struct {
	log log.Logger
}

var _ Publisher = (*Logger)(nil)

// NewLogger returns a publisher that logs events at info level.
func NewLogger(logger log.Logger) *Logger {
	return &Logger{log: logger.With("module", "notify")}
}

// Publish implements Publisher
func (l *Logger) Publish(_ context.Context, height int64, events []custody.Event) error {
	for _, e := range events {
		env, err := Seal(height, e)
		if err != nil {
			return err
		}
		l.log.Info("event",
			"height", env.Height,
			"kind", env.Kind,
			"key", env.Key,
			"event", string(env.Event))
	}
	return nil
}
