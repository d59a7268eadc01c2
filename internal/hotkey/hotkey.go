// Package hotkey stops the bot from the keyboard while the game has focus.
package hotkey

import (
	"context"

	hook "github.com/robotn/gohook"

	"fish-bot/internal/logging"
)

// Listen registers a global key-down hook for each of keys and calls stop
// the first time any of them is pressed. It blocks until ctx is done.
func Listen(ctx context.Context, keys []string, stop func()) {
	if len(keys) == 0 {
		<-ctx.Done()
		return
	}

	fired := false
	for _, key := range keys {
		k := key
		hook.Register(hook.KeyDown, []string{k}, func(e hook.Event) {
			if fired {
				return
			}
			fired = true
			logging.Info("Stop key %q pressed", k)
			stop()
		})
	}

	s := hook.Start()
	done := hook.Process(s)
	logging.Info("Press %v to stop", keys)

	select {
	case <-ctx.Done():
		hook.End()
		<-done
	case <-done:
	}
}
