// Package notify holds the best-effort side effects fired after a subscribe
// or feedback write. Failures here are logged and swallowed: the primary
// write has already succeeded and must not be rolled back.
package notify

import (
	"context"
	"log"
	"time"
)

const taskTimeout = 10 * time.Second

// Dispatch runs a notification task on its own goroutine with an isolated
// timeout and panic guard. The caller never waits on the result.
func Dispatch(task string, fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[notify] %s panicked: %v", task, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Printf("[notify] %s failed: %v", task, err)
			return
		}
		log.Printf("[notify] %s done", task)
	}()
}
