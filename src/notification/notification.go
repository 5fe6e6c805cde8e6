// Package notification shows fire-and-forget desktop toasts for export
// results. Failures are logged, never surfaced as errors; a missed toast
// must not affect session state.
package notification

import "log"

// Show displays a notification asynchronously, without blocking the event
// loop.
func Show(title, message string) {
	go func() {
		if err := push(title, message); err != nil {
			log.Printf("notification: %v", err)
		}
	}()
}
