//go:build !windows

package notification

import "log"

func push(title, message string) error {
	log.Printf("%s: %s", title, message)
	return nil
}
