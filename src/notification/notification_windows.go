//go:build windows

package notification

import "github.com/go-toast/toast"

func push(title, message string) error {
	n := toast.Notification{
		AppID:   "ShotPin",
		Title:   title,
		Message: message,
	}
	return n.Push()
}
