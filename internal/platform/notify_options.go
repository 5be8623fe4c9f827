package platform

import (
	"errors"
	"time"
)

// DefaultAppName is reported to the notification service when Options
// leaves AppName empty.
const DefaultAppName = "Galleria"

// ErrUnsupported is returned by Notify on platforms without a notification
// service.
var ErrUnsupported = errors.New("desktop notifications are not supported on this platform")

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender.
	AppName string
	// IconPath, when non-empty, points to an image file shown with the
	// notification where supported.
	IconPath string
	// Timeout is how long the notification stays visible; zero uses the
	// platform default.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}
