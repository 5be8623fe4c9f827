// Package notify sends desktop notifications for viewer actions such as
// saving or copying the current image.
package notify

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/example/galleria/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave emits a notification when an image is written to disk.
	EventSave Event = "save"
	// EventCopy emits a notification when an image is copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Galleria",
		Events: map[Event]EventPreference{
			EventSave: {Template: "Saved %s"},
			EventCopy: {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences applies GALLERIA_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("GALLERIA_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			p := prefs.Events[event]
			p.Template = v
			prefs.Events[event] = p
		}
	}
	apply("GALLERIA_NOTIFY_SAVE_TEXT", EventSave)
	apply("GALLERIA_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// SendFunc delivers one notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
	log     *zap.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithSender replaces the platform notification call.
func WithSender(f SendFunc) Option { return func(n *Notifier) { n.send = f } }

// WithLogger sets the logger used for delivery failures.
func WithLogger(l *zap.Logger) Option { return func(n *Notifier) { n.log = l } }

// New creates a Notifier using the provided preferences. All events start
// disabled.
func New(prefs Preferences, opts ...Option) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	n := &Notifier{
		prefs:   cloned,
		enabled: make(map[Event]bool),
		send:    platform.Notify,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save announces a written file, using it as the notification icon.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy announces a clipboard copy with an optional preview image.
func (n *Notifier) Copy(detail string, preview image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	opts := platform.Options{}
	if preview != nil {
		path, cleanup, err := createPreview(preview)
		if err != nil {
			n.log.Warn("Notification preview failed", zap.Error(err))
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	tmpl := strings.TrimSpace(n.prefs.Events[event].Template)
	if tmpl == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	err := n.send(n.prefs.Title, body, opts)
	switch {
	case errors.Is(err, platform.ErrUnsupported):
		n.log.Debug("Notification skipped", zap.String("event", string(event)), zap.Error(err))
	case err != nil:
		n.log.Warn("Notification failed", zap.String("event", string(event)), zap.Error(err))
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "galleria-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := imaging.Encode(f, imaging.Fit(img, 256, 256, imaging.Box), imaging.PNG); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	return path, func() { _ = os.Remove(path) }, nil
}
