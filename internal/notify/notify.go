// Package notify surfaces transient success/error/info status messages.
package notify

import (
	"sync"
	"time"

	"github.com/leafletlens/client/internal/domain"
)

// DefaultAutoDismiss is how long a success message stays visible before
// it is hidden automatically. Error and info messages persist until
// replaced or cleared.
const DefaultAutoDismiss = 5 * time.Second

// Message is the currently displayed status message.
type Message struct {
	Text string
	Kind domain.NotificationKind
}

// StatusNotifier holds at most one visible message at a time. It is safe
// for concurrent use.
type StatusNotifier struct {
	mutex       sync.Mutex
	current     Message
	visible     bool
	autoDismiss time.Duration
	pending     *time.Timer

	// epoch counts message changes so a dismiss timer that already fired
	// before being stopped cannot erase a newer message
	epoch uint64

	// afterFunc is swapped out in tests to control the dismiss timer
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewStatusNotifier creates a notifier. A non-positive autoDismiss falls
// back to DefaultAutoDismiss.
func NewStatusNotifier(autoDismiss time.Duration) *StatusNotifier {
	if autoDismiss <= 0 {
		autoDismiss = DefaultAutoDismiss
	}
	return &StatusNotifier{
		autoDismiss: autoDismiss,
		afterFunc:   time.AfterFunc,
	}
}

// Notify displays a message, replacing whatever is currently shown.
// Success messages are scheduled to auto-dismiss; a replacement cancels
// any dismissal still pending for the previous message.
func (n *StatusNotifier) Notify(message string, kind domain.NotificationKind) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.stopPendingLocked()
	n.epoch++
	n.current = Message{Text: message, Kind: kind}
	n.visible = true

	if kind == domain.NotifySuccess {
		epoch := n.epoch
		n.pending = n.afterFunc(n.autoDismiss, func() { n.dismiss(epoch) })
	}
}

// Clear hides the current message unconditionally.
func (n *StatusNotifier) Clear() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.clearLocked()
}

// dismiss is the auto-dismiss path: it only clears the message it was
// scheduled for. A timer that fired while its message was being replaced
// finds a newer epoch and does nothing.
func (n *StatusNotifier) dismiss(epoch uint64) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if n.epoch != epoch {
		return
	}
	n.clearLocked()
}

func (n *StatusNotifier) clearLocked() {
	n.stopPendingLocked()
	n.epoch++
	n.current = Message{}
	n.visible = false
}

// Current returns the displayed message, if any.
func (n *StatusNotifier) Current() (Message, bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	return n.current, n.visible
}

func (n *StatusNotifier) stopPendingLocked() {
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
}
