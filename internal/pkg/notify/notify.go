// internal/pkg/notify/notify.go
package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Event names the order lifecycle moments buyers and sellers are told about
type Event string

const (
	EventOrderPlaced        Event = "order.placed"
	EventOrderStatusChanged Event = "order.status_changed"
	EventOrderCancelled     Event = "order.cancelled"
	EventReturnRequested    Event = "return.requested"
	EventReturnDecided      Event = "return.decided"
	EventRefundRecorded     Event = "refund.recorded"
)

// Message is one outbound notification
type Message struct {
	Event       Event
	Recipient   string
	Subject     string
	HTMLContent string
	Metadata    map[string]string
}

// Sender delivers one message over a concrete channel
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher fans messages out to a sender without blocking the request
// path. Delivery failures are logged and dropped; order flow never fails
// because an email did not go out.
type Dispatcher struct {
	sender  Sender
	logger  *logrus.Logger
	timeout time.Duration
}

// NewDispatcher creates a dispatcher around a sender. A nil sender produces
// a dispatcher that silently drops everything, used when notifications are
// disabled.
func NewDispatcher(sender Sender, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		logger:  logger,
		timeout: 15 * time.Second,
	}
}

// Dispatch sends the message in the background
func (d *Dispatcher) Dispatch(msg Message) {
	if d == nil || d.sender == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.WithFields(logrus.Fields{
				"event":     msg.Event,
				"recipient": msg.Recipient,
				"error":     err.Error(),
			}).Warn("Notification delivery failed")
			return
		}
		d.logger.WithFields(logrus.Fields{
			"event":     msg.Event,
			"recipient": msg.Recipient,
		}).Debug("Notification delivered")
	}()
}
