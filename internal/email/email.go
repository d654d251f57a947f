package email

import (
	"context"
	"fmt"

	"github.com/eventmate/booking-service/internal/kafka"
)

// Sender renders booking notifications. Delivery is a stand-in; the
// subject and body are what an SMTP integration would send.
type Sender struct {
	inviteBaseURL string
}

func NewSender(inviteBaseURL string) *Sender {
	return &Sender{inviteBaseURL: inviteBaseURL}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	switch event.Type {
	case kafka.EventTypeGroupInvite:
		fmt.Printf("send email to %s: You're invited to %s (group %s, join %s/%d?group=%s)\n",
			event.Email, event.EventTitle, event.GroupCode, s.inviteBaseURL, event.EventID, event.GroupCode)
	case kafka.EventTypeBookingCancelled:
		fmt.Printf("send email to %s: Booking cancelled for %s (ticket %s)\n",
			event.Email, event.EventTitle, event.TicketCode)
	default:
		fmt.Printf("send email to %s: Ticket confirmed for %s on %s at %s (ticket %s)\n",
			event.Email, event.EventTitle, event.EventStart.Format("2006-01-02 15:04"), event.Venue, event.TicketCode)
	}
	return nil
}
