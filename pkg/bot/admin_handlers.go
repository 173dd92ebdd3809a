package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v3"
)

func (b *Bot) handleConfirm(c tele.Context) error {
	if len(c.Args()) < 1 {
		return c.Send(usage("/confirm"))
	}
	res, err := b.Svc.Reservation().Confirm(context.Background(), c.Args()[0])
	if err != nil {
		return c.Send(describe(err))
	}
	b.notifyClient(res.ClientID, fmt.Sprintf(messages["confirmed"], res.ID))
	return c.Send(fmt.Sprintf(messages["confirmed"], res.ID))
}

func (b *Bot) handlePaid(c tele.Context) error {
	if len(c.Args()) < 1 {
		return c.Send(usage("/paid"))
	}
	res, err := b.Svc.Reservation().ConfirmPayment(context.Background(), c.Args()[0])
	if err != nil {
		return c.Send(describe(err))
	}
	b.notifyClient(res.ClientID, fmt.Sprintf(messages["paid"], res.ID))
	return c.Send(fmt.Sprintf(messages["paid"], res.ID))
}
