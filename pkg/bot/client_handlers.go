package bot

import (
	"context"
	"fmt"
	"strings"

	"carrental/pkg/models"
	"carrental/pkg/rental"

	tele "gopkg.in/telebot.v3"
)

func (b *Bot) handleCars(c tele.Context) error {
	filter := rental.VehicleFilter{Limit: 10}
	if args := c.Args(); len(args) > 0 {
		filter.VehicleType = args[0]
	}
	return b.listCars(c, filter)
}

// handleBrand lists the cars of one make, e.g. /brand Renault.
func (b *Bot) handleBrand(c tele.Context) error {
	if len(c.Args()) < 1 {
		return c.Send(messages["usage_brand"])
	}
	return b.listCars(c, rental.VehicleFilter{Make: strings.Join(c.Args(), " "), Limit: 10})
}

func (b *Bot) listCars(c tele.Context, filter rental.VehicleFilter) error {
	vehicles, total, err := b.Svc.Catalog().Search(context.Background(), filter)
	if err != nil {
		return c.Send(describe(err))
	}
	if len(vehicles) == 0 {
		return c.Send(messages["no_cars"])
	}

	s, _ := b.session(c)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚗 Cars (%d):\n", total)
	menu := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, v := range vehicles {
		fmt.Fprintf(&sb, "\n%s %d · $%.2f/day · %s\n🆔 %s\n", v.Title(), v.Year, v.PricePerDay, ratingLabel(v.AverageRating), v.ID)
		label := "🤍 " + v.Title()
		if s != nil && s.Favorites.Has(v.ID) {
			label = "❤️ " + v.Title()
		}
		rows = append(rows, menu.Row(menu.Data(label, "fav", v.ID)))
	}
	menu.Inline(rows...)
	return c.Send(sb.String(), menu)
}

func ratingLabel(avg float64) string {
	if avg <= 0 {
		return "not rated"
	}
	return fmt.Sprintf("%s %.2f", renderStars(rental.StarBreakdown(avg)), avg)
}

func (b *Bot) handleCar(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Send(usage("/car"))
	}
	d, err := b.Svc.Catalog().Vehicle(context.Background(), args[0])
	if err != nil {
		return c.Send(describe(err))
	}
	v := d.Vehicle
	ac := "no"
	if v.AirConditioning {
		ac = "yes"
	}
	text := fmt.Sprintf("🚗 %s (%d)\n%s · %s · %s\n👥 %d seats · 🚪 %d doors · ❄️ A/C %s\n💰 $%.2f/day\n%s (%d reviews)",
		v.Title(), v.Year, v.Category, v.Transmission, v.FuelType,
		v.Seats, v.Doors, ac, v.PricePerDay, renderStars(d.Stars), d.Reviews)
	return c.Send(text)
}

func (b *Bot) handleBook(c tele.Context) error {
	s, err := b.session(c)
	if err != nil {
		return c.Send(messages["not_linked"])
	}
	args := c.Args()
	if len(args) < 3 {
		return c.Send(messages["usage_book"])
	}
	start, err1 := parseDate(args[1])
	end, err2 := parseDate(args[2])
	if err1 != nil || err2 != nil {
		return c.Send(messages["invalid_date"])
	}

	req := models.ReservationRequest{
		ClientID:  s.ClientID,
		VehicleID: args[0],
		StartDate: start,
		EndDate:   end,
	}
	if len(args) > 3 {
		req.PickupLocation = args[3]
	}
	if len(args) > 4 {
		req.Destination = strings.Join(args[4:], " ")
	}

	res, err := b.Svc.Reservation().Create(context.Background(), req)
	if err != nil {
		return c.Send(describe(err))
	}
	return c.Send(fmt.Sprintf(messages["booked"], res.ID, res.TotalPrice, formatDate(res.StartDate), formatDate(res.EndDate)))
}

func (b *Bot) handleOrders(c tele.Context) error {
	s, err := b.session(c)
	if err != nil {
		return c.Send(messages["not_linked"])
	}
	tabs, err := b.Svc.Reservation().ClientOrders(context.Background(), s.ClientID)
	if err != nil {
		return c.Send(describe(err))
	}

	var sb strings.Builder
	writeTab(&sb, "🕒 Scheduled", tabs.Scheduled)
	writeTab(&sb, "✅ Confirmed", tabs.Confirmed)
	writeTab(&sb, "❌ Cancelled", tabs.Cancelled)
	writeTab(&sb, "📜 Past", tabs.Past)
	return c.Send(sb.String())
}

func writeTab(sb *strings.Builder, title string, list []models.Reservation) {
	sb.WriteString(title + "\n")
	if len(list) == 0 {
		sb.WriteString(messages["no_orders"] + "\n\n")
		return
	}
	for _, r := range list {
		driver := "No"
		if r.DriverRequested {
			driver = "Yes"
		}
		fmt.Fprintf(sb, "🆔 %s\n📅 %s - %s\n📍 %s → %s\n💰 $%.2f · %s\n🧑‍✈️ Driver: %s\n",
			r.ID, formatDate(r.StartDate), formatDate(r.EndDate), r.PickupLocation, r.Destination,
			r.TotalPrice, r.PaymentStatus, driver)
		if r.Comment != "" {
			fmt.Fprintf(sb, "💬 %s\n", r.Comment)
		}
	}
	sb.WriteString("\n")
}

func (b *Bot) handleCancel(c tele.Context) error {
	s, err := b.session(c)
	if err != nil {
		return c.Send(messages["not_linked"])
	}
	if len(c.Args()) < 1 {
		return c.Send(usage("/cancel"))
	}
	res, err := b.Svc.Reservation().Cancel(context.Background(), s.ClientID, c.Args()[0])
	if err != nil {
		return c.Send(describe(err))
	}
	return c.Send(fmt.Sprintf(messages["cancelled"], res.ID))
}

func (b *Bot) handlePay(c tele.Context) error {
	s, err := b.session(c)
	if err != nil {
		return c.Send(messages["not_linked"])
	}
	args := c.Args()
	if len(args) < 1 {
		return c.Send(usage("/pay"))
	}
	method := models.PaymentMethodCash
	if len(args) > 1 {
		method = models.PaymentMethod(strings.ToLower(args[1]))
	}
	if _, err := b.Svc.Reservation().SubmitPayment(context.Background(), s.ClientID, args[0], method); err != nil {
		return c.Send(describe(err))
	}
	return c.Send(messages["pay_pending"])
}
