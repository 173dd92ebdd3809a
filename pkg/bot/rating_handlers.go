package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"carrental/pkg/logger"
	"carrental/pkg/rental"
	"carrental/service"

	tele "gopkg.in/telebot.v3"
)

// ratings returns the cached local view for a vehicle, loading it on first use.
func (b *Bot) ratings(ctx context.Context, s *UserSession, vehicleID string) (service.VehicleRatings, error) {
	b.mu.Lock()
	view, ok := s.Ratings[vehicleID]
	b.mu.Unlock()
	if ok {
		return view, nil
	}
	view, err := b.Svc.Review().Load(ctx, vehicleID)
	if err != nil {
		return view, err
	}
	b.storeRatings(s, view)
	return view, nil
}

func (b *Bot) storeRatings(s *UserSession, view service.VehicleRatings) {
	b.mu.Lock()
	s.Ratings[view.VehicleID] = view
	b.mu.Unlock()
}

func (b *Bot) handleRate(c tele.Context) error {
	s, err := b.session(c)
	if err != nil {
		return c.Send(messages["not_linked"])
	}
	args := c.Args()
	if len(args) < 2 {
		return c.Send(messages["usage_rate"])
	}
	score, err := strconv.ParseFloat(strings.Replace(args[1], ",", ".", 1), 64)
	if err != nil {
		return c.Send(messages["usage_rate"])
	}
	var comment *string
	if len(args) > 2 {
		text := strings.Join(args[2:], " ")
		comment = &text
	}

	ctx := context.Background()
	view, err := b.ratings(ctx, s, args[0])
	if err != nil {
		return c.Send(describe(err))
	}

	var next service.VehicleRatings
	if own, ok := rental.FindReview(view.Reviews, s.ClientID, view.VehicleID); ok {
		next, err = b.Svc.Review().Update(ctx, view, s.ClientID, own.ID, score, comment)
	} else {
		next, err = b.Svc.Review().Submit(ctx, view, s.ClientID, score, comment)
	}
	if err != nil {
		var dup *rental.DuplicateReviewError
		if errors.As(err, &dup) {
			// our view was stale; drop it so the next attempt reloads
			b.mu.Lock()
			delete(s.Ratings, view.VehicleID)
			b.mu.Unlock()
		}
		return c.Send(describe(err))
	}
	b.storeRatings(s, next)
	return c.Send(fmt.Sprintf(messages["rated"], next.Average))
}

func (b *Bot) handleUnrate(c tele.Context) error {
	s, err := b.session(c)
	if err != nil {
		return c.Send(messages["not_linked"])
	}
	if len(c.Args()) < 1 {
		return c.Send(usage("/unrate"))
	}

	ctx := context.Background()
	view, err := b.ratings(ctx, s, c.Args()[0])
	if err != nil {
		return c.Send(describe(err))
	}
	own, ok := rental.FindReview(view.Reviews, s.ClientID, view.VehicleID)
	if !ok {
		return c.Send(describe(&rental.NotFoundError{Kind: "review", ID: view.VehicleID}))
	}
	next, err := b.Svc.Review().Delete(ctx, view, s.ClientID, own.ID)
	if err != nil {
		return c.Send(describe(err))
	}
	b.storeRatings(s, next)
	return c.Send(messages["unrated"])
}

func (b *Bot) toggleFavorite(s *UserSession, vehicleID string) (rental.FavoriteOp, error) {
	b.mu.Lock()
	current := s.Favorites
	b.mu.Unlock()

	_, op, err := b.Svc.Favorite().Toggle(context.Background(), s.ClientID, current, vehicleID)
	if err != nil {
		return op, err
	}

	// other toggles may have landed meanwhile; replay ours onto the latest set
	b.mu.Lock()
	s.Favorites = s.Favorites.Apply(vehicleID, op)
	b.mu.Unlock()
	return op, nil
}

func (b *Bot) handleFav(c tele.Context) error {
	s, err := b.session(c)
	if err != nil {
		return c.Send(messages["not_linked"])
	}
	if len(c.Args()) < 1 {
		return c.Send(usage("/fav"))
	}
	op, err := b.toggleFavorite(s, c.Args()[0])
	if err != nil {
		return c.Send(describe(err))
	}
	return c.Send(messages["fav_"+string(op)])
}

func (b *Bot) handleFavs(c tele.Context) error {
	s, err := b.session(c)
	if err != nil {
		return c.Send(messages["not_linked"])
	}
	b.mu.Lock()
	ids := s.Favorites.IDs()
	b.mu.Unlock()
	if len(ids) == 0 {
		return c.Send(messages["no_favs"])
	}

	var sb strings.Builder
	sb.WriteString("❤️ Favorites:\n")
	for _, id := range ids {
		v, err := b.Stg.Vehicle().GetByID(context.Background(), id)
		if err != nil {
			b.Log.Warning("favorite vehicle missing", logger.String("vehicle_id", id), logger.Error(err))
			continue
		}
		fmt.Fprintf(&sb, "\n%s · $%.2f/day · %s\n🆔 %s\n", v.Title(), v.PricePerDay, ratingLabel(v.AverageRating), v.ID)
	}
	return c.Send(sb.String())
}

func (b *Bot) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb.Unique != "fav" {
		return c.Respond()
	}
	s, err := b.session(c)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: messages["not_linked"], ShowAlert: true})
	}
	op, err := b.toggleFavorite(s, cb.Data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: describe(err), ShowAlert: true})
	}
	return c.Respond(&tele.CallbackResponse{Text: messages["fav_"+string(op)]})
}
