package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"carrental/config"
	"carrental/pkg/logger"
	"carrental/pkg/rental"
	"carrental/service"
	"carrental/storage"

	tele "gopkg.in/telebot.v3"
)

// UserSession is the per-chat local state that optimistic mutations act on.
type UserSession struct {
	ClientID  string
	Favorites rental.Favorites
	Ratings   map[string]service.VehicleRatings
}

type Bot struct {
	Bot      *tele.Bot
	Log      logger.ILogger
	Cfg      *config.Config
	Stg      storage.IStorage
	Svc      service.IServiceManager
	mu       sync.Mutex
	Sessions map[int64]*UserSession
}

const dateLayout = "2006-01-02"

func New(cfg *config.Config, stg storage.IStorage, svc service.IServiceManager, log logger.ILogger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.TelegramBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	bot := &Bot{
		Bot:      b,
		Log:      log,
		Cfg:      cfg,
		Stg:      stg,
		Svc:      svc,
		Sessions: make(map[int64]*UserSession),
	}
	bot.registerHandlers()
	return bot, nil
}

func (b *Bot) Start() {
	b.Log.Info("🤖 Rental bot started...")
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.Bot.Stop()
}

var messages = map[string]string{
	"welcome":      "👋 Welcome! Your account is linked.",
	"link_needed":  "Send /start <your client id> to link your account.",
	"not_linked":   "🚫 This chat is not linked to a client account.",
	"usage_book":   "Usage: /book <vehicle id> <YYYY-MM-DD> <YYYY-MM-DD> [pickup] [destination]",
	"usage_rate":   "Usage: /rate <vehicle id> <score 0-5> [comment]",
	"usage_brand":  "Usage: /brand <make>",
	"usage_id":     "Usage: %s <id>",
	"booked":       "✅ Reservation %s created.\n💰 Total: $%.2f\n📅 %s → %s",
	"no_orders":    "📭 No orders in this category.",
	"no_cars":      "📭 No cars match.",
	"no_favs":      "📭 You have no favorite cars yet.",
	"fav_add":      "❤️ Added to favorites.",
	"fav_remove":   "💔 Removed from favorites.",
	"rated":        "⭐ Thanks! The car is now rated %.2f.",
	"unrated":      "🗑 Your review was removed.",
	"cancelled":    "⚠️ Reservation %s cancelled.",
	"pay_pending":  "💵 Payment recorded, awaiting admin confirmation.",
	"confirmed":    "✅ Reservation %s confirmed.",
	"paid":         "✅ Payment for %s confirmed.",
	"admin_only":   "🚫 Admins only.",
	"invalid_date": "📅 Dates must look like 2030-01-31.",
}

func (b *Bot) registerHandlers() {
	b.Bot.Handle("/start", b.handleStart)
	b.Bot.Handle("/cars", b.handleCars)
	b.Bot.Handle("/brand", b.handleBrand)
	b.Bot.Handle("/car", b.handleCar)
	b.Bot.Handle("/book", b.handleBook)
	b.Bot.Handle("/orders", b.handleOrders)
	b.Bot.Handle("/cancel", b.handleCancel)
	b.Bot.Handle("/pay", b.handlePay)
	b.Bot.Handle("/rate", b.handleRate)
	b.Bot.Handle("/unrate", b.handleUnrate)
	b.Bot.Handle("/fav", b.handleFav)
	b.Bot.Handle("/favs", b.handleFavs)

	b.Bot.Handle("/confirm", b.adminOnly(b.handleConfirm))
	b.Bot.Handle("/paid", b.adminOnly(b.handlePaid))

	b.Bot.Handle(tele.OnCallback, b.handleCallback)
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := context.Background()

	var clientID string
	if args := c.Args(); len(args) > 0 {
		if err := b.Stg.Client().LinkTelegram(ctx, args[0], c.Sender().ID); err != nil {
			b.Log.Error("failed to link telegram", logger.String("client_id", args[0]), logger.Error(err))
			return c.Send(describe(err))
		}
		clientID = args[0]
	} else {
		client, err := b.Stg.Client().GetByTelegramID(ctx, c.Sender().ID)
		if err != nil {
			return c.Send(messages["link_needed"])
		}
		clientID = client.ID
	}

	favs, err := b.Svc.Favorite().Load(ctx, clientID)
	if err != nil {
		b.Log.Error("failed to load favorites", logger.String("client_id", clientID), logger.Error(err))
		favs = rental.NewFavorites()
	}

	b.mu.Lock()
	b.Sessions[c.Sender().ID] = &UserSession{
		ClientID:  clientID,
		Favorites: favs,
		Ratings:   make(map[string]service.VehicleRatings),
	}
	b.mu.Unlock()

	return c.Send(messages["welcome"])
}

// session returns the linked session, recovering it from storage after a restart.
func (b *Bot) session(c tele.Context) (*UserSession, error) {
	b.mu.Lock()
	s, ok := b.Sessions[c.Sender().ID]
	b.mu.Unlock()
	if ok {
		return s, nil
	}

	ctx := context.Background()
	client, err := b.Stg.Client().GetByTelegramID(ctx, c.Sender().ID)
	if err != nil {
		return nil, err
	}
	favs, err := b.Svc.Favorite().Load(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	s = &UserSession{ClientID: client.ID, Favorites: favs, Ratings: make(map[string]service.VehicleRatings)}

	b.mu.Lock()
	b.Sessions[c.Sender().ID] = s
	b.mu.Unlock()
	return s, nil
}

func (b *Bot) isAdmin(c tele.Context) bool {
	return (b.Cfg.AdminID != 0 && c.Sender().ID == b.Cfg.AdminID) ||
		(b.Cfg.AdminUsername != "" && c.Sender().Username == b.Cfg.AdminUsername)
}

func (b *Bot) adminOnly(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !b.isAdmin(c) {
			return c.Send(messages["admin_only"])
		}
		return h(c)
	}
}

func (b *Bot) notifyClient(clientID, text string) {
	client, err := b.Stg.Client().GetByID(context.Background(), clientID)
	if err != nil || client.TelegramID == nil {
		return
	}
	if _, err := b.Bot.Send(&tele.User{ID: *client.TelegramID}, text); err != nil {
		b.Log.Warning("failed to notify client", logger.String("client_id", clientID), logger.Error(err))
	}
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.Local)
}

func formatDate(t time.Time) string {
	return t.Format("02-01-2006")
}

func usage(cmd string) string {
	return fmt.Sprintf(messages["usage_id"], cmd)
}
