package app

import (
	"context"
	"fmt"
	"net/http"

	"country-converter/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Watch renders the converter once and again every time the server reports
// a rate change. Each change clears the rate cache first so the next render
// fetches the new table. Watch returns nil when ctx is cancelled.
func (a *App) Watch(ctx context.Context, amount float64, names []string, render func(ConverterView)) error {
	stored, err := a.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	token, ok := stored.Get()
	if !ok {
		return ErrNotLoggedIn
	}

	feedURL, err := a.source.RatesFeedURL()
	if err != nil {
		return fmt.Errorf("rates feed url: %w", err)
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, feedURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("rates feed: %w", ErrNotLoggedIn)
		}
		return fmt.Errorf("rates feed: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	a.logger.WithField("url", feedURL).Info("watching rate changes")
	render(a.Converter(ctx, amount, names))

	for {
		var ev realtime.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("rates feed: %w", err)
		}
		if ev.Type != realtime.EventRatesUpdated {
			continue
		}

		a.logger.WithFields(logrus.Fields{"code": ev.Code, "rate": ev.Rate}).Info("rate changed")
		if err := a.rates.Invalidate(ctx); err != nil {
			a.logger.WithField("error", err).Warn("failed to clear rate cache")
		}
		render(a.Converter(ctx, amount, names))
	}
}
