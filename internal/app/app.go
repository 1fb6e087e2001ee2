// Package app is the client: it wires the caches, the token store and the
// remote source together and produces the views the CLI renders.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"country-converter/internal/auth"
	"country-converter/internal/cache"
	"country-converter/internal/config"
	"country-converter/internal/conversion"
	"country-converter/internal/models"
	"country-converter/internal/source"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrNotLoggedIn is returned when no usable access token is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// App is the client application.
type App struct {
	reference string
	tokens    *auth.TokenStore
	source    *source.Client
	countries *cache.Orchestrator[[]models.Country]
	rates     *cache.Orchestrator[[]models.ExchangeRate]
	logger    logrus.FieldLogger
}

// New builds an App on top of kv. The caller owns kv.
func New(cfg *config.Config, kv cache.Storage, logger logrus.FieldLogger) *App {
	a := &App{
		reference: cfg.Server.ReferenceCurrency,
		tokens:    auth.NewTokenStore(kv, logger),
		logger:    logger,
	}
	a.source = source.NewClient(cfg.Client.APIURL, cfg.Client.HTTPTimeout, a.bearerToken, logger)

	a.countries = cache.NewOrchestrator[[]models.Country](
		cache.KeyCountries,
		cache.NewStore[[]models.Country](kv, logger),
		cache.TTLPolicy(cfg.Cache.CountryTTL),
		a.source.FetchCountries,
		logger,
	)
	a.rates = cache.NewOrchestrator[[]models.ExchangeRate](
		cache.KeyExchangeRates,
		cache.NewStore[[]models.ExchangeRate](kv, logger),
		cache.TTLPolicy(cfg.Cache.RatesTTL),
		a.source.FetchExchangeRates,
		logger,
	)
	return a
}

func (a *App) bearerToken(ctx context.Context) (string, error) {
	token, err := a.tokens.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	return token.OrEmpty(), nil
}

// OnStateChange registers fn for state changes of both caches. key is the
// cache key whose state changed.
func (a *App) OnStateChange(fn func(key string, state cache.State)) {
	a.countries.Subscribe(func(s cache.Snapshot[[]models.Country]) { fn(a.countries.Key(), s.State) })
	a.rates.Subscribe(func(s cache.Snapshot[[]models.ExchangeRate]) { fn(a.rates.Key(), s.State) })
}

// CountriesView is what the countries screen shows.
type CountriesView struct {
	State       cache.State
	Err         error
	Countries   []models.Country
	LastUpdated time.Time
	FromCache   bool
}

// Countries returns the cached country list, fetching it when absent or stale.
// A non-empty filter keeps countries whose name contains it, ignoring case.
func (a *App) Countries(ctx context.Context, filter string) CountriesView {
	snap := a.countries.Evaluate(ctx)
	view := CountriesView{
		State:       snap.State,
		Err:         snap.Err,
		LastUpdated: snap.LastUpdated,
		FromCache:   snap.FromCache,
	}
	if snap.State != cache.StateReady {
		return view
	}

	needle := strings.ToLower(strings.TrimSpace(filter))
	view.Countries = make([]models.Country, 0, len(snap.Payload))
	for _, c := range snap.Payload {
		if needle == "" || strings.Contains(strings.ToLower(c.Name), needle) {
			view.Countries = append(view.Countries, c)
		}
	}
	return view
}

// ConverterView is what the converter screen shows.
type ConverterView struct {
	State     cache.State
	Err       error
	Reference string
	Amount    float64
	Rows      []conversion.CountryConversion
	// Unknown lists requested names that matched no country.
	Unknown []string
}

// Converter converts amount into the reference currency for the named
// countries, or for every country when names is empty. The two caches are
// evaluated independently and may be of different ages.
func (a *App) Converter(ctx context.Context, amount float64, names []string) ConverterView {
	var (
		countries cache.Snapshot[[]models.Country]
		rates     cache.Snapshot[[]models.ExchangeRate]
	)
	var g errgroup.Group
	g.Go(func() error {
		countries = a.countries.Evaluate(ctx)
		return nil
	})
	g.Go(func() error {
		rates = a.rates.Evaluate(ctx)
		return nil
	})
	_ = g.Wait()

	view := ConverterView{
		Reference: a.reference,
		Amount:    conversion.ValidateAmount(amount),
	}
	switch {
	case countries.State == cache.StateLoading || rates.State == cache.StateLoading:
		view.State = cache.StateLoading
		return view
	case countries.State == cache.StateError || rates.State == cache.StateError:
		view.State = cache.StateError
		view.Err = errors.Join(countries.Err, rates.Err)
		return view
	}

	selected, unknown := selectCountries(countries.Payload, names)
	view.State = cache.StateReady
	view.Rows = conversion.ConvertCountries(view.Amount, selected, rates.Payload)
	view.Unknown = unknown
	return view
}

func selectCountries(all []models.Country, names []string) ([]models.Country, []string) {
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]models.Country, len(all))
	for _, c := range all {
		byName[strings.ToLower(c.Name)] = c
	}

	var selected []models.Country
	var unknown []string
	for _, name := range names {
		c, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		selected = append(selected, c)
	}
	return selected, unknown
}

// Login exchanges credentials for a token, stores it and returns its claims.
func (a *App) Login(ctx context.Context, username, password string) (*auth.Claims, error) {
	token, err := a.source.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	claims, err := auth.DecodeUser(token)
	if err != nil {
		return nil, err
	}
	if err := a.tokens.Store(ctx, token); err != nil {
		return nil, err
	}
	a.logger.WithField("username", claims.Username).Info("logged in")
	return claims, nil
}

// Logout forgets the stored token.
func (a *App) Logout(ctx context.Context) error {
	return a.tokens.Remove(ctx)
}

// WhoAmI returns the claims of the stored token. An expired token is purged
// first and reported as ErrNotLoggedIn.
func (a *App) WhoAmI(ctx context.Context) (*auth.Claims, error) {
	stored, err := a.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	token, ok := stored.Get()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	claims, err := auth.DecodeUser(token)
	if err != nil {
		return nil, fmt.Errorf("stored token is unreadable: %w", err)
	}
	return claims, nil
}
