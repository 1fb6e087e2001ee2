package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"country-converter/internal/app"
	"country-converter/internal/cache"
	"country-converter/internal/conversion"
	"country-converter/internal/models"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	loadingColor = color.New(color.FgYellow)
	mutedColor   = color.New(color.Faint)
)

// renderState prints the loading or error line for a non-ready state. The
// returned error is non-nil for the error state.
func renderState(w io.Writer, state cache.State, err error) error {
	switch state {
	case cache.StateLoading:
		loadingColor.Fprintln(w, "Loading...")
		return nil
	case cache.StateError:
		errorColor.Fprintf(w, "Error: %v\n", err)
		return &reportedError{err: err}
	}
	return nil
}

func renderCountries(w io.Writer, view app.CountriesView) error {
	if view.State != cache.StateReady {
		return renderState(w, view.State, view.Err)
	}
	if len(view.Countries) == 0 {
		mutedColor.Fprintln(w, "No countries match.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPOPULATION\tCURRENCIES")
	for _, c := range view.Countries {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.Population, currencyCodes(c.Currencies))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	mutedColor.Fprintf(w, "%d countries, updated %s%s\n",
		len(view.Countries), view.LastUpdated.Format("2006-01-02 15:04:05"), cachedSuffix(view.FromCache))
	return nil
}

func renderConverter(w io.Writer, view app.ConverterView) error {
	if view.State != cache.StateReady {
		return renderState(w, view.State, view.Err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "COUNTRY\tCURRENCY\t%s IN %s\n", formatAmount(view.Amount), view.Reference)
	for _, row := range view.Rows {
		if len(row.Converted) == 0 {
			fmt.Fprintf(tw, "%s\t-\t%s\n", row.Country.Name, mutedColor.Sprint("no currency"))
			continue
		}
		for i, c := range row.Converted {
			name := row.Country.Name
			if i > 0 {
				name = ""
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", name, currencyLabel(c.Currency), convertedAmount(c))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, name := range view.Unknown {
		mutedColor.Fprintf(w, "Unknown country: %s\n", name)
	}
	return nil
}

func convertedAmount(c conversion.ConvertedAmount) string {
	amount, ok := c.Amount.Get()
	if !ok {
		return mutedColor.Sprint("rate unavailable")
	}
	return formatAmount(amount)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func currencyLabel(c models.Currency) string {
	if c.Symbol == "" {
		return c.Code
	}
	return fmt.Sprintf("%s (%s)", c.Code, c.Symbol)
}

func currencyCodes(currencies []models.Currency) string {
	if len(currencies) == 0 {
		return "-"
	}
	codes := make([]string, 0, len(currencies))
	for _, c := range currencies {
		codes = append(codes, c.Code)
	}
	return strings.Join(codes, ", ")
}

func cachedSuffix(fromCache bool) string {
	if fromCache {
		return " (cached)"
	}
	return ""
}
