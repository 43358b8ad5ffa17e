package timezone

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"hotel/config"
)

var appLocation atomic.Pointer[time.Location]

func init() {
	name := config.Get().App.Timezone
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		name = "UTC"
	}

	if err := Load(name); err != nil {
		log.Error().Err(err).Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Use IANA names such as 'Asia/Jakarta'")
		appLocation.Store(time.UTC)

		return
	}

	log.Info().Str("timezone", name).Msg("Application timezone initialized")
}

// Load switches the application zone to the named IANA location.
func Load(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	appLocation.Store(loc)

	return nil
}

func GetLocation() *time.Location {
	if loc := appLocation.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value as a wall-clock time in the application zone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation()) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// Date truncates t to midnight of its calendar day in the application zone.
func Date(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// StartOfMonth returns midnight on the first day of t's month, shifted by
// monthsBack whole months into the past.
func StartOfMonth(t time.Time, monthsBack int) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month()-time.Month(monthsBack), 1, 0, 0, 0, 0, local.Location())
}
