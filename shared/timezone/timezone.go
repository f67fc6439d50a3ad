package timezone

import (
	"estatehub/config"
	"estatehub/shared/constant"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location
)

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		cfg.App.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Asia/Jakarta', 'UTC', 'America/New_York'")
		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().
		Str("timezone", cfg.App.Timezone).
		Str("location", loc.String()).
		Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone
func Now() time.Time {
	if appLocation == nil {
		log.Warn().Msg("Timezone not initialized, using UTC")

		return time.Now().UTC()
	}

	return time.Now().In(appLocation)
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	if appLocation == nil {
		log.Warn().Msg("Timezone not initialized, using UTC")

		return t.UTC()
	}

	return t.In(appLocation)
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if appLocation == nil {
		log.Warn().Msg("Timezone not initialized, returning UTC")

		return time.UTC
	}

	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	if appLocation == nil {
		log.Warn().Msg("Timezone not initialized, parsing in UTC")

		return time.Parse(layout, value)
	}

	return time.ParseInLocation(layout, value, appLocation)
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// ParseDate parses a yyyy-MM-dd calendar date at midnight in the application timezone.
func ParseDate(value string) (time.Time, error) {
	return Parse(constant.CalendarFormat, value)
}

// Date truncates t to the calendar day it falls on in the application timezone.
func Date(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// FormatDate renders the calendar day of t as yyyy-MM-dd.
//
// Dates read back from DATE columns carry UTC midnight, so they are
// formatted as-is rather than shifted into the application timezone.
func FormatDate(t time.Time) string {
	return t.Format(constant.CalendarFormat)
}

// ParseClock converts an HH:mm wall-clock time into minutes after midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(constant.ClockFormat, value)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	return t.Hour()*constant.MinutesPerHour + t.Minute(), nil
}

// FormatClock renders minutes after midnight as HH:mm. 1440 renders as 24:00.
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/constant.MinutesPerHour, minute%constant.MinutesPerHour)
}
