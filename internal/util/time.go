package util

import (
	"time"

	log "github.com/sirupsen/logrus"
)

var marketLocation = loadMarketLocation()

func loadMarketLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Errorf("Failed to load location 'America/New_York': %v. Falling back to UTC.", err)
		return time.UTC
	}
	return loc
}

// NextMarketDate predicts when the next daily close will be published.
// It returns the next weekday at 4:30 PM New York time, in UTC. Exchange
// holidays are not modelled.
func NextMarketDate(input time.Time) time.Time {
	nowET := input.In(marketLocation)

	next := time.Date(nowET.Year(), nowET.Month(), nowET.Day(), 16, 30, 0, 0, marketLocation)
	if nowET.After(next) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}

	return next.UTC()
}

// IsStale reports whether data fetched at fetchedOn has been superseded by a
// newer daily close as of now.
func IsStale(fetchedOn, now time.Time) bool {
	return now.After(NextMarketDate(fetchedOn))
}

// LookbackStart returns the calendar date years before now, at midnight UTC.
func LookbackStart(now time.Time, years int) time.Time {
	y, m, d := now.UTC().AddDate(-years, 0, 0).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
