package entity

import (
	"strconv"
	"time"
)

// Endpoint names an analytics dimension served by the analytics provider.
type Endpoint string

const (
	EndpointTimeseries Endpoint = "timeseries"
	EndpointCountry    Endpoint = "country"
	EndpointCity       Endpoint = "city"
	EndpointDevice     Endpoint = "device"
	EndpointBrowser    Endpoint = "browser"
	EndpointOS         Endpoint = "os"
	EndpointReferer    Endpoint = "referer"
	EndpointTopURLs    Endpoint = "top_urls"
	EndpointTopLinks   Endpoint = "top_links"
)

// ExportableEndpoints lists the dimensions bundled into an export archive, in archive order.
var ExportableEndpoints = []Endpoint{
	EndpointTimeseries,
	EndpointCountry,
	EndpointTopURLs,
	EndpointDevice,
	EndpointReferer,
	EndpointCity,
	EndpointBrowser,
	EndpointOS,
	EndpointTopLinks,
}

type Interval string

const (
	Interval24h Interval = "24h"
	Interval7d  Interval = "7d"
	Interval30d Interval = "30d"
	Interval90d Interval = "90d"
	IntervalYTD Interval = "ytd"
	Interval1y  Interval = "1y"
	IntervalAll Interval = "all"

	DefaultInterval = Interval24h
)

var Intervals = []Interval{Interval24h, Interval7d, Interval30d, Interval90d, IntervalYTD, Interval1y, IntervalAll}

func (i Interval) Valid() bool {
	for _, known := range Intervals {
		if i == known {
			return true
		}
	}
	return false
}

type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// AllTimeStart is the earliest instant covered by the "all" interval.
var AllTimeStart = time.Date(2022, time.September, 22, 0, 0, 0, 0, time.UTC)

// AnalyticsQuery is the validated set of analytics query parameters.
type AnalyticsQuery struct {
	Domain   string
	Key      string
	LinkID   string
	Interval Interval
	Start    *time.Time
	End      *time.Time
	Timezone string

	Country  string
	City     string
	Device   string
	Browser  string
	OS       string
	Referer  string
	URL      string
	TagID    string
	DomainID string
	QR       *bool
	Root     *bool
}

// Range resolves the query's time window and bucket size relative to now.
// An explicit start wins over the interval.
func (q AnalyticsQuery) Range(now time.Time) (time.Time, time.Time, Granularity) {
	now = now.UTC()

	if q.Start != nil {
		start := q.Start.UTC()
		end := now
		if q.End != nil {
			end = q.End.UTC()
		}
		return start, end, granularityFor(end.Sub(start))
	}

	switch q.Interval {
	case Interval7d:
		return now.AddDate(0, 0, -7), now, GranularityDay
	case Interval30d:
		return now.AddDate(0, 0, -30), now, GranularityDay
	case Interval90d:
		return now.AddDate(0, 0, -90), now, GranularityDay
	case IntervalYTD:
		loc := q.location()
		return time.Date(now.In(loc).Year(), time.January, 1, 0, 0, 0, 0, loc).UTC(), now, GranularityMonth
	case Interval1y:
		return now.AddDate(-1, 0, 0), now, GranularityMonth
	case IntervalAll:
		return AllTimeStart, now, GranularityMonth
	default:
		return now.Add(-24 * time.Hour), now, GranularityHour
	}
}

// location is the query's timezone, UTC when unset or unknown.
func (q AnalyticsQuery) location() *time.Location {
	if q.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func granularityFor(span time.Duration) Granularity {
	switch {
	case span <= 48*time.Hour:
		return GranularityHour
	case span <= 90*24*time.Hour:
		return GranularityDay
	default:
		return GranularityMonth
	}
}

// Filters returns the non-empty dimension filters keyed by provider parameter name.
func (q AnalyticsQuery) Filters() map[string]string {
	filters := make(map[string]string)
	add := func(key, value string) {
		if value != "" {
			filters[key] = value
		}
	}
	add("country", q.Country)
	add("city", q.City)
	add("device", q.Device)
	add("browser", q.Browser)
	add("os", q.OS)
	add("referer", q.Referer)
	add("url", q.URL)
	add("tagId", q.TagID)
	add("domainId", q.DomainID)
	if q.QR != nil {
		filters["qr"] = strconv.FormatBool(*q.QR)
	}
	if q.Root != nil {
		filters["root"] = strconv.FormatBool(*q.Root)
	}
	return filters
}

// AnalyticsRequest is one call to the analytics provider.
type AnalyticsRequest struct {
	WorkspaceID string
	LinkID      string
	Endpoint    Endpoint
	Query       AnalyticsQuery
}
