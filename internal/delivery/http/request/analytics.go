package request

import (
	"net/url"
	"strings"
	"time"

	"github.com/user/linkstats/internal/apierror"
	"github.com/user/linkstats/internal/entity"
)

const dateLayout = "2006-01-02"

// ParseAnalyticsQuery validates analytics query parameters. An empty interval
// defaults to 24h.
func ParseAnalyticsQuery(values url.Values) (entity.AnalyticsQuery, error) {
	q := entity.AnalyticsQuery{
		Domain:   strings.TrimSpace(values.Get("domain")),
		Key:      strings.TrimSpace(values.Get("key")),
		LinkID:   values.Get("linkId"),
		Interval: entity.Interval(values.Get("interval")),
		Timezone: values.Get("timezone"),
		City:     values.Get("city"),
		Device:   values.Get("device"),
		Browser:  values.Get("browser"),
		OS:       values.Get("os"),
		Referer:  values.Get("referer"),
		URL:      values.Get("url"),
		TagID:    values.Get("tagId"),
		DomainID: values.Get("domainId"),
	}

	if q.Interval == "" {
		q.Interval = entity.DefaultInterval
	}
	if !q.Interval.Valid() {
		return q, apierror.Newf(apierror.CodeBadRequest,
			"Invalid interval %q. Expected one of: 24h, 7d, 30d, 90d, ytd, 1y, all.", q.Interval)
	}

	if q.Key != "" && q.Domain == "" {
		return q, apierror.New(apierror.CodeBadRequest, "domain is required when key is provided.")
	}

	if country := values.Get("country"); country != "" {
		if !isCountryCode(country) {
			return q, apierror.Newf(apierror.CodeBadRequest, "Invalid country code %q.", country)
		}
		q.Country = strings.ToUpper(country)
	}

	if q.Timezone != "" {
		if _, err := time.LoadLocation(q.Timezone); err != nil {
			return q, apierror.Newf(apierror.CodeBadRequest, "Invalid timezone %q.", q.Timezone)
		}
	}

	var err error
	if q.Start, err = parseTime(values, "start"); err != nil {
		return q, err
	}
	if q.End, err = parseTime(values, "end"); err != nil {
		return q, err
	}
	if q.End != nil && q.Start == nil {
		return q, apierror.New(apierror.CodeBadRequest, "start is required when end is provided.")
	}
	if q.Start != nil {
		end := time.Now()
		if q.End != nil {
			end = *q.End
		}
		if q.Start.After(end) {
			return q, apierror.New(apierror.CodeBadRequest, "start must be before end.")
		}
	}

	if q.QR, err = parseBool(values, "qr"); err != nil {
		return q, err
	}
	if q.Root, err = parseBool(values, "root"); err != nil {
		return q, err
	}
	return q, nil
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, c := range []byte(s) {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(values url.Values, name string) (*time.Time, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, apierror.Newf(apierror.CodeBadRequest, "Invalid %s %q. Expected an ISO 8601 date.", name, raw)
}

func parseBool(values url.Values, name string) (*bool, error) {
	switch values.Get(name) {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, apierror.Newf(apierror.CodeBadRequest, "Invalid %s %q. Expected true or false.", name, values.Get(name))
	}
}
