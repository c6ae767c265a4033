package request

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/linkstats/internal/apierror"
	"github.com/user/linkstats/internal/entity"
)

func TestParseAnalyticsQuery(t *testing.T) {
	q, err := ParseAnalyticsQuery(url.Values{
		"domain":   {"acme.sh"},
		"key":      {"docs"},
		"interval": {"30d"},
		"country":  {"us"},
		"device":   {"Desktop"},
		"qr":       {"true"},
		"root":     {"false"},
		"timezone": {"UTC"},
	})
	require.NoError(t, err)

	assert.Equal(t, "acme.sh", q.Domain)
	assert.Equal(t, "docs", q.Key)
	assert.Equal(t, entity.Interval30d, q.Interval)
	assert.Equal(t, "US", q.Country)
	assert.Equal(t, "Desktop", q.Device)
	require.NotNil(t, q.QR)
	assert.True(t, *q.QR)
	require.NotNil(t, q.Root)
	assert.False(t, *q.Root)
	assert.Nil(t, q.Start)
}

func TestParseAnalyticsQuery_DefaultInterval(t *testing.T) {
	q, err := ParseAnalyticsQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, entity.Interval24h, q.Interval)
}

func TestParseAnalyticsQuery_StartEnd(t *testing.T) {
	q, err := ParseAnalyticsQuery(url.Values{
		"start": {"2024-01-01"},
		"end":   {"2024-01-31T12:00:00Z"},
	})
	require.NoError(t, err)

	require.NotNil(t, q.Start)
	require.NotNil(t, q.End)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *q.Start)
	assert.Equal(t, time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC), *q.End)
}

func TestParseAnalyticsQuery_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"unknown interval", url.Values{"interval": {"2w"}}},
		{"key without domain", url.Values{"key": {"docs"}}},
		{"long country", url.Values{"country": {"USA"}}},
		{"numeric country", url.Values{"country": {"12"}}},
		{"symbol in country", url.Values{"country": {"u$"}}},
		{"multibyte country", url.Values{"country": {"é"}}},
		{"bad start", url.Values{"start": {"yesterday"}}},
		{"end without start", url.Values{"end": {"2024-01-01"}}},
		{"start after end", url.Values{"start": {"2024-02-01"}, "end": {"2024-01-01"}}},
		{"start in the future", url.Values{"start": {time.Now().AddDate(0, 0, 10).Format(time.RFC3339)}}},
		{"bad qr", url.Values{"qr": {"yes"}}},
		{"bad root", url.Values{"root": {"1"}}},
		{"bad timezone", url.Values{"timezone": {"Not/AZone"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnalyticsQuery(tt.values)
			require.Error(t, err)
			assert.True(t, apierror.HasCode(err, apierror.CodeBadRequest), err.Error())
		})
	}
}

func TestParseAnalyticsQuery_StartWithoutEnd(t *testing.T) {
	q, err := ParseAnalyticsQuery(url.Values{"start": {"2024-01-01"}})
	require.NoError(t, err)
	require.NotNil(t, q.Start)
	assert.Nil(t, q.End)
}
