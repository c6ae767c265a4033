// Package archive encodes analytics rows as CSV files and bundles them into zip archives.
package archive

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/user/linkstats/internal/entity"
)

// isoLayout matches JavaScript's Date.toISOString: UTC, millisecond precision.
const isoLayout = "2006-01-02T15:04:05.000Z"

// EncodeCSV renders rows as CSV. The header is the union of all row keys in
// first-seen order; a row missing a column gets an empty cell.
func EncodeCSV(rows []entity.Row) ([]byte, error) {
	header := headerOf(rows)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, key := range header {
			value, ok := row.Get(key)
			if !ok {
				record[i] = ""
				continue
			}
			cell, err := formatValue(value)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", key, err)
			}
			record[i] = cell
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func headerOf(rows []entity.Row) []string {
	seen := make(map[string]struct{})
	var header []string
	for _, row := range rows {
		for _, f := range row {
			if _, ok := seen[f.Key]; ok {
				continue
			}
			seen[f.Key] = struct{}{}
			header = append(header, f.Key)
		}
	}
	return header
}

func formatValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case time.Time:
		return v.UTC().Format(isoLayout), nil
	case *time.Time:
		if v == nil {
			return "", nil
		}
		return v.UTC().Format(isoLayout), nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}
