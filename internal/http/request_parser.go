// This file implements the parsing of query filters and request bodies
// shared by the transaction, report and export handlers.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"moneymate/internal/core"
	"moneymate/internal/query"
	"moneymate/internal/services"
)

// maxBodyBytes bounds JSON and CSV request bodies.
const maxBodyBytes = 10 << 20

// FilterError reports an unusable filter parameter.
type FilterError struct {
	Param string
	Err   error
}

func (e *FilterError) Error() string { return fmt.Sprintf("invalid %s: %v", e.Param, e.Err) }
func (e *FilterError) Unwrap() error { return e.Err }

// filterValue treats "" and "all" as no filter.
func filterValue(form url.Values, key string) string {
	v := strings.TrimSpace(sanitizeInput(form.Get(key)))
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// ParseFilter reads type, category, startDate, endDate, range and q. A
// range preset resolved against today replaces explicit dates.
func ParseFilter(form url.Values, today core.Date) (services.Filter, error) {
	var f services.Filter

	if v := filterValue(form, "type"); v != "" {
		t, err := core.ParseType(v)
		if err != nil {
			return f, &FilterError{Param: "type", Err: err}
		}
		f.Criteria.Type = t
	}
	if v := filterValue(form, "category"); v != "" {
		c, ok := core.CategoryBySlug(v)
		if !ok {
			return f, &FilterError{Param: "category", Err: core.ErrInvalidCategory}
		}
		f.Criteria.Category = c.Slug()
	}
	for _, p := range []struct {
		key string
		dst *core.Date
	}{
		{"startDate", &f.Criteria.StartDate},
		{"endDate", &f.Criteria.EndDate},
	} {
		v := strings.TrimSpace(form.Get(p.key))
		if v == "" {
			continue
		}
		d, err := core.ParseDate(v)
		if err != nil {
			return f, &FilterError{Param: p.key, Err: err}
		}
		*p.dst = d
	}
	if v := strings.TrimSpace(form.Get("range")); v != "" {
		c, err := f.Criteria.WithRange(query.Range(v), today)
		if err != nil {
			return f, &FilterError{Param: "range", Err: err}
		}
		f.Criteria = c
	}
	f.Query = sanitizeInput(form.Get("q"))
	return f, nil
}

// errEmptyBody is returned by decodeJSON for a missing body.
var errEmptyBody = errors.New("request body is empty")

// decodeJSON decodes a single JSON value from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// isCSV reports whether the request declares a CSV body.
func isCSV(r *http.Request) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	return strings.HasPrefix(ct, "text/csv") || strings.HasPrefix(ct, "application/csv")
}

// sanitizeInput removes control characters other than tab and newline
// and trims whitespace. CRLF becomes LF.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 {
			return -1
		}
		return r
	}, s)
}
