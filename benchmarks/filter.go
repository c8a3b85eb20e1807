package benchmarks

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	MinScore = 0
	MaxScore = 10
)

// Filter is the performance matrix selection. It lives in the page URL so
// a filtered view can be shared and restored with back/forward navigation.
type Filter struct {
	Models   []string
	Roles    []string
	MinScore float64
	MaxScore float64
}

func DefaultFilter() Filter {
	return Filter{MinScore: MinScore, MaxScore: MaxScore}
}

// ParseFilter reads a filter from a page query. Lists use one key per value,
// so names may contain commas; missing or malformed scores fall back to the
// full range.
func ParseFilter(q url.Values) Filter {
	return Filter{
		Models:   cleanList(q["model"]),
		Roles:    cleanList(q["role"]),
		MinScore: parseScore(q.Get("minScore"), MinScore),
		MaxScore: parseScore(q.Get("maxScore"), MaxScore),
	}
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseScore(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return fallback
	}
	return min(max(v, MinScore), MaxScore)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsDefault reports whether f selects everything.
func (f Filter) IsDefault() bool {
	return len(f.Models) == 0 && len(f.Roles) == 0 &&
		f.MinScore <= MinScore && f.MaxScore >= MaxScore
}

// APIQuery is the upstream form. It matches the page form.
func (f Filter) APIQuery() url.Values {
	return f.Query()
}

// Query is the page URL form: one key per selected value, scores only when
// they narrow the range. A default filter has an empty query, which is also
// what resetting produces.
func (f Filter) Query() url.Values {
	q := url.Values{}
	for _, m := range f.Models {
		q.Add("model", m)
	}
	for _, r := range f.Roles {
		q.Add("role", r)
	}
	if f.MinScore > MinScore {
		q.Set("minScore", formatScore(f.MinScore))
	}
	if f.MaxScore < MaxScore {
		q.Set("maxScore", formatScore(f.MaxScore))
	}
	return q
}

// ModelLink is the page query selecting a single model and nothing else.
func ModelLink(model string) string {
	return Filter{Models: []string{model}, MaxScore: MaxScore}.Query().Encode()
}

func (f Filter) HasModel(m string) bool {
	return slices.Contains(f.Models, m)
}

func (f Filter) HasRole(r string) bool {
	return slices.Contains(f.Roles, r)
}
