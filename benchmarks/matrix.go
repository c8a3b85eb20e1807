package benchmarks

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Matrix lays out matrix items with models as rows and roles as columns,
// both sorted by name.
type Matrix struct {
	Columns []string
	Rows    []MatrixRow
}

type MatrixRow struct {
	Model string
	// Cells is aligned with Matrix.Columns; nil marks a pairing without data.
	Cells []*Cell
}

type Cell struct {
	MatrixItem
	Tone string
}

// Selectable reports whether the cell can open the benchmark detail view.
// Only cells carrying their own record id can.
func (c Cell) Selectable() bool {
	return c.ID > 0
}

func (c Cell) DetailPath() string {
	if !c.Selectable() {
		return ""
	}
	return DetailPath(c.ID)
}

func DetailPath(id int) string {
	return "/vibe-coding/ai-labs/benchmarks/" + strconv.Itoa(id)
}

func BuildMatrix(items []MatrixItem) Matrix {
	var models, roles []string
	byPair := make(map[[2]string]MatrixItem, len(items))
	for _, it := range items {
		if !slices.Contains(models, it.Model) {
			models = append(models, it.Model)
		}
		if !slices.Contains(roles, it.Task) {
			roles = append(roles, it.Task)
		}
		key := [2]string{it.Model, it.Task}
		if _, dup := byPair[key]; !dup {
			byPair[key] = it
		}
	}
	slices.Sort(models)
	slices.Sort(roles)

	m := Matrix{Columns: roles}
	for _, model := range models {
		row := MatrixRow{Model: model, Cells: make([]*Cell, len(roles))}
		for i, role := range roles {
			if it, ok := byPair[[2]string{model, role}]; ok {
				row.Cells[i] = &Cell{MatrixItem: it, Tone: ScoreTone(it.Score)}
			}
		}
		m.Rows = append(m.Rows, row)
	}
	return m
}

// ScoreTone buckets a 0–10 score for display.
func ScoreTone(score float64) string {
	switch {
	case score >= 9:
		return "excellent"
	case score >= 7:
		return "good"
	case score >= 5:
		return "fair"
	default:
		return "poor"
	}
}

// Winner is one of the quick-winner cards.
type Winner struct {
	Title       string
	Description string
	Model       string
	Metric      string
	Link        string
}

const noWinner = "N/A"

// QuickWinners picks the fastest model, the best scoring model and the best
// balance of both (score minus a tenth of the response time).
func QuickWinners(resp *BenchmarksResponse) []Winner {
	speed := Winner{Title: "Speed Champion", Description: "Fastest model", Model: noWinner}
	quality := Winner{Title: "Quality Leader", Description: "Highest quality model", Model: noWinner}
	overall := Winner{Title: "Best Overall", Description: "Best balanced performance", Model: noWinner}

	if resp != nil {
		if c := resp.Summary.SpeedChampion; c != nil {
			speed.Model = c.Model
			speed.Metric = formatScore(c.Time) + "s"
			speed.Description = formatScore(c.Time) + "s average response"
		}
		if c := resp.Summary.QualityChampion; c != nil {
			quality.Model = c.Model
			quality.Metric = formatScore(c.Score) + "/10"
			quality.Description = formatScore(c.Score) + "/10 average score"
		}
		if len(resp.Matrix) > 0 {
			best := slices.MaxFunc(resp.Matrix, func(a, b MatrixItem) int {
				return cmp.Compare(a.Score-a.Time/10, b.Score-b.Time/10)
			})
			overall.Model = best.Model
			overall.Metric = strconv.FormatFloat(best.Score, 'f', 1, 64) + "/10 · " +
				strconv.FormatFloat(best.Time, 'f', 1, 64) + "s"
			overall.Description = "Balanced speed + quality"
		}
	}

	winners := []Winner{speed, quality, overall}
	for i := range winners {
		if winners[i].Model != noWinner {
			winners[i].Link = "?" + ModelLink(winners[i].Model) + "#performance-matrix"
		}
	}
	return winners
}

// Bar is one bar of a horizontal bar chart, Percent relative to the
// largest value.
type Bar struct {
	Label   string
	Value   float64
	Percent float64
}

func ResponseTimeBars(data ChartData) []Bar {
	bars := make([]Bar, 0, len(data.ResponseTimes))
	for _, p := range data.ResponseTimes {
		bars = append(bars, Bar{Label: p.Model, Value: p.Time})
	}
	return scaleBars(bars)
}

func QualityBars(data ChartData) []Bar {
	bars := make([]Bar, 0, len(data.QualityDistribution))
	for _, p := range data.QualityDistribution {
		bars = append(bars, Bar{Label: p.Model, Value: p.Score})
	}
	return scaleBars(bars)
}

func scaleBars(bars []Bar) []Bar {
	var top float64
	for _, b := range bars {
		top = max(top, b.Value)
	}
	if top <= 0 {
		return bars
	}
	for i := range bars {
		bars[i].Percent = bars[i].Value / top * 100
	}
	return bars
}

// RoleLabel turns an API role name such as "content_writing" into
// "Content Writing".
func RoleLabel(name string) string {
	return cases.Title(language.English).String(strings.NewReplacer("_", " ", "-", " ").Replace(name))
}
