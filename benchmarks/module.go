package benchmarks

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio/views"
)

const sectionUnavailable = "This data is unavailable right now. Please check back soon."

type BenchmarksModule struct {
	upstream *Upstream
	client   *Client
	baseURL  string
	log      *zap.Logger
}

func NewBenchmarksModule(upstream *Upstream, client *Client, baseURL string, log *zap.Logger) *BenchmarksModule {
	return &BenchmarksModule{
		upstream: upstream,
		client:   client,
		baseURL:  baseURL,
		log:      log,
	}
}

func (m *BenchmarksModule) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/benchmarks", m.proxy(func(*gin.Context) string { return "/api/benchmarks" }))
		api.GET("/benchmarks/:id", m.proxy(func(c *gin.Context) string {
			return "/api/benchmarks/" + url.PathEscape(c.Param("id"))
		}))
		api.GET("/dashboard-summary", m.proxy(func(*gin.Context) string { return "/api/dashboard-summary" }))
		api.GET("/roles", m.proxy(func(*gin.Context) string { return "/api/roles" }))
		api.GET("/roles/:name", m.proxy(func(c *gin.Context) string {
			return "/api/roles/" + url.PathEscape(c.Param("name"))
		}))
	}

	router.GET("/vibe-coding/ai-labs", m.labs)
	router.GET("/vibe-coding/ai-labs/benchmarks/:id", m.detail)
}

// proxy relays one GET to the API. The query string is forwarded as
// received, so repeated keys stay repeated.
func (m *BenchmarksModule) proxy(path func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := m.upstream.Get(c.Request.Context(), path(c), c.Request.URL.RawQuery)

		var apiErr *APIError
		switch {
		case errors.As(err, &apiErr):
			m.log.Warn("benchmark api error", zap.Int("status", apiErr.StatusCode), zap.String("path", c.Request.URL.Path))
			c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Error()})
		case err != nil:
			m.log.Error("benchmark api unreachable", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		}
	}
}

// RoleOption is one entry of the role explorer.
type RoleOption struct {
	Name      string
	Label     string
	TestCount int
	Active    bool
}

// LabsPage is everything the AI labs page renders. Each section carries
// its own error so one failing resource does not blank the page.
type LabsPage struct {
	Filter      Filter
	FilterQuery string

	Dashboard    *DashboardSummary
	DashboardErr string

	Overview    *BenchmarksResponse
	OverviewErr string
	Winners     []Winner
	TimeBars    []Bar
	QualityBars []Bar

	Matrix       Matrix
	MatrixErr    string
	ModelOptions []string
	RoleOptions  []string

	Roles      []RoleOption
	RolesErr   string
	Explore    *RoleDetail
	ExploreErr string

	FAQ []FAQItem
}

func (m *BenchmarksModule) sectionError(section string, err error) string {
	if err == nil {
		return ""
	}
	m.log.Warn("benchmark section unavailable", zap.String("section", section), zap.Error(err))
	return sectionUnavailable
}

// LoadLabsPage fetches the page resources in parallel; they have no
// ordering between them.
func (m *BenchmarksModule) LoadLabsPage(c *gin.Context) *LabsPage {
	ctx := c.Request.Context()
	filter := ParseFilter(c.Request.URL.Query())
	explore := c.Query("explore")

	page := &LabsPage{
		Filter:      filter,
		FilterQuery: filter.Query().Encode(),
		FAQ:         faq,
	}

	var (
		overviewErr error
		filtered    *BenchmarksResponse
		filteredErr error
		roles       *RolesResponse
	)

	var g errgroup.Group
	g.Go(func() error {
		d, err := m.client.DashboardSummary(ctx)
		page.Dashboard, page.DashboardErr = d, m.sectionError("dashboard", err)
		return nil
	})
	g.Go(func() error {
		page.Overview, overviewErr = m.client.Benchmarks(ctx, DefaultFilter())
		return nil
	})
	if !filter.IsDefault() {
		g.Go(func() error {
			filtered, filteredErr = m.client.Benchmarks(ctx, filter)
			m.sectionError("matrix", filteredErr)
			return nil
		})
	}
	g.Go(func() error {
		r, err := m.client.Roles(ctx)
		roles, page.RolesErr = r, m.sectionError("roles", err)
		return nil
	})
	if explore != "" {
		g.Go(func() error {
			d, err := m.client.RoleDetail(ctx, explore)
			page.Explore, page.ExploreErr = d, m.sectionError("role detail", err)
			return nil
		})
	}
	_ = g.Wait()

	page.OverviewErr = m.sectionError("overview", overviewErr)
	if filter.IsDefault() {
		filtered, filteredErr = page.Overview, overviewErr
	}
	if filteredErr != nil {
		page.MatrixErr = sectionUnavailable
	} else if filtered != nil {
		page.Matrix = BuildMatrix(filtered.Matrix)
	}

	page.Winners = QuickWinners(page.Overview)
	if page.Overview != nil {
		page.TimeBars = ResponseTimeBars(page.Overview.ChartData)
		page.QualityBars = QualityBars(page.Overview.ChartData)
		all := BuildMatrix(page.Overview.Matrix)
		page.RoleOptions = all.Columns
		for _, row := range all.Rows {
			page.ModelOptions = append(page.ModelOptions, row.Model)
		}
	}

	if roles != nil {
		for _, r := range roles.Roles {
			page.Roles = append(page.Roles, RoleOption{
				Name:      r.Name,
				Label:     RoleLabel(r.Name),
				TestCount: r.TestCount,
				Active:    r.Name == explore,
			})
		}
	}
	return page
}

func (m *BenchmarksModule) labs(c *gin.Context) {
	c.HTML(http.StatusOK, "benchmarks.html", gin.H{
		"page": m.LoadLabsPage(c),
		"meta": views.Meta{
			Title:       "AI Labs: Local LLM Benchmarks",
			Description: "Role-based benchmarks of local language models on consumer hardware.",
			Canonical:   m.baseURL + "/vibe-coding/ai-labs",
		},
	})
}

// BreakdownItem is one scoring criterion of a benchmark run.
type BreakdownItem struct {
	Name  string
	Label string
	Score float64
}

func breakdown(d *BenchmarkDetail) []BreakdownItem {
	names := make([]string, 0, len(d.Breakdown))
	for name := range d.Breakdown {
		names = append(names, name)
	}
	slices.Sort(names)

	items := make([]BreakdownItem, 0, len(names))
	for _, name := range names {
		items = append(items, BreakdownItem{Name: name, Label: RoleLabel(name), Score: d.Breakdown[name]})
	}
	return items
}

func (m *BenchmarksModule) detail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		m.notFound(c)
		return
	}

	d, err := m.client.BenchmarkDetail(c.Request.Context(), id)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		m.notFound(c)
		return
	}
	if err != nil {
		m.log.Error("benchmark detail unavailable", zap.Int("id", id), zap.Error(err))
		c.HTML(http.StatusBadGateway, "error.html", gin.H{
			"status":  http.StatusBadGateway,
			"message": "The benchmark service is unavailable right now. Please try again later.",
		})
		return
	}

	back := "/vibe-coding/ai-labs"
	if q := ParseFilter(c.Request.URL.Query()).Query().Encode(); q != "" {
		back += "?" + q
	}

	c.HTML(http.StatusOK, "benchmark_detail.html", gin.H{
		"detail":    d,
		"roleLabel": RoleLabel(d.Role),
		"tone":      ScoreTone(d.Score),
		"breakdown": breakdown(d),
		"back":      back + "#performance-matrix",
		"meta": views.Meta{
			Title:     d.Model + " on " + RoleLabel(d.Role),
			Canonical: m.baseURL + DetailPath(d.ID),
		},
	})
}

func (m *BenchmarksModule) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"status":  http.StatusNotFound,
		"message": "This benchmark does not exist.",
	})
}

// CellLink opens the cell's benchmark detail, keeping the current filter
// for the way back.
func (p *LabsPage) CellLink(c *Cell) string {
	path := c.DetailPath()
	if path == "" || p.FilterQuery == "" {
		return path
	}
	return path + "?" + p.FilterQuery
}
