package benchmarks

// Response shapes of the benchmark lab API.

type DashboardSummary struct {
	Tests7d     int     `json:"tests_7d"`
	AvgScore    float64 `json:"avg_score"`
	SuccessRate float64 `json:"success_rate"`
	LastRun     string  `json:"last_run"`
	BestModel   string  `json:"best_model"`
	BestScore   float64 `json:"best_score"`
}

type SpeedChampion struct {
	Model string  `json:"model"`
	Time  float64 `json:"time"`
}

type QualityChampion struct {
	Model string  `json:"model"`
	Score float64 `json:"score"`
}

type Summary struct {
	TotalTests      int              `json:"totalTests"`
	Models          int              `json:"models"`
	Roles           int              `json:"roles"`
	SpeedChampion   *SpeedChampion   `json:"speedChampion"`
	QualityChampion *QualityChampion `json:"qualityChampion"`
	LastUpdated     string           `json:"lastUpdated"`
}

// MatrixItem aggregates the runs of one model on one role. ID names the
// benchmark record behind the cell; zero when the API did not send one.
type MatrixItem struct {
	ID        int     `json:"id,omitempty"`
	Task      string  `json:"task"`
	Model     string  `json:"model"`
	Score     float64 `json:"score"`
	Time      float64 `json:"time"`
	TestCount int     `json:"test_count"`
}

type ModelTime struct {
	Model string  `json:"model"`
	Time  float64 `json:"time"`
}

type ModelScore struct {
	Model string  `json:"model"`
	Score float64 `json:"score"`
}

type ChartData struct {
	ResponseTimes       []ModelTime  `json:"responseTimes"`
	QualityDistribution []ModelScore `json:"qualityDistribution"`
}

type BenchmarksResponse struct {
	Summary   Summary      `json:"summary"`
	Matrix    []MatrixItem `json:"matrix"`
	ChartData ChartData    `json:"chartData"`
}

type BenchmarkDetail struct {
	ID        int                `json:"id"`
	Model     string             `json:"model"`
	Role      string             `json:"role"`
	Score     float64            `json:"score"`
	Time      float64            `json:"time"`
	Prompt    string             `json:"prompt"`
	Response  string             `json:"response"`
	Breakdown map[string]float64 `json:"breakdown"`
}

type RoleTest struct {
	ID       string `json:"id,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Criteria any    `json:"criteria,omitempty"`
}

type RoleDetail struct {
	Name      string     `json:"name"`
	TestCount int        `json:"test_count"`
	Tests     []RoleTest `json:"tests"`
}

type RolesResponse struct {
	Roles      []RoleDetail `json:"roles"`
	TotalRoles int          `json:"total_roles"`
	TotalTests int          `json:"total_tests"`
}
