package dtos

type InsightsSummary struct {
	TotalApplications int            `json:"total_applications"`
	ByStatus          map[string]int `json:"by_status"`
	ResponseRate      float64        `json:"response_rate"`
	InterviewRate     float64        `json:"interview_rate"`
	OfferRate         float64        `json:"offer_rate"`
	ThisWeek          int            `json:"this_week"`
	Pending           int            `json:"pending"`
	Active            int            `json:"active"`
}

type TimeseriesPoint struct {
	Label        string `json:"label"`
	Applications int    `json:"applications"`
}

type TimeseriesResponse struct {
	Range    string            `json:"range"`
	Interval string            `json:"interval"`
	Data     []TimeseriesPoint `json:"data"`
}

type FunnelStage struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type FunnelResponse struct {
	Stages []FunnelStage `json:"stages"`
}

type InsightsTableRow struct {
	ApplicationID     string  `json:"application_id"`
	JobID             string  `json:"job_id"`
	JobTitle          string  `json:"job_title"`
	Company           string  `json:"company"`
	Status            string  `json:"status"`
	AppliedAt         string  `json:"applied_at"`
	Deadline          *string `json:"deadline"`
	ResumeSubmittedAt string  `json:"resume_submitted_at"`
}

type InsightsTable struct {
	Data  []InsightsTableRow `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Pages int64              `json:"pages"`
}
