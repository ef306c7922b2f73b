package analytics

type EmployeeStatsResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	Name           string  `json:"name"`
	PresentDays    int     `json:"present_days"`
	AvgHours       float64 `json:"avg_hours"`
	TotalLeaves    int     `json:"total_leaves"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
}

type AnalyticsResponse struct {
	Month         string                  `json:"month"`
	EmployeeStats []EmployeeStatsResponse `json:"employeeStats"`
}
