package types

// Dashboard is the aggregate analytics returned by GET /dashboard.
type Dashboard struct {
	PredictionsMade int           `json:"predictions_made"`
	ResumesAnalyzed int           `json:"resumes_analyzed"`
	UserLevel       string        `json:"user_level"`
	Badges          []string      `json:"badges"`
	SalaryTrends    []SalaryTrend `json:"salary_trends"`
	TopSkills       []SkillDemand `json:"top_skills"`
}

// SalaryTrend is the average salary for a role.
type SalaryTrend struct {
	Role      string  `json:"role"`
	AvgSalary float64 `json:"avg_salary"`
}

// SkillDemand is the relative market demand for a skill, in percent.
type SkillDemand struct {
	Skill  string  `json:"skill"`
	Demand float64 `json:"demand"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned by POST /chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}
