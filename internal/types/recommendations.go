package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Target roles understood by the learning path generator.
const (
	RoleSoftwareEngineer  = "software_engineer"
	RoleDataScientist     = "data_scientist"
	RoleFrontendDeveloper = "frontend_developer"
	RoleDevOpsEngineer    = "devops_engineer"
	RoleMLEngineer        = "ml_engineer"
)

// TargetRoles lists the accepted target roles in display order.
func TargetRoles() []string {
	return []string{
		RoleSoftwareEngineer,
		RoleDataScientist,
		RoleFrontendDeveloper,
		RoleDevOpsEngineer,
		RoleMLEngineer,
	}
}

// ID holds an identifier that the backend may encode as a number or a string.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// SkillList holds skills the backend may send either as an array or as a
// single space-separated string.
type SkillList []string

// UnmarshalJSON accepts a JSON array of strings or a single string.
func (l *SkillList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = SkillList{}
			return nil
		}
		*l = SkillList{s}
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	*l = arr
	return nil
}

// String joins the skills for display.
func (l SkillList) String() string {
	return strings.Join(l, ", ")
}

// JobRecommendationRequest is the body of POST /recommend_jobs.
type JobRecommendationRequest struct {
	Skills []string `json:"skills" validate:"required,min=1,dive,required"`
}

// JobRecommendationResponse is returned by POST /recommend_jobs.
type JobRecommendationResponse struct {
	Jobs []Job `json:"jobs"`
}

// Job is a single recommended position.
type Job struct {
	ID         ID        `json:"id"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	Location   string    `json:"location"`
	Salary     string    `json:"salary"`
	Skills     SkillList `json:"skills"`
	MatchScore float64   `json:"match_score"`
}

// LearningPathRequest is the body of POST /learning_path.
type LearningPathRequest struct {
	Skills     []string `json:"skills" validate:"required,min=1,dive,required"`
	TargetRole string   `json:"target_role" validate:"required,oneof=software_engineer data_scientist frontend_developer devops_engineer ml_engineer"`
}

// LearningPath is returned by POST /learning_path.
type LearningPath struct {
	TargetRole         string   `json:"target_role,omitempty"`
	RequiredSkills     []string `json:"required_skills"`
	SkillGap           []string `json:"skill_gap"`
	EstimatedTimeline  string   `json:"estimated_timeline"`
	RecommendedCourses []Course `json:"recommended_courses"`
}

// Course is a recommended learning resource.
type Course struct {
	ID             ID        `json:"id"`
	Title          string    `json:"title"`
	Platform       string    `json:"platform"`
	Duration       string    `json:"duration"`
	Price          string    `json:"price"`
	Skills         SkillList `json:"skills"`
	RelevanceScore float64   `json:"relevance_score"`
}
