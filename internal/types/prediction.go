package types

// Education levels accepted by the prediction model.
const (
	EducationHighSchool = 1
	EducationBachelor   = 2
	EducationMaster     = 3
	EducationPhD        = 4
)

// PredictionInput is the career profile sent to POST /predict. Bounds are
// enforced locally before dispatch.
type PredictionInput struct {
	Age             int `json:"age" validate:"min=18,max=70"`
	ExperienceYears int `json:"experience_years" validate:"min=0,max=50"`
	EducationLevel  int `json:"education_level" validate:"min=1,max=4"`
	NumSkills       int `json:"num_skills" validate:"min=1,max=30"`
	LocationTier    int `json:"location_tier" validate:"min=1,max=3"`
	JobChanges      int `json:"job_changes" validate:"min=0,max=20"`
}

// DefaultPredictionInput returns the profile the prediction form starts with.
func DefaultPredictionInput() PredictionInput {
	return PredictionInput{
		Age:             28,
		ExperienceYears: 5,
		EducationLevel:  EducationBachelor,
		NumSkills:       8,
		LocationTier:    1,
		JobChanges:      2,
	}
}

// PredictionResult is the model output for a PredictionInput.
type PredictionResult struct {
	SuccessProbability float64  `json:"success_probability"`
	TopFactors         []string `json:"top_factors"`
	Recommendations    []string `json:"recommendations"`
}

// SuccessLevel labels a success probability for display.
func SuccessLevel(probability float64) string {
	switch {
	case probability >= 80:
		return "Excellent"
	case probability >= 60:
		return "Good"
	case probability >= 40:
		return "Moderate"
	default:
		return "Developing"
	}
}
