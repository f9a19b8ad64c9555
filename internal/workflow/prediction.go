package workflow

import (
	"context"

	"github.com/jonathan/careeriq/internal/types"
)

// Workflow names.
const (
	NamePrediction   = "prediction"
	NameResume       = "resume_analysis"
	NameJobs         = "job_recommendation"
	NameLearningPath = "learning_path"
	NameDashboard    = "dashboard"
)

// Per-workflow fallback messages.
const (
	FallbackPrediction   = "Failed to generate prediction"
	FallbackResume       = "Failed to analyze resume"
	FallbackJobs         = "Failed to load jobs"
	FallbackLearningPath = "Failed to generate learning path"
	FallbackDashboard    = "Failed to load dashboard"
)

// Predictor calls the prediction endpoint.
type Predictor interface {
	Predict(ctx context.Context, in types.PredictionInput) (*types.PredictionResult, error)
}

// Prediction is the career success prediction workflow.
type Prediction = Controller[types.PredictionInput, types.PredictionResult]

// NewPrediction creates the prediction workflow. Out-of-range input is
// rejected before any network call.
func NewPrediction(api Predictor, opts Options) *Prediction {
	if opts.Fallback == "" {
		opts.Fallback = FallbackPrediction
	}
	return NewController(NamePrediction,
		func(in types.PredictionInput) error { return validateStruct(in) },
		func(ctx context.Context, in types.PredictionInput) (types.PredictionResult, error) {
			res, err := api.Predict(ctx, in)
			if err != nil {
				return types.PredictionResult{}, err
			}
			return *res, nil
		},
		opts,
	)
}
