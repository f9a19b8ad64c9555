package workflow

import (
	"context"

	"github.com/jonathan/careeriq/internal/skills"
	"github.com/jonathan/careeriq/internal/types"
)

const msgSkillsRequired = "Please add at least one skill"

// JobsInput is a snapshot of the skill set at submission time.
type JobsInput struct {
	Skills []string
}

// JobsFor snapshots set for a job recommendation request.
func JobsFor(set *skills.Set) JobsInput {
	return JobsInput{Skills: set.Values()}
}

// LearningInput is a snapshot of the skill set and the chosen target role.
type LearningInput struct {
	Skills     []string
	TargetRole string
}

// LearningFor snapshots set for a learning path request.
func LearningFor(set *skills.Set, targetRole string) LearningInput {
	return LearningInput{Skills: set.Values(), TargetRole: targetRole}
}

// Recommender calls the job and learning path endpoints.
type Recommender interface {
	RecommendJobs(ctx context.Context, skills []string) ([]types.Job, error)
	LearningPath(ctx context.Context, skills []string, targetRole string) (*types.LearningPath, error)
}

// Jobs is the job recommendation workflow.
type Jobs = Controller[JobsInput, []types.Job]

// LearningPath is the learning path workflow.
type LearningPath = Controller[LearningInput, types.LearningPath]

// NewJobs creates the job recommendation workflow. An empty skill set is
// rejected before any network call.
func NewJobs(api Recommender, opts Options) *Jobs {
	if opts.Fallback == "" {
		opts.Fallback = FallbackJobs
	}
	return NewController(NameJobs,
		func(in JobsInput) error {
			if len(in.Skills) == 0 {
				return &ValidationError{Field: "skills", Message: msgSkillsRequired}
			}
			return nil
		},
		func(ctx context.Context, in JobsInput) ([]types.Job, error) {
			return api.RecommendJobs(ctx, in.Skills)
		},
		opts,
	)
}

// NewLearningPath creates the learning path workflow. The target role must
// be one of types.TargetRoles.
func NewLearningPath(api Recommender, opts Options) *LearningPath {
	if opts.Fallback == "" {
		opts.Fallback = FallbackLearningPath
	}
	return NewController(NameLearningPath,
		func(in LearningInput) error {
			if len(in.Skills) == 0 {
				return &ValidationError{Field: "skills", Message: msgSkillsRequired}
			}
			return validateStruct(types.LearningPathRequest{Skills: in.Skills, TargetRole: in.TargetRole})
		},
		func(ctx context.Context, in LearningInput) (types.LearningPath, error) {
			res, err := api.LearningPath(ctx, in.Skills, in.TargetRole)
			if err != nil {
				return types.LearningPath{}, err
			}
			return *res, nil
		},
		opts,
	)
}
