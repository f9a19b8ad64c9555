package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/careeriq/internal/guard"
	"github.com/jonathan/careeriq/internal/observability"
	"github.com/jonathan/careeriq/internal/skills"
	"github.com/jonathan/careeriq/internal/types"
	"github.com/jonathan/careeriq/internal/workflow"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Recommend jobs matching your skills",
	RunE:  runJobs,
}

var learningPathCmd = &cobra.Command{
	Use:   "learning-path",
	Short: "Generate a learning path toward a target role",
	RunE:  runLearningPath,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Recommend jobs and a learning path in one run",
	RunE:  runReport,
}

var (
	skillFlags []string
	targetRole string
)

func init() {
	roles := strings.Join(types.TargetRoles(), ", ")
	for _, cmd := range []*cobra.Command{jobsCmd, learningPathCmd, reportCmd} {
		cmd.Flags().StringSliceVarP(&skillFlags, "skill", "s", nil, "Skill to include (repeatable or comma-separated)")
	}
	for _, cmd := range []*cobra.Command{learningPathCmd, reportCmd} {
		cmd.Flags().StringVarP(&targetRole, "role", "r", types.RoleSoftwareEngineer, "Target role: "+roles)
	}

	rootCmd.AddCommand(jobsCmd, learningPathCmd, reportCmd)
}

func runJobs(cmd *cobra.Command, _ []string) error {
	jobs := workflow.NewJobs(current.api, current.workflowOptions())
	set := skills.NewSet(skillFlags...)
	var st workflow.State[[]types.Job]

	err := current.show(cmd, guard.PathRecommendations, func(ctx context.Context, w io.Writer) error {
		st = jobs.Submit(ctx, workflow.JobsFor(set))
		if st.Status == workflow.StatusSuccess {
			observability.NewPrinter(w).PrintJobs(*st.Data)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return current.finish(cmd, failed(st))
}

func runLearningPath(cmd *cobra.Command, _ []string) error {
	path := workflow.NewLearningPath(current.api, current.workflowOptions())
	set := skills.NewSet(skillFlags...)
	var st workflow.State[types.LearningPath]

	err := current.show(cmd, guard.PathRecommendations, func(ctx context.Context, w io.Writer) error {
		st = path.Submit(ctx, workflow.LearningFor(set, targetRole))
		if st.Status == workflow.StatusSuccess {
			observability.NewPrinter(w).PrintLearningPath(st.Data)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return current.finish(cmd, failed(st))
}

// runReport runs both recommendation workflows concurrently over one skill
// set. Each keeps its own state; one failing does not cancel the other.
func runReport(cmd *cobra.Command, _ []string) error {
	jobs := workflow.NewJobs(current.api, current.workflowOptions())
	path := workflow.NewLearningPath(current.api, current.workflowOptions())
	set := skills.NewSet(skillFlags...)

	var (
		jobsState workflow.State[[]types.Job]
		pathState workflow.State[types.LearningPath]
		jobsErr   error
		pathErr   error
		failure   error
	)

	err := current.show(cmd, guard.PathRecommendations, func(ctx context.Context, w io.Writer) error {
		// A plain Group: a failed workflow must not cancel the other.
		var g errgroup.Group
		g.Go(func() error {
			jobsState = jobs.Submit(ctx, workflow.JobsFor(set))
			jobsErr = failed(jobsState)
			return jobsErr
		})
		g.Go(func() error {
			pathState = path.Submit(ctx, workflow.LearningFor(set, targetRole))
			pathErr = failed(pathState)
			return pathErr
		})
		failure = g.Wait()

		p := observability.NewPrinter(w)
		if jobsState.Status == workflow.StatusSuccess {
			p.PrintJobs(*jobsState.Data)
		}
		if pathState.Status == workflow.StatusSuccess {
			p.PrintLearningPath(pathState.Data)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if failure != nil {
		err = reportError(jobsErr, pathErr)
	}
	return current.finish(cmd, err)
}

// reportError names the workflow that failed, or merges both failures into
// one message when they match.
func reportError(jobsErr, pathErr error) error {
	switch {
	case jobsErr != nil && pathErr != nil && jobsErr.Error() == pathErr.Error():
		return jobsErr
	case jobsErr != nil && pathErr != nil:
		return fmt.Errorf("jobs: %v; learning path: %v", jobsErr, pathErr)
	case jobsErr != nil:
		return fmt.Errorf("jobs: %w", jobsErr)
	default:
		return fmt.Errorf("learning path: %w", pathErr)
	}
}
