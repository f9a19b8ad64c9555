package main

import (
	"context"
	"io"

	"github.com/jonathan/careeriq/internal/guard"
	"github.com/jonathan/careeriq/internal/observability"
	"github.com/jonathan/careeriq/internal/types"
	"github.com/jonathan/careeriq/internal/workflow"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict career success from your profile",
	Long: "Predict career success probability and an expected salary range.\n" +
		"Education levels: 1 = High School, 2 = Bachelor's, 3 = Master's, 4 = PhD.\n" +
		"Location tiers: 1 = Tier 1 city, 2 = Tier 2, 3 = Tier 3.",
	RunE: runPredict,
}

var predictInput = types.DefaultPredictionInput()

func init() {
	d := types.DefaultPredictionInput()
	predictCmd.Flags().IntVar(&predictInput.Age, "age", d.Age, "Age (18-70)")
	predictCmd.Flags().IntVar(&predictInput.ExperienceYears, "experience", d.ExperienceYears, "Years of experience (0-50)")
	predictCmd.Flags().IntVar(&predictInput.EducationLevel, "education", d.EducationLevel, "Education level (1-4)")
	predictCmd.Flags().IntVar(&predictInput.NumSkills, "skills", d.NumSkills, "Number of skills (1-30)")
	predictCmd.Flags().IntVar(&predictInput.LocationTier, "location-tier", d.LocationTier, "Location tier (1-3)")
	predictCmd.Flags().IntVar(&predictInput.JobChanges, "job-changes", d.JobChanges, "Number of job changes (0-20)")

	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	prediction := workflow.NewPrediction(current.api, current.workflowOptions())
	var st workflow.State[types.PredictionResult]

	err := current.show(cmd, guard.PathCareerPredictor, func(ctx context.Context, w io.Writer) error {
		st = prediction.Submit(ctx, predictInput)
		if st.Status == workflow.StatusSuccess {
			observability.NewPrinter(w).PrintPrediction(st.Data)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return current.finish(cmd, failed(st))
}
