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

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your activity, badges and market trends",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	dashboard := workflow.NewDashboard(current.api, current.workflowOptions())
	var st workflow.State[types.Dashboard]

	err := current.show(cmd, guard.PathDashboard, func(ctx context.Context, w io.Writer) error {
		st = dashboard.Submit(ctx, struct{}{})
		if st.Status == workflow.StatusSuccess {
			observability.NewPrinter(w).PrintDashboard(st.Data)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return current.finish(cmd, failed(st))
}
