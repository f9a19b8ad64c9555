package workflow

import (
	"context"

	"github.com/jonathan/careeriq/internal/types"
)

// DashboardLoader calls the dashboard endpoint.
type DashboardLoader interface {
	Dashboard(ctx context.Context) (*types.Dashboard, error)
}

// Dashboard is the read-only analytics workflow.
type Dashboard = Controller[struct{}, types.Dashboard]

// NewDashboard creates the dashboard workflow.
func NewDashboard(api DashboardLoader, opts Options) *Dashboard {
	if opts.Fallback == "" {
		opts.Fallback = FallbackDashboard
	}
	return NewController(NameDashboard, nil,
		func(ctx context.Context, _ struct{}) (types.Dashboard, error) {
			res, err := api.Dashboard(ctx)
			if err != nil {
				return types.Dashboard{}, err
			}
			return *res, nil
		},
		opts,
	)
}
