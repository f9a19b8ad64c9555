// Package api exposes the CareerIQ backend endpoints as typed calls over the
// gateway.
package api

import (
	"context"
	"io"

	"github.com/jonathan/careeriq/internal/gateway"
	"github.com/jonathan/careeriq/internal/schemas"
	"github.com/jonathan/careeriq/internal/types"
)

// Endpoint paths relative to the API prefix.
const (
	PathPredict       = "/predict"
	PathAnalyzeResume = "/analyze_resume"
	PathRecommendJobs = "/recommend_jobs"
	PathLearningPath  = "/learning_path"
	PathChat          = "/chat"
	PathDashboard     = "/dashboard"
	PathLogin         = "/auth/login"
	PathSignup        = "/auth/signup"
)

// Transport is the subset of the gateway the endpoints use.
type Transport interface {
	GetJSON(ctx context.Context, path, schema string, out any) error
	PostJSON(ctx context.Context, path string, in any, schema string, out any) error
	PostMultipart(ctx context.Context, path string, form gateway.Form, schema string, out any) error
}

// Client calls the backend endpoints.
type Client struct {
	t Transport
}

// New creates a Client over t.
func New(t Transport) *Client {
	return &Client{t: t}
}

// Predict scores a career profile.
func (c *Client) Predict(ctx context.Context, in types.PredictionInput) (*types.PredictionResult, error) {
	var out types.PredictionResult
	if err := c.t.PostJSON(ctx, PathPredict, in, schemas.Prediction, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeResumeText submits pasted resume text.
func (c *Client) AnalyzeResumeText(ctx context.Context, text string) (*types.ResumeAnalysisResult, error) {
	form := gateway.Form{Fields: map[string]string{"resume_text": text}}
	return c.analyze(ctx, form)
}

// AnalyzeResumeFile uploads a resume file.
func (c *Client) AnalyzeResumeFile(ctx context.Context, filename string, content io.Reader) (*types.ResumeAnalysisResult, error) {
	form := gateway.Form{Files: []gateway.FilePart{{Field: "file", Filename: filename, Content: content}}}
	return c.analyze(ctx, form)
}

func (c *Client) analyze(ctx context.Context, form gateway.Form) (*types.ResumeAnalysisResult, error) {
	var out types.ResumeAnalysisResult
	if err := c.t.PostMultipart(ctx, PathAnalyzeResume, form, schemas.ResumeAnalysis, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecommendJobs returns jobs matching skills, in the backend's order.
func (c *Client) RecommendJobs(ctx context.Context, skills []string) ([]types.Job, error) {
	var out types.JobRecommendationResponse
	req := types.JobRecommendationRequest{Skills: skills}
	if err := c.t.PostJSON(ctx, PathRecommendJobs, req, schemas.Jobs, &out); err != nil {
		return nil, err
	}
	if out.Jobs == nil {
		out.Jobs = []types.Job{}
	}
	return out.Jobs, nil
}

// LearningPath builds a plan from skills towards targetRole.
func (c *Client) LearningPath(ctx context.Context, skills []string, targetRole string) (*types.LearningPath, error) {
	var out types.LearningPath
	req := types.LearningPathRequest{Skills: skills, TargetRole: targetRole}
	if err := c.t.PostJSON(ctx, PathLearningPath, req, schemas.LearningPath, &out); err != nil {
		return nil, err
	}
	if out.TargetRole == "" {
		out.TargetRole = targetRole
	}
	return &out, nil
}

// Chat sends one message to the advisor and returns its reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var out types.ChatResponse
	if err := c.t.PostJSON(ctx, PathChat, types.ChatRequest{Message: message}, schemas.Chat, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// Dashboard fetches the user's aggregate analytics.
func (c *Client) Dashboard(ctx context.Context) (*types.Dashboard, error) {
	var out types.Dashboard
	if err := c.t.GetJSON(ctx, PathDashboard, schemas.Dashboard, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (*types.LoginResponse, error) {
	var out types.LoginResponse
	if err := c.t.PostJSON(ctx, PathLogin, req, schemas.Auth, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup creates an account and returns its token.
func (c *Client) Signup(ctx context.Context, req types.SignupRequest) (*types.LoginResponse, error) {
	var out types.LoginResponse
	if err := c.t.PostJSON(ctx, PathSignup, req, schemas.Auth, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
