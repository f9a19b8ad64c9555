package workflow

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/jonathan/careeriq/internal/types"
)

// MaxResumeBytes is the largest resume file accepted for upload.
const MaxResumeBytes = 5 * 1024 * 1024

// Resume validation messages.
const (
	msgResumeTextRequired = "Please enter your resume text"
	msgResumeNotPDF       = "Please select a PDF file"
	msgResumeTooLarge     = "File size must be less than 5MB"
	msgResumeBothModes    = "Provide either resume text or a PDF file, not both"
)

// ResumeFile is a resume upload.
type ResumeFile struct {
	Name    string
	Size    int64
	Content io.Reader
}

// ResumeInput holds exactly one of Text or File.
type ResumeInput struct {
	Text string
	File *ResumeFile
}

// TextResume builds text-mode input.
func TextResume(text string) ResumeInput {
	return ResumeInput{Text: text}
}

// FileResume builds file-mode input.
func FileResume(name string, size int64, content io.Reader) ResumeInput {
	return ResumeInput{File: &ResumeFile{Name: name, Size: size, Content: content}}
}

// ResumeAnalyzer calls the resume analysis endpoint.
type ResumeAnalyzer interface {
	AnalyzeResumeText(ctx context.Context, text string) (*types.ResumeAnalysisResult, error)
	AnalyzeResumeFile(ctx context.Context, filename string, content io.Reader) (*types.ResumeAnalysisResult, error)
}

// Resume is the resume analysis workflow.
type Resume = Controller[ResumeInput, types.ResumeAnalysisResult]

// ValidateResume checks the input mode and the file constraints.
func ValidateResume(in ResumeInput) error {
	if in.File != nil && in.Text != "" {
		return &ValidationError{Field: "resume", Message: msgResumeBothModes}
	}

	if in.File == nil {
		if strings.TrimSpace(in.Text) == "" {
			return &ValidationError{Field: "resume_text", Message: msgResumeTextRequired}
		}
		return nil
	}

	if in.File.Content == nil || !strings.EqualFold(filepath.Ext(in.File.Name), ".pdf") {
		return &ValidationError{Field: "file", Message: msgResumeNotPDF}
	}
	if in.File.Size > MaxResumeBytes {
		return &ValidationError{Field: "file", Message: msgResumeTooLarge}
	}
	return nil
}

// NewResume creates the resume analysis workflow.
func NewResume(api ResumeAnalyzer, opts Options) *Resume {
	if opts.Fallback == "" {
		opts.Fallback = FallbackResume
	}
	return NewController(NameResume, ValidateResume,
		func(ctx context.Context, in ResumeInput) (types.ResumeAnalysisResult, error) {
			var (
				res *types.ResumeAnalysisResult
				err error
			)
			if in.File != nil {
				res, err = api.AnalyzeResumeFile(ctx, filepath.Base(in.File.Name), in.File.Content)
			} else {
				res, err = api.AnalyzeResumeText(ctx, strings.TrimSpace(in.Text))
			}
			if err != nil {
				return types.ResumeAnalysisResult{}, err
			}
			return *res, nil
		},
		opts,
	)
}
