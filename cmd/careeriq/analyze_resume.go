package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/careeriq/internal/guard"
	"github.com/jonathan/careeriq/internal/ingestion"
	"github.com/jonathan/careeriq/internal/observability"
	"github.com/jonathan/careeriq/internal/types"
	"github.com/jonathan/careeriq/internal/workflow"
	"github.com/spf13/cobra"
)

var analyzeResumeCmd = &cobra.Command{
	Use:   "analyze-resume",
	Short: "Analyze a resume for ATS compatibility, readability and bias",
	Long: "Analyze a resume given as text (--text, --text-file, --url) or as a PDF upload (--file).\n" +
		"Text files may be .txt, .md, .html or .docx. PDF uploads must be smaller than 5MB.",
	RunE: runAnalyzeResume,
}

var (
	resumeText       string
	resumeTextFile   string
	resumeURL        string
	resumePDF        string
	resumeUseBrowser bool
)

func init() {
	analyzeResumeCmd.Flags().StringVar(&resumeText, "text", "", "Resume text")
	analyzeResumeCmd.Flags().StringVarP(&resumeTextFile, "text-file", "t", "", "Path to a .txt, .md, .html or .docx resume")
	analyzeResumeCmd.Flags().StringVarP(&resumeURL, "url", "u", "", "URL of an online resume")
	analyzeResumeCmd.Flags().StringVarP(&resumePDF, "file", "f", "", "Path to a PDF resume to upload")
	analyzeResumeCmd.Flags().BoolVar(&resumeUseBrowser, "use-browser", false, "Render --url pages in a headless browser when the fetched text is too short")

	rootCmd.AddCommand(analyzeResumeCmd)
}

func runAnalyzeResume(cmd *cobra.Command, _ []string) error {
	sources := 0
	for _, s := range []string{resumeText, resumeTextFile, resumeURL, resumePDF} {
		if s != "" {
			sources++
		}
	}
	if sources == 0 {
		return errors.New("one of --text, --text-file, --url or --file must be provided")
	}
	if sources > 1 {
		return errors.New("--text, --text-file, --url and --file are mutually exclusive; provide only one")
	}

	resume := workflow.NewResume(current.api, current.workflowOptions())
	var st workflow.State[types.ResumeAnalysisResult]

	err := current.show(cmd, guard.PathResumeValidator, func(ctx context.Context, w io.Writer) error {
		in, closeInput, err := resumeInput(ctx)
		if err != nil {
			return err
		}
		defer closeInput()

		st = resume.Submit(ctx, in)
		if st.Status == workflow.StatusSuccess {
			observability.NewPrinter(w).PrintResumeAnalysis(st.Data)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return current.finish(cmd, failed(st))
}

// resumeInput loads the selected source. Text sources are normalized before
// dispatch; a PDF is streamed as-is.
func resumeInput(ctx context.Context) (workflow.ResumeInput, func(), error) {
	noop := func() {}

	switch {
	case resumeText != "":
		return workflow.TextResume(ingestion.CleanText(resumeText)), noop, nil

	case resumeTextFile != "":
		text, meta, err := ingestion.LoadFile(resumeTextFile)
		if err != nil {
			return workflow.ResumeInput{}, noop, err
		}
		current.log.Debug("loaded resume text", meta.Fields())
		return workflow.TextResume(text), noop, nil

	case resumeURL != "":
		text, meta, err := ingestion.FromURL(ctx, resumeURL, ingestion.URLOptions{
			UseBrowser: resumeUseBrowser || current.cfg.UseBrowser,
			Timeout:    current.cfg.Timeout,
			Logger:     current.log,
		})
		if err != nil {
			return workflow.ResumeInput{}, noop, err
		}
		current.log.Debug("fetched resume text", meta.Fields())
		return workflow.TextResume(text), noop, nil
	}

	return openPDF(resumePDF)
}

// openPDF opens path for upload. Size and extension are checked by the
// workflow; inspection here only feeds the debug log.
func openPDF(path string) (workflow.ResumeInput, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return workflow.ResumeInput{}, func() {}, fmt.Errorf("failed to open resume: %w", err)
	}
	closeFile := func() { _ = f.Close() }

	info, err := f.Stat()
	if err != nil {
		closeFile()
		return workflow.ResumeInput{}, func() {}, fmt.Errorf("failed to stat resume: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") && info.Size() <= workflow.MaxResumeBytes {
		fields := map[string]interface{}{"file": filepath.Base(path), "bytes": info.Size()}
		if pdfInfo, err := ingestion.InspectPDF(f, info.Size()); err != nil {
			fields["inspect_error"] = err.Error()
		} else {
			fields["pages"] = pdfInfo.Pages
			fields["text_chars"] = pdfInfo.TextChars
		}
		current.log.Debug("inspected resume pdf", fields)
	}

	return workflow.FileResume(path, info.Size(), io.NewSectionReader(f, 0, info.Size())), closeFile, nil
}
