package mdbuild

import (
	"errors"
	"testing"

	"github.com/alnah/go-mdbuild/internal/config"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outFile string
		want    OutputKind
		wantErr error
	}{
		{"doc.pdf", KindPDF, nil},
		{"out/DOC.PDF", KindPDF, nil},
		{"README.md", KindGFM, nil},
		{"notes.markdown", KindGFM, nil},
		{"report.docx", KindDocx, nil},
		{"talk.revealjs", KindSlides, nil},
		{"preview.html", KindPreview, nil},
		{"slides.pptx", 0, ErrUnsupportedOutput},
		{"noext", 0, ErrUnsupportedOutput},
		{"archive.pdf.gz", 0, ErrUnsupportedOutput},
	}

	for _, tt := range tests {
		t.Run(tt.outFile, func(t *testing.T) {
			t.Parallel()

			got, err := KindOf(tt.outFile)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("KindOf(%q) error = %v, want %v", tt.outFile, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("KindOf(%q) = %v, want %v", tt.outFile, got, tt.want)
			}
		})
	}
}

func TestOutputKind_String(t *testing.T) {
	t.Parallel()

	if got := KindSlides.String(); got != "revealjs" {
		t.Errorf("KindSlides.String() = %q", got)
	}
	if got := OutputKind(99).String(); got != "OutputKind(99)" {
		t.Errorf("OutputKind(99).String() = %q", got)
	}
}

func TestBatchResult_Counts(t *testing.T) {
	t.Parallel()

	r := BatchResult{
		Total:     5,
		Succeeded: 2,
		Failures:  []JobError{{Job: config.Job{InFile: "a.md", OutFile: "a.pdf"}, Err: ErrEngineFailed}},
	}

	if r.Failed() != 1 || r.Skipped() != 2 {
		t.Errorf("Failed() = %d, Skipped() = %d; want 1, 2", r.Failed(), r.Skipped())
	}
}

func TestJobError(t *testing.T) {
	t.Parallel()

	err := JobError{Job: config.Job{InFile: "a.md", OutFile: "a.pdf"}, Err: ErrEngineFailed}

	if got := err.Error(); got != "a.md -> a.pdf: conversion engine failed" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrEngineFailed) {
		t.Error("JobError does not unwrap")
	}
}
