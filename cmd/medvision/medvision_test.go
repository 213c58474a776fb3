package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writePNG(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := range 40 {
		for y := range 30 {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: 80, B: uint8(y * 8), A: 255})
		}
	}

	path := filepath.Join(dir, "scan.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode image: %v", err)
	}
	return path
}

func singleFile(t *testing.T, dir, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("files matching %s: got %d, want 1", pattern, len(matches))
	}
	return matches[0]
}

func TestCategories(t *testing.T) {
	out, err := run(t, "categories")
	if err != nil {
		t.Fatalf("categories error = %v", err)
	}

	for _, want := range []string{"VALUE", "diabetic-retinopathy", "Skin Cancer", "canned"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "medvision ") {
		t.Errorf("output: got %q", out)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir)

	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("accepted", func(t *testing.T) {
		out, err := run(t, "validate", "--category", "skin-cancer", img)
		if err != nil {
			t.Fatalf("validate error = %v", err)
		}
		if !strings.Contains(out, "scan.png: ok (image/png") {
			t.Errorf("output: got %q", out)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := run(t, "validate", "--category", "skin-cancer", text)
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "Invalid file type") {
			t.Errorf("error: got %q", err)
		}
	})

	t.Run("retina message", func(t *testing.T) {
		_, err := run(t, "validate", text)
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "retinal fundus image") {
			t.Errorf("error: got %q", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := run(t, "validate", filepath.Join(dir, "missing.png")); err == nil {
			t.Fatal("expected read error")
		}
	})
}

func TestReportCanned(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "report", "--category", "tuberculosis", "--format", "html", "--out", dir)
	if err != nil {
		t.Fatalf("report error = %v", err)
	}

	path := singleFile(t, dir, "MedVision_AI_Report_tuberculosis_*.html")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<html") {
		t.Error("report is not an html document")
	}
	if !strings.Contains(out, "wrote "+path) {
		t.Errorf("output: got %q", out)
	}
}

func TestReportImage(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir)
	outDir := filepath.Join(dir, "reports")

	if _, err := run(t, "report", "--category", "bone-fracture", "--image", img, "--out", outDir, "--delay", "0s"); err != nil {
		t.Fatalf("report error = %v", err)
	}

	data, err := os.ReadFile(singleFile(t, outDir, "MedVision_AI_Report_bone-fracture_*.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("report is not a pdf")
	}
}

func TestReportRetinaFallback(t *testing.T) {
	predictor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model offline", http.StatusServiceUnavailable)
	}))
	defer predictor.Close()
	t.Setenv("MEDVISION_ANALYSIS_PREDICTOR_URL", predictor.URL)

	dir := t.TempDir()
	img := writePNG(t, dir)

	out, err := run(t, "report", "--image", img, "--out", dir)
	if err != nil {
		t.Fatalf("report error = %v", err)
	}

	singleFile(t, dir, "MedVision_AI_Diabetic_Retinopathy_Report_*.pdf")
	if !strings.Contains(out, "Retinal Analysis Complete") {
		t.Errorf("output: got %q", out)
	}
}

func TestReportErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"retina without image", []string{"report", "--out", dir}, "requires --image"},
		{"unknown category", []string{"report", "--category", "dermatology", "--out", dir}, "unknown analysis category"},
		{"bad format", []string{"report", "--category", "alzheimer", "--format", "docx", "--out", dir}, "docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error: got %q, want substring %q", err, tt.want)
			}
		})
	}
}
