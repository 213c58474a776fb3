package results_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/medvision/internal/results"
)

func sampleFindings() results.FindingsResult {
	return results.FindingsResult{
		Title:      "Tuberculosis Screening Complete",
		Icon:       "fas fa-lungs",
		Result:     "No TB lesions detected",
		Confidence: "96.3%",
		Severity:   "Normal",
		Findings: results.NewEntries(
			results.Entry{Key: "Lung Fields", Value: "Clear bilateral lung fields"},
			results.Entry{Key: "Hilar Lymph Nodes", Value: "Normal size"},
		),
		Recommendations: []string{"No signs of active tuberculosis"},
	}
}

func sampleRetina() results.RetinaResult {
	return results.RetinaResult{
		Prediction: "DR Detected",
		Confidence: "87.3%",
		AllPredictions: results.NewEntries(
			results.Entry{Key: "No DR", Value: "12.7%"},
			results.Entry{Key: "DR Detected", Value: "87.3%"},
		),
		Recommendations: []string{"Optimize diabetes management immediately"},
	}
}

func TestEntriesPreserveInsertionOrder(t *testing.T) {
	var e results.Entries
	e.Set("Zeta", "1")
	e.Set("Alpha", "2")
	e.Set("Mid", "3")
	e.Set("Zeta", "4")

	items := e.Items()
	want := []results.Entry{{"Zeta", "4"}, {"Alpha", "2"}, {"Mid", "3"}}
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %+v, want %+v", i, items[i], want[i])
		}
	}

	if v, ok := e.Get("Alpha"); !ok || v != "2" {
		t.Errorf("Get(Alpha) = %q, %v", v, ok)
	}
}

func TestEntriesZeroValue(t *testing.T) {
	var e results.Entries

	if e.Len() != 0 {
		t.Errorf("Len = %d, want 0", e.Len())
	}
	if items := e.Items(); items == nil || len(items) != 0 {
		t.Errorf("Items = %#v, want empty slice", items)
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("marshal = %s, want {}", data)
	}
}

func TestEntriesJSONKeepsOrder(t *testing.T) {
	input := `{"Ventricular Size":"Normal for age","Hippocampal Volume":"Normal (98th percentile)","Cortical Thickness":"Within normal range"}`

	var e results.Entries
	if err := json.Unmarshal([]byte(input), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	keys := make([]string, 0, e.Len())
	for _, item := range e.Items() {
		keys = append(keys, item.Key)
	}
	if got := strings.Join(keys, "|"); got != "Ventricular Size|Hippocampal Volume|Cortical Thickness" {
		t.Errorf("keys = %s", got)
	}

	out, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != input {
		t.Errorf("marshal = %s, want %s", out, input)
	}
}

func TestDisplayFindings(t *testing.T) {
	d := sampleFindings().Display()

	if d.Diagnosis != "No TB lesions detected" {
		t.Errorf("Diagnosis = %q", d.Diagnosis)
	}
	if d.Severity != "Normal" || d.SeverityClass() != "normal" {
		t.Errorf("Severity = %q class %q", d.Severity, d.SeverityClass())
	}
	if d.EntryColumns != [2]string{"Parameter", "Finding"} {
		t.Errorf("EntryColumns = %v", d.EntryColumns)
	}
	if len(d.Entries) != 2 || d.Entries[0].Key != "Lung Fields" {
		t.Errorf("Entries = %+v", d.Entries)
	}
}

func TestDisplayRetina(t *testing.T) {
	d := sampleRetina().Display()

	if d.Title != "Retinal Analysis Complete" || d.Icon != "fas fa-eye" {
		t.Errorf("header = %q %q", d.Title, d.Icon)
	}
	if d.Severity != "" {
		t.Errorf("retina results carry no severity, got %q", d.Severity)
	}
	if d.EntryColumns != [2]string{"Condition", "Probability"} {
		t.Errorf("EntryColumns = %v", d.EntryColumns)
	}
	if d.Entries[1].Value != "87.3%" {
		t.Errorf("Entries = %+v", d.Entries)
	}
}

func TestSeverityClass(t *testing.T) {
	tests := map[string]string{
		"Normal":   "normal",
		"Low Risk": "low-risk",
		"Moderate": "moderate",
		" High ":   "high",
		"":         "",
	}
	for in, want := range tests {
		if got := results.SeverityClass(in); got != want {
			t.Errorf("SeverityClass(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		result  results.Result
		wantErr error
	}{
		{"findings ok", sampleFindings(), nil},
		{"retina ok", sampleRetina(), nil},
		{"findings empty", results.FindingsResult{Title: "x"}, results.ErrNoRecommendations},
		{"retina empty", results.RetinaResult{Prediction: "No DR"}, results.ErrNoRecommendations},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.result.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		result results.Result
		kind   results.Kind
	}{
		{"findings", sampleFindings(), results.KindFindings},
		{"retina", sampleRetina(), results.KindRetina},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(results.Envelope{Result: tt.result})
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if !strings.Contains(string(data), `"kind":"`+string(tt.kind)+`"`) {
				t.Errorf("missing kind tag: %s", data)
			}

			var env results.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if env.Result.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", env.Result.Kind(), tt.kind)
			}

			got := env.Result.Display()
			want := tt.result.Display()
			if got.Diagnosis != want.Diagnosis || len(got.Entries) != len(want.Entries) {
				t.Errorf("display mismatch: got %+v, want %+v", got, want)
			}
			for i := range want.Entries {
				if got.Entries[i] != want.Entries[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got.Entries[i], want.Entries[i])
				}
			}
		})
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := results.Decode([]byte(`{"kind":"xray"}`))
	if !errors.Is(err, results.ErrUnknownKind) {
		t.Errorf("Decode() = %v, want ErrUnknownKind", err)
	}
}
