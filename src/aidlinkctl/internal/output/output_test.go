package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
)

// captureStdout captures stdout output during fn execution
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

// =============================================================================
// PrintJSON Tests
// =============================================================================

func TestPrintJSON_Map(t *testing.T) {
	data := map[string]string{"key": "value"}
	out := captureStdout(t, func() {
		if err := PrintJSON(data); err != nil {
			t.Fatalf("PrintJSON error: %v", err)
		}
	})
	var result map[string]string
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if result["key"] != "value" {
		t.Errorf("expected key=value, got %v", result)
	}
}

func TestPrintJSON_Struct(t *testing.T) {
	type item struct {
		Slug  string `json:"slug"`
		Title string `json:"title"`
	}
	data := item{Slug: "winter-drive", Title: "Winter clothing drive"}
	out := captureStdout(t, func() {
		_ = PrintJSON(data)
	})
	if !strings.Contains(out, `"slug": "winter-drive"`) {
		t.Errorf("expected slug field in JSON, got %s", out)
	}
	if !strings.Contains(out, `"title": "Winter clothing drive"`) {
		t.Errorf("expected title field in JSON, got %s", out)
	}
}

func TestPrintJSON_Indented(t *testing.T) {
	data := map[string]string{"key": "value"}
	out := captureStdout(t, func() {
		_ = PrintJSON(data)
	})
	if !strings.Contains(out, "  ") {
		t.Error("expected indented JSON output")
	}
}

// =============================================================================
// PrintYAML Tests
// =============================================================================

func TestPrintYAML_Map(t *testing.T) {
	data := map[string]string{"key": "value"}
	out := captureStdout(t, func() {
		if err := PrintYAML(data); err != nil {
			t.Fatalf("PrintYAML error: %v", err)
		}
	})
	if !strings.Contains(out, "key: value") {
		t.Errorf("expected YAML key: value, got %q", out)
	}
}

func TestPrintYAML_RespectsJSONTags(t *testing.T) {
	type item struct {
		PostalCode string `json:"postal_code"`
	}
	data := item{PostalCode: "1100-001"}
	out := captureStdout(t, func() {
		_ = PrintYAML(data)
	})
	if !strings.Contains(out, "postal_code:") {
		t.Errorf("expected postal_code (json tag), got %q", out)
	}
}

// =============================================================================
// PrintFormatted Tests
// =============================================================================

func TestPrintFormatted_JSON(t *testing.T) {
	out := captureStdout(t, func() {
		_ = PrintFormatted("json", map[string]string{"key": "value"}, func() error {
			t.Error("table callback should not run for json format")
			return nil
		})
	})
	if !strings.Contains(out, `"key": "value"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestPrintFormatted_YAML(t *testing.T) {
	out := captureStdout(t, func() {
		_ = PrintFormatted("yaml", map[string]string{"key": "value"}, func() error {
			t.Error("table callback should not run for yaml format")
			return nil
		})
	})
	if !strings.Contains(out, "key: value") {
		t.Errorf("expected YAML output, got %q", out)
	}
}

func TestPrintFormatted_Table(t *testing.T) {
	called := false
	_ = PrintFormatted("table", nil, func() error {
		called = true
		return nil
	})
	if !called {
		t.Error("expected table callback for table format")
	}
}

// =============================================================================
// PrintTable Tests
// =============================================================================

func TestPrintTable_BasicOutput(t *testing.T) {
	out := captureStdout(t, func() {
		PrintTable(
			[]string{"SLUG", "TITLE"},
			[][]string{
				{"winter-drive", "Winter clothing drive"},
				{"food-bank", "Food bank restock"},
			},
		)
	})
	if !strings.Contains(out, "SLUG") || !strings.Contains(out, "TITLE") {
		t.Errorf("expected headers in output, got %q", out)
	}
	if !strings.Contains(out, "winter-drive") || !strings.Contains(out, "food-bank") {
		t.Errorf("expected row data in output, got %q", out)
	}
}

func TestPrintTable_EmptyRows(t *testing.T) {
	out := captureStdout(t, func() {
		PrintTable([]string{"SLUG", "TITLE"}, [][]string{})
	})
	// Should still print headers
	if !strings.Contains(out, "SLUG") {
		t.Errorf("expected headers even with empty rows, got %q", out)
	}
}

func TestPrintTable_Alignment(t *testing.T) {
	out := captureStdout(t, func() {
		PrintTable(
			[]string{"SLUG", "TITLE"},
			[][]string{
				{"a", "short"},
				{"a-much-longer-slug", "a much longer title"},
			},
		)
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Errorf("expected 3 lines (header + 2 rows), got %d", len(lines))
	}
}

// =============================================================================
// PrintMessage / PrintError Tests
// =============================================================================

func TestPrintMessage(t *testing.T) {
	out := captureStdout(t, func() {
		PrintMessage("hello world")
	})
	if strings.TrimSpace(out) != "hello world" {
		t.Errorf("expected 'hello world', got %q", out)
	}
}

func TestPrintError(t *testing.T) {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	PrintError(fmt.Errorf("test error"))

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	if !strings.Contains(buf.String(), "test error") {
		t.Errorf("expected error message on stderr, got %q", buf.String())
	}
}
