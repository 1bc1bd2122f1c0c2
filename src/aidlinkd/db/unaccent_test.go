package db

import "testing"

func TestUnaccent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"São Paulo", "Sao Paulo"},
		{"associação", "associacao"},
		{"café", "cafe"},
		{"über", "uber"},
		{"plain ascii", "plain ascii"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Unaccent(tt.input); got != tt.expected {
			t.Errorf("Unaccent(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestUnaccentSQLFunction(t *testing.T) {
	database := setupTestDB(t)

	var out string
	err := database.DB().QueryRow(`SELECT unaccent('famílias de São Miguel')`).Scan(&out)
	if err != nil {
		t.Fatalf("unaccent() not available on the connection: %v", err)
	}
	if out != "familias de Sao Miguel" {
		t.Errorf("unexpected unaccent output: %q", out)
	}
}
