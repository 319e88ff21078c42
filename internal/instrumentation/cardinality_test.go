package instrumentation

import "testing"

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"jane@example.com", "example.com"},
		{"team@gmail.com", "gmail.com"},
		{"room-bookings@company.org", "company.org"},
		{"test@subdomain.example.com", "subdomain.example.com"},
		{"primary", "unknown"},
		{"", "unknown"},
		{"@", "unknown"},
		{"user@", "unknown"},
		{"@domain.com", "domain.com"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			result := ExtractDomain(tt.id)
			if result != tt.expected {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.id, result, tt.expected)
			}
		})
	}
}

func TestOperationConstants(t *testing.T) {
	operations := map[string]string{
		OperationList:   "list",
		OperationInsert: "insert",
	}

	for constant, expected := range operations {
		if constant != expected {
			t.Errorf("Operation constant = %q, want %q", constant, expected)
		}
	}
}
