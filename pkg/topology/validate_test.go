package topology

import (
	"strings"
	"testing"
)

func TestValidateNodeRecord(t *testing.T) {
	tests := []struct {
		name    string
		rec     *NodeRecord
		wantErr string
	}{
		{
			name: "valid",
			rec:  &NodeRecord{ID: "h1", Type: "Host"},
		},
		{
			name:    "missing id",
			rec:     &NodeRecord{Type: "Host"},
			wantErr: "ID: field is required",
		},
		{
			name:    "missing type",
			rec:     &NodeRecord{ID: "h1"},
			wantErr: "Type: field is required",
		},
		{
			name:    "id too long",
			rec:     &NodeRecord{ID: strings.Repeat("x", 200), Type: "Host"},
			wantErr: "ID: must not exceed 128",
		},
		{
			name:    "nil record",
			rec:     nil,
			wantErr: "node record cannot be nil",
		},
		{
			name:    "empty property key",
			rec:     &NodeRecord{ID: "h1", Type: "Host", Properties: map[string]any{"": 1}},
			wantErr: "property key cannot be empty",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateNodeRecord(tc.rec)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateLinkRecord(t *testing.T) {
	if err := ValidateLinkRecord(&LinkRecord{Source: "a", Destination: "b"}); err != nil {
		t.Fatalf("valid link rejected: %v", err)
	}

	err := ValidateLinkRecord(&LinkRecord{Source: "a", Destination: "a"})
	if err == nil || !strings.Contains(err.Error(), "self-link") {
		t.Errorf("self-link should be rejected, got %v", err)
	}

	err = ValidateLinkRecord(&LinkRecord{Source: "a"})
	if err == nil || !strings.Contains(err.Error(), "Destination: field is required") {
		t.Errorf("missing destination should be rejected, got %v", err)
	}
}

func TestValidatePropertyKey(t *testing.T) {
	if err := ValidatePropertyKey("AP_SSID"); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}
	if err := ValidatePropertyKey(strings.Repeat("k", 150)); err == nil {
		t.Errorf("overlong key should be rejected")
	}
}
