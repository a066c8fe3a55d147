package service

import "testing"

func TestPasswordPolicyViolations(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     int
	}{
		{"compliant", "Str0ng-Pass!", 0},
		{"empty", "", 5},
		{"missing symbol", "Abcdefg1", 1},
		{"missing digit and symbol", "Abcdefgh", 2},
		{"lowercase only", "abcdefgh", 3},
		{"short but otherwise fine", "Ab1!", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := passwordPolicyViolations(tt.password)
			if len(got) != tt.want {
				t.Fatalf("expected %d violations, got %d: %v", tt.want, len(got), got)
			}
		})
	}
}

func TestPasswordPolicyAcceptsEverySymbolInSet(t *testing.T) {
	for _, symbol := range passwordSymbols {
		password := "Abcdefg1" + string(symbol)
		if got := passwordPolicyViolations(password); len(got) != 0 {
			t.Fatalf("symbol %q rejected: %v", symbol, got)
		}
	}
}
