package youtube

import "testing"

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"hours minutes seconds", "PT1H2M3S", 3723, false},
		{"minutes seconds", "PT4M13S", 253, false},
		{"seconds only", "PT45S", 45, false},
		{"minutes only", "PT10M", 600, false},
		{"hours only", "PT2H", 7200, false},
		{"zero-length live placeholder", "PT0S", 0, false},
		{"missing prefix", "invalid", 0, true},
		{"empty string", "", 0, true},
		{"garbage hours", "PTxH", 0, true},
		{"day component unsupported", "P1DT2H", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
