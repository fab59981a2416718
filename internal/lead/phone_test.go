package lead_test

import (
	"errors"
	"testing"

	"leadtrack/internal/lead"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw     string
		cc      string
		want    string
		wantErr bool
	}{
		{raw: "9876543210", cc: "91", want: "+919876543210"},
		{raw: "98765 43210", cc: "91", want: "+919876543210"},
		{raw: "+91 98765-43210", cc: "91", want: "+919876543210"},
		{raw: "919876543210", cc: "91", want: "+919876543210"},
		{raw: "(415) 555-0134", cc: "1", want: "+14155550134"},
		{raw: "9876543210", cc: "", want: "+919876543210"},
		{raw: "12345", cc: "91", wantErr: true},
		{raw: "449876543210", cc: "91", wantErr: true},
		{raw: "", cc: "91", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := lead.NormalizePhone(tt.raw, tt.cc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizePhone(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, lead.ErrInvalidPhone) {
					t.Errorf("NormalizePhone(%q) error = %v, want %v", tt.raw, err, lead.ErrInvalidPhone)
				}
				return
			}
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMatchKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "98765 43210", want: "+919876543210"},
		{raw: "1800 11 22", want: "18001122"},
		{raw: " 121 ", want: "121"},
	}
	for _, tt := range tests {
		if got := lead.MatchKey(tt.raw, "91"); got != tt.want {
			t.Errorf("MatchKey(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
