package reminderRepo

import "testing"

func TestLedgerField(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "2026-10-17T08:00", want: "notifiedTimes.2026-10-17T08:00"},
		{key: "", wantErr: true},
		{key: "2026.10.17T08:00", wantErr: true},
		{key: "$where", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ledgerField(tt.key)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ledgerField(%q): expected error, got %q", tt.key, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ledgerField(%q): unexpected error %v", tt.key, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ledgerField(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
