package models

import "testing"

func TestCanonicalStatus(t *testing.T) {
	cases := []struct {
		in        string
		want      string
		wantMatch bool
	}{
		{"Processing", StatusProcessing, true},
		{"processing", StatusProcessing, true},
		{"  COMPLETED  ", StatusCompleted, true},
		{"hand over for delivery", StatusHandOver, true},
		{"FINISH", StatusFinish, true},
		{"delivered", StatusDelivered, true},
		{"shipped", "", false},
		{"", "", false},
		{"Finishh", "", false},
	}

	for _, tc := range cases {
		got, ok := CanonicalStatus(tc.in)
		if ok != tc.wantMatch {
			t.Errorf("CanonicalStatus(%q) matched=%v, want %v", tc.in, ok, tc.wantMatch)
			continue
		}
		if got != tc.want {
			t.Errorf("CanonicalStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
