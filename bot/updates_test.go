package bot

import "testing"

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data   string
		action string
		id     int64
		ok     bool
	}{
		{"ap:123", "approve", 123, true},
		{"rj:9", "reject", 9, true},
		{"ap:0", "", 0, false},
		{"ap:-5", "", 0, false},
		{"ap:abc", "", 0, false},
		{"ap:", "", 0, false},
		{"t:payment", "", 0, false},
		{"", "", 0, false},
		{"approve:123", "", 0, false},
	}
	for _, tt := range tests {
		action, id, ok := parseCallback(tt.data)
		if action != tt.action || id != tt.id || ok != tt.ok {
			t.Errorf("parseCallback(%q) = (%q, %d, %v), want (%q, %d, %v)",
				tt.data, action, id, ok, tt.action, tt.id, tt.ok)
		}
	}
}
