package identifier

import "testing"

func TestParseRequestType(t *testing.T) {
	tests := []struct {
		input  string
		want   RequestType
		wantOK bool
	}{
		{"user", User, true},
		{"projects", Projects, true},
		{"posts", Posts, true},
		{"blurb", Blurb, true},
		{"", "", false},
		{"User", "", false}, // case sensitive
		{"snippets", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseRequestType(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseRequestType(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseRequestType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
