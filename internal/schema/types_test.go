package schema

import "testing"

func TestParseType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{in: "integer", want: Int},
		{in: " BIGINT ", want: Int},
		{in: "double", want: Float},
		{in: "boolean", want: Bool},
		{in: "date", want: Date},
		{in: "timestamp", want: Timestamp},
		{in: "string", want: Text},
		{in: "", want: Text},
		{in: "uuid", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseType(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseType(%q) error = nil, want non-nil", tt.in)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseType(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestAssignable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to Type
		want     bool
	}{
		{Int, Int, true},
		{Int, Float, true},
		{Int, Text, true},
		{Float, Text, true},
		{Bool, Text, true},
		{Date, Text, true},
		{Float, Int, false},
		{Text, Int, false},
		{Text, Bool, false},
		{Int, Bool, false},
	}
	for _, tt := range tests {
		if got := Assignable(tt.from, tt.to); got != tt.want {
			t.Errorf("Assignable(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestFireServiceCallsLayout(t *testing.T) {
	t.Parallel()

	if got, want := len(FireServiceCalls), 28; got != want {
		t.Fatalf("len(FireServiceCalls) = %d, want %d", got, want)
	}
	seen := map[string]bool{}
	for _, c := range FireServiceCalls {
		if seen[c.Name] {
			t.Fatalf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
	}
	for _, name := range []string{ColCallNumber, ColCallType, ColCallDate, ColZipcode, ColNumAlarms, ColNeighborhood, ColDelay} {
		if !seen[name] {
			t.Fatalf("query column %q not declared", name)
		}
	}
	names := Names(FireServiceCalls)
	if names[0] != "CallNumber" || names[27] != "Delay" {
		t.Fatalf("Names() order = %v", names)
	}
}
