package httpx

import "testing"

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc123", want: "abc123"},
		{name: "case insensitive scheme", header: "bearer abc123", want: "abc123"},
		{name: "extra whitespace", header: "Bearer   abc123", want: "abc123"},
		{name: "missing header", header: "", wantErr: true},
		{name: "blank header", header: "   ", wantErr: true},
		{name: "wrong scheme", header: "Basic abc123", wantErr: true},
		{name: "scheme only", header: "Bearer", wantErr: true},
		{name: "too many parts", header: "Bearer abc 123", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := bearerToken(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got token %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
