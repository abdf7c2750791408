package iri

import "testing"

func TestIsAbsolute(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"http://example.com/a", true},
		{"https://example.com/a#frag", true},
		{"urn:isbn:0451450523", true},
		{"relative/path", false},
		{"#frag", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsAbsolute(tc.in); got != tc.want {
			t.Errorf("IsAbsolute(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsIRI(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"http://example.com/a", true},
		{"http://example.com/a#", true},
		{"http://example.com", true},
		{"example.com/a", false},
		{"_:b0", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsIRI(tc.in); got != tc.want {
			t.Errorf("IsIRI(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, val, want string
	}{
		{"http://example.com/dir/doc", "other", "http://example.com/dir/other"},
		{"http://example.com/dir/doc", "/abs", "http://example.com/abs"},
		{"http://example.com/dir/doc", "#frag", "http://example.com/dir/doc#frag"},
		{"http://example.com/dir/doc", "../up", "http://example.com/up"},
		{"http://example.com/dir/", "http://other.com/x", "http://other.com/x"},
	}

	for _, tc := range tests {
		got, err := Resolve(tc.base, tc.val)
		if err != nil {
			t.Errorf("Resolve(%q, %q) returned error: %s", tc.base, tc.val, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tc.base, tc.val, got, tc.want)
		}
	}
}

func TestRelative(t *testing.T) {
	tests := []struct {
		base, iri, want string
		wantErr         bool
	}{
		{base: "http://example.com/dir/doc", iri: "http://example.com/dir/item", want: "item"},
		{base: "http://example.com/dir/", iri: "http://example.com/dir/sub/item", want: "sub/item"},
		{base: "http://example.com/a/b/doc", iri: "http://example.com/a/other", want: "../other"},
		{base: "http://example.com/dir/doc", iri: "http://example.com/dir/doc#frag", want: "#frag"},
		{base: "http://example.com/dir/doc", iri: "https://example.com/dir/doc", wantErr: true},
		{base: "http://example.com/dir/doc", iri: "http://other.com/dir/doc", wantErr: true},
	}

	for _, tc := range tests {
		got, err := Relative(tc.base, tc.iri)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Relative(%q, %q) expected error, got %q", tc.base, tc.iri, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Relative(%q, %q) returned error: %s", tc.base, tc.iri, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Relative(%q, %q) = %q, want %q", tc.base, tc.iri, got, tc.want)
		}
	}
}

func TestEndsInGenDelim(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"http://example.com/", true},
		{"http://example.com/ns#", true},
		{"urn:", true},
		{"http://example.com/name", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := EndsInGenDelim(tc.in); got != tc.want {
			t.Errorf("EndsInGenDelim(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
