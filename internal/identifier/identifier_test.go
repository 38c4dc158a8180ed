// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identifier

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType Type
		wantNorm string
	}{
		{"new arxiv", "2301.07041", TypeArxiv, "2301.07041"},
		{"arxiv prefix and version", "arXiv:2301.07041v2", TypeArxiv, "2301.07041v2"},
		{"old arxiv", "hep-th/9901001", TypeArxiv, "hep-th/9901001"},
		{"bare doi", "10.1145/1234567.1234568", TypeDOI, "10.1145/1234567.1234568"},
		{"doi resolver", "https://doi.org/10.1000/182", TypeDOI, "10.1000/182"},
		{"doi scheme", "doi:10.1000/182", TypeDOI, "10.1000/182"},
		{"issn", "0020-7217", TypeISSN, "0020-7217"},
		{"isbn13 hyphenated", "978-0-306-40615-7", TypeISBN, "9780306406157"},
		{"url", "https://example.org/paper.pdf", TypeURL, "https://example.org/paper.pdf"},
		{"whitespace trimmed", "  10.1000/182 ", TypeDOI, "10.1000/182"},
		{"unknown", "hello-world", TypeUnknown, "hello-world"},
		{"empty", "", TypeUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotNorm := Classify(tt.input)
			if gotType != tt.wantType {
				t.Errorf("Classify(%q) type = %v, want %v", tt.input, gotType, tt.wantType)
			}
			if gotNorm != tt.wantNorm {
				t.Errorf("Classify(%q) norm = %q, want %q", tt.input, gotNorm, tt.wantNorm)
			}
		})
	}
}

func TestParseDOI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"simple", "10.1000/182", nil},
		{"sub registrant", "10.1000.10/182", nil},
		{"colon in suffix", "10.1023/A:1022883727209", nil},
		{"lower case suffix", "10.17487/rfc1945", nil},
		{"sici", "10.1002/(SICI)1097-4571(199806)49:8<693::AID-ASI4>3.0.CO;2-0", nil},
		{"dx resolver", "http://dx.doi.org/10.1000/182", nil},
		{"wrong directory", "11.1000/182", ErrDOIPrefix},
		{"garbage", "asdf", ErrDOIPrefix},
		{"letter registrant", "10.a1000/182", ErrDOIRegistrant},
		{"short registrant", "10.100/182", ErrDOIRegistrant},
		{"no suffix", "10.1000", ErrDOISuffix},
		{"space in suffix", "10.1000/18 2", ErrDOISuffix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDOI(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseDOI(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeDOI(t *testing.T) {
	if got := NormalizeDOI("https://doi.org/10.1000/ABC"); got != "10.1000/abc" {
		t.Errorf("NormalizeDOI = %q", got)
	}
	if got := NormalizeDOI("DOI:10.1000/abc"); got != "10.1000/abc" {
		t.Errorf("NormalizeDOI = %q", got)
	}
}

func TestValidISBN(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0-306-40615-2", true},
		{"0306406152", true},
		{"0-8044-2957-X", true},
		{"0-8044-2957-x", true},
		{"978-0-306-40615-7", true},
		{"978 0 306 40615 7", true},
		{"978-0-306-40615-8", false},
		{"0-306-40615-3", false},
		{"X-306-40615-2", false},
		{"123456789", false},
		{"977-0-306-40615-7", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidISBN(tt.input); got != tt.want {
				t.Errorf("ValidISBN(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidISSN(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0020-7217", true},
		{"1687-6180", true},
		{"2434-561x", true},
		{"2434-561X", true},
		{"0020-7218", false},
		{"00207217", false},
		{"0020-721", false},
		{"abcd-efgh", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidISSN(tt.input); got != tt.want {
				t.Errorf("ValidISSN(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
