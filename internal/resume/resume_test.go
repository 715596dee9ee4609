package resume

import (
	"errors"
	"reflect"
	"testing"
)

func TestMatchSkills(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "short tokens need word boundaries",
			text: "Built a Django app in Python; deployed to AWS. Good at C++ and Go.",
			want: []string{"AWS", "C++", "Django", "Go", "Python"},
		},
		{
			name: "short tokens inside words do not match",
			text: "Algorithms, Google, mailing lists, Ergonomics",
			want: []string{},
		},
		{
			name: "long tokens match by containment",
			text: "JAVASCRIPT and machine learning enthusiast",
			want: []string{"Java", "JavaScript", "Machine Learning"},
		},
		{
			name: "punctuated short token",
			text: "Languages: C#, SQL.",
			want: []string{"C#", "SQL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchSkills(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMatchSkillsSortedCaseInsensitive(t *testing.T) {
	got := MatchSkills("iOS Android Kotlin")
	want := []string{"Android", "iOS", "Kotlin"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     error
	}{
		{name: "empty", filename: "cv.pdf", data: nil, want: ErrEmptyFile},
		{name: "wrong extension and content", filename: "cv.docx", data: []byte("PK\x03\x04"), want: ErrNotPDF},
		{name: "pdf extension", filename: "CV.PDF", data: []byte("anything"), want: nil},
		{name: "pdf signature", filename: "upload", data: []byte("%PDF-1.7\n"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.filename, tt.data); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseRejectsBrokenPDF(t *testing.T) {
	_, err := Parse("cv.pdf", []byte("%PDF-1.4\nthis is not really a pdf"))
	if err == nil {
		t.Fatal("expected extraction error")
	}
	if errors.Is(err, ErrNotPDF) || errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected an extraction error, got validation error %v", err)
	}
}

func TestParseValidationError(t *testing.T) {
	if _, err := Parse("notes.txt", []byte("hello")); !errors.Is(err, ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
}
