package fieldpath

import (
	"errors"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		path FieldPath
		want string
	}{
		{"basic single word", Basic("email"), "email"},
		{"basic camel case", Basic("postingTitle"), "posting_title"},
		{"basic multi word", Basic("expectedSalary"), "expected_salary"},
		{"work experience benefits", Entry(SectionWorkExperience, 0, "benefits"), "work_experience_0_benefits"},
		{"work experience camel leaf", Entry(SectionWorkExperience, 2, "salaryRange"), "work_experience_2_salary_range"},
		{"education entry", Entry(SectionEducation, 1, "fieldOfStudy"), "education_1_field_of_study"},
		{"tech stacks entry", Entry(SectionTechStacks, 0, "yearsOfExperience"), "tech_stacks_0_years_of_experience"},
		{"certifications entry", Entry(SectionCertifications, 3, "credentialId"), "certifications_3_credential_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FieldPath
	}{
		{"basic single word", "email", Basic("email")},
		{"basic camel case", "posting_title", Basic("postingTitle")},
		{"work experience benefits", "work_experience_0_benefits", Entry(SectionWorkExperience, 0, "benefits")},
		{"multi word leaf", "work_experience_2_salary_range", Entry(SectionWorkExperience, 2, "salaryRange")},
		{"education entry", "education_1_field_of_study", Entry(SectionEducation, 1, "fieldOfStudy")},
		{"double digit index", "projects_12_url", Entry(SectionProjects, 12, "url")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing index", "work_experience_benefits"},
		{"missing leaf", "work_experience_0_"},
		{"negative index", "work_experience_-1_benefits"},
		{"leading zero index", "work_experience_01_benefits"},
		{"unknown array section", "side_gigs_0_name"},
		{"trailing underscore", "posting_title_"},
		{"double underscore", "posting__title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got none", tt.input)
			}
			var addrErr *AddressingError
			if !errors.As(err, &addrErr) {
				t.Errorf("Parse(%q) error type = %T, want *AddressingError", tt.input, err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// Every path shape the scanner can produce must survive
	// encode-then-parse unchanged.
	paths := []FieldPath{
		Basic("fullName"),
		Basic("email"),
		Basic("postingTitle"),
		Basic("expectedSalary"),
		Basic("workPreference"),
		Basic("summary"),
		Entry(SectionWorkExperience, 0, "company"),
		Entry(SectionWorkExperience, 0, "benefits"),
		Entry(SectionWorkExperience, 5, "employmentType"),
		Entry(SectionEducation, 0, "institution"),
		Entry(SectionEducation, 3, "fieldOfStudy"),
		Entry(SectionCertifications, 1, "credentialId"),
		Entry(SectionAchievements, 0, "description"),
		Entry(SectionTechStacks, 2, "yearsOfExperience"),
		Entry(SectionProjects, 10, "startDate"),
	}

	for _, p := range paths {
		t.Run(p.String(), func(t *testing.T) {
			encoded := p.Encode()
			decoded, err := Parse(encoded)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", encoded, err)
			}
			if decoded != p {
				t.Errorf("round trip %+v -> %q -> %+v", p, encoded, decoded)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := Basic("postingTitle").String(); got != "basic.postingTitle" {
		t.Errorf("String() = %q, want %q", got, "basic.postingTitle")
	}
	if got := Entry(SectionWorkExperience, 0, "benefits").String(); got != "workExperience[0].benefits" {
		t.Errorf("String() = %q, want %q", got, "workExperience[0].benefits")
	}
}

func TestEncode_Injective(t *testing.T) {
	// Distinct paths across all sections and a few indexes must encode
	// to distinct identifiers.
	seen := map[string]FieldPath{}
	for _, section := range ArraySections {
		for idx := 0; idx < 3; idx++ {
			for _, leaf := range []string{"name", "startDate", "fieldOfStudy"} {
				p := Entry(section, idx, leaf)
				enc := p.Encode()
				if prev, ok := seen[enc]; ok {
					t.Fatalf("collision: %+v and %+v both encode to %q", prev, p, enc)
				}
				seen[enc] = p
			}
		}
	}
}
