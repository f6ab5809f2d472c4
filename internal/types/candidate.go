// Package types provides type definitions for structured data used throughout the cold-call verification system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// CandidateRecord is the candidate profile consumed read-only by the
// verification workflow. Scalar fields live at the top level; the
// repeating sections are ordered collections addressed by entry index.
// JSON tags are camelCase to match the dashboard payloads the record
// arrives in.
type CandidateRecord struct {
	ID             string   `json:"id"`
	FullName       string   `json:"fullName"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Location       string   `json:"location"`
	PostingTitle   string   `json:"postingTitle"`
	ExpectedSalary *float64 `json:"expectedSalary"`
	NoticePeriod   string   `json:"noticePeriod"`
	WorkPreference string   `json:"workPreference"`
	Summary        string   `json:"summary"`

	WorkExperience []WorkExperience `json:"workExperience"`
	Education      []Education      `json:"education"`
	Certifications []Certification  `json:"certifications"`
	Achievements   []Achievement    `json:"achievements"`
	TechStacks     []TechStack      `json:"techStacks"`
	Projects       []Project        `json:"projects"`
}

// WorkExperience is one employment entry.
type WorkExperience struct {
	Company        string   `json:"company"`
	Title          string   `json:"title"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	EmploymentType string   `json:"employmentType"`
	SalaryRange    string   `json:"salaryRange"`
	Benefits       Benefits `json:"benefits"`
	Description    string   `json:"description"`
}

// Benefits is the structured benefits block attached to a work
// experience entry.
type Benefits struct {
	HealthInsurance bool     `json:"healthInsurance"`
	PaidTimeOffDays int      `json:"paidTimeOffDays"`
	Bonus           string   `json:"bonus"`
	Other           []string `json:"other"`
}

// IsZero reports whether no benefit information has been captured.
func (b Benefits) IsZero() bool {
	return !b.HealthInsurance && b.PaidTimeOffDays == 0 && b.Bonus == "" && len(b.Other) == 0
}

// Education is one education entry.
type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Grade        string `json:"grade"`
}

// Certification is one certification entry.
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssueDate    string `json:"issueDate"`
	ExpiryDate   string `json:"expiryDate"`
	CredentialID string `json:"credentialId"`
}

// Achievement is one achievement entry.
type Achievement struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// TechStack is one technology proficiency entry.
type TechStack struct {
	Name              string   `json:"name"`
	Proficiency       string   `json:"proficiency"`
	YearsOfExperience *float64 `json:"yearsOfExperience"`
}

// Project is one independent project entry.
type Project struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	URL         string `json:"url"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}
