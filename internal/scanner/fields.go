package scanner

import (
	"github.com/jonathan/coldcall/internal/types"
)

// leafMeta holds the display and capture metadata for one leaf field.
type leafMeta struct {
	leaf    string
	label   string
	typ     types.FieldType
	options []string
	context string
}

type basicLeaf struct {
	leafMeta
	value func(*types.CandidateRecord) any
}

type workExperienceLeaf struct {
	leafMeta
	value func(*types.WorkExperience) any
}

type educationLeaf struct {
	leafMeta
	value func(*types.Education) any
}

type certificationLeaf struct {
	leafMeta
	value func(*types.Certification) any
}

type achievementLeaf struct {
	leafMeta
	value func(*types.Achievement) any
}

type techStackLeaf struct {
	leafMeta
	value func(*types.TechStack) any
}

type projectLeaf struct {
	leafMeta
	value func(*types.Project) any
}

// Select-style option lists. Shared with the question service via the
// EmptyField descriptors, so keep the values stable.
var (
	noticePeriodOptions   = []string{"immediate", "2 weeks", "1 month", "2 months", "3+ months"}
	workPreferenceOptions = []string{"remote", "hybrid", "onsite"}
	employmentTypeOptions = []string{"full-time", "part-time", "contract", "internship"}
	proficiencyOptions    = []string{"beginner", "intermediate", "advanced", "expert"}
)

// basicLeaves defines the top-level scalar fields in scan order.
var basicLeaves = []basicLeaf{
	{leafMeta{leaf: "fullName", label: "Full name", typ: types.FieldTypeText},
		func(r *types.CandidateRecord) any { return r.FullName }},
	{leafMeta{leaf: "email", label: "Email", typ: types.FieldTypeText},
		func(r *types.CandidateRecord) any { return r.Email }},
	{leafMeta{leaf: "phone", label: "Phone", typ: types.FieldTypeText},
		func(r *types.CandidateRecord) any { return r.Phone }},
	{leafMeta{leaf: "location", label: "Location", typ: types.FieldTypeCombobox},
		func(r *types.CandidateRecord) any { return r.Location }},
	{leafMeta{leaf: "postingTitle", label: "Posting title", typ: types.FieldTypeText},
		func(r *types.CandidateRecord) any { return r.PostingTitle }},
	{leafMeta{leaf: "expectedSalary", label: "Expected salary", typ: types.FieldTypeNumber,
		context: "Annual gross, in the candidate's local currency"},
		func(r *types.CandidateRecord) any { return r.ExpectedSalary }},
	{leafMeta{leaf: "noticePeriod", label: "Notice period", typ: types.FieldTypeSelect,
		options: noticePeriodOptions},
		func(r *types.CandidateRecord) any { return r.NoticePeriod }},
	{leafMeta{leaf: "workPreference", label: "Work preference", typ: types.FieldTypeSelect,
		options: workPreferenceOptions,
		context: "Ask which arrangement the candidate actually prefers, not what they would accept"},
		func(r *types.CandidateRecord) any { return r.WorkPreference }},
	{leafMeta{leaf: "summary", label: "Summary", typ: types.FieldTypeTextarea},
		func(r *types.CandidateRecord) any { return r.Summary }},
}

// workExperienceLeaves defines the per-entry fields in scan order.
var workExperienceLeaves = []workExperienceLeaf{
	{leafMeta{leaf: "company", label: "Company", typ: types.FieldTypeText},
		func(e *types.WorkExperience) any { return e.Company }},
	{leafMeta{leaf: "title", label: "Job title", typ: types.FieldTypeText},
		func(e *types.WorkExperience) any { return e.Title }},
	{leafMeta{leaf: "startDate", label: "Start date", typ: types.FieldTypeDate},
		func(e *types.WorkExperience) any { return e.StartDate }},
	{leafMeta{leaf: "endDate", label: "End date", typ: types.FieldTypeDate},
		func(e *types.WorkExperience) any { return e.EndDate }},
	{leafMeta{leaf: "employmentType", label: "Employment type", typ: types.FieldTypeSelect,
		options: employmentTypeOptions},
		func(e *types.WorkExperience) any { return e.EmploymentType }},
	{leafMeta{leaf: "salaryRange", label: "Salary range", typ: types.FieldTypeText},
		func(e *types.WorkExperience) any { return e.SalaryRange }},
	{leafMeta{leaf: "benefits", label: "Benefits", typ: types.FieldTypeBenefits,
		context: "Health insurance, paid time off, bonus or anything else on top of base salary"},
		func(e *types.WorkExperience) any { return e.Benefits }},
	{leafMeta{leaf: "description", label: "Description", typ: types.FieldTypeTextarea},
		func(e *types.WorkExperience) any { return e.Description }},
}

var educationLeaves = []educationLeaf{
	{leafMeta{leaf: "institution", label: "Institution", typ: types.FieldTypeText},
		func(e *types.Education) any { return e.Institution }},
	{leafMeta{leaf: "degree", label: "Degree", typ: types.FieldTypeText},
		func(e *types.Education) any { return e.Degree }},
	{leafMeta{leaf: "fieldOfStudy", label: "Field of study", typ: types.FieldTypeText},
		func(e *types.Education) any { return e.FieldOfStudy }},
	{leafMeta{leaf: "startDate", label: "Start date", typ: types.FieldTypeDate},
		func(e *types.Education) any { return e.StartDate }},
	{leafMeta{leaf: "endDate", label: "End date", typ: types.FieldTypeDate},
		func(e *types.Education) any { return e.EndDate }},
	{leafMeta{leaf: "grade", label: "Grade", typ: types.FieldTypeText},
		func(e *types.Education) any { return e.Grade }},
}

var certificationLeaves = []certificationLeaf{
	{leafMeta{leaf: "name", label: "Certification name", typ: types.FieldTypeText},
		func(e *types.Certification) any { return e.Name }},
	{leafMeta{leaf: "issuer", label: "Issuer", typ: types.FieldTypeText},
		func(e *types.Certification) any { return e.Issuer }},
	{leafMeta{leaf: "issueDate", label: "Issue date", typ: types.FieldTypeDate},
		func(e *types.Certification) any { return e.IssueDate }},
	{leafMeta{leaf: "expiryDate", label: "Expiry date", typ: types.FieldTypeDate},
		func(e *types.Certification) any { return e.ExpiryDate }},
	{leafMeta{leaf: "credentialId", label: "Credential ID", typ: types.FieldTypeText},
		func(e *types.Certification) any { return e.CredentialID }},
}

var achievementLeaves = []achievementLeaf{
	{leafMeta{leaf: "title", label: "Title", typ: types.FieldTypeText},
		func(e *types.Achievement) any { return e.Title }},
	{leafMeta{leaf: "date", label: "Date", typ: types.FieldTypeDate},
		func(e *types.Achievement) any { return e.Date }},
	{leafMeta{leaf: "description", label: "Description", typ: types.FieldTypeTextarea},
		func(e *types.Achievement) any { return e.Description }},
}

var techStackLeaves = []techStackLeaf{
	{leafMeta{leaf: "name", label: "Technology", typ: types.FieldTypeCombobox},
		func(e *types.TechStack) any { return e.Name }},
	{leafMeta{leaf: "proficiency", label: "Proficiency", typ: types.FieldTypeSelect,
		options: proficiencyOptions},
		func(e *types.TechStack) any { return e.Proficiency }},
	{leafMeta{leaf: "yearsOfExperience", label: "Years of experience", typ: types.FieldTypeNumber},
		func(e *types.TechStack) any { return e.YearsOfExperience }},
}

var projectLeaves = []projectLeaf{
	{leafMeta{leaf: "name", label: "Project name", typ: types.FieldTypeText},
		func(e *types.Project) any { return e.Name }},
	{leafMeta{leaf: "role", label: "Role", typ: types.FieldTypeText},
		func(e *types.Project) any { return e.Role }},
	{leafMeta{leaf: "url", label: "URL", typ: types.FieldTypeText},
		func(e *types.Project) any { return e.URL }},
	{leafMeta{leaf: "startDate", label: "Start date", typ: types.FieldTypeDate},
		func(e *types.Project) any { return e.StartDate }},
	{leafMeta{leaf: "endDate", label: "End date", typ: types.FieldTypeDate},
		func(e *types.Project) any { return e.EndDate }},
	{leafMeta{leaf: "description", label: "Description", typ: types.FieldTypeTextarea},
		func(e *types.Project) any { return e.Description }},
}
