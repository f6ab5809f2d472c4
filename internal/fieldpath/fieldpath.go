// Package fieldpath provides structured addressing of candidate record
// fields and the bidirectional codec between field paths and the flat
// identifiers used by the question-generation service.
package fieldpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Section identifies a top-level region of a candidate record.
type Section string

// Known sections. SectionBasic covers the scalar fields at the top of
// the record; the rest are ordered collections addressed by entry index.
const (
	SectionBasic          Section = "basic"
	SectionWorkExperience Section = "workExperience"
	SectionEducation      Section = "education"
	SectionCertifications Section = "certifications"
	SectionAchievements   Section = "achievements"
	SectionTechStacks     Section = "techStacks"
	SectionProjects       Section = "projects"
)

// ArraySections lists the repeating sections in canonical scan order.
// Parsing relies on this order for longest-prefix matching, so new
// sections must keep distinct snake_case prefixes.
var ArraySections = []Section{
	SectionWorkExperience,
	SectionEducation,
	SectionCertifications,
	SectionAchievements,
	SectionTechStacks,
	SectionProjects,
}

// FieldPath addresses exactly one scalar slot in a candidate record.
// Index is -1 for basic fields and the zero-based entry index for
// fields inside a repeating section.
type FieldPath struct {
	Section Section `json:"section"`
	Index   int     `json:"index"`
	Leaf    string  `json:"leaf"`
}

// AddressingError reports a malformed or unrecognized field address.
type AddressingError struct {
	Name    string
	Message string
}

func (e *AddressingError) Error() string {
	return fmt.Sprintf("cannot address field %q: %s", e.Name, e.Message)
}

// Basic returns the path of a top-level scalar field.
func Basic(leaf string) FieldPath {
	return FieldPath{Section: SectionBasic, Index: -1, Leaf: leaf}
}

// Entry returns the path of a field inside a repeating section entry.
func Entry(section Section, index int, leaf string) FieldPath {
	return FieldPath{Section: section, Index: index, Leaf: leaf}
}

// IsBasic reports whether the path addresses a top-level scalar field.
func (p FieldPath) IsBasic() bool {
	return p.Section == SectionBasic
}

// String renders the path in dotted form, e.g. "basic.postingTitle" or
// "workExperience[0].benefits".
func (p FieldPath) String() string {
	if p.IsBasic() {
		return fmt.Sprintf("%s.%s", p.Section, p.Leaf)
	}
	return fmt.Sprintf("%s[%d].%s", p.Section, p.Index, p.Leaf)
}

// Encode derives the flat identifier used across the question-service
// boundary. Basic fields encode as the snake_case leaf alone; array
// fields embed the entry index between the section and leaf tokens:
//
//	basic.postingTitle        -> posting_title
//	workExperience[0].benefits -> work_experience_0_benefits
//
// Section and leaf names are camelCase and never contain underscores,
// and the index token is all digits, so the encoding is injective and
// Parse recovers the exact path.
func (p FieldPath) Encode() string {
	if p.IsBasic() {
		return toSnake(p.Leaf)
	}
	return toSnake(string(p.Section)) + "_" + strconv.Itoa(p.Index) + "_" + toSnake(p.Leaf)
}

// Parse is the inverse of Encode. It returns an *AddressingError for
// names that no FieldPath could have produced.
func Parse(name string) (FieldPath, error) {
	if name == "" {
		return FieldPath{}, &AddressingError{Name: name, Message: "empty identifier"}
	}

	for _, section := range ArraySections {
		prefix := toSnake(string(section)) + "_"
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := name[len(prefix):]
		sep := strings.IndexByte(rest, '_')
		if sep <= 0 {
			return FieldPath{}, &AddressingError{Name: name, Message: "missing entry index"}
		}
		token := rest[:sep]
		if len(token) > 1 && token[0] == '0' {
			return FieldPath{}, &AddressingError{Name: name, Message: "invalid entry index"}
		}
		index, err := strconv.Atoi(token)
		if err != nil || index < 0 {
			return FieldPath{}, &AddressingError{Name: name, Message: "invalid entry index"}
		}
		leaf := rest[sep+1:]
		if leaf == "" {
			return FieldPath{}, &AddressingError{Name: name, Message: "missing leaf name"}
		}
		return Entry(section, index, toCamel(leaf)), nil
	}

	// A digit token in a flat name means an array section we do not
	// recognize, not a basic field.
	for _, token := range strings.Split(name, "_") {
		if token == "" {
			return FieldPath{}, &AddressingError{Name: name, Message: "empty path token"}
		}
		if isDigits(token) {
			return FieldPath{}, &AddressingError{Name: name, Message: "unknown section"}
		}
	}

	return Basic(toCamel(name)), nil
}

// toSnake converts a camelCase name to snake_case.
func toSnake(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// toCamel converts a snake_case name back to camelCase.
func toCamel(s string) string {
	parts := strings.Split(s, "_")
	var sb strings.Builder
	sb.Grow(len(s))
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 {
			sb.WriteString(part)
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return sb.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
