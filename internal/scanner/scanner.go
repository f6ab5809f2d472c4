// Package scanner walks a candidate record and produces the ordered
// list of fields that are missing or still need verification.
package scanner

import (
	"fmt"
	"strings"

	"github.com/jonathan/coldcall/internal/fieldpath"
	"github.com/jonathan/coldcall/internal/types"
)

// Scanner extracts empty fields from a candidate record.
//
// The zero value scans for empty values only. When NeedsVerification is
// set, populated fields whose verification status is not yet verified
// are included as well.
type Scanner struct {
	NeedsVerification func(fieldName string) bool
}

// Scan returns the candidate's empty fields using a zero Scanner.
func Scan(rec *types.CandidateRecord) []types.EmptyField {
	var s Scanner
	return s.Scan(rec)
}

// Scan walks the record and returns empty fields in canonical order:
// basic fields first, then each repeating section in fixed order, with
// entries by their position in the record and leaves in a fixed order
// within each entry. The ordering is deterministic; focus-mode
// navigation depends on it.
func (s *Scanner) Scan(rec *types.CandidateRecord) []types.EmptyField {
	if rec == nil {
		return nil
	}

	var fields []types.EmptyField
	add := func(path fieldpath.FieldPath, meta leafMeta, value any) {
		empty := isEmpty(value)
		if !empty && (s.NeedsVerification == nil || !s.NeedsVerification(path.Encode())) {
			return
		}
		fields = append(fields, types.EmptyField{
			Path:       path,
			FieldName:  path.Encode(),
			Label:      meta.label,
			Type:       meta.typ,
			Section:    path.Section,
			Context:    meta.context,
			Options:    meta.options,
			Value:      value,
			EntryIndex: path.Index,
		})
	}

	for _, def := range basicLeaves {
		add(fieldpath.Basic(def.leaf), def.leafMeta, def.value(rec))
	}
	for i, entry := range rec.WorkExperience {
		for _, def := range workExperienceLeaves {
			add(fieldpath.Entry(fieldpath.SectionWorkExperience, i, def.leaf), def.leafMeta, def.value(&entry))
		}
	}
	for i, entry := range rec.Education {
		for _, def := range educationLeaves {
			add(fieldpath.Entry(fieldpath.SectionEducation, i, def.leaf), def.leafMeta, def.value(&entry))
		}
	}
	for i, entry := range rec.Certifications {
		for _, def := range certificationLeaves {
			add(fieldpath.Entry(fieldpath.SectionCertifications, i, def.leaf), def.leafMeta, def.value(&entry))
		}
	}
	for i, entry := range rec.Achievements {
		for _, def := range achievementLeaves {
			add(fieldpath.Entry(fieldpath.SectionAchievements, i, def.leaf), def.leafMeta, def.value(&entry))
		}
	}
	for i, entry := range rec.TechStacks {
		for _, def := range techStackLeaves {
			add(fieldpath.Entry(fieldpath.SectionTechStacks, i, def.leaf), def.leafMeta, def.value(&entry))
		}
	}
	for i, entry := range rec.Projects {
		for _, def := range projectLeaves {
			add(fieldpath.Entry(fieldpath.SectionProjects, i, def.leaf), def.leafMeta, def.value(&entry))
		}
	}

	return fields
}

// isEmpty reports whether a field value counts as missing: nil, empty
// string, empty collection, nil numeric pointer, or a zero benefits
// block.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []string:
		return len(val) == 0
	case *float64:
		return val == nil
	case types.Benefits:
		return val.IsZero()
	default:
		return false
	}
}

// SectionLabel returns a display label for a section.
func SectionLabel(section fieldpath.Section) string {
	switch section {
	case fieldpath.SectionBasic:
		return "Basic information"
	case fieldpath.SectionWorkExperience:
		return "Work experience"
	case fieldpath.SectionEducation:
		return "Education"
	case fieldpath.SectionCertifications:
		return "Certifications"
	case fieldpath.SectionAchievements:
		return "Achievements"
	case fieldpath.SectionTechStacks:
		return "Tech stacks"
	case fieldpath.SectionProjects:
		return "Projects"
	default:
		return string(section)
	}
}

// EntryLabel returns a display label for one entry field, e.g.
// "Work experience #1: Benefits".
func EntryLabel(f types.EmptyField) string {
	if f.EntryIndex < 0 {
		return f.Label
	}
	return fmt.Sprintf("%s #%d: %s", SectionLabel(f.Section), f.EntryIndex+1, f.Label)
}
