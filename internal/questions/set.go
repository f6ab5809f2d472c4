package questions

import (
	"sort"

	"github.com/jonathan/coldcall/internal/types"
)

// QuestionSet is a field-indexed view over a batch of generated
// questions. Ordered holds the flat list by descending priority; ByField
// maps each targeted field name to its highest-priority question.
// Fields the service returned no question for simply have no entry.
type QuestionSet struct {
	ByField map[string]types.GeneratedQuestion
	Ordered []types.GeneratedQuestion
}

// BuildQuestionSet ranks and indexes a batch of questions. The sort is
// stable so that equal priorities keep the service's order.
func BuildQuestionSet(qs []types.GeneratedQuestion) *QuestionSet {
	ordered := make([]types.GeneratedQuestion, len(qs))
	copy(ordered, qs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	byField := make(map[string]types.GeneratedQuestion, len(ordered))
	for _, q := range ordered {
		if _, ok := byField[q.Field]; !ok {
			byField[q.Field] = q
		}
	}

	return &QuestionSet{ByField: byField, Ordered: ordered}
}
