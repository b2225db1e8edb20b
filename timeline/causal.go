package timeline

import (
	"fmt"
	"strings"
	"time"

	"vnexus.com/mtl/types"
)

// InferRelations runs the pairwise causal pass over the date-sorted timeline.
// It must only run after every chunk has been merged in, since relation
// direction depends on the final chronological order. Each inferred relation
// is attached to the later event pointing back at the earlier one, with the
// structurally inverse kind attached to the earlier event.
func InferRelations(rules *types.RuleSet, events []*types.TimelineEvent) {
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			earlier, later := events[i], events[j]
			relation, ok := inferPair(rules, earlier, later)
			if !ok {
				continue
			}
			attachRelation(earlier, later, relation)
		}
	}
}

func inferPair(rules *types.RuleSet, earlier *types.TimelineEvent, later *types.TimelineEvent) (types.CausalRelation, bool) {
	combined := strings.ToLower(earlier.Description + " " + later.Description)

	// 1. Ordered keyword rule table, first match wins.
	for _, rule := range rules.CausalRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(combined, strings.ToLower(keyword)) {
				return types.CausalRelation{
					Kind:       rule.Kind,
					Confidence: rule.Confidence,
					Evidence:   fmt.Sprintf("keyword: %s", keyword),
				}, true
			}
		}
	}

	// 2. Shared diagnosis code family.
	if family, ok := sharedDiagnosisFamily(earlier, later); ok {
		return types.CausalRelation{
			Kind:       types.RelationRelatedTo,
			Confidence: 0.6,
			Evidence:   fmt.Sprintf("shared diagnosis family: %s", family),
		}, true
	}

	// 3. Temporal proximity at the same institution.
	gap := later.ServiceDate.Sub(earlier.ServiceDate)
	proximity := time.Duration(rules.CausalProximityDays) * 24 * time.Hour
	if gap <= proximity && earlier.Institution != "" && earlier.Institution == later.Institution {
		return types.CausalRelation{
			Kind:       types.RelationFollows,
			Confidence: 0.4,
			Evidence:   fmt.Sprintf("within %d days at %s", rules.CausalProximityDays, earlier.Institution),
		}, true
	}
	return types.CausalRelation{}, false
}

func attachRelation(earlier *types.TimelineEvent, later *types.TimelineEvent, relation types.CausalRelation) {
	later.CausalRelations = append(later.CausalRelations, types.CausalRelation{
		TargetEventID: earlier.ID,
		Kind:          relation.Kind,
		Confidence:    relation.Confidence,
		Evidence:      relation.Evidence,
	})
	earlier.CausalRelations = append(earlier.CausalRelations, types.CausalRelation{
		TargetEventID: later.ID,
		Kind:          relation.Kind.Invert(),
		Confidence:    relation.Confidence,
		Evidence:      relation.Evidence,
	})
	later.RelatedEvents = appendMissing(later.RelatedEvents, []string{earlier.ID})
	earlier.RelatedEvents = appendMissing(earlier.RelatedEvents, []string{later.ID})
}

func sharedDiagnosisFamily(a *types.TimelineEvent, b *types.TimelineEvent) (string, bool) {
	for _, dxA := range a.Diagnoses {
		if len(dxA.Code) < 3 {
			continue
		}
		prefix := dxA.Code[:3]
		for _, dxB := range b.Diagnoses {
			if len(dxB.Code) >= 3 && dxB.Code[:3] == prefix {
				return prefix, true
			}
		}
	}
	return "", false
}
