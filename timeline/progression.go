package timeline

import (
	"sort"

	"vnexus.com/mtl/types"
)

// AssignProgressionStages groups events by 3-character diagnosis code family
// across the whole document and assigns template stages positionally: the
// i-th chronological event of a family gets the i-th template stage, overflow
// events get the generic progression stage, families without a template stay
// at initial. Stage consistency with the event's own type is not validated;
// the assignment is purely positional.
func AssignProgressionStages(rules *types.RuleSet, events []*types.TimelineEvent) {
	families := make(map[string][]*types.TimelineEvent)
	for _, event := range events {
		seen := make(map[string]bool)
		for _, dx := range event.Diagnoses {
			if len(dx.Code) < 3 {
				continue
			}
			family := dx.Code[:3]
			if !seen[family] {
				seen[family] = true
				families[family] = append(families[family], event)
			}
		}
	}

	// Deterministic family order: an event in several families keeps the
	// stage assigned by the lexicographically last one.
	names := make([]string, 0, len(families))
	for family := range families {
		names = append(names, family)
	}
	sort.Strings(names)

	for _, family := range names {
		template, ok := rules.ProgressionTemplates[family]
		if !ok {
			for _, event := range families[family] {
				event.ProgressionStage = types.StageInitial
			}
			continue
		}
		for i, event := range families[family] {
			if i < len(template.Stages) {
				event.ProgressionStage = template.Stages[i]
			} else {
				event.ProgressionStage = types.StageProgression
			}
		}
	}
}
