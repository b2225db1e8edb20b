package timeline

import (
	"strings"

	"vnexus.com/mtl/types"
)

// AnalyzeRiskFactors appends behavioral, medical and genetic risk factors per
// event from independent keyword checks.
func AnalyzeRiskFactors(rules *types.RuleSet, events []*types.TimelineEvent) {
	for _, event := range events {
		lowered := strings.ToLower(event.Description)

		if hasNeoplasmDiagnosis(event) {
			event.RiskFactors = append(event.RiskFactors, types.RiskFactor{
				Factor:   "neoplasm diagnosis",
				Severity: types.RiskHigh,
				Category: types.RiskCategoryMedical,
				Impact:   "malignancy in history affects coverage and exclusion review",
			})
		}
		if containsAny(lowered, rules.LifestyleKeywords) {
			event.RiskFactors = append(event.RiskFactors, types.RiskFactor{
				Factor:   "lifestyle risk",
				Severity: types.RiskMedium,
				Category: types.RiskCategoryBehavioral,
				Impact:   "smoking/alcohol/substance use noted in record",
			})
		}
		if containsAny(lowered, rules.HereditaryKeywords) {
			event.RiskFactors = append(event.RiskFactors, types.RiskFactor{
				Factor:   "hereditary risk",
				Severity: types.RiskMedium,
				Category: types.RiskCategoryGenetic,
				Impact:   "family history or congenital condition noted in record",
			})
		}
	}
}

func hasNeoplasmDiagnosis(event *types.TimelineEvent) bool {
	for _, dx := range event.Diagnoses {
		if strings.HasPrefix(dx.Code, "C") || strings.HasPrefix(dx.Code, "D0") {
			return true
		}
	}
	return false
}
