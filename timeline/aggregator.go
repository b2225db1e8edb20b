package timeline

import (
	"github.com/google/uuid"

	"vnexus.com/mtl/types"
)

// Aggregate composes the terminal TimelineAnalysis from the fully analyzed
// event list. This step is non-algorithmic; a failure here indicates a
// structural bug and is allowed to propagate.
func Aggregate(documentID string, events []*types.TimelineEvent) *types.TimelineAnalysis {
	return &types.TimelineAnalysis{
		AnalysisID:      uuid.NewString(),
		DocumentID:      documentID,
		Events:          events,
		Summary:         summarize(events),
		RiskAssessment:  assessRisk(events),
		Recommendations: recommend(events),
		Quality:         qualityMetrics(events),
	}
}

func summarize(events []*types.TimelineEvent) types.TimelineSummary {
	summary := types.TimelineSummary{
		TotalEvents:     len(events),
		MajorDiagnoses:  []string{},
		KeyInstitutions: []string{},
		CriticalEvents:  []string{},
	}
	if len(events) > 0 {
		summary.DateRange = &types.DateRange{
			Start: events[0].ServiceDate,
			End:   events[len(events)-1].ServiceDate,
		}
	}
	for _, event := range events {
		for _, dx := range event.Diagnoses {
			if dx.Severity == types.SeverityCritical || dx.Severity == types.SeverityMajor {
				summary.MajorDiagnoses = appendMissing(summary.MajorDiagnoses, []string{dx.Name})
			}
		}
		if event.Institution != "" {
			summary.KeyInstitutions = appendMissing(summary.KeyInstitutions, []string{event.Institution})
		}
		if event.Importance == types.ImportanceHigh {
			summary.CriticalEvents = append(summary.CriticalEvents, event.ID)
		}
	}
	return summary
}

func assessRisk(events []*types.TimelineEvent) types.RiskAssessment {
	assessment := types.RiskAssessment{
		OverallRiskLevel:      types.RiskLow,
		RiskFactors:           []types.RiskFactor{},
		PreExistingConditions: []string{},
	}

	hasCriticalEvent := false
	hasHighFactor := false
	complicated := 0
	seenFactors := make(map[string]bool)

	for _, event := range events {
		if event.InsuranceImpact.RiskLevel == types.RiskCritical {
			hasCriticalEvent = true
		}
		for _, factor := range event.RiskFactors {
			if factor.Severity == types.RiskHigh {
				hasHighFactor = true
			}
			if !seenFactors[factor.Factor] {
				seenFactors[factor.Factor] = true
				assessment.RiskFactors = append(assessment.RiskFactors, factor)
			}
		}
		if event.InsuranceImpact.PreExistingCondition {
			for _, dx := range event.Diagnoses {
				assessment.PreExistingConditions = appendMissing(
					assessment.PreExistingConditions,
					[]string{dx.Code + " " + dx.Name},
				)
			}
		}
		for _, relation := range event.CausalRelations {
			if relation.Kind == types.RelationComplicates {
				complicated++
				break
			}
		}
	}

	switch {
	case hasCriticalEvent:
		assessment.OverallRiskLevel = types.RiskCritical
	case hasHighFactor:
		assessment.OverallRiskLevel = types.RiskHigh
	case len(assessment.RiskFactors) > 0:
		assessment.OverallRiskLevel = types.RiskMedium
	}
	if len(events) > 0 {
		assessment.ComplicationRisk = float64(complicated) / float64(len(events))
	}
	return assessment
}

func recommend(events []*types.TimelineEvent) []types.InsuranceRecommendation {
	recommendations := make([]types.InsuranceRecommendation, 0, 2)

	critical := make([]string, 0)
	preExisting := make([]string, 0)
	for _, event := range events {
		if event.InsuranceImpact.RiskLevel == types.RiskCritical {
			critical = append(critical, event.ID)
		}
		if event.InsuranceImpact.PreExistingCondition {
			preExisting = append(preExisting, event.ID)
		}
	}
	if len(critical) > 0 {
		recommendations = append(recommendations, types.InsuranceRecommendation{
			Kind:        types.RecommendationReview,
			Priority:    types.RiskHigh,
			Description: "critical-risk events require manual claim review",
			Events:      critical,
		})
	}
	if len(preExisting) > 0 {
		recommendations = append(recommendations, types.InsuranceRecommendation{
			Kind:        types.RecommendationInvestigation,
			Priority:    types.RiskMedium,
			Description: "possible pre-existing conditions require disclosure investigation",
			Events:      preExisting,
		})
	}
	return recommendations
}

func qualityMetrics(events []*types.TimelineEvent) types.QualityMetrics {
	if len(events) == 0 {
		return types.QualityMetrics{}
	}
	total := float64(len(events))
	dated, withInstitution, withDiagnosis := 0, 0, 0
	for _, event := range events {
		if !event.ServiceDate.IsZero() {
			dated++
		}
		if event.Institution != "" {
			withInstitution++
		}
		if len(event.Diagnoses) > 0 {
			withDiagnosis++
		}
	}
	coverage := total / 10.0
	if coverage > 1.0 {
		coverage = 1.0
	}
	return types.QualityMetrics{
		Completeness: float64(dated) / total,
		Consistency:  float64(withInstitution) / total,
		Reliability:  float64(withDiagnosis) / total,
		Coverage:     coverage,
	}
}
