package timeline

import (
	"strings"
	"time"

	"vnexus.com/mtl/types"
)

const (
	CoverageCancer         = "cancer_coverage"
	CoverageCardiovascular = "cardiovascular_coverage"
	CoverageSurgicalCost   = "surgical_cost"
	CoverageInpatientCost  = "inpatient_cost"
	CoverageGeneralMedical = "general_medical"
)

// AnalyzeInsuranceImpact scores every event against the configured claim
// date. All numeric scores stay in [0,1].
func AnalyzeInsuranceImpact(rules *types.RuleSet, events []*types.TimelineEvent, claimDate time.Time) {
	for _, event := range events {
		event.InsuranceImpact = types.InsuranceImpact{
			ClaimRelevance:       claimRelevance(rules, event, claimDate),
			RiskLevel:            riskLevel(event),
			CoverageCategory:     coverageCategory(event),
			ExclusionRisk:        exclusionRisk(rules, event),
			PreExistingCondition: preExisting(rules, event, claimDate),
			WaitingPeriodImpact:  containsAny(strings.ToLower(event.Description), rules.WaitingPeriodKeywords),
		}
	}
}

func claimRelevance(rules *types.RuleSet, event *types.TimelineEvent, claimDate time.Time) float64 {
	relevance := 0.0
	gap := daysBetween(event.ServiceDate, claimDate)
	if gap <= rules.ClaimWindowDays {
		relevance += 0.4
	}
	if gap <= rules.RecentWindowDays {
		relevance += 0.3
	}
	if event.HasCriticalDiagnosis() {
		relevance += 0.3
	}
	if relevance > 1.0 {
		relevance = 1.0
	}
	return relevance
}

func riskLevel(event *types.TimelineEvent) types.RiskLevel {
	switch {
	case event.HasCriticalDiagnosis():
		return types.RiskCritical
	case event.EventType == types.EventSurgery, event.EventType == types.EventHospitalization:
		return types.RiskHigh
	case event.HasMajorDiagnosis(),
		event.EventType == types.EventDiagnosis,
		event.EventType == types.EventTreatment:
		return types.RiskMedium
	}
	return types.RiskLow
}

func exclusionRisk(rules *types.RuleSet, event *types.TimelineEvent) float64 {
	lowered := strings.ToLower(event.Description)
	risk := 0.0
	for _, keyword := range rules.ExclusionKeywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			risk += 0.2
		}
	}
	if risk > 1.0 {
		risk = 1.0
	}
	return risk
}

// preExisting flags diagnosis events dated more than the configured window
// before the claim date.
func preExisting(rules *types.RuleSet, event *types.TimelineEvent, claimDate time.Time) bool {
	if event.EventType != types.EventDiagnosis {
		return false
	}
	window := time.Duration(rules.PreExistingWindowDays) * 24 * time.Hour
	return event.ServiceDate.Before(claimDate.Add(-window))
}

// coverageCategory assigns by fixed priority: critical neoplasm codes first,
// then circulatory codes, then surgical and inpatient event types.
func coverageCategory(event *types.TimelineEvent) string {
	for _, dx := range event.Diagnoses {
		if strings.HasPrefix(dx.Code, "C") && dx.Severity == types.SeverityCritical {
			return CoverageCancer
		}
	}
	for _, dx := range event.Diagnoses {
		if strings.HasPrefix(dx.Code, "I") {
			return CoverageCardiovascular
		}
	}
	switch event.EventType {
	case types.EventSurgery:
		return CoverageSurgicalCost
	case types.EventHospitalization:
		return CoverageInpatientCost
	}
	return CoverageGeneralMedical
}

func daysBetween(a time.Time, b time.Time) int {
	gap := b.Sub(a)
	if gap < 0 {
		gap = -gap
	}
	return int(gap.Hours() / 24)
}
