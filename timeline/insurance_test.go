package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vnexus.com/mtl/types"
)

func analyzeOne(t *testing.T, event *types.MedicalEvent, claimDate time.Time) *types.TimelineEvent {
	t.Helper()
	events := MergeEvents([]*types.MedicalEvent{event})
	require.Len(t, events, 1)
	AnalyzeInsuranceImpact(types.DefaultRuleSet(), events, claimDate)
	return events[0]
}

func TestClaimRelevance(t *testing.T) {
	rules := types.DefaultRuleSet()
	claimDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Recent critical diagnosis saturates", func(t *testing.T) {
		event := testEvent("2024-01-10", "서울병원", types.EventDiagnosis, "C78 diagnosed")
		event.Diagnoses = []types.DiagnosisInfo{rules.NewDiagnosis("C78")}
		analyzed := analyzeOne(t, event, claimDate)
		require.InDelta(t, 1.0, analyzed.InsuranceImpact.ClaimRelevance, 1e-9)
	})

	t.Run("Within claim window only", func(t *testing.T) {
		event := testEvent("2023-12-01", "서울병원", types.EventVisit, "routine visit")
		analyzed := analyzeOne(t, event, claimDate)
		require.InDelta(t, 0.4, analyzed.InsuranceImpact.ClaimRelevance, 1e-9)
	})

	t.Run("Outside every window", func(t *testing.T) {
		event := testEvent("2023-01-01", "서울병원", types.EventVisit, "old visit")
		analyzed := analyzeOne(t, event, claimDate)
		require.Zero(t, analyzed.InsuranceImpact.ClaimRelevance)
	})

	t.Run("Windows apply on both sides of the claim date", func(t *testing.T) {
		event := testEvent("2024-02-10", "서울병원", types.EventVisit, "post-claim visit")
		analyzed := analyzeOne(t, event, claimDate)
		require.InDelta(t, 0.7, analyzed.InsuranceImpact.ClaimRelevance, 1e-9)
	})
}

func TestRiskLevel(t *testing.T) {
	rules := types.DefaultRuleSet()
	claimDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	critical := testEvent("2024-01-10", "서울병원", types.EventVisit, "C78 noted")
	critical.Diagnoses = []types.DiagnosisInfo{rules.NewDiagnosis("C78")}
	require.Equal(t, types.RiskCritical, analyzeOne(t, critical, claimDate).InsuranceImpact.RiskLevel)

	surgery := testEvent("2024-01-10", "서울병원", types.EventSurgery, "appendectomy")
	require.Equal(t, types.RiskHigh, analyzeOne(t, surgery, claimDate).InsuranceImpact.RiskLevel)

	major := testEvent("2024-01-10", "서울병원", types.EventVisit, "I10 noted")
	major.Diagnoses = []types.DiagnosisInfo{rules.NewDiagnosis("I10")}
	require.Equal(t, types.RiskMedium, analyzeOne(t, major, claimDate).InsuranceImpact.RiskLevel)

	routine := testEvent("2024-01-10", "서울병원", types.EventVisit, "routine checkup")
	require.Equal(t, types.RiskLow, analyzeOne(t, routine, claimDate).InsuranceImpact.RiskLevel)
}

func TestExclusionRisk(t *testing.T) {
	claimDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Accumulates per keyword", func(t *testing.T) {
		event := testEvent("2024-01-10", "서울병원", types.EventVisit,
			"chronic congenital condition, possibly pre-existing")
		analyzed := analyzeOne(t, event, claimDate)
		require.InDelta(t, 0.6, analyzed.InsuranceImpact.ExclusionRisk, 1e-9)
	})

	t.Run("Clamped to 1", func(t *testing.T) {
		event := testEvent("2024-01-10", "서울병원", types.EventVisit,
			"pre-existing congenital chronic self-inflicted intoxication 기왕증 만성")
		analyzed := analyzeOne(t, event, claimDate)
		require.InDelta(t, 1.0, analyzed.InsuranceImpact.ExclusionRisk, 1e-9)
	})

	t.Run("Clean description scores zero", func(t *testing.T) {
		event := testEvent("2024-01-10", "서울병원", types.EventVisit, "routine checkup")
		analyzed := analyzeOne(t, event, claimDate)
		require.Zero(t, analyzed.InsuranceImpact.ExclusionRisk)
	})
}

func TestPreExistingCondition(t *testing.T) {
	claimDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Diagnosis older than the window", func(t *testing.T) {
		event := testEvent("2024-01-20", "서울병원", types.EventDiagnosis, "E11 diagnosed")
		analyzed := analyzeOne(t, event, claimDate)
		require.True(t, analyzed.InsuranceImpact.PreExistingCondition)
	})

	t.Run("Diagnosis inside the window", func(t *testing.T) {
		event := testEvent("2024-03-01", "서울병원", types.EventDiagnosis, "E11 diagnosed")
		analyzed := analyzeOne(t, event, claimDate)
		require.False(t, analyzed.InsuranceImpact.PreExistingCondition)
	})

	t.Run("Exactly at the window boundary", func(t *testing.T) {
		event := testEvent("2024-02-01", "서울병원", types.EventDiagnosis, "E11 diagnosed")
		analyzed := analyzeOne(t, event, claimDate)
		require.False(t, analyzed.InsuranceImpact.PreExistingCondition)
	})

	t.Run("Only diagnosis events qualify", func(t *testing.T) {
		event := testEvent("2023-01-01", "서울병원", types.EventVisit, "old visit")
		analyzed := analyzeOne(t, event, claimDate)
		require.False(t, analyzed.InsuranceImpact.PreExistingCondition)
	})
}

func TestCoverageCategory(t *testing.T) {
	rules := types.DefaultRuleSet()
	claimDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Critical neoplasm outranks event type", func(t *testing.T) {
		event := testEvent("2024-01-10", "서울병원", types.EventSurgery, "C78 resection")
		event.Diagnoses = []types.DiagnosisInfo{rules.NewDiagnosis("C78")}
		analyzed := analyzeOne(t, event, claimDate)
		require.Equal(t, CoverageCancer, analyzed.InsuranceImpact.CoverageCategory)
	})

	t.Run("Circulatory codes", func(t *testing.T) {
		event := testEvent("2024-01-10", "서울병원", types.EventVisit, "I10 follow-up")
		event.Diagnoses = []types.DiagnosisInfo{rules.NewDiagnosis("I10")}
		analyzed := analyzeOne(t, event, claimDate)
		require.Equal(t, CoverageCardiovascular, analyzed.InsuranceImpact.CoverageCategory)
	})

	t.Run("Event type fallbacks", func(t *testing.T) {
		surgery := testEvent("2024-01-10", "서울병원", types.EventSurgery, "appendectomy")
		require.Equal(t, CoverageSurgicalCost, analyzeOne(t, surgery, claimDate).InsuranceImpact.CoverageCategory)

		admission := testEvent("2024-01-10", "서울병원", types.EventHospitalization, "observation")
		require.Equal(t, CoverageInpatientCost, analyzeOne(t, admission, claimDate).InsuranceImpact.CoverageCategory)

		visit := testEvent("2024-01-10", "서울병원", types.EventVisit, "checkup")
		require.Equal(t, CoverageGeneralMedical, analyzeOne(t, visit, claimDate).InsuranceImpact.CoverageCategory)
	})
}

func TestWaitingPeriodImpact(t *testing.T) {
	claimDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	flagged := testEvent("2024-01-10", "서울병원", types.EventDiagnosis, "suspected cancer")
	require.True(t, analyzeOne(t, flagged, claimDate).InsuranceImpact.WaitingPeriodImpact)

	clean := testEvent("2024-01-10", "서울병원", types.EventDiagnosis, "sprained ankle")
	require.False(t, analyzeOne(t, clean, claimDate).InsuranceImpact.WaitingPeriodImpact)
}

// Every numeric insurance score stays inside [0,1] regardless of input.
func TestInsuranceScoresStayBounded(t *testing.T) {
	rules := types.DefaultRuleSet()
	claimDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	event := testEvent("2024-01-25", "서울병원", types.EventDiagnosis,
		"C78 cancer, chronic pre-existing congenital self-inflicted intoxication 기왕증 만성 선천성 자해 음주")
	event.Diagnoses = []types.DiagnosisInfo{rules.NewDiagnosis("C78"), rules.NewDiagnosis("I21")}
	events := MergeEvents([]*types.MedicalEvent{event})
	AnalyzeInsuranceImpact(rules, events, claimDate)

	impact := events[0].InsuranceImpact
	require.GreaterOrEqual(t, impact.ClaimRelevance, 0.0)
	require.LessOrEqual(t, impact.ClaimRelevance, 1.0)
	require.GreaterOrEqual(t, impact.ExclusionRisk, 0.0)
	require.LessOrEqual(t, impact.ExclusionRisk, 1.0)
}
