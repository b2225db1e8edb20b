package types

import "time"

type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

type ProgressionStage string

const (
	StageInitial      ProgressionStage = "initial"
	StageProgression  ProgressionStage = "progression"
	StageTreatment    ProgressionStage = "treatment"
	StageRecovery     ProgressionStage = "recovery"
	StageComplication ProgressionStage = "complication"
)

type RiskCategory string

const (
	RiskCategoryMedical       RiskCategory = "medical"
	RiskCategoryBehavioral    RiskCategory = "behavioral"
	RiskCategoryEnvironmental RiskCategory = "environmental"
	RiskCategoryGenetic       RiskCategory = "genetic"
)

type InsuranceImpact struct {
	ClaimRelevance       float64   `json:"claim_relevance"`
	RiskLevel            RiskLevel `json:"risk_level"`
	CoverageCategory     string    `json:"coverage_category"`
	ExclusionRisk        float64   `json:"exclusion_risk"`
	PreExistingCondition bool      `json:"pre_existing_condition"`
	WaitingPeriodImpact  bool      `json:"waiting_period_impact"`
}

type RiskFactor struct {
	Factor   string       `json:"factor"`
	Severity RiskLevel    `json:"severity"`
	Category RiskCategory `json:"category"`
	Impact   string       `json:"impact"`
}

// TimelineEvent is a MedicalEvent after the analyzer stages have run. It is
// mutated in place by each stage and never reused across analyses.
type TimelineEvent struct {
	MedicalEvent
	TimelinePosition int              `json:"timeline_position"`
	RelatedEvents    []string         `json:"related_events"`
	CausalRelations  []CausalRelation `json:"causal_relations"`
	InsuranceImpact  InsuranceImpact  `json:"insurance_impact"`
	RiskFactors      []RiskFactor     `json:"risk_factors"`
	ProgressionStage ProgressionStage `json:"progression_stage"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type TimelineSummary struct {
	TotalEvents     int        `json:"total_events"`
	DateRange       *DateRange `json:"date_range,omitempty"`
	MajorDiagnoses  []string   `json:"major_diagnoses"`
	KeyInstitutions []string   `json:"key_institutions"`
	CriticalEvents  []string   `json:"critical_events"`
}

type RiskAssessment struct {
	OverallRiskLevel      RiskLevel    `json:"overall_risk_level"`
	RiskFactors           []RiskFactor `json:"risk_factors"`
	PreExistingConditions []string     `json:"pre_existing_conditions"`
	ComplicationRisk      float64      `json:"complication_risk"`
}

type RecommendationKind string

const (
	RecommendationReview        RecommendationKind = "REVIEW"
	RecommendationInvestigation RecommendationKind = "INVESTIGATION"
)

type InsuranceRecommendation struct {
	Kind        RecommendationKind `json:"type"`
	Priority    RiskLevel          `json:"priority"`
	Description string             `json:"description"`
	Events      []string           `json:"events"`
}

type QualityMetrics struct {
	Completeness float64 `json:"completeness"`
	Consistency  float64 `json:"consistency"`
	Reliability  float64 `json:"reliability"`
	Coverage     float64 `json:"coverage"`
}

// TimelineAnalysis is the terminal aggregate returned once per document run.
// All cross-references inside it are by event ID so the structure survives
// JSON round-trips without internal pointers.
type TimelineAnalysis struct {
	AnalysisID      string                    `json:"analysis_id"`
	DocumentID      string                    `json:"document_id"`
	Events          []*TimelineEvent          `json:"events"`
	Summary         TimelineSummary           `json:"summary"`
	RiskAssessment  RiskAssessment            `json:"risk_assessment"`
	Recommendations []InsuranceRecommendation `json:"recommendations"`
	Quality         QualityMetrics            `json:"quality_metrics"`
}
