package types

import (
	"fmt"
	"time"

	"vnexus.com/mtl/utils"
)

type EventType string

const (
	EventVisit           EventType = "visit"
	EventDiagnosis       EventType = "diagnosis"
	EventExamination     EventType = "examination"
	EventHospitalization EventType = "hospitalization"
	EventSurgery         EventType = "surgery"
	EventMedication      EventType = "medication"
	EventTreatment       EventType = "treatment"
	EventInsurance       EventType = "insurance"
	EventClaim           EventType = "claim"
	EventOther           EventType = "other"
)

func (t EventType) Valid() bool {
	switch t {
	case EventVisit, EventDiagnosis, EventExamination, EventHospitalization,
		EventSurgery, EventMedication, EventTreatment, EventInsurance,
		EventClaim, EventOther:
		return true
	}
	return false
}

// OrDefault maps anything outside the closed set to EventOther.
func (t EventType) OrDefault() EventType {
	if t.Valid() {
		return t
	}
	return EventOther
}

type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

type AnchorType string

const (
	AnchorTemporal AnchorType = "TEMPORAL"
	AnchorSpatial  AnchorType = "SPATIAL"
	AnchorMedical  AnchorType = "MEDICAL"
	AnchorCausal   AnchorType = "CAUSAL"
	AnchorNone     AnchorType = "NONE"
)

type DiagnosisInfo struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
}

type AnchorInfo struct {
	TemporalAnchors []string `json:"temporal_anchors"`
	SpatialAnchors  []string `json:"spatial_anchors"`
	MedicalAnchors  []string `json:"medical_anchors"`
	CausalAnchors   []string `json:"causal_anchors"`
	IsAnchorEvent   bool     `json:"is_anchor_event"`
	Confidence      float64  `json:"confidence"`
}

type MedicalEvent struct {
	ID                 string          `json:"event_id"`
	ServiceDate        time.Time       `json:"service_date"`
	RecordDate         *time.Time      `json:"record_date,omitempty"`
	Institution        string          `json:"institution"`
	EventType          EventType       `json:"event_type"`
	Description        string          `json:"description"`
	Diagnoses          []DiagnosisInfo `json:"diagnoses"`
	Procedures         []string        `json:"procedures"`
	Medications        []string        `json:"medications"`
	Anchors            AnchorInfo      `json:"anchors"`
	Confidence         float64         `json:"confidence"`
	Importance         Importance      `json:"importance"`
	InsuranceRelevance float64         `json:"insurance_relevance"`
	RawText            string          `json:"raw_text"`
}

// NewEventID derives a stable identifier from the event description and
// service date so reruns over the same document produce the same IDs.
func NewEventID(description string, serviceDate time.Time) string {
	hash := utils.HashString(description)
	return fmt.Sprintf("evt_%s_%012x", serviceDate.Format("20060102"), hash&0xffffffffffff)
}

func (event *MedicalEvent) HasCriticalDiagnosis() bool {
	for _, dx := range event.Diagnoses {
		if dx.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

func (event *MedicalEvent) HasMajorDiagnosis() bool {
	for _, dx := range event.Diagnoses {
		if dx.Severity == SeverityMajor {
			return true
		}
	}
	return false
}
