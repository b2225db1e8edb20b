package timeline

import (
	"fmt"
	"sort"

	"vnexus.com/mtl/types"
)

type mergeKey struct {
	serviceDay  string
	institution string
	eventType   types.EventType
}

// MergeEvents combines constructed events that share (service date,
// institution, event type) and returns the date-sorted timeline with
// positions assigned. Field sets are merged as unions, so merge order only
// affects concatenation order of the free-text fields.
func MergeEvents(events []*types.MedicalEvent) []*types.TimelineEvent {
	groups := make(map[mergeKey]*types.MedicalEvent)
	order := make([]mergeKey, 0)

	for _, event := range events {
		key := mergeKey{
			serviceDay:  event.ServiceDate.Format("2006-01-02"),
			institution: event.Institution,
			eventType:   event.EventType,
		}
		existing, ok := groups[key]
		if !ok {
			clone := *event
			groups[key] = &clone
			order = append(order, key)
			continue
		}
		mergeInto(existing, event)
	}

	timeline := make([]*types.TimelineEvent, 0, len(order))
	for _, key := range order {
		merged := groups[key]
		merged.ID = types.NewEventID(merged.Description, merged.ServiceDate)
		timeline = append(timeline, &types.TimelineEvent{
			MedicalEvent:     *merged,
			RelatedEvents:    []string{},
			CausalRelations:  []types.CausalRelation{},
			RiskFactors:      []types.RiskFactor{},
			ProgressionStage: types.StageInitial,
		})
	}

	sort.SliceStable(timeline, func(i, j int) bool {
		if !timeline[i].ServiceDate.Equal(timeline[j].ServiceDate) {
			return timeline[i].ServiceDate.Before(timeline[j].ServiceDate)
		}
		// Deterministic order for same-day events.
		return sortKey(timeline[i]) < sortKey(timeline[j])
	})
	for position, event := range timeline {
		event.TimelinePosition = position
	}
	return timeline
}

func mergeInto(dst *types.MedicalEvent, src *types.MedicalEvent) {
	dst.Description += "; " + src.Description
	dst.RawText += "\n" + src.RawText
	for _, dx := range src.Diagnoses {
		if !containsDiagnosis(dst.Diagnoses, dx.Code) {
			dst.Diagnoses = append(dst.Diagnoses, dx)
		}
	}
	dst.Procedures = appendMissing(dst.Procedures, src.Procedures)
	dst.Medications = appendMissing(dst.Medications, src.Medications)
	if src.Confidence > dst.Confidence {
		dst.Confidence = src.Confidence
	}
	if src.InsuranceRelevance > dst.InsuranceRelevance {
		dst.InsuranceRelevance = src.InsuranceRelevance
	}
	if importanceRank(src.Importance) > importanceRank(dst.Importance) {
		dst.Importance = src.Importance
	}
	if dst.RecordDate == nil {
		dst.RecordDate = src.RecordDate
	}
	dst.Anchors.TemporalAnchors = appendMissing(dst.Anchors.TemporalAnchors, src.Anchors.TemporalAnchors)
	dst.Anchors.SpatialAnchors = appendMissing(dst.Anchors.SpatialAnchors, src.Anchors.SpatialAnchors)
	dst.Anchors.MedicalAnchors = appendMissing(dst.Anchors.MedicalAnchors, src.Anchors.MedicalAnchors)
	dst.Anchors.CausalAnchors = appendMissing(dst.Anchors.CausalAnchors, src.Anchors.CausalAnchors)
	dst.Anchors.IsAnchorEvent = dst.Anchors.IsAnchorEvent || src.Anchors.IsAnchorEvent
	if src.Anchors.Confidence > dst.Anchors.Confidence {
		dst.Anchors.Confidence = src.Anchors.Confidence
	}
}

func importanceRank(importance types.Importance) int {
	switch importance {
	case types.ImportanceHigh:
		return 2
	case types.ImportanceMedium:
		return 1
	}
	return 0
}

func sortKey(event *types.TimelineEvent) string {
	return fmt.Sprintf("%s|%s|%s", event.Institution, event.EventType, event.ID)
}
