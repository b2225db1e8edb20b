package timeline

import (
	"context"
	"strings"
	"time"

	"vnexus.com/mtl/anchor"
	"vnexus.com/mtl/recognizer"
	"vnexus.com/mtl/types"
	"vnexus.com/mtl/utils"
)

const fallbackDescriptionLimit = 200

// Constructor walks a chunk's sentences and opens, extends and closes event
// records based on the recognizer output and the anchor judgments.
type Constructor struct {
	rules      *types.RuleSet
	recognizer *recognizer.Recognizer
	judge      anchor.Judge
}

func NewConstructor(rules *types.RuleSet, rec *recognizer.Recognizer, judge anchor.Judge) *Constructor {
	return &Constructor{
		rules:      rules,
		recognizer: rec,
		judge:      judge,
	}
}

// ConstructEvents builds the event records for one chunk. Any panic during
// construction surfaces as an error; the engine substitutes a fallback event
// so the chunk is never silently dropped.
func (constructor *Constructor) ConstructEvents(ctx context.Context, chunk types.Chunk) (events []*types.MedicalEvent, err error) {
	defer utils.RecoverWithError(&err)

	chunkEntities := constructor.recognizer.Recognize(chunk.Text)
	seedDate := constructor.seedDate(chunk, chunkEntities)
	seedInstitution := seedInstitution(chunk, chunkEntities)

	var current *types.MedicalEvent
	for _, sentence := range SplitSentences(chunk.Text) {
		if ctx.Err() != nil {
			// Partial chunk results are discarded; the engine falls back.
			return nil, ctx.Err()
		}

		judgment := constructor.judge.JudgeSentence(ctx, sentence)
		opensEvent := judgment.IsAnchor && judgment.Confidence > 0.5

		if current == nil || opensEvent {
			if current != nil {
				events = append(events, constructor.finalize(current))
			}
			current = constructor.openEvent(sentence, judgment, seedDate, seedInstitution, chunkEntities.Confidence)
			continue
		}
		constructor.extendEvent(current, sentence, judgment)
	}
	if current != nil {
		events = append(events, constructor.finalize(current))
	}
	return events, nil
}

// FallbackEvent is the single low-confidence event substituted for a chunk
// whose construction failed.
func (constructor *Constructor) FallbackEvent(chunk types.Chunk) *types.MedicalEvent {
	description := chunk.Text
	if runes := []rune(description); len(runes) > fallbackDescriptionLimit {
		description = string(runes[:fallbackDescriptionLimit])
	}
	serviceDate := time.Now().UTC().Truncate(24 * time.Hour)
	if chunk.FirstDate != nil {
		serviceDate = *chunk.FirstDate
	}
	institution := ""
	if len(chunk.Institutions) > 0 {
		institution = chunk.Institutions[0]
	}
	event := &types.MedicalEvent{
		ID:          types.NewEventID(description, serviceDate),
		ServiceDate: serviceDate,
		Institution: institution,
		EventType:   types.EventOther,
		Description: description,
		Diagnoses:   []types.DiagnosisInfo{},
		Procedures:  []string{},
		Medications: []string{},
		Anchors: types.AnchorInfo{
			TemporalAnchors: []string{},
			SpatialAnchors:  []string{},
			MedicalAnchors:  []string{},
			CausalAnchors:   []string{},
			IsAnchorEvent:   false,
			Confidence:      0.1,
		},
		Confidence: 0.1,
		Importance: types.ImportanceLow,
		RawText:    chunk.Text,
	}
	return event
}

func (constructor *Constructor) openEvent(
	sentence string,
	judgment anchor.Judgment,
	seedDate time.Time,
	seedInstitution string,
	recognitionConfidence float64,
) *types.MedicalEvent {
	sentenceEntities := constructor.recognizer.Recognize(sentence)

	serviceDate := seedDate
	if len(sentenceEntities.Dates) > 0 {
		serviceDate = sentenceEntities.Dates[0]
	}
	institution := seedInstitution
	if len(sentenceEntities.Institutions) > 0 {
		institution = sentenceEntities.Institutions[0]
	}

	event := &types.MedicalEvent{
		ServiceDate: serviceDate,
		Institution: institution,
		EventType:   judgment.SuggestedEventType.OrDefault(),
		Description: sentence,
		Diagnoses:   constructor.diagnosesFromCodes(sentenceEntities.DiagnosisCodes),
		Procedures:  append([]string{}, sentenceEntities.Procedures...),
		Medications: append([]string{}, sentenceEntities.Medications...),
		Anchors: types.AnchorInfo{
			TemporalAnchors: []string{},
			SpatialAnchors:  []string{},
			MedicalAnchors:  []string{},
			CausalAnchors:   []string{},
			IsAnchorEvent:   judgment.IsAnchor,
			Confidence:      judgment.Confidence,
		},
		Confidence: recognitionConfidence,
		RawText:    sentence,
	}
	recordAnchorCue(&event.Anchors, judgment, sentence)
	return event
}

func (constructor *Constructor) extendEvent(event *types.MedicalEvent, sentence string, judgment anchor.Judgment) {
	event.Description += " " + sentence
	event.RawText += "\n" + sentence

	sentenceEntities := constructor.recognizer.Recognize(sentence)
	for _, dx := range constructor.diagnosesFromCodes(sentenceEntities.DiagnosisCodes) {
		if !containsDiagnosis(event.Diagnoses, dx.Code) {
			event.Diagnoses = append(event.Diagnoses, dx)
		}
	}
	event.Procedures = appendMissing(event.Procedures, sentenceEntities.Procedures)
	event.Medications = appendMissing(event.Medications, sentenceEntities.Medications)
	recordAnchorCue(&event.Anchors, judgment, sentence)
}

// finalize stamps the stable identifier and derives importance and insurance
// relevance from the accumulated content.
func (constructor *Constructor) finalize(event *types.MedicalEvent) *types.MedicalEvent {
	event.ID = types.NewEventID(event.Description, event.ServiceDate)
	event.Importance = constructor.importance(event)
	event.InsuranceRelevance = constructor.insuranceRelevance(event)
	return event
}

func (constructor *Constructor) importance(event *types.MedicalEvent) types.Importance {
	switch {
	case event.HasCriticalDiagnosis(),
		event.EventType == types.EventSurgery,
		event.EventType == types.EventHospitalization:
		return types.ImportanceHigh
	case event.HasMajorDiagnosis(),
		event.EventType == types.EventDiagnosis,
		event.EventType == types.EventTreatment:
		return types.ImportanceMedium
	}
	return types.ImportanceLow
}

func (constructor *Constructor) insuranceRelevance(event *types.MedicalEvent) float64 {
	lowered := strings.ToLower(event.Description)
	relevance := 0.0
	if containsAny(lowered, constructor.rules.InsuranceKeywords) {
		relevance += 0.4
	}
	if event.HasCriticalDiagnosis() {
		relevance += 0.4
	}
	if containsAny(lowered, constructor.rules.EmergencyKeywords) {
		relevance += 0.3
	}
	if relevance > 1.0 {
		relevance = 1.0
	}
	return relevance
}

func (constructor *Constructor) diagnosesFromCodes(codes []string) []types.DiagnosisInfo {
	diagnoses := make([]types.DiagnosisInfo, 0, len(codes))
	for _, code := range codes {
		diagnoses = append(diagnoses, constructor.rules.NewDiagnosis(code))
	}
	return diagnoses
}

func (constructor *Constructor) seedDate(chunk types.Chunk, entities recognizer.Entities) time.Time {
	if len(entities.Dates) > 0 {
		return entities.Dates[0]
	}
	if chunk.FirstDate != nil {
		return *chunk.FirstDate
	}
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func seedInstitution(chunk types.Chunk, entities recognizer.Entities) string {
	if len(entities.Institutions) > 0 {
		return entities.Institutions[0]
	}
	if len(chunk.Institutions) > 0 {
		return chunk.Institutions[0]
	}
	return ""
}

func recordAnchorCue(anchors *types.AnchorInfo, judgment anchor.Judgment, sentence string) {
	if !judgment.IsAnchor {
		return
	}
	switch judgment.AnchorType {
	case types.AnchorTemporal:
		anchors.TemporalAnchors = append(anchors.TemporalAnchors, sentence)
	case types.AnchorSpatial:
		anchors.SpatialAnchors = append(anchors.SpatialAnchors, sentence)
	case types.AnchorMedical:
		anchors.MedicalAnchors = append(anchors.MedicalAnchors, sentence)
	case types.AnchorCausal:
		anchors.CausalAnchors = append(anchors.CausalAnchors, sentence)
	}
	if judgment.Confidence > anchors.Confidence {
		anchors.Confidence = judgment.Confidence
	}
}

func containsDiagnosis(diagnoses []types.DiagnosisInfo, code string) bool {
	for _, dx := range diagnoses {
		if dx.Code == code {
			return true
		}
	}
	return false
}

func appendMissing(dst []string, src []string) []string {
	for _, item := range src {
		found := false
		for _, existing := range dst {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, item)
		}
	}
	return dst
}

func containsAny(lowered string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
