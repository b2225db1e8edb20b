package anchor

import (
	"context"
	"regexp"
	"strings"

	"vnexus.com/mtl/types"
)

var sentenceDatePattern = regexp.MustCompile(`\d{4}[-.년]\s*\d{1,2}[-.월]\s*\d{1,2}`)

type keywordRule struct {
	keywords   []string
	anchorType types.AnchorType
	eventType  types.EventType
}

// KeywordJudge is a deterministic, offline Judge. It backs deployments that
// run without an oracle endpoint and doubles as the stub implementation in
// tests.
type KeywordJudge struct {
	rules []keywordRule
}

func NewKeywordJudge() *KeywordJudge {
	return &KeywordJudge{
		rules: []keywordRule{
			{[]string{"수술", "절제술", "surgery", "operation"}, types.AnchorMedical, types.EventSurgery},
			{[]string{"입원", "admitted", "admission", "hospitalized"}, types.AnchorMedical, types.EventHospitalization},
			{[]string{"진단", "diagnos"}, types.AnchorMedical, types.EventDiagnosis},
			{[]string{"검사", "examination", "endoscopy", "biopsy", "scan"}, types.AnchorMedical, types.EventExamination},
			{[]string{"처방", "복용", "prescribed", "medication"}, types.AnchorMedical, types.EventMedication},
			{[]string{"치료", "treatment", "therapy"}, types.AnchorMedical, types.EventTreatment},
			{[]string{"내원", "방문", "visit"}, types.AnchorSpatial, types.EventVisit},
			{[]string{"보험", "청구", "insurance", "claim"}, types.AnchorCausal, types.EventInsurance},
		},
	}
}

func (judge *KeywordJudge) JudgeSentence(_ context.Context, sentence string) Judgment {
	lowered := strings.ToLower(sentence)
	hasDate := sentenceDatePattern.MatchString(sentence)

	for _, rule := range judge.rules {
		for _, keyword := range rule.keywords {
			if !strings.Contains(lowered, keyword) {
				continue
			}
			confidence := 0.6
			anchorType := rule.anchorType
			if hasDate {
				confidence = 0.8
				anchorType = types.AnchorTemporal
			}
			return Judgment{
				IsAnchor:           true,
				AnchorType:         anchorType,
				Confidence:         confidence,
				Reason:             "matched keyword: " + keyword,
				SuggestedEventType: rule.eventType,
			}
		}
	}
	if hasDate {
		return Judgment{
			IsAnchor:           true,
			AnchorType:         types.AnchorTemporal,
			Confidence:         0.6,
			Reason:             "sentence carries an explicit date",
			SuggestedEventType: types.EventVisit,
		}
	}
	return Judgment{
		IsAnchor:           false,
		AnchorType:         types.AnchorNone,
		Confidence:         0.7,
		Reason:             "no anchor cue found",
		SuggestedEventType: types.EventOther,
	}
}
