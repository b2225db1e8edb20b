package anchor

import (
	"context"

	"vnexus.com/mtl/types"
)

// Judgment is the oracle's decision for one sentence.
type Judgment struct {
	IsAnchor           bool             `json:"isAnchor"`
	AnchorType         types.AnchorType `json:"anchorType"`
	Confidence         float64          `json:"confidence"`
	Reason             string           `json:"reason"`
	SuggestedEventType types.EventType  `json:"suggestedEventType"`
}

// Judge decides whether a sentence opens a new medical event. Implementations
// must be side-effect free with respect to the document being analyzed, so
// re-judging the same sentence is always safe.
type Judge interface {
	JudgeSentence(ctx context.Context, sentence string) Judgment
}

// FallbackJudgment is returned whenever the oracle fails or answers with
// something that does not parse as the contract shape. It is never an error:
// the pipeline continues with a low-confidence non-anchor.
func FallbackJudgment() Judgment {
	return Judgment{
		IsAnchor:           false,
		AnchorType:         types.AnchorNone,
		Confidence:         0.1,
		Reason:             "analysis failed",
		SuggestedEventType: types.EventOther,
	}
}

func (j Judgment) sanitized() Judgment {
	switch j.AnchorType {
	case types.AnchorTemporal, types.AnchorSpatial, types.AnchorMedical, types.AnchorCausal, types.AnchorNone:
	default:
		return FallbackJudgment()
	}
	if j.Confidence < 0 || j.Confidence > 1 {
		return FallbackJudgment()
	}
	j.SuggestedEventType = j.SuggestedEventType.OrDefault()
	return j
}
