package types

type RelationKind string

const (
	RelationCauses      RelationKind = "causes"
	RelationTriggeredBy RelationKind = "triggered_by"
	RelationRelatedTo   RelationKind = "related_to"
	RelationFollows     RelationKind = "follows"
	RelationComplicates RelationKind = "complicates"
)

// Invert returns the relation kind attached to the opposite direction of an
// inferred edge. The table is fixed: causes and triggered_by invert into each
// other, everything else collapses to related_to.
func (kind RelationKind) Invert() RelationKind {
	switch kind {
	case RelationCauses:
		return RelationTriggeredBy
	case RelationTriggeredBy:
		return RelationCauses
	case RelationFollows, RelationComplicates, RelationRelatedTo:
		return RelationRelatedTo
	}
	return RelationRelatedTo
}

type CausalRelation struct {
	TargetEventID string       `json:"target_event_id"`
	Kind          RelationKind `json:"relation_type"`
	Confidence    float64      `json:"confidence"`
	Evidence      string       `json:"evidence"`
}
