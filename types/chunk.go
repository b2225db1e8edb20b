package types

import "time"

// Chunk is the inbound contract with the upstream segmentation stage. Only
// these fields may be relied on; richer chunking metadata is not part of the
// boundary.
type Chunk struct {
	Index        int        `json:"chunk_index"`
	Text         string     `json:"text"`
	Institutions []string   `json:"institutions"`
	FirstDate    *time.Time `json:"first_date,omitempty"`
}

// Document is one complete unit of analysis: a finite chunk set plus the
// claim date the insurance rules are evaluated against.
type Document struct {
	DocumentID string    `json:"document_id"`
	ClaimDate  time.Time `json:"claim_date"`
	Chunks     []Chunk   `json:"chunks"`
}
