package types

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupSeverity(t *testing.T) {
	rules := DefaultRuleSet()

	t.Run("Longest prefix wins", func(t *testing.T) {
		// N18 is listed as critical while N has no entry at all.
		require.Equal(t, SeverityCritical, rules.LookupSeverity("N18"))
		require.Equal(t, SeverityCritical, rules.LookupSeverity("N18.5"))
		require.Equal(t, SeverityMinor, rules.LookupSeverity("N17"))
	})

	t.Run("Two-character prefix overrides letter", func(t *testing.T) {
		// I2x is critical, the broader I family only major.
		require.Equal(t, SeverityCritical, rules.LookupSeverity("I21"))
		require.Equal(t, SeverityMajor, rules.LookupSeverity("I10"))
	})

	t.Run("Codes are normalized", func(t *testing.T) {
		require.Equal(t, SeverityCritical, rules.LookupSeverity(" c78 "))
	})

	t.Run("Unlisted codes are minor", func(t *testing.T) {
		require.Equal(t, SeverityMinor, rules.LookupSeverity("Z00"))
		require.Equal(t, SeverityMinor, rules.LookupSeverity(""))
	})
}

func TestNewDiagnosis(t *testing.T) {
	rules := DefaultRuleSet()

	dx := rules.NewDiagnosis("c78")
	require.Equal(t, "C78", dx.Code)
	require.Equal(t, "Secondary malignant neoplasm of respiratory and digestive organs", dx.Name)
	require.Equal(t, "neoplasm", dx.Category)
	require.Equal(t, SeverityCritical, dx.Severity)

	unknown := rules.NewDiagnosis("Q99")
	require.Equal(t, "Q99", unknown.Name)
	require.Equal(t, "unclassified", unknown.Category)
	require.Equal(t, SeverityMinor, unknown.Severity)
}

func TestEventTypeOrDefault(t *testing.T) {
	require.Equal(t, EventSurgery, EventSurgery.OrDefault())
	require.Equal(t, EventOther, EventType("biopsy-party").OrDefault())
	require.Equal(t, EventOther, EventType("").OrDefault())
}

func TestRelationKindInvert(t *testing.T) {
	require.Equal(t, RelationTriggeredBy, RelationCauses.Invert())
	require.Equal(t, RelationCauses, RelationTriggeredBy.Invert())
	require.Equal(t, RelationRelatedTo, RelationFollows.Invert())
	require.Equal(t, RelationRelatedTo, RelationComplicates.Invert())
	require.Equal(t, RelationRelatedTo, RelationRelatedTo.Invert())
	require.Equal(t, RelationRelatedTo, RelationKind("unknown").Invert())
}

func TestLoadRuleSetOverlay(t *testing.T) {
	dir := t.TempDir()
	overlay := `
disease_names:
  C99: "Imaginary neoplasm"
claim_window_days: 120
exclusion_keywords:
  - "experimental"
`
	require.NoError(t, os.WriteFile(path.Join(dir, "overlay.yaml"), []byte(overlay), 0644))

	rules, err := LoadRuleSet(dir)
	require.NoError(t, err)

	// Overlaid values apply.
	require.Equal(t, "Imaginary neoplasm", rules.LookupDiseaseName("C99"))
	require.Equal(t, 120, rules.ClaimWindowDays)
	require.Equal(t, []string{"experimental"}, rules.ExclusionKeywords)

	// Untouched defaults survive.
	require.Equal(t, "Essential hypertension", rules.LookupDiseaseName("I10"))
	require.Equal(t, 90, rules.PreExistingWindowDays)
	require.NotEmpty(t, rules.CausalRules)
}

func TestLoadRuleSetMissingDir(t *testing.T) {
	rules, err := LoadRuleSet("/does/not/exist")
	require.NoError(t, err)
	require.Equal(t, 90, rules.ClaimWindowDays)
}
