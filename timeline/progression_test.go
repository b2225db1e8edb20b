package timeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vnexus.com/mtl/types"
)

func familyEvents(t *testing.T, code string, days ...string) []*types.TimelineEvent {
	t.Helper()
	rules := types.DefaultRuleSet()
	raw := make([]*types.MedicalEvent, 0, len(days))
	for i, day := range days {
		event := testEvent(day, "서울병원", types.EventVisit, "visit "+string(rune('a'+i)))
		event.Diagnoses = []types.DiagnosisInfo{rules.NewDiagnosis(code)}
		raw = append(raw, event)
	}
	events := MergeEvents(raw)
	require.Len(t, events, len(days))
	return events
}

func TestAssignProgressionStages(t *testing.T) {
	rules := types.DefaultRuleSet()

	t.Run("Positional template assignment", func(t *testing.T) {
		events := familyEvents(t, "C78", "2024-01-10", "2024-02-10", "2024-03-10")
		AssignProgressionStages(rules, events)

		require.Equal(t, types.StageInitial, events[0].ProgressionStage)
		require.Equal(t, types.StageProgression, events[1].ProgressionStage)
		require.Equal(t, types.StageTreatment, events[2].ProgressionStage)
	})

	t.Run("Overflow past the template", func(t *testing.T) {
		events := familyEvents(t, "C78",
			"2024-01-10", "2024-02-10", "2024-03-10", "2024-04-10", "2024-05-10")
		AssignProgressionStages(rules, events)

		// The C78 template has four stages; later events fall back to the
		// generic progression stage.
		require.Equal(t, types.StageComplication, events[3].ProgressionStage)
		require.Equal(t, types.StageProgression, events[4].ProgressionStage)
	})

	t.Run("Decimal codes share the family", func(t *testing.T) {
		rules := types.DefaultRuleSet()
		first := testEvent("2024-01-10", "서울병원", types.EventDiagnosis, "baseline")
		first.Diagnoses = []types.DiagnosisInfo{rules.NewDiagnosis("C78")}
		second := testEvent("2024-02-10", "서울병원", types.EventExamination, "restaging")
		second.Diagnoses = []types.DiagnosisInfo{rules.NewDiagnosis("C78.1")}

		events := MergeEvents([]*types.MedicalEvent{first, second})
		AssignProgressionStages(rules, events)
		require.Equal(t, types.StageInitial, events[0].ProgressionStage)
		require.Equal(t, types.StageProgression, events[1].ProgressionStage)
	})

	t.Run("Family without a template stays initial", func(t *testing.T) {
		events := familyEvents(t, "J45", "2024-01-10", "2024-02-10")
		AssignProgressionStages(rules, events)
		require.Equal(t, types.StageInitial, events[0].ProgressionStage)
		require.Equal(t, types.StageInitial, events[1].ProgressionStage)
	})

	t.Run("Events without diagnoses keep the default", func(t *testing.T) {
		events := MergeEvents([]*types.MedicalEvent{
			testEvent("2024-01-10", "서울병원", types.EventVisit, "undiagnosed visit"),
		})
		AssignProgressionStages(rules, events)
		require.Equal(t, types.StageInitial, events[0].ProgressionStage)
	})
}
