package anchor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"vnexus.com/mtl/types"
)

func oracleForResponse(t *testing.T, handler http.HandlerFunc) *OracleJudge {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOracleJudgeWithConfig(OracleConfig{URL: server.URL, TimeoutSeconds: 2})
}

func TestOracleJudgeSentence(t *testing.T) {
	judge := oracleForResponse(t, func(w http.ResponseWriter, r *http.Request) {
		var request oracleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		require.NotEmpty(t, request.Instruction)
		require.Equal(t, "2024-05-01 수술 시행함.", request.Sentence)

		_ = json.NewEncoder(w).Encode(Judgment{
			IsAnchor:           true,
			AnchorType:         types.AnchorMedical,
			Confidence:         0.85,
			Reason:             "surgery performed",
			SuggestedEventType: types.EventSurgery,
		})
	})

	judgment := judge.JudgeSentence(context.Background(), "2024-05-01 수술 시행함.")
	require.True(t, judgment.IsAnchor)
	require.Equal(t, types.AnchorMedical, judgment.AnchorType)
	require.InDelta(t, 0.85, judgment.Confidence, 1e-9)
	require.Equal(t, types.EventSurgery, judgment.SuggestedEventType)
}

func TestOracleJudgeFallsBack(t *testing.T) {
	t.Run("Server error", func(t *testing.T) {
		judge := oracleForResponse(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		require.Equal(t, FallbackJudgment(), judge.JudgeSentence(context.Background(), "any sentence"))
	})

	t.Run("Malformed body", func(t *testing.T) {
		judge := oracleForResponse(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("the model felt chatty today"))
		})
		require.Equal(t, FallbackJudgment(), judge.JudgeSentence(context.Background(), "any sentence"))
	})

	t.Run("Unreachable endpoint", func(t *testing.T) {
		judge := NewOracleJudgeWithConfig(OracleConfig{URL: "http://127.0.0.1:1", TimeoutSeconds: 1})
		require.Equal(t, FallbackJudgment(), judge.JudgeSentence(context.Background(), "any sentence"))
	})

	t.Run("Anchor type outside the contract", func(t *testing.T) {
		judge := oracleForResponse(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"isAnchor":true,"anchorType":"COSMIC","confidence":0.9}`))
		})
		require.Equal(t, FallbackJudgment(), judge.JudgeSentence(context.Background(), "any sentence"))
	})

	t.Run("Confidence outside [0,1]", func(t *testing.T) {
		judge := oracleForResponse(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"isAnchor":true,"anchorType":"MEDICAL","confidence":1.7}`))
		})
		require.Equal(t, FallbackJudgment(), judge.JudgeSentence(context.Background(), "any sentence"))
	})
}

func TestOracleJudgeSanitizesEventType(t *testing.T) {
	judge := oracleForResponse(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isAnchor":true,"anchorType":"MEDICAL","confidence":0.8,"suggestedEventType":"hallucinated"}`))
	})
	judgment := judge.JudgeSentence(context.Background(), "any sentence")
	require.True(t, judgment.IsAnchor)
	require.Equal(t, types.EventOther, judgment.SuggestedEventType)
}

func TestKeywordJudge(t *testing.T) {
	judge := NewKeywordJudge()
	ctx := context.Background()

	t.Run("Keyword with date is a temporal anchor", func(t *testing.T) {
		judgment := judge.JudgeSentence(ctx, "2024-05-01 수술 시행함")
		require.True(t, judgment.IsAnchor)
		require.Equal(t, types.AnchorTemporal, judgment.AnchorType)
		require.InDelta(t, 0.8, judgment.Confidence, 1e-9)
		require.Equal(t, types.EventSurgery, judgment.SuggestedEventType)
	})

	t.Run("Keyword without date is a medical anchor", func(t *testing.T) {
		judgment := judge.JudgeSentence(ctx, "diagnosed with pneumonia")
		require.True(t, judgment.IsAnchor)
		require.Equal(t, types.AnchorMedical, judgment.AnchorType)
		require.InDelta(t, 0.6, judgment.Confidence, 1e-9)
		require.Equal(t, types.EventDiagnosis, judgment.SuggestedEventType)
	})

	t.Run("Bare date still anchors as a visit", func(t *testing.T) {
		judgment := judge.JudgeSentence(ctx, "2024.05.01 기록")
		require.True(t, judgment.IsAnchor)
		require.Equal(t, types.EventVisit, judgment.SuggestedEventType)
	})

	t.Run("No cue means no anchor", func(t *testing.T) {
		judgment := judge.JudgeSentence(ctx, "patient resting comfortably")
		require.False(t, judgment.IsAnchor)
		require.Equal(t, types.AnchorNone, judgment.AnchorType)
		require.Equal(t, types.EventOther, judgment.SuggestedEventType)
	})
}
