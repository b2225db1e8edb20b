package anchor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"vnexus.com/mtl/logger"
)

// The oracle endpoint is vendor-agnostic: the deployment fronts whichever
// generative model is configured behind a single judgment route.
const judgmentInstruction = "You are reviewing one sentence from a Korean medical document. " +
	"Decide whether this sentence begins a NEW distinct medical event " +
	"(a visit, diagnosis, examination, hospitalization, surgery, medication, treatment, " +
	"insurance or claim occurrence). Answer as JSON with fields: " +
	"isAnchor (bool), anchorType (TEMPORAL|SPATIAL|MEDICAL|CAUSAL|NONE), " +
	"confidence (0..1), reason (string), suggestedEventType " +
	"(visit|diagnosis|examination|hospitalization|surgery|medication|treatment|insurance|claim|other)."

type OracleConfig struct {
	URL            string `envconfig:"MTL_ORACLE_URL" required:"true"`
	TimeoutSeconds int    `envconfig:"MTL_ORACLE_TIMEOUT_SECONDS" default:"10"`
}

type oracleRequest struct {
	Instruction string `json:"instruction"`
	Sentence    string `json:"sentence"`
}

// OracleJudge queries the external judgment oracle over HTTP. It is the only
// component in the engine allowed to block on an external call, and it never
// propagates a failure: timeouts, transport errors and malformed responses
// all collapse into FallbackJudgment.
type OracleJudge struct {
	config     OracleConfig
	httpClient *http.Client
	mtlLogger  zerolog.Logger
}

func NewOracleJudge() (*OracleJudge, error) {
	mtlLogger := logger.NewLogger("Anchor oracle")
	var config OracleConfig
	if err := envconfig.Process("", &config); err != nil {
		mtlLogger.Err(err).Msg("Could not read oracle env config")
		return nil, err
	}
	return NewOracleJudgeWithConfig(config), nil
}

func NewOracleJudgeWithConfig(config OracleConfig) *OracleJudge {
	return &OracleJudge{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		mtlLogger: logger.NewLogger("Anchor oracle"),
	}
}

func (judge *OracleJudge) JudgeSentence(ctx context.Context, sentence string) Judgment {
	judgment, err := judge.query(ctx, sentence)
	if err != nil {
		judge.mtlLogger.Warn().Err(err).Msg("Oracle call failed, using fallback judgment")
		return FallbackJudgment()
	}
	return judgment.sanitized()
}

func (judge *OracleJudge) query(ctx context.Context, sentence string) (Judgment, error) {
	body, err := json.Marshal(oracleRequest{
		Instruction: judgmentInstruction,
		Sentence:    sentence,
	})
	if err != nil {
		return Judgment{}, fmt.Errorf("failed to marshal oracle request: %w", err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, judge.config.URL, bytes.NewReader(body))
	if err != nil {
		return Judgment{}, fmt.Errorf("failed to build oracle request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := judge.httpClient.Do(request)
	if err != nil {
		return Judgment{}, fmt.Errorf("oracle call failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return Judgment{}, fmt.Errorf("oracle returned status %d", response.StatusCode)
	}
	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return Judgment{}, fmt.Errorf("failed to read oracle response: %w", err)
	}
	var judgment Judgment
	if err := json.Unmarshal(raw, &judgment); err != nil {
		return Judgment{}, fmt.Errorf("oracle response did not match contract: %w", err)
	}
	return judgment, nil
}
