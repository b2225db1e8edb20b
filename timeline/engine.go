package timeline

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"vnexus.com/mtl/anchor"
	"vnexus.com/mtl/logger"
	"vnexus.com/mtl/recognizer"
	"vnexus.com/mtl/types"
)

type EngineParams struct {
	// MaxParallelChunks bounds concurrent chunk construction. 1 keeps the
	// single-flow baseline.
	MaxParallelChunks int
}

// Engine runs the full document analysis: per-chunk construction, merge,
// causal inference, insurance impact, risk factors, progression staging and
// aggregation. Causal inference never starts before every chunk has merged;
// that barrier is the only ordering requirement across chunks.
type Engine struct {
	rules       *types.RuleSet
	constructor *Constructor
	params      EngineParams
	mtlLogger   zerolog.Logger
}

func NewEngine(rules *types.RuleSet, judge anchor.Judge, params EngineParams) *Engine {
	if params.MaxParallelChunks < 1 {
		params.MaxParallelChunks = 1
	}
	rec := recognizer.New(rules)
	return &Engine{
		rules:       rules,
		constructor: NewConstructor(rules, rec, judge),
		params:      params,
		mtlLogger:   logger.NewLogger("Timeline engine"),
	}
}

// Analyze always returns a TimelineAnalysis for well-formed calls: oracle and
// chunk failures degrade quality instead of aborting. Only a structural bug
// in aggregation can surface as an error, via the panic recovery in the
// calling worker.
func (engine *Engine) Analyze(ctx context.Context, document types.Document) (*types.TimelineAnalysis, error) {
	engineLog := engine.mtlLogger.With().Str("document_id", document.DocumentID).Logger()
	engineLog.Info().Int("chunks", len(document.Chunks)).Msg("Starting timeline analysis")

	constructed := engine.constructChunks(ctx, document.Chunks, &engineLog)

	// Hard synchronization barrier: everything below sees the complete,
	// merged, date-sorted event set.
	events := MergeEvents(constructed)
	InferRelations(engine.rules, events)
	AnalyzeInsuranceImpact(engine.rules, events, document.ClaimDate)
	AnalyzeRiskFactors(engine.rules, events)
	AssignProgressionStages(engine.rules, events)

	analysis := Aggregate(document.DocumentID, events)
	engineLog.Info().
		Int("events", len(events)).
		Str("overall_risk", string(analysis.RiskAssessment.OverallRiskLevel)).
		Msg("Finished timeline analysis")
	return analysis, nil
}

func (engine *Engine) constructChunks(ctx context.Context, chunks []types.Chunk, engineLog *zerolog.Logger) []*types.MedicalEvent {
	type chunkResult struct {
		index  int
		events []*types.MedicalEvent
	}

	results := make([]chunkResult, 0, len(chunks))
	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, engine.params.MaxParallelChunks)

	for _, chunk := range chunks {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(chunk types.Chunk) {
			defer wg.Done()
			defer func() { <-semaphore }()

			events, err := engine.constructor.ConstructEvents(ctx, chunk)
			if err != nil {
				engineLog.Warn().Err(err).
					Int("chunk_index", chunk.Index).
					Msg("Chunk construction failed, substituting fallback event")
				events = []*types.MedicalEvent{engine.constructor.FallbackEvent(chunk)}
			}
			mu.Lock()
			results = append(results, chunkResult{index: chunk.Index, events: events})
			mu.Unlock()
		}(chunk)
	}
	wg.Wait()

	// Restore document order regardless of completion order.
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	constructed := make([]*types.MedicalEvent, 0, len(results))
	for _, result := range results {
		constructed = append(constructed, result.events...)
	}
	return constructed
}
