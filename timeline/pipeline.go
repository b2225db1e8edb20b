package timeline

import (
	"context"
	"encoding/json"

	"vnexus.com/mtl/logger"
	"vnexus.com/mtl/types"
)

type Request struct {
	Tid      string
	Document types.Document
}

// Pipeline is the channel-shaped entry point the worker and the API consume:
// one request in, one serialized TimelineAnalysis out.
type Pipeline func(request Request) <-chan string

func NewPipeline(engine *Engine) Pipeline {
	mtlLogger := logger.NewLogger("Timeline pipeline")

	return func(request Request) <-chan string {
		responseChan := make(chan string)
		pplnLog := mtlLogger.With().Str("tid", request.Tid).Logger()

		go func() {
			defer close(responseChan)
			pplnLog.Info().Msg("Started timeline pipeline")

			analysis, err := engine.Analyze(context.Background(), request.Document)
			if err != nil {
				pplnLog.Err(err).Msg("Analysis failed")
				return
			}
			buf, err := json.Marshal(analysis)
			if err != nil {
				pplnLog.Err(err).Msg("Failed to marshal analysis")
				return
			}
			pplnLog.Info().Msg("Finished timeline pipeline")
			responseChan <- string(buf)
		}()
		return responseChan
	}
}
