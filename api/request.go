package api

import (
	"encoding/json"
	"io"
	"net/http"

	"vnexus.com/mtl/timeline"
	"vnexus.com/mtl/types"
)

// Request serves the local analysis endpoint: POST a document payload, get
// the TimelineAnalysis JSON back. Meant for development and spot checks; the
// production path is the RMQ worker.
type Request struct {
	Pipeline timeline.Pipeline
}

func (req *Request) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	requestLogger := makeRequestLogger(r)

	if r.Method != http.MethodPost {
		requestLogger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	msg, err := io.ReadAll(r.Body)
	if err != nil {
		requestLogger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	var document types.Document
	if err := json.Unmarshal(msg, &document); err != nil {
		requestLogger.Err(err).Int("status", http.StatusBadRequest).Msg("Request body is not a valid document payload")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	request := timeline.Request{
		Tid:      "api_" + document.DocumentID,
		Document: document,
	}
	requestLogger.Info().Str("tid", request.Tid).Msg("Starting pipeline for request from API")
	resp, ok := <-req.Pipeline(request)
	if !ok {
		requestLogger.Error().Int("status", http.StatusInternalServerError).Msg("Pipeline closed without a result")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(resp))
	requestLogger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}
