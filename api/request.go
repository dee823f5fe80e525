package api

import (
	"text2phenotype.com/hmmtagger/pipeline"
	"encoding/json"
	"io/ioutil"
	"mime"
	"net/http"
)

const apiTid = "test_api"

type Request struct {
	Pipeline pipeline.Pipeline
}

type taggingBody struct {
	Training string `json:"training"`
	Text     string `json:"text"`
}

// ProcessData tags the request body. A plain body is the untagged text; a JSON body may
// also carry the training corpus.
func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logger := makeRequestLogger(r)

	if r.Method != "POST" {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	msg, err := ioutil.ReadAll(r.Body)
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	request := pipeline.Request{
		Tid:  apiTid,
		Text: string(msg),
	}
	if isJSON(r) {
		var body taggingBody
		if err := json.Unmarshal(msg, &body); err != nil {
			logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not parse JSON request body")
			http.Error(w, "", http.StatusBadRequest)
			return
		}
		request.Training = body.Training
		request.Text = body.Text
	}

	logger.Info().
		Str("tid", request.Tid).
		Bool("has_training", request.Training != "").
		Msg("Starting pipeline for request from API")
	resp, ok := <-req.Pipeline(request)
	if !ok {
		logger.Error().Int("status", http.StatusInternalServerError).Msg("Pipeline returned no response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(resp))
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
