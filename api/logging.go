package api

import (
	"text2phenotype.com/hmmtagger/logger"
	"github.com/rs/zerolog"
	"net/http"
)

var defaultLogger = logger.NewLogger("Tagging API")

type endpointLoggerFields struct {
	Method        string `json:"method"`
	Url           string `json:"url"`
	ContentType   string `json:"content_type,omitempty"`
	ContentLength int64  `json:"content_length"`
}

const RequestInfoFieldsKey = "request_info"

func makeRequestLogger(request *http.Request) zerolog.Logger {
	fields := endpointLoggerFields{
		Method:        request.Method,
		Url:           request.URL.String(),
		ContentType:   request.Header.Get("Content-Type"),
		ContentLength: request.ContentLength,
	}
	return defaultLogger.
		With().Interface(RequestInfoFieldsKey, fields).Logger()
}
