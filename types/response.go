package types

type BaseResponse struct {
	DocId string `json:"docId"`
}

type TaggingResponse struct {
	BaseResponse
	Variant   Variant          `json:"variant"`
	Sentences []TaggedSentence `json:"sentences"`
}

type ErrorResponse struct {
	BaseResponse
	Error string `json:"error"`
}
