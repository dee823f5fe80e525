package pipeline

type Pipeline func(request Request) <-chan string

// Request carries the untagged text to tag. Training holds a word=TAG corpus; when it is
// empty every configuration falls back to its own training file.
type Request struct {
	Tid      string `json:"tid"`
	Training string `json:"training"`
	Text     string `json:"text"`
}
