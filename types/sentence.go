package types

// Sentence is an untagged, already tokenized sentence.
type Sentence []string

type TaggedWord struct {
	Word string `json:"word"`
	Tag  string `json:"tag"`
}

type TaggedSentence []TaggedWord

// Words drops the tags, keeping word order.
func (sent TaggedSentence) Words() Sentence {
	words := make(Sentence, len(sent))
	for i, tw := range sent {
		words[i] = tw.Word
	}
	return words
}

func (sent TaggedSentence) Tags() []string {
	tags := make([]string, len(sent))
	for i, tw := range sent {
		tags[i] = tw.Tag
	}
	return tags
}

// PositionedSentence carries the index of a sentence inside its document so that
// concurrently processed sentences can be put back in order.
type PositionedSentence struct {
	Position int
	Words    Sentence
	Tagged   TaggedSentence
	Err      error
}
