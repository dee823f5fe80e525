package types

// Labels of the universal tag set that rule based components refer to by name.
// The full tag set is whatever the training corpus uses.
const (
	TagNoun        = "NOUN"
	TagVerb        = "VERB"
	TagAdjective   = "ADJ"
	TagAdverb      = "ADV"
	TagNumber      = "NUM"
	TagDeterminer  = "DET"
	TagConjunction = "CONJ"
)
