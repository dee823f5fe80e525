package maps

import (
	"text2phenotype.com/hmmtagger/utils"
	"encoding/json"
	jsonpatch "github.com/evanphx/json-patch"
)

// PartialDocument is a JSON document of which a struct models only some fields. Fields
// the struct does not know about survive a read-modify-write cycle untouched.
type PartialDocument interface {
	rawDocument() []byte
	setRawDocument(raw []byte)
}

// BaseDocument keeps the stored JSON; embed it in the struct modelling the document.
type BaseDocument struct {
	raw []byte
}

func (doc *BaseDocument) rawDocument() []byte {
	return doc.raw
}

func (doc *BaseDocument) setRawDocument(raw []byte) {
	doc.raw = raw
}

// Fill decodes the modelled fields of raw into doc and remembers raw as the base document.
func Fill(doc PartialDocument, raw []byte) error {
	if err := json.Unmarshal(raw, doc); err != nil {
		return err
	}
	doc.setRawDocument(raw)
	return nil
}

// Encode merges the modelled fields of doc into its base document (RFC 7386). Nil values
// remove their keys.
func Encode(doc PartialDocument) ([]byte, error) {
	patch, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	base := doc.rawDocument()
	if len(base) == 0 {
		base = []byte("{}")
	}
	merged, err := jsonpatch.MergePatch(base, patch)
	if err != nil {
		return nil, err
	}
	doc.setRawDocument(merged)
	return merged, nil
}

// ApplyUpdates runs update on doc and folds the result back into the base document.
func ApplyUpdates[T PartialDocument](doc T, update func(T)) (err error) {
	defer utils.RecoverWithError(&err)
	if update != nil {
		update(doc)
	}
	_, err = Encode(doc)
	return err
}

// CopyValues fills to with the fields it models from the base document of from. The base
// document of to then holds only those fields.
func CopyValues(from PartialDocument, to PartialDocument) error {
	if err := json.Unmarshal(from.rawDocument(), to); err != nil {
		return err
	}
	projected, err := json.Marshal(to)
	if err != nil {
		return err
	}
	to.setRawDocument(projected)
	return nil
}
