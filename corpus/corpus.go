package corpus

import (
	"text2phenotype.com/hmmtagger/types"
	"text2phenotype.com/hmmtagger/utils"
	"bufio"
	"fmt"
	"io"
	"strings"
)

const tagSeparator = "="

// maxLineSize bounds a single sentence line; corpora keep one sentence per line.
const maxLineSize = 1 << 20

// ReadTagged parses one sentence per line, tokens as word=TAG separated by whitespace.
// The tag is split at the last '=' so words may contain '='.
func ReadTagged(r io.Reader) ([]types.TaggedSentence, error) {
	// a tag sliced out of its line would keep the whole line alive
	store := utils.GlobalStringStore()
	var sentences []types.TaggedSentence
	err := scanLines(r, func(lineNo int, fields []string) error {
		sent := make(types.TaggedSentence, len(fields))
		for i, field := range fields {
			idx := strings.LastIndex(field, tagSeparator)
			if idx <= 0 || idx == len(field)-1 {
				return fmt.Errorf("line %d: malformed token %q, expected word%sTAG", lineNo, field, tagSeparator)
			}
			sent[i] = types.TaggedWord{Word: field[:idx], Tag: store.Intern(field[idx+1:])}
		}
		sentences = append(sentences, sent)
		return nil
	})
	return sentences, err
}

// ReadUntagged parses one sentence per line, tokens separated by whitespace.
func ReadUntagged(r io.Reader) ([]types.Sentence, error) {
	var sentences []types.Sentence
	err := scanLines(r, func(_ int, fields []string) error {
		sentences = append(sentences, types.Sentence(fields))
		return nil
	})
	return sentences, err
}

func scanLines(r io.Reader, handle func(lineNo int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := handle(lineNo, fields); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func Strip(tagged []types.TaggedSentence) []types.Sentence {
	res := make([]types.Sentence, len(tagged))
	for i, sent := range tagged {
		res[i] = sent.Words()
	}
	return res
}

// WriteTagged writes sentences in the format ReadTagged accepts.
func WriteTagged(w io.Writer, sentences []types.TaggedSentence) error {
	bw := bufio.NewWriter(w)
	for _, sent := range sentences {
		for i, tw := range sent {
			if i > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(tw.Word + tagSeparator + tw.Tag); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
