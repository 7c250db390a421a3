package levels

import (
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// splitter cuts level descriptions into sentences. Only english model is
// compiled in, for anything else descriptions are used as is.
type splitter struct {
	*sentences.DefaultSentenceTokenizer
}

func newSplitter(lang language.Tag, log *zap.Logger) *splitter {
	base, confidence := lang.Base()
	if confidence == language.No {
		log.Warn("Unable to determine language base, turning off sentence splitting", zap.Stringer("tag", lang))
		return nil
	}
	enBase, _ := language.English.Base()
	if base != enBase {
		log.Warn("No sentence tokenizer for language, turning off sentence splitting", zap.Stringer("language", lang))
		return nil
	}
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		log.Warn("Unable to load sentences tokenizer data", zap.Stringer("tag", lang), zap.Error(err))
		return nil
	}
	return &splitter{tok}
}

// First returns first sentence of text, or the whole text when splitting is
// off.
func (s *splitter) First(text string) string {
	if s == nil {
		return strings.TrimSpace(text)
	}
	for _, sentence := range s.Tokenize(text) {
		if t := strings.TrimSpace(sentence.Text); t != "" {
			return t
		}
	}
	return strings.TrimSpace(text)
}
