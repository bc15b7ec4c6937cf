package indexer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"finsight/internal/chunk"
	"finsight/internal/extractor"
)

const (
	// targetChunkRunes is the size a chunk is packed toward. A chunk can
	// exceed it by up to one sentence, never more.
	targetChunkRunes = 1000
	// overlapSentences is how many trailing sentences of a closed chunk
	// seed the next one. Overlap is sentence-bounded, never mid-sentence.
	overlapSentences = 2
	// minSentenceRunes drops splinter fragments left by the splitter.
	minSentenceRunes = 10
	// minSectionRunes skips sections too short to be worth chunking.
	minSectionRunes = 100
	// minChunkRunes drops trailing chunks too short to embed usefully.
	minChunkRunes = 150
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	pageNumRe    = regexp.MustCompile(`Page \d+`)
)

// abbreviations whose trailing period must not be treated as a sentence
// boundary. The period is stripped rather than restored afterwards, so the
// chunk text reads "Dr Smith"; retrieval is unaffected.
var abbreviations = []struct{ full, bare string }{
	{"Dr.", "Dr"}, {"Mr.", "Mr"}, {"Ms.", "Ms"},
	{"Inc.", "Inc"}, {"Ltd.", "Ltd"},
	{"e.g.", "eg"}, {"i.e.", "ie"}, {"vs.", "vs"},
	{"Rs.", "Rs"}, {"No.", "No"}, {"Co.", "Co"},
	{"approx.", "approx"}, {"est.", "est"},
}

// SentenceChunker splits narrated section text into overlapping,
// sentence-bounded chunks sized for embedding.
type SentenceChunker struct{}

// NewSentenceChunker creates a new sentence chunker.
func NewSentenceChunker() *SentenceChunker {
	return &SentenceChunker{}
}

// ChunkSections turns an extractor section map into chunks with provenance
// metadata. Sections are processed in sorted label order so repeated runs on
// the same input produce byte-identical output.
func (c *SentenceChunker) ChunkSections(sections map[string][]extractor.Entry, company, year string) []chunk.Chunk {
	labels := make([]string, 0, len(sections))
	for label := range sections {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var chunks []chunk.Chunk
	for _, label := range labels {
		entries := sections[label]

		parts := make([]string, 0, len(entries))
		for _, e := range entries {
			parts = append(parts, cleanText(e.Text))
		}
		combined := strings.Join(parts, " ")

		if utf8.RuneCountInString(combined) < minSectionRunes {
			continue
		}

		for i, text := range c.ChunkText(combined) {
			if utf8.RuneCountInString(text) < minChunkRunes {
				continue
			}
			chunks = append(chunks, chunk.Chunk{
				Content: text,
				Meta: chunk.Metadata{
					Company:    company,
					Year:       year,
					DocType:    chunk.DocTypeNarrative,
					Section:    label,
					ChunkIndex: i,
				},
			})
		}
	}

	return chunks
}

// ChunkText greedily packs sentences into chunks of roughly targetChunkRunes,
// seeding each new chunk with the last overlapSentences sentences of the
// previous one.
func (c *SentenceChunker) ChunkText(text string) []string {
	var sentences []string
	for _, s := range splitSentences(text) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) >= minSentenceRunes {
			sentences = append(sentences, s)
		}
	}

	var chunks []string
	var buffer []string
	size := 0

	for _, sentence := range sentences {
		length := utf8.RuneCountInString(sentence)

		if size+length > targetChunkRunes && len(buffer) > 0 {
			chunks = append(chunks, strings.Join(buffer, " "))

			start := len(buffer) - overlapSentences
			if start < 0 {
				start = 0
			}
			buffer = append([]string(nil), buffer[start:]...)
			size = 0
			for _, s := range buffer {
				size += utf8.RuneCountInString(s)
			}
		}

		buffer = append(buffer, sentence)
		size += length + 1
	}

	if len(buffer) > 0 {
		chunks = append(chunks, strings.Join(buffer, " "))
	}

	return chunks
}

// cleanText normalizes whitespace and strips page-number artifacts.
func cleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = pageNumRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// splitSentences breaks text after `.`, `!`, or `?` followed by whitespace
// and an uppercase letter, after stripping protected abbreviation periods.
func splitSentences(text string) []string {
	for _, ab := range abbreviations {
		text = strings.ReplaceAll(text, ab.full, ab.bare)
	}

	runes := []rune(text)
	var sentences []string
	start := 0
	i := 0

	for i < len(runes) {
		r := runes[i]
		if r == '.' || r == '!' || r == '?' {
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			if j > i+1 && j < len(runes) && runes[j] >= 'A' && runes[j] <= 'Z' {
				sentences = append(sentences, string(runes[start:i+1]))
				start = j
				i = j
				continue
			}
		}
		i++
	}

	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}

	return sentences
}
