// Package chunker splits extracted document text into token-bounded,
// overlapping passages with document-structure awareness.
//
// Splitting happens in three stages: the text is divided on numbered
// section headings, each section is split into sentences, and sentences
// are packed into chunks bounded by a maximum token count with a trailing
// token overlap carried into the next chunk. Token counts are estimated
// by whitespace-delimited words.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultMaxTokens is the default token budget per chunk.
const DefaultMaxTokens = 512

// DefaultOverlap is the default number of trailing tokens carried into
// the next chunk.
const DefaultOverlap = 50

var (
	// sectionRe matches the start of a numbered heading like "\n3. ELIGIBILITY".
	sectionRe = regexp.MustCompile(`\n\d+\.\s[A-Z]`)

	// headingRe recognises a section that begins with a numbered heading.
	headingRe = regexp.MustCompile(`^\d+\.\s[A-Z]`)

	// sentenceRe splits on sentence-ending punctuation followed by spaces.
	sentenceRe = regexp.MustCompile(`(?:[.!?])\s+`)

	// blankRe collapses runs of blank lines.
	blankRe = regexp.MustCompile(`\n{2,}`)
)

// Processor splits document text into retrievable chunks.
type Processor struct {
	maxTokens int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxTokens sets the token budget per chunk.
func WithMaxTokens(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxTokens = n
		}
	}
}

// WithOverlap sets the trailing token overlap between chunks.
func WithOverlap(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.overlap = n
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxTokens: DefaultMaxTokens,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed the chunk budget
	if p.overlap >= p.maxTokens {
		p.overlap = p.maxTokens / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document text into ordered, non-empty chunks.
func (p *Processor) Process(text string) []string {
	text = strings.TrimSpace(blankRe.ReplaceAllString(text, "\n"))
	if text == "" {
		return nil
	}

	var chunks []string
	for _, section := range p.sections(text) {
		sentences := SplitSentences(section)
		chunks = append(chunks, p.pack(sentences)...)
	}
	return chunks
}

// sections splits the text on numbered headings. Leading text before the
// first heading is folded into the preceding section when one exists.
func (p *Processor) sections(text string) []string {
	boundaries := sectionRe.FindAllStringIndex(text, -1)

	var parts []string
	prev := 0
	for _, b := range boundaries {
		// The match starts at the newline; split just after it.
		if b[0] > prev {
			parts = append(parts, text[prev:b[0]])
		}
		prev = b[0] + 1
	}
	parts = append(parts, text[prev:])

	var sections []string
	for _, part := range parts {
		cleaned := strings.TrimSpace(part)
		if cleaned == "" {
			continue
		}
		if headingRe.MatchString(cleaned) || len(sections) == 0 {
			sections = append(sections, cleaned)
		} else {
			// Continuation text joins the previous section.
			sections[len(sections)-1] += " " + cleaned
		}
	}
	return sections
}

// pack groups sentences into chunks bounded by the token budget, carrying
// a trailing overlap into each following chunk.
func (p *Processor) pack(sentences []string) []string {
	var chunks []string
	var current []string
	currentLen := 0

	for _, sentence := range sentences {
		sentLen := CountTokens(sentence)
		if currentLen+sentLen > p.maxTokens && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = p.overlapTail(current)
			currentLen = 0
			for _, s := range current {
				currentLen += CountTokens(s)
			}
		}
		current = append(current, sentence)
		currentLen += sentLen
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// overlapTail walks the finished chunk's sentences in reverse until the
// cumulative token count crosses the overlap budget. The walk may include
// one sentence past the budget: overlap is at-least, not at-most, so
// cross-chunk context is never clipped short.
func (p *Processor) overlapTail(chunk []string) []string {
	if p.overlap <= 0 {
		return nil
	}

	var tail []string
	total := 0
	for i := len(chunk) - 1; i >= 0; i-- {
		tail = append([]string{chunk[i]}, tail...)
		total += CountTokens(chunk[i])
		if total >= p.overlap {
			break
		}
	}
	return tail
}

// SplitSentences splits text into sentences on terminal punctuation.
// Empty results are dropped.
func SplitSentences(text string) []string {
	ends := sentenceRe.FindAllStringIndex(text, -1)

	var sentences []string
	prev := 0
	for _, e := range ends {
		// Keep the punctuation, drop the trailing spaces.
		s := strings.TrimSpace(text[prev : e[0]+1])
		if s != "" {
			sentences = append(sentences, s)
		}
		prev = e[1]
	}
	if last := strings.TrimSpace(text[prev:]); last != "" {
		sentences = append(sentences, last)
	}
	return sentences
}

// CountTokens estimates the token count of text as its whitespace-
// delimited word count.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}
