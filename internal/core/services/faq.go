package services

import (
	"math"
	"regexp"
	"strings"

	"github.com/admitkit/prospecta-cli/internal/core/domain"
	"github.com/admitkit/prospecta-cli/internal/logger"
)

// faqThreshold is the minimum Ochiai similarity between the query and an
// FAQ question for the canned answer to be used. High on purpose: a
// near-verbatim match short-circuits retrieval, anything else goes
// through the full pipeline.
const faqThreshold = 0.9

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// FAQMatcher answers frequently asked questions from a fixed list
// without touching the retrieval pipeline.
type FAQMatcher struct {
	entries []domain.FAQEntry
}

// NewFAQMatcher creates a matcher over the given entries. A nil slice
// uses the built-in prospectus FAQ list.
func NewFAQMatcher(entries []domain.FAQEntry) *FAQMatcher {
	if entries == nil {
		entries = defaultFAQ
	}
	return &FAQMatcher{entries: entries}
}

// Match returns the canned answer for the best-matching FAQ question,
// or ok=false when no question is similar enough.
func (m *FAQMatcher) Match(query string) (string, bool) {
	qset := toTokenSet(query)
	if len(qset) == 0 {
		return "", false
	}

	best := -1
	bestScore := 0.0
	for i, entry := range m.entries {
		score := ochiai(qset, toTokenSet(entry.Question))
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 || bestScore < faqThreshold {
		return "", false
	}
	logger.Info("faq: matched %q with score %.2f", m.entries[best].Question, bestScore)
	return m.entries[best].Answer, true
}

func toTokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// ochiai is the Ochiai coefficient over two token sets:
// |A∩B| / sqrt(|A|*|B|).
func ochiai(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(a))*float64(len(b)))
}

// defaultFAQ covers the questions the admissions office receives most
// often. Answers are kept short; anything needing nuance belongs to the
// prospectus corpus instead.
var defaultFAQ = []domain.FAQEntry{
	{
		Question: "What is the last date to apply?",
		Answer:   "The application deadline is published in the Important Dates section of the prospectus. Please check the official admissions portal for the current cycle.",
	},
	{
		Question: "Is a GATE score required for M.Tech admission?",
		Answer:   "Yes, a valid GATE score is required for admission to all M.Tech programmes.",
	},
	{
		Question: "How do I apply for M.Tech admission?",
		Answer:   "Applications are submitted online through the official admissions portal. Register, fill in the application form, upload the required documents and pay the application fee.",
	},
	{
		Question: "What is the application fee?",
		Answer:   "The application fee for the general category is given in the Fees section of the prospectus. SC/ST candidates pay a reduced fee.",
	},
	{
		Question: "Is hostel accommodation available?",
		Answer:   "Hostel accommodation is available on campus subject to availability. Allotment is done after admission based on the rank list.",
	},
}
