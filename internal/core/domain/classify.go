package domain

import "strings"

// Classification of passage text into metadata labels. Each detector is a
// pure function over an ordered rule table: the first rule whose keywords
// match wins, otherwise the fallback label applies. Matching is
// case-insensitive substring containment.

// keywordRule maps a label to the keywords that select it.
type keywordRule struct {
	label    string
	keywords []string
}

// LabelGeneral is the fallback label for all detectors.
const LabelGeneral = "General"

// TopicType labels.
const (
	TopicInstruction        = "Instruction"
	TopicDepartmentSpecific = "Department-Specific"
)

var departmentRules = []keywordRule{
	{"Computer Science", []string{"computer science", "digital image computing"}},
	{"Futures Studies", []string{"futures studies", "technology management"}},
	{"Optoelectronics", []string{"optoelectronics", "electronics and communication"}},
}

var courseRules = []keywordRule{
	{"M.Tech Computer Science with Specialization in Digital Image Computing", []string{"digital image computing"}},
	{"M.Tech Technology Management", []string{"technology management"}},
	{"M.Tech Electronics and Communication (Optoelectronics and Optical Communication)", []string{"optoelectronics", "electronics and communication"}},
}

var sectionRules = []keywordRule{
	{"Eligibility", []string{"eligibility"}},
	{"Fees", []string{"fee", "tuition"}},
	{"Reservation", []string{"reservation"}},
	{"Important Dates", []string{"important dates", "notification"}},
	{"Application Process", []string{"application"}},
	{"Admission Procedure", []string{"admission", "how to apply"}},
	{"Entrance Exam", []string{"entrance"}},
	{"Rank List", []string{"rank list"}},
}

var instructionKeywords = []string{
	"online application", "entrance", "admit card", "admission memo",
	"about the university", "important information", "admision activities",
	"fee payment", "instructions", "apply online", "upload", "hall ticket",
	"how to apply", "rank list", "reservation",
}

// classify applies an ordered rule table to the text.
func classify(text string, rules []keywordRule) string {
	lower := strings.ToLower(text)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.label
			}
		}
	}
	return LabelGeneral
}

// DetectDepartment infers the department name from passage text.
func DetectDepartment(text string) string {
	return classify(text, departmentRules)
}

// DetectCourse infers the specific course name from passage text.
func DetectCourse(text string) string {
	return classify(text, courseRules)
}

// DetectSection identifies the document section, such as eligibility or fees.
func DetectSection(text string) string {
	return classify(text, sectionRules)
}

// DetectTopicType classifies a passage as general instruction text or
// department-specific content.
func DetectTopicType(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range instructionKeywords {
		if strings.Contains(lower, kw) {
			return TopicInstruction
		}
	}
	return TopicDepartmentSpecific
}

// ClassifyPassage derives the full metadata for a passage text.
func ClassifyPassage(text, source string) PassageMetadata {
	return PassageMetadata{
		Department: DetectDepartment(text),
		Course:     DetectCourse(text),
		Section:    DetectSection(text),
		TopicType:  DetectTopicType(text),
		Source:     source,
	}
}
