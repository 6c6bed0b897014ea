package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectDepartment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "computer science keyword",
			text: "The Department of Computer Science offers an M.Tech programme.",
			want: "Computer Science",
		},
		{
			name: "digital image computing maps to computer science",
			text: "Specialization in Digital Image Computing is available.",
			want: "Computer Science",
		},
		{
			name: "futures studies",
			text: "The Department of Futures Studies conducts the course.",
			want: "Futures Studies",
		},
		{
			name: "technology management maps to futures studies",
			text: "M.Tech in Technology Management admission details.",
			want: "Futures Studies",
		},
		{
			name: "optoelectronics",
			text: "Optoelectronics and Optical Communication laboratory facilities.",
			want: "Optoelectronics",
		},
		{
			name: "case insensitive",
			text: "ELECTRONICS AND COMMUNICATION entrance syllabus.",
			want: "Optoelectronics",
		},
		{
			name: "fallback",
			text: "Hostel accommodation is limited.",
			want: LabelGeneral,
		},
		{
			name: "empty text",
			text: "",
			want: LabelGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDepartment(tt.text))
		})
	}
}

func TestDetectCourse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "digital image computing",
			text: "Courses offered: Digital Image Computing with two semesters of labs.",
			want: "M.Tech Computer Science with Specialization in Digital Image Computing",
		},
		{
			name: "technology management",
			text: "Admission to Technology Management requires a valid GATE score.",
			want: "M.Tech Technology Management",
		},
		{
			name: "optoelectronics",
			text: "The Optoelectronics stream covers optical communication.",
			want: "M.Tech Electronics and Communication (Optoelectronics and Optical Communication)",
		},
		{
			name: "fallback",
			text: "General instructions for all applicants.",
			want: LabelGeneral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCourse(tt.text))
		})
	}
}

func TestDetectSection_FirstMatchWins(t *testing.T) {
	// "eligibility" appears before "fee" in the rule table, so a passage
	// containing both is labelled Eligibility.
	text := "Eligibility criteria and fee structure for the programme."
	assert.Equal(t, "Eligibility", DetectSection(text))
}

func TestDetectSection(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Tuition fee must be paid at the time of admission memo issue.", "Fees"},
		{"Reservation norms of the university apply.", "Reservation"},
		{"Refer to the notification for important dates.", "Important Dates"},
		{"Submit the online application before the last date.", "Application Process"},
		{"The entrance examination will be held in June.", "Entrance Exam"},
		{"The rank list will be published on the website.", "Rank List"},
		{"The campus is located near the city.", LabelGeneral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectSection(tt.text), "text: %s", tt.text)
	}
}

func TestDetectTopicType(t *testing.T) {
	assert.Equal(t, TopicInstruction,
		DetectTopicType("Candidates must download the hall ticket before the exam."))
	assert.Equal(t, TopicInstruction,
		DetectTopicType("Upload scanned copies of all certificates."))
	assert.Equal(t, TopicDepartmentSpecific,
		DetectTopicType("The department has advanced research laboratories."))
}

func TestClassifyPassage(t *testing.T) {
	meta := ClassifyPassage(
		"Eligibility for M.Tech Computer Science: valid GATE score in the entrance.",
		"MTech Prospectus 2024",
	)

	assert.Equal(t, "Computer Science", meta.Department)
	assert.Equal(t, "Eligibility", meta.Section)
	assert.Equal(t, TopicInstruction, meta.TopicType)
	assert.Equal(t, "MTech Prospectus 2024", meta.Source)
}

func TestPassageID(t *testing.T) {
	assert.Equal(t, "chunk_0", PassageID(0))
	assert.Equal(t, "chunk_42", PassageID(42))
}
