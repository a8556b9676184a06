package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
San Francisco, CA
jane.doe@example.com | (415) 555-0142
linkedin.com/in/janedoe | github.com/janedoe

Summary
Backend engineer with six years of experience building data platforms.

Experience
Acme Corp - Senior Software Engineer
• Built streaming pipelines with Python and Kafka
• Led migration to Kubernetes
Widget Inc - Software Engineer

Education
Stanford University - BS Computer Science

Skills
Python, Go, PostgreSQL, Docker, Kubernetes

Certifications
AWS Certified Solutions Architect - Amazon

Languages
English, Spanish
`

func TestParseTextContactFields(t *testing.T) {
	p := NewResumeParser()
	parsed := p.ParseText(sampleResume)

	require.NotNil(t, parsed.Name)
	assert.Equal(t, "Jane Doe", *parsed.Name)
	require.NotNil(t, parsed.Email)
	assert.Equal(t, "jane.doe@example.com", *parsed.Email)
	require.NotNil(t, parsed.Phone)
	require.NotNil(t, parsed.Location)
	assert.Equal(t, "San Francisco, CA", *parsed.Location)
	require.NotNil(t, parsed.LinkedIn)
	assert.Equal(t, "linkedin.com/in/janedoe", *parsed.LinkedIn)
	require.NotNil(t, parsed.GitHub)
	assert.Equal(t, "github.com/janedoe", *parsed.GitHub)
}

func TestParseTextSkills(t *testing.T) {
	p := NewResumeParser()
	parsed := p.ParseText(sampleResume)

	assert.Contains(t, parsed.Skills, "Python")
	assert.Contains(t, parsed.Skills, "Docker")
	assert.Contains(t, parsed.Skills, "Kubernetes")
	assert.LessOrEqual(t, len(parsed.Skills), 30)
}

func TestParseTextSections(t *testing.T) {
	p := NewResumeParser()
	parsed := p.ParseText(sampleResume)

	require.NotNil(t, parsed.Summary)
	assert.Contains(t, *parsed.Summary, "Backend engineer")

	require.Len(t, parsed.Experience, 2)
	assert.Equal(t, "Acme Corp", parsed.Experience[0].Company)
	require.NotNil(t, parsed.Experience[0].Title)
	assert.Equal(t, "Senior Software Engineer", *parsed.Experience[0].Title)
	assert.Len(t, parsed.Experience[0].Achievements, 2)

	require.Len(t, parsed.Education, 1)
	assert.Equal(t, "Stanford University", parsed.Education[0].Institution)
	require.NotNil(t, parsed.Education[0].Degree)

	require.Len(t, parsed.Certifications, 1)
	assert.Equal(t, "AWS Certified Solutions Architect", parsed.Certifications[0].Name)

	assert.ElementsMatch(t, []string{"English", "Spanish"}, parsed.Languages)
}

func TestParseTextNameSkipsHeaders(t *testing.T) {
	p := NewResumeParser()
	parsed := p.ParseText("RESUME\nhttp://example.com\nJohn Smith\njohn@example.com\n")

	require.NotNil(t, parsed.Name)
	assert.Equal(t, "John Smith", *parsed.Name)
}

func TestParseTextEmptyInput(t *testing.T) {
	p := NewResumeParser()
	parsed := p.ParseText("")

	assert.Nil(t, parsed.Name)
	assert.Nil(t, parsed.Email)
	assert.Empty(t, parsed.Experience)
}

func TestParseFileRejectsUnknownExtension(t *testing.T) {
	p := NewResumeParser()
	_, err := p.ParseFile("/tmp/resume.docx")
	assert.Error(t, err)
}
