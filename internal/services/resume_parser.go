package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jobhub/jobhub/internal/models"
)

// ResumeParser is the rule-based fallback extractor. When an LLM service is
// configured the resume service prefers it and only lands here on error.
type ResumeParser struct{}

func NewResumeParser() *ResumeParser {
	return &ResumeParser{}
}

var commonSkills = []string{
	"python", "javascript", "typescript", "react", "vue", "angular", "node.js", "nodejs",
	"java", "c++", "c#", "go", "golang", "rust", "ruby", "php", "swift", "kotlin",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"aws", "gcp", "azure", "docker", "kubernetes", "terraform", "jenkins", "ci/cd",
	"git", "linux", "bash", "rest api", "graphql", "microservices",
	"machine learning", "deep learning", "tensorflow", "pytorch",
	"data analysis", "pandas", "numpy", "data science",
	"html", "css", "sass", "tailwind", "bootstrap",
	"agile", "scrum", "jira", "product management", "project management",
	"figma", "ui/ux", "photoshop",
	"fastapi", "django", "flask", "express", "spring boot",
	"next.js", "webpack", "vite",
}

var (
	emailRe    = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.\w+`)
	phoneRe    = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/([a-zA-Z0-9_-]+)`)
	githubRe   = regexp.MustCompile(`(?i)github\.com/([a-zA-Z0-9_-]+)`)
	urlRe      = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	locationRe = regexp.MustCompile(`[A-Z][a-z]+(?: [A-Z][a-z]+)*, (?:[A-Z]{2}|[A-Z][a-z]+)`)
)

var sectionHeaders = map[string][]string{
	"experience":     {"experience", "work history", "employment", "professional experience", "work experience"},
	"education":      {"education", "academic", "qualifications", "educational background"},
	"skills":         {"skills", "technical skills", "competencies", "technologies", "tools"},
	"projects":       {"projects", "personal projects", "side projects", "portfolio"},
	"certifications": {"certifications", "certificates", "licenses"},
	"summary":        {"summary", "objective", "profile", "about me", "professional summary"},
	"languages":      {"languages", "language skills"},
}

const bulletMarkers = "•●○◦▪▸►-*→»›"

// ParseFile extracts text from the file and runs the heuristics. Only PDF
// and plain text are supported.
func (p *ResumeParser) ParseFile(path string) (*models.ParsedResume, error) {
	var text string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = extractPDFText(path)
	case ".txt":
		var raw []byte
		raw, err = os.ReadFile(path)
		text = string(raw)
	default:
		return nil, fmt.Errorf("unsupported resume format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text extracted from %s", filepath.Base(path))
	}
	return p.ParseText(text), nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				b.WriteString(word.S)
				b.WriteString(" ")
			}
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// ParseText runs every heuristic over raw resume text.
func (p *ResumeParser) ParseText(text string) *models.ParsedResume {
	lines := splitLines(text)
	lower := strings.ToLower(text)
	sections := identifySections(lines)

	out := &models.ParsedResume{
		Email:     matchPtr(emailRe, text),
		Phone:     matchPtr(phoneRe, text),
		Name:      extractName(lines),
		LinkedIn:  extractProfileURL(linkedinRe, text, "linkedin.com/in/"),
		GitHub:    extractProfileURL(githubRe, text, "github.com/"),
		Portfolio: extractPortfolio(text),
		Location:  extractLocation(lines),
		Summary:   extractSummary(lines, sections),

		Skills:         extractSkills(lower, lines, sections),
		Education:      extractEducation(lines, sections),
		Experience:     extractExperience(lines, sections),
		Projects:       extractProjects(lines, sections),
		Certifications: extractCertifications(lines, sections),
		Languages:      extractLanguages(lines, sections),
	}
	return out
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = strings.TrimSpace(l)
	}
	return out
}

func matchPtr(re *regexp.Regexp, text string) *string {
	if m := re.FindString(text); m != "" {
		return &m
	}
	return nil
}

func extractName(lines []string) *string {
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		if len(line) <= 2 || len(line) >= 50 {
			continue
		}
		if emailRe.MatchString(line) || phoneRe.MatchString(line) {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "resume") || strings.Contains(lower, "curriculum") ||
			strings.Contains(lower, "http") || strings.Contains(lower, "www") {
			continue
		}
		alpha := 0
		for _, r := range line {
			if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r == ' ' {
				alpha++
			}
		}
		if float64(alpha)/float64(len(line)) > 0.8 {
			name := line
			return &name
		}
	}
	return nil
}

func extractProfileURL(re *regexp.Regexp, text, prefix string) *string {
	if m := re.FindStringSubmatch(text); m != nil {
		url := prefix + m[1]
		return &url
	}
	return nil
}

func extractPortfolio(text string) *string {
	for _, url := range urlRe.FindAllString(text, -1) {
		lower := strings.ToLower(url)
		if strings.Contains(lower, "linkedin") || strings.Contains(lower, "github") {
			continue
		}
		for _, kw := range []string{"portfolio", "personal", ".me", ".io", "behance", "dribbble"} {
			if strings.Contains(lower, kw) {
				return &url
			}
		}
	}
	return nil
}

func extractLocation(lines []string) *string {
	limit := 10
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		if m := locationRe.FindString(line); m != "" {
			return &m
		}
	}
	return nil
}

// identifySections maps a section name to the index of its header line.
func identifySections(lines []string) map[string]int {
	sections := make(map[string]int)
	for i, line := range lines {
		clean := trimLower(strings.Trim(line, ":"))
		if clean == "" || len(clean) > 40 {
			continue
		}
		for name, headers := range sectionHeaders {
			if _, done := sections[name]; done {
				continue
			}
			for _, h := range headers {
				if clean == h {
					sections[name] = i
					break
				}
			}
		}
	}
	return sections
}

// sectionLines returns the body of a section: lines after its header up to
// the next known header (or the limit).
func sectionLines(lines []string, sections map[string]int, name string, limit int) []string {
	start, ok := sections[name]
	if !ok {
		return nil
	}
	end := len(lines)
	for _, idx := range sections {
		if idx > start && idx < end {
			end = idx
		}
	}
	if end-start-1 > limit {
		end = start + 1 + limit
	}
	var out []string
	for _, l := range lines[start+1 : end] {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func extractSummary(lines []string, sections map[string]int) *string {
	body := sectionLines(lines, sections, "summary", 6)
	if len(body) == 0 {
		return nil
	}
	s := strings.Join(body, " ")
	return &s
}

func extractSkills(lower string, lines []string, sections map[string]int) []string {
	found := make(map[string]string) // normalized -> display

	for _, skill := range commonSkills {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(skill) + `\b`)
		if re.MatchString(lower) {
			found[trimLower(skill)] = titleCase(skill)
		}
	}

	for _, line := range sectionLines(lines, sections, "skills", 15) {
		for _, item := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == '|' || strings.ContainsRune(bulletMarkers, r)
		}) {
			item = strings.TrimSpace(item)
			if len(item) > 2 && len(item) < 30 {
				found[trimLower(item)] = item
			}
		}
	}

	out := make([]string, 0, len(found))
	for _, display := range found {
		out = append(out, display)
	}
	sort.Strings(out)
	if len(out) > 30 {
		out = out[:30]
	}
	return out
}

func isBullet(line string) bool {
	return line != "" && strings.ContainsRune(bulletMarkers, rune(line[0]))
}

func cleanBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, bulletMarkers+" "))
}

type sectionEntry struct {
	head    string
	bullets []string
}

// entryHeads splits a section body into head lines with their trailing
// bullets. Most resumes keep one entry per non-bullet line.
func entryHeads(body []string) []sectionEntry {
	var entries []sectionEntry
	for _, line := range body {
		if isBullet(line) {
			if len(entries) == 0 {
				continue
			}
			last := &entries[len(entries)-1]
			last.bullets = append(last.bullets, cleanBullet(line))
			continue
		}
		entries = append(entries, sectionEntry{head: line})
	}
	return entries
}

func extractEducation(lines []string, sections map[string]int) []models.EducationItem {
	var out []models.EducationItem
	for _, e := range entryHeads(sectionLines(lines, sections, "education", 20)) {
		head := e.head
		item := models.EducationItem{Institution: head, Achievements: e.bullets}
		if inst, rest, ok := strings.Cut(head, " - "); ok {
			item.Institution = strings.TrimSpace(inst)
			degree := strings.TrimSpace(rest)
			item.Degree = &degree
		}
		out = append(out, item)
	}
	return out
}

func extractExperience(lines []string, sections map[string]int) []models.ExperienceItem {
	var out []models.ExperienceItem
	for _, e := range entryHeads(sectionLines(lines, sections, "experience", 40)) {
		head := e.head
		item := models.ExperienceItem{Company: head, Achievements: e.bullets}
		if company, title, ok := strings.Cut(head, " - "); ok {
			item.Company = strings.TrimSpace(company)
			t := strings.TrimSpace(title)
			item.Title = &t
		}
		lower := strings.ToLower(head)
		if strings.Contains(lower, "present") || strings.Contains(lower, "current") {
			item.IsCurrent = true
		}
		out = append(out, item)
	}
	return out
}

func extractProjects(lines []string, sections map[string]int) []models.ProjectItem {
	var out []models.ProjectItem
	for _, e := range entryHeads(sectionLines(lines, sections, "projects", 30)) {
		head := e.head
		item := models.ProjectItem{Name: head}
		if name, desc, ok := strings.Cut(head, " - "); ok {
			item.Name = strings.TrimSpace(name)
			d := strings.TrimSpace(desc)
			item.Description = &d
		}
		for _, skill := range commonSkills {
			if strings.Contains(strings.ToLower(head), skill) {
				item.Technologies = append(item.Technologies, titleCase(skill))
			}
		}
		out = append(out, item)
	}
	return out
}

func extractCertifications(lines []string, sections map[string]int) []models.CertificationItem {
	var out []models.CertificationItem
	for _, line := range sectionLines(lines, sections, "certifications", 15) {
		name := cleanBullet(line)
		if name == "" {
			continue
		}
		item := models.CertificationItem{Name: name}
		if n, issuer, ok := strings.Cut(name, " - "); ok {
			item.Name = strings.TrimSpace(n)
			is := strings.TrimSpace(issuer)
			item.Issuer = &is
		}
		out = append(out, item)
	}
	return out
}

func extractLanguages(lines []string, sections map[string]int) []string {
	var out []string
	for _, line := range sectionLines(lines, sections, "languages", 5) {
		for _, item := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || strings.ContainsRune(bulletMarkers, r)
		}) {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
