package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

// MatcherService scores jobs against an engineer's profile. Rule-based:
// skills carry 60% of the score, experience proximity 25%, role relevance 15%.
type MatcherService struct{}

func NewMatcherService() *MatcherService {
	return &MatcherService{}
}

var experienceRank = map[string]int{
	models.ExperienceEntry:  1,
	models.ExperienceMid:    2,
	models.ExperienceSenior: 3,
}

// Score computes the match between one job and a profile.
func (s *MatcherService) Score(job models.Job, skills []string, experienceLevel string, preferredRoles []string) dtos.JobWithScore {
	userSkills := make(map[string]bool, len(skills))
	for _, sk := range skills {
		userSkills[strings.ToLower(sk)] = true
	}

	var matched, missing []string
	for _, sk := range job.SkillsRequired {
		if userSkills[strings.ToLower(sk)] {
			matched = append(matched, titleCase(sk))
		} else {
			missing = append(missing, titleCase(sk))
		}
	}

	var skillScore float64
	if len(job.SkillsRequired) > 0 {
		skillScore = float64(len(matched)) / float64(len(job.SkillsRequired)) * 60
	} else {
		skillScore = 30 // no required skills listed, call it a partial match
	}

	expScore := 12.0 // unknown on either side
	jobRank, jobKnown := experienceRank[strings.ToLower(job.ExperienceLevel)]
	userRank, userKnown := experienceRank[strings.ToLower(experienceLevel)]
	if jobKnown && userKnown {
		switch diff := abs(jobRank - userRank); diff {
		case 0:
			expScore = 25
		case 1:
			expScore = 15
		default:
			expScore = 5
		}
	}

	roleScore := 7.0 // no stated preference is neutral
	if len(preferredRoles) > 0 {
		roleScore = 5
		title := strings.ToLower(job.Title)
		for _, role := range preferredRoles {
			r := strings.ToLower(role)
			if strings.Contains(title, r) || strings.Contains(r, title) {
				roleScore = 15
				break
			}
		}
	}

	total := skillScore + expScore + roleScore

	var reasons []string
	if len(matched) > 0 {
		reasons = append(reasons, fmt.Sprintf("Matches %d of your skills", len(matched)))
	}
	if expScore >= 20 {
		reasons = append(reasons, "Experience level is a good fit")
	}
	if roleScore >= 10 {
		reasons = append(reasons, "Aligns with your preferred roles")
	}
	if job.IsStartup {
		reasons = append(reasons, "Startup opportunity")
	}
	if job.Remote {
		reasons = append(reasons, "Remote work available")
	}
	why := "Based on your profile"
	if len(reasons) > 0 {
		why = strings.Join(reasons, ". ")
	}

	if len(missing) > 5 {
		missing = missing[:5]
	}

	return dtos.JobWithScore{
		Job:            job,
		MatchScore:     round1(total),
		MatchedSkills:  matched,
		MissingSkills:  missing,
		WhyRecommended: why,
	}
}

// Rank scores every job and orders the result by match score or recency.
func (s *MatcherService) Rank(jobs []models.Job, skills []string, experienceLevel string, preferredRoles []string, sortBy string) []dtos.JobWithScore {
	scored := make([]dtos.JobWithScore, 0, len(jobs))
	for _, job := range jobs {
		scored = append(scored, s.Score(job, skills, experienceLevel, preferredRoles))
	}

	if sortBy == "newest" {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].DatePosted.After(scored[j].DatePosted)
		})
	} else {
		sort.SliceStable(scored, func(i, j int) bool {
			if scored[i].MatchScore != scored[j].MatchScore {
				return scored[i].MatchScore > scored[j].MatchScore
			}
			return scored[i].DatePosted.After(scored[j].DatePosted)
		})
	}
	return scored
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
