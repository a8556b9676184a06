package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jobhub/jobhub/internal/models"
)

func TestScoreFullMatch(t *testing.T) {
	m := NewMatcherService()
	job := models.Job{
		Title:           "Senior Backend Engineer",
		SkillsRequired:  models.StringSlice{"go", "postgresql"},
		ExperienceLevel: models.ExperienceSenior,
	}

	scored := m.Score(job, []string{"Go", "PostgreSQL"}, models.ExperienceSenior, []string{"Backend Engineer"})

	// 60 for all skills, 25 for equal experience, 15 for role overlap
	assert.Equal(t, 100.0, scored.MatchScore)
	assert.ElementsMatch(t, []string{"Go", "Postgresql"}, scored.MatchedSkills)
	assert.Empty(t, scored.MissingSkills)
	assert.Contains(t, scored.WhyRecommended, "Matches 2 of your skills")
}

func TestScoreWeighting(t *testing.T) {
	m := NewMatcherService()
	job := models.Job{
		Title:           "Data Engineer",
		SkillsRequired:  models.StringSlice{"python", "spark"},
		ExperienceLevel: models.ExperienceSenior,
	}

	scored := m.Score(job, []string{"python"}, models.ExperienceMid, nil)

	// half the skills (30) + adjacent experience (15) + no role prefs (7)
	assert.Equal(t, 52.0, scored.MatchScore)
	assert.Equal(t, []string{"Python"}, scored.MatchedSkills)
	assert.Equal(t, []string{"Spark"}, scored.MissingSkills)
}

func TestScoreNoSkillsListed(t *testing.T) {
	m := NewMatcherService()
	job := models.Job{Title: "Generalist", ExperienceLevel: "unknown"}

	scored := m.Score(job, []string{"go"}, "", nil)

	// 30 partial skills + 12 unknown experience + 7 neutral role
	assert.Equal(t, 49.0, scored.MatchScore)
	assert.Equal(t, "Based on your profile", scored.WhyRecommended)
}

func TestScoreRolePreferenceMiss(t *testing.T) {
	m := NewMatcherService()
	job := models.Job{Title: "Frontend Developer", ExperienceLevel: models.ExperienceMid}

	with := m.Score(job, nil, models.ExperienceMid, []string{"Backend Engineer"})
	without := m.Score(job, nil, models.ExperienceMid, nil)

	// stated preferences that miss score lower than no stated preference
	assert.Less(t, with.MatchScore, without.MatchScore)
}

func TestScoreMissingSkillsCapped(t *testing.T) {
	m := NewMatcherService()
	job := models.Job{
		SkillsRequired: models.StringSlice{"a", "b", "c", "d", "e", "f", "g"},
	}

	scored := m.Score(job, nil, "", nil)
	assert.Len(t, scored.MissingSkills, 5)
}

func TestRankBestMatchWithRecencyTiebreak(t *testing.T) {
	m := NewMatcherService()
	old := models.Job{JobID: "job_old", SkillsRequired: models.StringSlice{"go"}, DatePosted: time.Now().Add(-48 * time.Hour)}
	fresh := models.Job{JobID: "job_new", SkillsRequired: models.StringSlice{"go"}, DatePosted: time.Now()}
	weak := models.Job{JobID: "job_weak", SkillsRequired: models.StringSlice{"cobol"}, DatePosted: time.Now()}

	ranked := m.Rank([]models.Job{old, weak, fresh}, []string{"go"}, "", nil, "best_match")

	assert.Equal(t, "job_new", ranked[0].JobID)
	assert.Equal(t, "job_old", ranked[1].JobID)
	assert.Equal(t, "job_weak", ranked[2].JobID)
}

func TestRankNewest(t *testing.T) {
	m := NewMatcherService()
	old := models.Job{JobID: "job_old", SkillsRequired: models.StringSlice{"go"}, DatePosted: time.Now().Add(-time.Hour)}
	fresh := models.Job{JobID: "job_new", DatePosted: time.Now()}

	ranked := m.Rank([]models.Job{old, fresh}, []string{"go"}, "", nil, "newest")
	assert.Equal(t, "job_new", ranked[0].JobID)
}
