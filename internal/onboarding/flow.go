// Package onboarding drives the post-signup flow: upload a resume, wait for
// the parse, review the derived profile, finish. Skipping the upload or the
// whole flow are first-class exits.
package onboarding

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
	"github.com/jobhub/jobhub/internal/poll"
	"github.com/jobhub/jobhub/internal/store"
)

type Step string

const (
	StepUpload   Step = "upload"
	StepParsing  Step = "parsing"
	StepProfile  Step = "profile"
	StepComplete Step = "complete"
)

// Form is what the profile step edits, pre-filled from the parsed resume
// when there is one.
type Form struct {
	Name            string
	Phone           string
	Location        string
	ExperienceLevel string
	Skills          []string
	PreferredRoles  []string
}

type Flow struct {
	profiles *store.ProfileStore
	poller   *poll.Poller

	mu        sync.Mutex
	step      Step
	resumeID  string
	form      Form
	populated bool
	lastErr   string
	handle    *poll.Handle
}

// NewFlow starts at the upload step, polling parse status at the given
// interval (1s in the app).
func NewFlow(profiles *store.ProfileStore, pollInterval time.Duration) *Flow {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Flow{
		profiles: profiles,
		poller:   poll.New(pollInterval),
		step:     StepUpload,
	}
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) Form() Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	form := f.form
	form.Skills = append([]string(nil), f.form.Skills...)
	form.PreferredRoles = append([]string(nil), f.form.PreferredRoles...)
	return form
}

func (f *Flow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Upload posts the file and, on success, moves to parsing and starts the
// status poll. On failure the flow stays on the upload step.
func (f *Flow) Upload(ctx context.Context, filename string, content io.Reader) store.Result {
	resume, res := f.profiles.UploadResume(ctx, filename, content)
	if !res.Success {
		f.mu.Lock()
		f.lastErr = res.Error
		f.mu.Unlock()
		return res
	}

	f.mu.Lock()
	f.resumeID = resume.ResumeID
	f.step = StepParsing
	f.lastErr = ""
	f.handle = f.poller.Start(ctx, f.checkParse)
	f.mu.Unlock()
	return res
}

// checkParse is one poll tick. Terminal parse states advance the flow; a
// done parse populates the form exactly once, a failed parse leaves it
// empty. Transport errors keep polling.
func (f *Flow) checkParse(ctx context.Context) (bool, error) {
	f.mu.Lock()
	resumeID := f.resumeID
	f.mu.Unlock()

	resume, err := f.profiles.ResumeStatus(ctx, resumeID)
	if err != nil {
		return false, nil
	}

	switch resume.Status {
	case models.ResumeDone:
		f.mu.Lock()
		if !f.populated {
			f.populate(resume.ParsedData)
			f.populated = true
		}
		f.step = StepProfile
		f.mu.Unlock()
		return true, nil
	case models.ResumeFailed:
		f.mu.Lock()
		f.step = StepProfile
		if resume.ErrorMessage != nil {
			f.lastErr = *resume.ErrorMessage
		}
		f.mu.Unlock()
		return true, nil
	default:
		return false, nil
	}
}

func (f *Flow) populate(parsed *models.ParsedResume) {
	if parsed == nil {
		return
	}
	if parsed.Name != nil {
		f.form.Name = *parsed.Name
	}
	if parsed.Phone != nil {
		f.form.Phone = *parsed.Phone
	}
	if parsed.Location != nil {
		f.form.Location = *parsed.Location
	}
	for _, skill := range parsed.Skills {
		f.addSkillLocked(skill)
	}
}

// SkipUpload goes straight to the profile step with empty defaults.
func (f *Flow) SkipUpload() {
	f.stopPoll()
	f.mu.Lock()
	f.step = StepProfile
	f.mu.Unlock()
}

// SkipAll marks onboarding complete with no data and ends the flow.
func (f *Flow) SkipAll(ctx context.Context) store.Result {
	f.stopPoll()
	res := f.profiles.CompleteOnboarding(ctx)
	if res.Success {
		f.mu.Lock()
		f.step = StepComplete
		f.mu.Unlock()
	}
	return res
}

// AddSkill appends to the skill set, case-insensitively deduplicated.
func (f *Flow) AddSkill(skill string) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return
	}
	f.mu.Lock()
	f.addSkillLocked(skill)
	f.mu.Unlock()
}

func (f *Flow) addSkillLocked(skill string) {
	for _, existing := range f.form.Skills {
		if strings.EqualFold(existing, skill) {
			return
		}
	}
	f.form.Skills = append(f.form.Skills, skill)
}

func (f *Flow) RemoveSkill(skill string) {
	f.mu.Lock()
	kept := f.form.Skills[:0]
	for _, existing := range f.form.Skills {
		if !strings.EqualFold(existing, skill) {
			kept = append(kept, existing)
		}
	}
	f.form.Skills = kept
	f.mu.Unlock()
}

func (f *Flow) SetField(set func(*Form)) {
	f.mu.Lock()
	set(&f.form)
	f.mu.Unlock()
}

// Submit persists the edited profile, then marks onboarding complete.
func (f *Flow) Submit(ctx context.Context) store.Result {
	form := f.Form()

	req := dtos.ProfileUpdateRequest{Skills: &form.Skills}
	if form.Name != "" {
		req.Name = &form.Name
	}
	if form.Phone != "" {
		req.Phone = &form.Phone
	}
	if form.Location != "" {
		req.PreferredLocation = &form.Location
	}
	if form.ExperienceLevel != "" {
		req.ExperienceLevel = &form.ExperienceLevel
	}
	if len(form.PreferredRoles) > 0 {
		req.PreferredRoles = &form.PreferredRoles
	}

	if res := f.profiles.Update(ctx, req); !res.Success {
		f.mu.Lock()
		f.lastErr = res.Error
		f.mu.Unlock()
		return res
	}
	res := f.profiles.CompleteOnboarding(ctx)
	if res.Success {
		f.mu.Lock()
		f.step = StepComplete
		f.mu.Unlock()
	}
	return res
}

// Close tears down any live poll. Call it when the flow's UI goes away.
func (f *Flow) Close() {
	f.stopPoll()
}

func (f *Flow) stopPoll() {
	f.mu.Lock()
	handle := f.handle
	f.handle = nil
	f.mu.Unlock()
	if handle != nil {
		handle.Stop()
	}
}
