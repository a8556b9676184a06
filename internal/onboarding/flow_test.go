package onboarding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/models"
	"github.com/jobhub/jobhub/internal/store"
)

// flowBackend parses to done after pollsUntilDone status checks.
func flowBackend(t *testing.T, finalStatus string, pollsUntilDone int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var statusCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/profile/resume/upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Resume{ResumeID: "resume_1", Status: models.ResumeUploaded})
	})
	mux.HandleFunc("/profile/resume/resume_1/status", func(w http.ResponseWriter, r *http.Request) {
		resume := models.Resume{ResumeID: "resume_1", Status: models.ResumeParsing}
		if statusCalls.Add(1) >= pollsUntilDone {
			resume.Status = finalStatus
			if finalStatus == models.ResumeDone {
				name := "Jane Doe"
				resume.ParsedData = &models.ParsedResume{
					Name:   &name,
					Skills: []string{"Go", "go", "Python"},
				}
			} else {
				msg := "no text extracted"
				resume.ErrorMessage = &msg
			}
		}
		json.NewEncoder(w).Encode(resume)
	})
	mux.HandleFunc("/profile/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Profile{UserID: "user_1"})
	})
	mux.HandleFunc("/profile/me/complete-onboarding", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "Onboarding completed"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &statusCalls
}

func waitForStep(t *testing.T, f *Flow, step Step) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for f.Step() != step {
		if time.Now().After(deadline) {
			t.Fatalf("flow never reached %s, stuck at %s", step, f.Step())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFlowHappyPathPopulatesOnce(t *testing.T) {
	srv, statusCalls := flowBackend(t, models.ResumeDone, 3)
	f := NewFlow(store.NewProfileStore(client.New(srv.URL)), 10*time.Millisecond)
	defer f.Close()

	res := f.Upload(context.Background(), "resume.pdf", strings.NewReader("pdf"))
	require.True(t, res.Success)
	assert.Equal(t, StepParsing, f.Step())

	waitForStep(t, f, StepProfile)

	form := f.Form()
	assert.Equal(t, "Jane Doe", form.Name)
	// parsed skills land deduplicated
	assert.Equal(t, []string{"Go", "Python"}, form.Skills)

	// polling is inert after the terminal status
	calls := statusCalls.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, calls, statusCalls.Load())
}

func TestFlowFailedParseAdvancesWithEmptyForm(t *testing.T) {
	srv, _ := flowBackend(t, models.ResumeFailed, 2)
	f := NewFlow(store.NewProfileStore(client.New(srv.URL)), 10*time.Millisecond)
	defer f.Close()

	require.True(t, f.Upload(context.Background(), "resume.pdf", strings.NewReader("pdf")).Success)
	waitForStep(t, f, StepProfile)

	form := f.Form()
	assert.Empty(t, form.Name)
	assert.Empty(t, form.Skills)
	assert.Equal(t, "no text extracted", f.LastError())
}

func TestFlowUploadFailureStaysOnUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Only PDF and plain-text resumes are accepted"})
	}))
	defer srv.Close()

	f := NewFlow(store.NewProfileStore(client.New(srv.URL)), 10*time.Millisecond)
	defer f.Close()

	res := f.Upload(context.Background(), "resume.docx", strings.NewReader("doc"))

	assert.False(t, res.Success)
	assert.Equal(t, "Only PDF and plain-text resumes are accepted", res.Error)
	assert.Equal(t, StepUpload, f.Step())
}

func TestFlowSkipUpload(t *testing.T) {
	srv, statusCalls := flowBackend(t, models.ResumeDone, 1)
	f := NewFlow(store.NewProfileStore(client.New(srv.URL)), 10*time.Millisecond)

	f.SkipUpload()

	assert.Equal(t, StepProfile, f.Step())
	assert.Zero(t, statusCalls.Load())
}

func TestFlowSkipAll(t *testing.T) {
	srv, _ := flowBackend(t, models.ResumeDone, 1)
	f := NewFlow(store.NewProfileStore(client.New(srv.URL)), 10*time.Millisecond)

	res := f.SkipAll(context.Background())

	require.True(t, res.Success)
	assert.Equal(t, StepComplete, f.Step())
}

func TestFlowSkillDedup(t *testing.T) {
	srv, _ := flowBackend(t, models.ResumeDone, 1)
	f := NewFlow(store.NewProfileStore(client.New(srv.URL)), 10*time.Millisecond)
	f.SkipUpload()

	f.AddSkill("Go")
	f.AddSkill("go")
	f.AddSkill(" Python ")
	f.RemoveSkill("GO")

	assert.Equal(t, []string{"Python"}, f.Form().Skills)
}

func TestFlowSubmitCompletes(t *testing.T) {
	srv, _ := flowBackend(t, models.ResumeDone, 1)
	f := NewFlow(store.NewProfileStore(client.New(srv.URL)), 10*time.Millisecond)
	f.SkipUpload()
	f.AddSkill("Go")
	f.SetField(func(form *Form) { form.ExperienceLevel = models.ExperienceSenior })

	res := f.Submit(context.Background())

	require.True(t, res.Success)
	assert.Equal(t, StepComplete, f.Step())
}
