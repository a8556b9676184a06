package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jobhub/jobhub/internal/models"
)

const maxResumeSize = 10 << 20 // 10 MB

var (
	ErrResumeNotFound = errors.New("resume not found")
	ErrResumeTooLarge = errors.New("resume exceeds the 10MB size limit")
	ErrResumeBadType  = errors.New("only PDF and plain-text resumes are accepted")
)

type ResumeService struct {
	DB          *gorm.DB
	Profiles    *ProfileService
	Parser      *ResumeParser
	LLM         *LLMService
	StoragePath string
}

func NewResumeService(db *gorm.DB, profiles *ProfileService, parser *ResumeParser, llm *LLMService, storagePath string) *ResumeService {
	return &ResumeService{
		DB:          db,
		Profiles:    profiles,
		Parser:      parser,
		LLM:         llm,
		StoragePath: storagePath,
	}
}

// Upload stores the file, creates the resume record in "uploaded" state and
// kicks off parsing in the background. Callers poll GET /resumes/:id for the
// status transition.
func (s *ResumeService) Upload(userID string, header *multipart.FileHeader) (*models.Resume, error) {
	if header.Size > maxResumeSize {
		return nil, ErrResumeTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".txt" {
		return nil, ErrResumeBadType
	}

	if err := os.MkdirAll(s.StoragePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	resumeID := models.NewID("resume")
	dest := filepath.Join(s.StoragePath, resumeID+"_"+filepath.Base(header.Filename))

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dest)
		return nil, fmt.Errorf("save upload: %w", err)
	}
	out.Close()

	resume := models.Resume{
		ResumeID: resumeID,
		UserID:   userID,
		Filename: header.Filename,
		Filepath: dest,
		Status:   models.ResumeUploaded,
	}
	if err := s.DB.Create(&resume).Error; err != nil {
		os.Remove(dest)
		return nil, fmt.Errorf("create resume: %w", err)
	}

	go s.parse(resume)
	return &resume, nil
}

func (s *ResumeService) Get(userID, resumeID string) (*models.Resume, error) {
	var resume models.Resume
	err := s.DB.Where("resume_id = ? AND user_id = ?", resumeID, userID).First(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResumeNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get resume: %w", err)
	}
	return &resume, nil
}

// parse runs in its own goroutine. Status goes uploaded -> parsing -> done,
// or failed with an error message.
func (s *ResumeService) parse(resume models.Resume) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.setStatus(resume.ResumeID, models.ResumeParsing, nil)

	parsed, err := s.extract(ctx, resume.Filepath)
	if err != nil {
		log.Error().Err(err).Str("resume_id", resume.ResumeID).Msg("resume parse failed")
		msg := err.Error()
		s.setStatus(resume.ResumeID, models.ResumeFailed, &msg)
		return
	}

	err = s.DB.Model(&models.Resume{}).
		Where("resume_id = ?", resume.ResumeID).
		Updates(map[string]any{
			"status":      models.ResumeDone,
			"parsed_data": parsed,
			"updated_at":  time.Now().UTC(),
		}).Error
	if err != nil {
		log.Error().Err(err).Str("resume_id", resume.ResumeID).Msg("store parsed resume")
		return
	}

	if err := s.Profiles.MergeParsed(resume.UserID, resume.ResumeID, parsed); err != nil {
		log.Error().Err(err).Str("resume_id", resume.ResumeID).Msg("merge parsed resume into profile")
	}
}

// extract prefers the LLM and falls back to the heuristics.
func (s *ResumeService) extract(ctx context.Context, path string) (*models.ParsedResume, error) {
	if s.LLM != nil {
		text, err := extractResumeText(path)
		if err == nil {
			parsed, err := s.LLM.ExtractResumeProfile(ctx, text)
			if err == nil {
				return parsed, nil
			}
			log.Warn().Err(err).Msg("llm extraction failed, using rule-based parser")
		}
	}
	return s.Parser.ParseFile(path)
}

func extractResumeText(path string) (string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		return extractPDFText(path)
	}
	raw, err := os.ReadFile(path)
	return string(raw), err
}

func (s *ResumeService) setStatus(resumeID, status string, errMsg *string) {
	updates := map[string]any{"status": status, "updated_at": time.Now().UTC()}
	if errMsg != nil {
		updates["error_message"] = *errMsg
	}
	err := s.DB.Model(&models.Resume{}).
		Where("resume_id = ?", resumeID).
		Updates(updates).Error
	if err != nil {
		log.Error().Err(err).Str("resume_id", resumeID).Msg("update resume status")
	}
}
