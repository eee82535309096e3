package analysis

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/models"
	"github.com/maadv/parecer/internal/services/workers"
)

// Service runs the analysis pipeline: dispatch registers a pending
// job and returns its ID immediately, a pool worker carries the job
// to a terminal state. Every dispatched job ends done or error, and
// local temp files plus provider-side uploads are cleaned up on every
// path.
type Service struct {
	config     *common.Config
	logger     arbor.ILogger
	store      interfaces.JobStore
	factory    ProviderFactory
	normalizer interfaces.MediaNormalizer
	extractor  interfaces.PDFExtractor
	pool       *workers.Pool
	validate   *validator.Validate
}

// ProviderFactory creates a provider for one job, honoring an
// optional client-supplied key
type ProviderFactory interface {
	NewProvider(ctx context.Context, apiKey string) (interfaces.LLMProvider, error)
}

// Compile-time assertion
var _ interfaces.AnalysisService = (*Service)(nil)

// NewService creates the analysis service and starts its worker pool
func NewService(
	config *common.Config,
	store interfaces.JobStore,
	factory ProviderFactory,
	normalizer interfaces.MediaNormalizer,
	extractor interfaces.PDFExtractor,
	logger arbor.ILogger,
) *Service {
	pool := workers.NewPool(config.Workers.Concurrency, logger)
	pool.Start()

	return &Service{
		config:     config,
		logger:     logger,
		store:      store,
		factory:    factory,
		normalizer: normalizer,
		extractor:  extractor,
		pool:       pool,
		validate:   validator.New(),
	}
}

// Dispatch validates the request, registers a pending job and queues
// the analysis. Validation failures are synchronous; everything past
// the returned ID surfaces through Status.
func (s *Service) Dispatch(ctx context.Context, req *models.AnalysisRequest) (string, error) {
	if err := s.validate.Struct(req); err != nil {
		s.cleanupLocalFiles(req.Attachments)
		return "", fmt.Errorf("invalid analysis request: %w", err)
	}
	// Attachments may carry the case content on their own
	if len(req.Attachments) == 0 && utf8.RuneCountInString(strings.TrimSpace(req.FatosDoCaso)) < 10 {
		return "", fmt.Errorf("invalid analysis request: fatos_do_caso must have at least 10 characters")
	}
	for _, att := range req.Attachments {
		if att.Kind == models.AttachmentOther {
			s.cleanupLocalFiles(req.Attachments)
			return "", fmt.Errorf("unsupported attachment type: %s", att.Filename)
		}
	}

	id := common.NewTaskID()
	job := models.NewAnalysisJob(id, req.AreaDireito, len(req.Attachments))

	if err := s.store.Create(ctx, job); err != nil {
		s.cleanupLocalFiles(req.Attachments)
		return "", fmt.Errorf("failed to register job: %w", err)
	}

	s.logger.Info().
		Str("job_id", id).
		Str("area_direito", req.AreaDireito).
		Int("attachments", len(req.Attachments)).
		Msg("Analysis job dispatched")

	if err := s.pool.Submit(func(workerCtx context.Context) error {
		s.process(workerCtx, id, req)
		return nil
	}); err != nil {
		// The id is already issued: surface the failure through the
		// job record, never a lost task
		s.failJob(id, "server is shutting down")
		s.cleanupLocalFiles(req.Attachments)
	}

	return id, nil
}

// Status returns the job record for the given ID
func (s *Service) Status(ctx context.Context, id string) (*models.AnalysisJob, error) {
	return s.store.Get(ctx, id)
}

// Stats returns job counts by status
func (s *Service) Stats(ctx context.Context) (*interfaces.JobStats, error) {
	return s.store.Stats(ctx)
}

// Shutdown drains in-flight analyses
func (s *Service) Shutdown(ctx context.Context) error {
	s.pool.Shutdown()
	return nil
}

// process carries one job to a terminal state. Local temp files are
// always removed; provider-side uploads are deleted even when the
// generation call fails.
func (s *Service) process(ctx context.Context, jobID string, req *models.AnalysisRequest) {
	startTime := time.Now()

	defer s.cleanupLocalFiles(req.Attachments)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("job_id", jobID).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic in analysis worker")
			s.failJob(jobID, "internal error during analysis")
		}
	}()

	provider, err := s.factory.NewProvider(ctx, req.APIKey)
	if err != nil {
		s.failJob(jobID, common.RedactError(err.Error()))
		return
	}

	documentText, mediaFiles, err := s.prepareAttachments(ctx, jobID, req, provider)
	defer s.cleanupRemoteFiles(provider, mediaFiles)
	if err != nil {
		s.failJob(jobID, common.RedactError(err.Error()))
		return
	}

	response, err := provider.GenerateContent(ctx, &interfaces.ContentRequest{
		SystemPrompt: BuildSystemPrompt(req.AreaDireito, s.config.Gemini.SearchGrounding),
		Prompt:       BuildUserPrompt(req, documentText, len(mediaFiles)),
		Files:        mediaFiles,
	})
	if err != nil {
		s.failJob(jobID, common.RedactError(err.Error()))
		return
	}

	opinion, outcome := DecodeOpinion(response.Text)
	if outcome != DecodeStrict {
		s.logger.Warn().
			Str("job_id", jobID).
			Str("outcome", string(outcome)).
			Int("response_length", len(response.Text)).
			Msg("Provider response needed repair")
	}

	if err := s.store.Complete(context.Background(), jobID, opinion); err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to store analysis result")
		return
	}

	s.logger.Info().
		Str("job_id", jobID).
		Str("provider", response.Provider).
		Str("model", response.Model).
		Str("decode", string(outcome)).
		Dur("duration", time.Since(startTime)).
		Msg("Analysis job completed")
}

// prepareAttachments extracts PDF text locally and uploads media to
// the provider. Returned media refs must be cleaned up by the caller.
func (s *Service) prepareAttachments(ctx context.Context, jobID string, req *models.AnalysisRequest, provider interfaces.LLMProvider) (string, []interfaces.FileRef, error) {
	var documents strings.Builder
	var mediaFiles []interfaces.FileRef

	for i := range req.Attachments {
		att := &req.Attachments[i]

		switch att.Kind {
		case models.AttachmentPDF:
			text, err := s.extractor.ExtractText(ctx, att.Path)
			if err != nil {
				return "", mediaFiles, fmt.Errorf("failed to read attachment %s: %w", att.Filename, err)
			}
			if strings.TrimSpace(text) != "" {
				fmt.Fprintf(&documents, "\n--- %s ---\n%s\n", att.Filename, text)
			}

		case models.AttachmentAudio, models.AttachmentVideo:
			if !provider.SupportsFiles() {
				return "", mediaFiles, fmt.Errorf("provider %s does not accept media attachments", provider.Name())
			}

			normalized, err := s.normalizer.Normalize(ctx, att)
			if err != nil {
				return "", mediaFiles, err
			}
			if normalized.Path != att.Path {
				// Re-encoded copy replaces the original for upload and
				// in the cleanup list; the original goes now
				if err := os.Remove(att.Path); err != nil && !os.IsNotExist(err) {
					s.logger.Warn().Err(err).Str("path", att.Path).Msg("Failed to remove original media file")
				}
				req.Attachments[i] = *normalized
				att = &req.Attachments[i]
			}

			ref, err := provider.UploadFile(ctx, att.Path, att.ProviderMIMEType())
			if err != nil {
				return "", mediaFiles, fmt.Errorf("failed to upload attachment %s: %w", att.Filename, err)
			}
			s.logger.Debug().
				Str("job_id", jobID).
				Str("filename", att.Filename).
				Str("remote", ref.Name).
				Msg("Attachment uploaded to provider")
			mediaFiles = append(mediaFiles, *ref)
		}
	}

	return documents.String(), mediaFiles, nil
}

// failJob records a terminal error, never overwriting an earlier
// terminal state
func (s *Service) failJob(jobID, msg string) {
	if err := s.store.Fail(context.Background(), jobID, msg); err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to store job error")
	}
}

// cleanupLocalFiles removes the temp files persisted at intake
func (s *Service) cleanupLocalFiles(attachments []models.Attachment) {
	for _, att := range attachments {
		if att.Path == "" {
			continue
		}
		if err := os.Remove(att.Path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", att.Path).Msg("Failed to remove temp attachment")
		}
	}
}

// cleanupRemoteFiles deletes provider-side uploads, best effort
func (s *Service) cleanupRemoteFiles(provider interfaces.LLMProvider, refs []interfaces.FileRef) {
	for i := range refs {
		// Detached context: cleanup must run even after worker cancel
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := provider.DeleteFile(ctx, &refs[i]); err != nil {
			s.logger.Warn().Err(err).Str("remote", refs[i].Name).Msg("Failed to delete remote file")
		}
		cancel()
	}
}
