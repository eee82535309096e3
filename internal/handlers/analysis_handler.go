package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/maadv/parecer/internal/common"
	"github.com/maadv/parecer/internal/interfaces"
	"github.com/maadv/parecer/internal/models"
)

// maxFieldBytes bounds text form fields so a field part cannot consume
// the whole request budget
const maxFieldBytes = 1 << 20

type AnalysisHandler struct {
	config  *common.Config
	service interfaces.AnalysisService
	logger  arbor.ILogger
}

func NewAnalysisHandler(config *common.Config, service interfaces.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		config:  config,
		service: service,
		logger:  common.GetLogger(),
	}
}

// AnalisarHandler accepts a multipart analysis request and dispatches
// an async job. The response carries only the task ID; results are
// polled via /status/{task_id}.
func (h *AnalysisHandler) AnalisarHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	maxBytes := h.config.Upload.MaxRequestBytes
	if r.ContentLength > maxBytes {
		WriteError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request exceeds maximum size of %d bytes", maxBytes))
		return
	}
	// Small headroom for multipart boundaries and headers
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1024)

	mr, err := r.MultipartReader()
	if err != nil {
		WriteError(w, http.StatusBadRequest, "expected multipart/form-data request")
		return
	}

	req, err := h.readMultipart(mr)
	if err != nil {
		if req != nil {
			h.removeTempFiles(req.Attachments)
		}
		status := http.StatusBadRequest
		if errors.Is(err, errRequestTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		WriteError(w, status, err.Error())
		return
	}

	taskID, err := h.service.Dispatch(r.Context(), req)
	if err != nil {
		// Dispatch removes the temp files on its own failure paths
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "unsupported attachment") {
			status = http.StatusUnsupportedMediaType
		}
		WriteError(w, status, err.Error())
		return
	}

	WriteAccepted(w, taskID)
}

var errRequestTooLarge = errors.New("request body exceeds the configured size limit")

// readMultipart streams the request parts, persisting file parts to
// temp storage. The caller owns cleanup of any persisted files when an
// error is returned.
func (h *AnalysisHandler) readMultipart(mr *multipart.Reader) (*models.AnalysisRequest, error) {
	req := &models.AnalysisRequest{}
	var total int64

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if isBodyTooLarge(err) {
				return req, errRequestTooLarge
			}
			return req, fmt.Errorf("malformed multipart request: %w", err)
		}

		switch part.FormName() {
		case "fatos_do_caso":
			req.FatosDoCaso, err = readField(part)
		case "area_direito":
			req.AreaDireito, err = readField(part)
		case "juiz":
			req.Juiz, err = readField(part)
		case "tribunal":
			req.Tribunal, err = readField(part)
		case "api_key":
			req.APIKey, err = readField(part)
		case "arquivos":
			var att *models.Attachment
			att, err = h.persistTemp(part, &total)
			if err == nil && att != nil {
				req.Attachments = append(req.Attachments, *att)
			}
		default:
			// Unknown parts are drained and ignored
			_, err = io.Copy(io.Discard, io.LimitReader(part, maxFieldBytes))
		}

		part.Close()
		if err != nil {
			if isBodyTooLarge(err) {
				return req, errRequestTooLarge
			}
			return req, err
		}
	}

	req.FatosDoCaso = strings.TrimSpace(req.FatosDoCaso)
	req.AreaDireito = strings.TrimSpace(req.AreaDireito)
	req.Juiz = strings.TrimSpace(req.Juiz)
	req.Tribunal = strings.TrimSpace(req.Tribunal)
	req.APIKey = strings.TrimSpace(req.APIKey)

	return req, nil
}

// readField reads a bounded text form field
func readField(part *multipart.Part) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read form field %s: %w", part.FormName(), err)
	}
	if len(data) > maxFieldBytes {
		return "", fmt.Errorf("form field %s is too large", part.FormName())
	}
	return string(data), nil
}

// persistTemp streams one file part to an opaque temp file, enforcing
// the cumulative upload budget mid-stream. Empty file parts are
// skipped rather than rejected so an empty file input does not break
// the form.
func (h *AnalysisHandler) persistTemp(part *multipart.Part, total *int64) (*models.Attachment, error) {
	filename := filepath.Base(part.FileName())
	if filename == "" || filename == "." {
		// Field part posted under the file name, treat as absent
		_, err := io.Copy(io.Discard, io.LimitReader(part, maxFieldBytes))
		return nil, err
	}

	// An empty TempDir falls through to os.TempDir inside CreateTemp
	if h.config.Upload.TempDir != "" {
		if err := os.MkdirAll(h.config.Upload.TempDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(h.config.Upload.TempDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	var written int64
	var sniffed []byte
	buf := make([]byte, h.config.Upload.ChunkSize)
	for {
		n, readErr := part.Read(buf)
		if n > 0 {
			written += int64(n)
			*total += int64(n)
			if *total > h.config.Upload.MaxRequestBytes {
				tmp.Close()
				os.Remove(tmp.Name())
				return nil, errRequestTooLarge
			}
			if len(sniffed) < 512 {
				sniffed = append(sniffed, buf[:min(n, 512-len(sniffed))]...)
			}
			if _, werr := tmp.Write(buf[:n]); werr != nil {
				tmp.Close()
				os.Remove(tmp.Name())
				return nil, fmt.Errorf("failed to persist upload %s: %w", filename, werr)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			if isBodyTooLarge(readErr) {
				return nil, errRequestTooLarge
			}
			return nil, fmt.Errorf("failed to read upload %s: %w", filename, readErr)
		}
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to finalize upload %s: %w", filename, err)
	}
	if written == 0 {
		os.Remove(tmp.Name())
		return nil, nil
	}

	contentType := part.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(sniffed)
	}

	att := &models.Attachment{
		Filename: filename,
		Path:     tmp.Name(),
		Size:     written,
		MIMEType: contentType,
		Kind:     models.InferAttachmentKind(filename, contentType),
	}

	h.logger.Debug().
		Str("filename", filename).
		Str("kind", string(att.Kind)).
		Int("size", int(written)).
		Msg("Attachment persisted")

	return att, nil
}

// removeTempFiles cleans up persisted uploads after an intake failure
func (h *AnalysisHandler) removeTempFiles(attachments []models.Attachment) {
	for _, att := range attachments {
		if att.Path == "" {
			continue
		}
		if err := os.Remove(att.Path); err != nil && !os.IsNotExist(err) {
			h.logger.Warn().Err(err).Str("path", att.Path).Msg("Failed to remove temp attachment")
		}
	}
}

// isBodyTooLarge detects the MaxBytesReader limit error
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
