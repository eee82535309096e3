package models

import (
	"path/filepath"
	"strings"
)

// AttachmentKind classifies an uploaded file by how the analysis
// pipeline handles it
type AttachmentKind string

const (
	// AttachmentPDF is extracted to text locally before prompting
	AttachmentPDF AttachmentKind = "pdf"
	// AttachmentAudio is normalized and uploaded to the provider
	AttachmentAudio AttachmentKind = "audio"
	// AttachmentVideo is normalized and uploaded to the provider
	AttachmentVideo AttachmentKind = "video"
	// AttachmentOther is rejected at intake
	AttachmentOther AttachmentKind = "other"
)

// Attachment is a client upload persisted to a temp file for the
// lifetime of one analysis job. Path points at an opaque temp name;
// Filename is the client-supplied name, display only.
type Attachment struct {
	Filename string         `json:"filename"`
	Path     string         `json:"-"`
	Size     int64          `json:"size"`
	MIMEType string         `json:"mime_type"`
	Kind     AttachmentKind `json:"kind"`
}

// AnalysisRequest is the validated intake of POST /analisar. The
// narrative minimum is enforced at dispatch: attachments may carry
// the case content, so a short narrative is only rejected when
// nothing else was sent.
type AnalysisRequest struct {
	FatosDoCaso string       `json:"fatos_do_caso"`
	AreaDireito string       `json:"area_direito" validate:"required,min=3"`
	Juiz        string       `json:"juiz,omitempty"`
	Tribunal    string       `json:"tribunal,omitempty"`
	APIKey      string       `json:"-"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

var extensionKinds = map[string]AttachmentKind{
	".pdf":  AttachmentPDF,
	".mp3":  AttachmentAudio,
	".wav":  AttachmentAudio,
	".m4a":  AttachmentAudio,
	".aac":  AttachmentAudio,
	".ogg":  AttachmentAudio,
	".opus": AttachmentAudio,
	".flac": AttachmentAudio,
	".mp4":  AttachmentVideo,
	".mov":  AttachmentVideo,
	".mkv":  AttachmentVideo,
	".webm": AttachmentVideo,
	".avi":  AttachmentVideo,
}

var mimeKinds = map[string]AttachmentKind{
	"application/pdf": AttachmentPDF,
}

// InferAttachmentKind classifies an upload by extension first,
// falling back to the declared content type. The declared type alone
// is never trusted for anything beyond classification.
func InferAttachmentKind(filename, contentType string) AttachmentKind {
	ext := strings.ToLower(filepath.Ext(filename))
	if kind, ok := extensionKinds[ext]; ok {
		return kind
	}
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if kind, ok := mimeKinds[ct]; ok {
		return kind
	}
	switch {
	case strings.HasPrefix(ct, "audio/"):
		return AttachmentAudio
	case strings.HasPrefix(ct, "video/"):
		return AttachmentVideo
	}
	return AttachmentOther
}

// ProviderMIMEType returns the content type sent to the provider's
// file API, preferring the declared type when one was supplied.
func (a *Attachment) ProviderMIMEType() string {
	if a.MIMEType != "" && a.MIMEType != "application/octet-stream" {
		return a.MIMEType
	}
	switch strings.ToLower(filepath.Ext(a.Filename)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".aac":
		return "audio/aac"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	case ".webm":
		return "video/webm"
	case ".avi":
		return "video/x-msvideo"
	case ".pdf":
		return "application/pdf"
	}
	return "application/octet-stream"
}

// DocumentRequest is the JSON payload of POST /gerar_documento.
// TextoPeca is the draft body; the advogado fields render the signer
// letterhead when a name is present.
type DocumentRequest struct {
	TextoPeca        string `json:"texto_peca" validate:"required"`
	AdvogadoNome     string `json:"advogado_nome"`
	AdvogadoOAB      string `json:"advogado_oab"`
	AdvogadoEndereco string `json:"advogado_endereco"`
}
