package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferAttachmentKind(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		expected    AttachmentKind
	}{
		{"inicial.pdf", "application/pdf", AttachmentPDF},
		{"INICIAL.PDF", "", AttachmentPDF},
		{"audiencia.mp3", "audio/mpeg", AttachmentAudio},
		{"depoimento.m4a", "", AttachmentAudio},
		{"audiencia.mp4", "video/mp4", AttachmentVideo},
		{"gravacao.webm", "", AttachmentVideo},
		{"sem_extensao", "application/pdf", AttachmentPDF},
		{"sem_extensao", "audio/ogg; codecs=opus", AttachmentAudio},
		{"sem_extensao", "video/quicktime", AttachmentVideo},
		{"contrato.docx", "", AttachmentOther},
		{"planilha.xlsx", "application/octet-stream", AttachmentOther},
		{"", "", AttachmentOther},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"/"+tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferAttachmentKind(tt.filename, tt.contentType))
		})
	}
}

func TestProviderMIMEType(t *testing.T) {
	declared := Attachment{Filename: "a.mp3", MIMEType: "audio/mpeg"}
	assert.Equal(t, "audio/mpeg", declared.ProviderMIMEType())

	inferred := Attachment{Filename: "a.mov", MIMEType: "application/octet-stream"}
	assert.Equal(t, "video/quicktime", inferred.ProviderMIMEType())

	unknown := Attachment{Filename: "a.bin"}
	assert.Equal(t, "application/octet-stream", unknown.ProviderMIMEType())
}
