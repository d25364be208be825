package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avocato-app/docpilot/internal/core/domain"
	"github.com/avocato-app/docpilot/internal/core/ports"
)

// IngestDocumentUseCase accepts an uploaded document, stores the raw
// payload, records the metadata row and hands the document ID to the
// queue. Analysis itself happens in the worker.
type IngestDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *IngestDocumentUseCase) Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	id := uuid.NewString()
	// Prefixing the ID keeps keys unique even when users upload the
	// same filename twice.
	storageKey := id + "_" + sanitizeFilename(filename)

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.StatusReceived,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentReceived(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish analysis event: %w", err)
	}

	return doc, nil
}

// sanitizeFilename flattens an uploaded name to a safe flat storage
// key. Accented characters, common in French filenames, collapse to
// underscores along with everything else outside [a-zA-Z0-9.-_].
func sanitizeFilename(name string) string {
	base := strings.ReplaceAll(filepath.Base(name), " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if strings.Trim(base, "._") == "" {
		return "document.bin"
	}
	return base
}
