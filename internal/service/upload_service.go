package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"cadastro-prestador-be/internal/dto"
	"cadastro-prestador-be/internal/pkg/logger"
	"cadastro-prestador-be/pkg/onboarding"
	"cadastro-prestador-be/pkg/onboarding/updater"
	"cadastro-prestador-be/pkg/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	MaxUploadSize  = 5 * 1024 * 1024
	MaxUploadFiles = 10
)

var allowedMimes = []string{"image/jpeg", "image/png", "application/pdf"}

type IUploadService interface {
	// UploadSingle stores one file. A non-empty campo also records the path
	// on that document field of the profile.
	UploadSingle(ctx context.Context, principalId uuid.UUID, file *multipart.FileHeader, campo string) (*dto.UploadResponse, error)
	UploadMultiple(ctx context.Context, principalId uuid.UUID, files []*multipart.FileHeader) (*dto.UploadResponse, error)
}

type uploadService struct {
	store   storage.FileStore
	updater *updater.Updater
	logger  logger.ILogger
}

func NewUploadService(store storage.FileStore, profiles updater.Store, log logger.ILogger) IUploadService {
	return &uploadService{
		store:   store,
		updater: updater.New(profiles),
		logger:  log,
	}
}

// checked is a file that passed validation, with its sniffed MIME type.
type checked struct {
	header *multipart.FileHeader
	mime   *mimetype.MIME
}

func (s *uploadService) UploadSingle(ctx context.Context, principalId uuid.UUID, file *multipart.FileHeader, campo string) (*dto.UploadResponse, error) {
	if file == nil {
		return nil, ErrFileMissing
	}
	if campo != "" && !slices.Contains(onboarding.DocumentFields, campo) {
		return nil, ErrInvalidCampo
	}

	c, err := inspect(file)
	if err != nil {
		return nil, err
	}

	saved, err := s.save(ctx, "file", c)
	if err != nil {
		return nil, err
	}

	if campo != "" {
		if _, err := s.updater.Apply(ctx, principalId, onboarding.Delta{campo: saved.Path}); err != nil {
			s.logger.Error("UPLOAD", "Failed to attach document to profile", map[string]interface{}{
				"provider_id": principalId.String(),
				"campo":       campo,
				"error":       err.Error(),
			})
			s.discard(ctx, saved.Filename)
			return nil, err
		}
	}

	return &dto.UploadResponse{Files: []dto.UploadedFileResponse{*saved}, Campo: campo}, nil
}

func (s *uploadService) UploadMultiple(ctx context.Context, principalId uuid.UUID, files []*multipart.FileHeader) (*dto.UploadResponse, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > MaxUploadFiles {
		return nil, ErrTooManyFiles
	}

	// 1. Validate every file before writing any
	all := make([]checked, 0, len(files))
	for _, f := range files {
		c, err := inspect(f)
		if err != nil {
			return nil, err
		}
		all = append(all, c)
	}

	// 2. Store
	out := make([]dto.UploadedFileResponse, 0, len(all))
	for _, c := range all {
		saved, err := s.save(ctx, "files", c)
		if err != nil {
			for _, f := range out {
				s.discard(ctx, f.Filename)
			}
			return nil, err
		}
		out = append(out, *saved)
	}

	return &dto.UploadResponse{Files: out}, nil
}

// inspect enforces the size ceiling and sniffs the content type. The
// client-declared type is ignored.
func inspect(file *multipart.FileHeader) (checked, error) {
	if file.Size > MaxUploadSize {
		return checked{}, ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return checked{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return checked{}, fmt.Errorf("detect mime: %w", err)
	}
	if !slices.ContainsFunc(allowedMimes, mtype.Is) {
		return checked{}, ErrFileTypeInvalid
	}
	return checked{header: file, mime: mtype}, nil
}

func (s *uploadService) save(ctx context.Context, fieldName string, c checked) (*dto.UploadedFileResponse, error) {
	src, err := c.header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(c.header.Filename))
	if ext == "" {
		ext = c.mime.Extension()
	}
	filename := fmt.Sprintf("%s-%d-%s%s", fieldName, time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	ref, err := s.store.Put(ctx, filename, io.LimitReader(src, MaxUploadSize), c.header.Size, c.mime.String())
	if err != nil {
		return nil, err
	}

	return &dto.UploadedFileResponse{
		Filename:     filename,
		Originalname: c.header.Filename,
		Size:         c.header.Size,
		Path:         ref,
		Mimetype:     c.mime.String(),
	}, nil
}

// discard removes a stored file that will not be referenced.
func (s *uploadService) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("UPLOAD", "Failed to remove orphaned file", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
