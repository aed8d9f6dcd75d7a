package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"nextlevel/academy-app/internal/domain"
	"nextlevel/academy-app/internal/repository"
	"nextlevel/academy-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUploadNotFound   = errors.New("upload not found")
	ErrUploadNotOwned   = errors.New("upload belongs to another player")
	ErrInvalidMediaType = errors.New("unsupported clip content type")
)

// ClipView pairs an upload record with a fresh presigned download URL.
type ClipView struct {
	Upload      domain.Upload `json:"upload"`
	DownloadURL string        `json:"downloadUrl"`
}

// PendingUpload is a freshly issued upload slot.
type PendingUpload struct {
	Upload    domain.Upload `json:"upload"`
	UploadURL string        `json:"uploadUrl"`
}

// MediaService manages assessment clips: short videos of the field tests
// a player can attach to their profile. Files go straight to object
// storage via presigned URLs.
type MediaService interface {
	// RequestUpload creates a pending clip record and a presigned PUT URL.
	RequestUpload(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (*PendingUpload, error)
	// ConfirmUpload verifies the object landed and marks the record
	// confirmed with its stored size.
	ConfirmUpload(ctx context.Context, userID primitive.ObjectID, uploadID primitive.ObjectID) (*domain.Upload, error)
	// ListClips returns the player's clips with download URLs, newest
	// first. Unconfirmed records are skipped.
	ListClips(ctx context.Context, userID primitive.ObjectID) ([]ClipView, error)
}

// mediaService implements the MediaService interface.
type mediaService struct {
	uploadRepo  repository.UploadRepository
	fileStorage storage.FileStorage
}

// NewMediaService creates a new instance of mediaService.
func NewMediaService(uploadRepo repository.UploadRepository, fileStorage storage.FileStorage) MediaService {
	return &mediaService{
		uploadRepo:  uploadRepo,
		fileStorage: fileStorage,
	}
}

// allowedClipTypes are the video formats the mobile capture produces.
var allowedClipTypes = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

// RequestUpload creates a pending clip record and a presigned PUT URL.
func (s *mediaService) RequestUpload(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (*PendingUpload, error) {
	if fileName == "" {
		return nil, errors.New("file name is required")
	}
	if !allowedClipTypes[contentType] {
		return nil, ErrInvalidMediaType
	}

	// Object keys are server-generated; the client never picks bucket
	// paths.
	ext := strings.ToLower(filepath.Ext(fileName))
	objectKey := fmt.Sprintf("clips/%s/%s%s", userID.Hex(), uuid.NewString(), ext)

	upload := &domain.Upload{
		UserID:      userID,
		S3ObjectKey: objectKey,
		FileName:    filepath.Base(fileName),
		ContentType: contentType,
	}
	uploadID, err := s.uploadRepo.Create(ctx, upload)
	if err != nil {
		return nil, err
	}
	upload.ID = uploadID

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &PendingUpload{Upload: *upload, UploadURL: uploadURL}, nil
}

// ConfirmUpload verifies the object exists in storage before marking the
// record confirmed.
func (s *mediaService) ConfirmUpload(ctx context.Context, userID primitive.ObjectID, uploadID primitive.ObjectID) (*domain.Upload, error) {
	upload, err := s.uploadRepo.GetByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	if upload.UserID != userID {
		return nil, ErrUploadNotOwned
	}

	size, err := s.fileStorage.StatObject(ctx, upload.S3ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("clip not found in storage: %w", err)
	}

	if err := s.uploadRepo.Confirm(ctx, uploadID, size); err != nil {
		return nil, err
	}
	upload.Confirmed = true
	upload.Size = size
	return upload, nil
}

// ListClips returns confirmed clips with presigned download URLs.
func (s *mediaService) ListClips(ctx context.Context, userID primitive.ObjectID) ([]ClipView, error) {
	uploads, err := s.uploadRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	clips := make([]ClipView, 0, len(uploads))
	for _, u := range uploads {
		if !u.Confirmed {
			continue
		}
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, u.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			// One broken clip should not hide the rest of the list.
			log.Printf("WARN: failed to presign download for clip %s: %v", u.ID.Hex(), err)
			continue
		}
		clips = append(clips, ClipView{Upload: u, DownloadURL: url})
	}
	return clips, nil
}
