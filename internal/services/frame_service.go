package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ambassador_backend/internal/config"
	"ambassador_backend/internal/imageprocessor"
	"ambassador_backend/internal/logger"
	"ambassador_backend/internal/models"
	"ambassador_backend/internal/repositories"
	"ambassador_backend/internal/services/dto"
	"ambassador_backend/internal/storage"
	"ambassador_backend/pkg/apperrors"
)

type FrameService interface {
	Create(ctx context.Context, db *gorm.DB, in *dto.CreateFrameInput) (*dto.FrameResponse, error)
	ListByCampaign(ctx context.Context, db *gorm.DB, campaignID uint) ([]dto.FrameResponse, error)
	Get(ctx context.Context, db *gorm.DB, id uint) (*dto.FrameResponse, error)
	UpdateZones(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateZonesRequest) (*dto.FrameResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id uint) error
	IncrementUsage(ctx context.Context, db *gorm.DB, id uint) error
	// Render накладывает рамку на фото и возвращает PNG
	Render(ctx context.Context, db *gorm.DB, id uint, photo []byte) ([]byte, error)

	// Для CampaignService
	// CopyFrames возвращает ключи сохраненных файлов и при ошибке,
	// чтобы вызывающий убрал их после отката транзакции
	CopyFrames(ctx context.Context, db *gorm.DB, fromCampaignID, toCampaignID uint) ([]string, error)
	DetachCampaignFrames(ctx context.Context, db *gorm.DB, campaignID uint) ([]string, error)
	DeleteFiles(ctx context.Context, keys []string)
}

type FrameServiceImpl struct {
	frameRepo    repositories.FrameRepository
	campaignRepo repositories.CampaignRepository
	storage      storage.Storage
	processor    *imageprocessor.Processor
	limits       config.UploadLimits
}

func NewFrameService(
	frameRepo repositories.FrameRepository,
	campaignRepo repositories.CampaignRepository,
	storage storage.Storage,
	processor *imageprocessor.Processor,
	limits config.UploadLimits,
) FrameService {
	return &FrameServiceImpl{
		frameRepo:    frameRepo,
		campaignRepo: campaignRepo,
		storage:      storage,
		processor:    processor,
		limits:       limits,
	}
}

func (s *FrameServiceImpl) Create(ctx context.Context, db *gorm.DB, in *dto.CreateFrameInput) (*dto.FrameResponse, error) {
	if _, err := s.campaignRepo.FindCampaignByID(db, in.CampaignID); err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return nil, apperrors.ErrCampaignNotFound
		}
		return nil, apperrors.ErrPersistence(err)
	}

	if int64(len(in.Data)) > s.limits.MaxFrameSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !slices.Contains(s.limits.FrameTypes, http.DetectContentType(in.Data)) {
		return nil, apperrors.ErrInvalidFileType
	}

	img, err := s.processor.DecodeFrame(bytes.NewReader(in.Data))
	if err != nil {
		return nil, apperrors.ErrInvalidFileType.WithError(err)
	}
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	zones := dto.ToFrameZones(in.Zones)
	if err := checkZones(zones, width, height); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("frames/%d/%s.png", in.CampaignID, uuid.NewString())
	if err := s.storage.Save(ctx, key, bytes.NewReader(in.Data), "image/png"); err != nil {
		return nil, apperrors.InternalError(err)
	}
	fileURL, err := s.storage.GetURL(ctx, key)
	if err != nil {
		s.DeleteFiles(ctx, []string{key})
		return nil, apperrors.InternalError(err)
	}

	name := in.Name
	if name == "" {
		name = in.FileName
	}

	frame := &models.FrameTemplate{
		CampaignID: in.CampaignID,
		Name:       name,
		StorageKey: key,
		URL:        fileURL,
		MimeType:   "image/png",
		Size:       int64(len(in.Data)),
		Width:      width,
		Height:     height,
		Zones:      zones,
	}
	if err := s.frameRepo.CreateFrame(db, frame); err != nil {
		s.DeleteFiles(ctx, []string{key})
		return nil, apperrors.ErrPersistence(err)
	}

	logger.CtxInfo(ctx, "Frame template registered", "frame_id", frame.ID, "campaign_id", in.CampaignID)
	resp := dto.NewFrameResponse(frame)
	return &resp, nil
}

func (s *FrameServiceImpl) ListByCampaign(ctx context.Context, db *gorm.DB, campaignID uint) ([]dto.FrameResponse, error) {
	frames, err := s.frameRepo.FindFramesByCampaign(db, campaignID)
	if err != nil {
		return nil, apperrors.ErrPersistence(err)
	}

	out := make([]dto.FrameResponse, 0, len(frames))
	for i := range frames {
		out = append(out, dto.NewFrameResponse(&frames[i]))
	}
	return out, nil
}

func (s *FrameServiceImpl) Get(ctx context.Context, db *gorm.DB, id uint) (*dto.FrameResponse, error) {
	frame, err := s.frameRepo.FindFrameByID(db, id)
	if err != nil {
		return nil, mapFrameError(err)
	}
	resp := dto.NewFrameResponse(frame)
	return &resp, nil
}

func (s *FrameServiceImpl) UpdateZones(ctx context.Context, db *gorm.DB, id uint, req *dto.UpdateZonesRequest) (*dto.FrameResponse, error) {
	frame, err := s.frameRepo.FindFrameByID(db, id)
	if err != nil {
		return nil, mapFrameError(err)
	}

	zones := dto.ToFrameZones(req.Zones)
	if err := checkZones(zones, frame.Width, frame.Height); err != nil {
		return nil, err
	}

	if err := s.frameRepo.UpdateZones(db, id, zones); err != nil {
		return nil, mapFrameError(err)
	}
	return s.Get(ctx, db, id)
}

func (s *FrameServiceImpl) Delete(ctx context.Context, db *gorm.DB, id uint) error {
	frame, err := s.frameRepo.FindFrameByID(db, id)
	if err != nil {
		return mapFrameError(err)
	}
	if err := s.frameRepo.DeleteFrame(db, id); err != nil {
		return mapFrameError(err)
	}

	s.DeleteFiles(ctx, []string{frame.StorageKey})
	return nil
}

func (s *FrameServiceImpl) IncrementUsage(ctx context.Context, db *gorm.DB, id uint) error {
	if err := s.frameRepo.IncrementUsage(db, id); err != nil {
		return mapFrameError(err)
	}
	return nil
}

func (s *FrameServiceImpl) Render(ctx context.Context, db *gorm.DB, id uint, photo []byte) ([]byte, error) {
	frame, err := s.frameRepo.FindFrameByID(db, id)
	if err != nil {
		return nil, mapFrameError(err)
	}
	if len(frame.Zones) == 0 {
		return nil, apperrors.ErrFrameHasNoZones
	}
	if int64(len(photo)) > s.limits.MaxPhotoSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !slices.Contains(s.limits.PhotoTypes, http.DetectContentType(photo)) {
		return nil, apperrors.ErrInvalidFileType
	}
	photoImg, err := s.processor.DecodePhoto(photo)
	if err != nil {
		return nil, apperrors.ErrInvalidFileType.WithError(err)
	}

	rc, err := s.storage.Get(ctx, frame.StorageKey)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer rc.Close()

	frameImg, err := s.processor.DecodeFrame(rc)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	zone := frame.Zones[0]
	out := s.processor.Compose(frameImg, photoImg, imageprocessor.Zone{
		X:      zone.X,
		Y:      zone.Y,
		Width:  zone.Width,
		Height: zone.Height,
		Circle: zone.Shape == "circle",
	})
	data, err := s.processor.EncodePNG(out)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.frameRepo.IncrementUsage(db, id); err != nil {
		logger.CtxWithError(ctx, "Failed to increment frame usage", err, "frame_id", id)
	}
	logger.CtxDebug(ctx, "Frame rendered", "frame_id", id, "bytes", len(data))
	return data, nil
}

// CopyFrames копирует рамки вместе с файлами, чтобы удаление копии не трогало оригинал
func (s *FrameServiceImpl) CopyFrames(ctx context.Context, db *gorm.DB, fromCampaignID, toCampaignID uint) ([]string, error) {
	frames, err := s.frameRepo.FindFramesByCampaign(db, fromCampaignID)
	if err != nil {
		return nil, err
	}

	saved := make([]string, 0, len(frames))
	for _, src := range frames {
		key := fmt.Sprintf("frames/%d/%s.png", toCampaignID, uuid.NewString())
		if err := s.copyFile(ctx, src.StorageKey, key); err != nil {
			return saved, err
		}
		saved = append(saved, key)

		fileURL, err := s.storage.GetURL(ctx, key)
		if err != nil {
			return saved, err
		}

		copied := &models.FrameTemplate{
			CampaignID: toCampaignID,
			Name:       src.Name,
			StorageKey: key,
			URL:        fileURL,
			MimeType:   src.MimeType,
			Size:       src.Size,
			Width:      src.Width,
			Height:     src.Height,
			Zones:      append([]models.FrameZone(nil), src.Zones...),
		}
		if err := s.frameRepo.CreateFrame(db, copied); err != nil {
			return saved, err
		}
	}
	return saved, nil
}

// DetachCampaignFrames удаляет записи рамок кампании и возвращает ключи файлов.
// Файлы удаляются вызывающим после коммита.
func (s *FrameServiceImpl) DetachCampaignFrames(ctx context.Context, db *gorm.DB, campaignID uint) ([]string, error) {
	frames, err := s.frameRepo.FindFramesByCampaign(db, campaignID)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(frames))
	for _, f := range frames {
		if err := s.frameRepo.DeleteFrame(db, f.ID); err != nil {
			return nil, err
		}
		keys = append(keys, f.StorageKey)
	}
	return keys, nil
}

func (s *FrameServiceImpl) DeleteFiles(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "Failed to delete frame file", err, "key", key)
		}
	}
}

func (s *FrameServiceImpl) copyFile(ctx context.Context, from, to string) error {
	rc, err := s.storage.Get(ctx, from)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, to, bytes.NewReader(data), "image/png")
}

// checkZones - зоны должны лежать внутри изображения
func checkZones(zones []models.FrameZone, width, height int) error {
	for i, z := range zones {
		if z.Width <= 0 || z.Height <= 0 || z.X < 0 || z.Y < 0 ||
			z.Width > width-z.X || z.Height > height-z.Y {
			return apperrors.ValidationError(map[string]string{
				fmt.Sprintf("zones[%d]", i): fmt.Sprintf("Zone must fit inside the %dx%d frame", width, height),
			})
		}
	}
	return nil
}

func mapFrameError(err error) error {
	if errors.Is(err, repositories.ErrFrameNotFound) {
		return apperrors.ErrFrameNotFound
	}
	return apperrors.ErrPersistence(err)
}
