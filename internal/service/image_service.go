package service

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"draw-size-go/internal/model"
	"draw-size-go/internal/repository"
	"draw-size-go/internal/vision"
	"draw-size-go/pkg/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultTolerance допуск заливки, если клиент его не передал
const DefaultTolerance = 50

// ImageService сервис загрузки и обработки снимков поверхности
type ImageService struct {
	imageRepo   repository.ImageRepository
	projectRepo repository.ProjectRepository
	calibrator  *vision.Calibrator
	rectifier   *vision.Rectifier
	segmenter   *vision.Segmenter
	audit       *AuditService
	logger      *logrus.Logger
	storageDir  string
}

// NewImageService создает новый сервис изображений
func NewImageService(imageRepo repository.ImageRepository, projectRepo repository.ProjectRepository, audit *AuditService, logger *logrus.Logger, storageDir string) *ImageService {
	return &ImageService{
		imageRepo:   imageRepo,
		projectRepo: projectRepo,
		calibrator:  vision.NewCalibrator(),
		rectifier:   vision.NewRectifier(),
		segmenter:   vision.NewSegmenter(),
		audit:       audit,
		logger:      logger,
		storageDir:  storageDir,
	}
}

// UploadImage декодирует и сохраняет новый снимок проекта
func (s *ImageService) UploadImage(userID, projectID, filename string, data []byte) (*models.UploadResponse, error) {
	if _, err := s.ensureProject(userID, projectID); err != nil {
		return nil, err
	}

	s.logger.Infof("Загружаем снимок %s в проект %s (%d байт)", filename, projectID, len(data))

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &vision.DecodeError{Err: err}
	}
	canvas := vision.CanvasFromImage(img)

	imageID := uuid.New().String()
	originalPath, err := saveCanvas(s.storageDir, imageID, fileSuffixOriginal, canvas)
	if err != nil {
		s.logger.Errorf("Ошибка сохранения файла снимка: %v", err)
		return nil, err
	}

	record := &model.ProjectImage{
		ID:           imageID,
		ProjectID:    projectID,
		Filename:     filename,
		OriginalPath: originalPath,
		WidthPx:      canvas.Width,
		HeightPx:     canvas.Height,
		Status:       model.ImageStatusNew,
	}
	if err := s.imageRepo.Create(record); err != nil {
		s.logger.Errorf("Ошибка сохранения снимка в БД: %v", err)
		if rmErr := os.Remove(originalPath); rmErr != nil {
			s.logger.Warnf("Не удалось удалить файл %s: %v", originalPath, rmErr)
		}
		return nil, fmt.Errorf("failed to save image to database: %w", err)
	}

	dataURL, err := encodeDataURL(canvas.ToImage(), imaging.JPEG)
	if err != nil {
		return nil, err
	}

	s.audit.Record(userID, EventImageUpload, "image", imageID, filename)
	s.logger.Infof("Снимок %s сохранен как %s", filename, imageID)
	return &models.UploadResponse{
		Image:     *s.modelToInfo(record),
		ImageData: dataURL,
	}, nil
}

// ListImages возвращает снимки проекта, сначала самые новые
func (s *ImageService) ListImages(userID, projectID string) ([]models.ImageInfo, error) {
	if _, err := s.ensureProject(userID, projectID); err != nil {
		return nil, err
	}

	records, err := s.imageRepo.ListByProject(projectID)
	if err != nil {
		s.logger.Errorf("Ошибка получения снимков проекта: %v", err)
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	infos := make([]models.ImageInfo, len(records))
	for i, record := range records {
		infos[i] = *s.modelToInfo(record)
	}
	return infos, nil
}

// GetImage возвращает данные снимка
func (s *ImageService) GetImage(userID, projectID, imageID string) (*models.ImageInfo, error) {
	record, err := s.getRecord(userID, projectID, imageID)
	if err != nil {
		return nil, err
	}
	return s.modelToInfo(record), nil
}

// OriginalData возвращает исходный снимок как data URL вместе с размерами
func (s *ImageService) OriginalData(userID, projectID, imageID string) (*models.ImageDataResponse, error) {
	record, err := s.getRecord(userID, projectID, imageID)
	if err != nil {
		return nil, err
	}

	canvas, err := loadCanvas(record.OriginalPath)
	if err != nil {
		s.logger.Errorf("Ошибка чтения файла снимка %s: %v", record.OriginalPath, err)
		return nil, err
	}

	dataURL, err := encodeDataURL(canvas.ToImage(), imaging.JPEG)
	if err != nil {
		return nil, err
	}
	return &models.ImageDataResponse{
		ImageData: dataURL,
		WidthPx:   record.WidthPx,
		HeightPx:  record.HeightPx,
	}, nil
}

// NextImage возвращает следующий снимок проекта при обходе от новых к старым
func (s *ImageService) NextImage(userID, projectID, imageID string) (*models.ImageInfo, error) {
	record, err := s.getRecord(userID, projectID, imageID)
	if err != nil {
		return nil, err
	}

	next, err := s.imageRepo.NextBefore(projectID, record.ID, record.CreatedAt)
	if err != nil {
		s.logger.Errorf("Ошибка поиска следующего снимка: %v", err)
		return nil, fmt.Errorf("failed to get next image: %w", err)
	}
	if next == nil {
		return nil, ErrNoNextImage
	}
	return s.modelToInfo(next), nil
}

// Transform выпрямляет перспективу снимка по четырем углам поверхности.
// Текст ошибки калибровки сохраняется в записи снимка
func (s *ImageService) Transform(userID, projectID, imageID string, corners []models.Point, realWidth, realHeight float64) (*models.TransformResponse, error) {
	record, err := s.getRecord(userID, projectID, imageID)
	if err != nil {
		return nil, err
	}

	if len(corners) != 4 {
		return nil, &vision.ValidationError{Field: "corners", Reason: "exactly four corners are required"}
	}
	var quad vision.Quad
	for i, p := range corners {
		quad[i] = vision.Point2D{X: p.X, Y: p.Y}
	}

	s.logger.Infof("Выпрямляем снимок %s: поверхность %.3f x %.3f", imageID, realWidth, realHeight)

	src, err := loadCanvas(record.OriginalPath)
	if err != nil {
		s.logger.Errorf("Ошибка чтения файла снимка %s: %v", record.OriginalPath, err)
		return nil, err
	}

	calib, err := s.calibrator.Calibrate(quad, realWidth, realHeight)
	if err != nil {
		var calErr *vision.CalibrationError
		if errors.As(err, &calErr) {
			record.ErrorMessage = calErr.Error()
			if uerr := s.imageRepo.Update(record); uerr != nil {
				s.logger.Errorf("Ошибка сохранения текста ошибки калибровки: %v", uerr)
			}
		}
		return nil, err
	}

	out, err := s.rectifier.Rectify(src, calib)
	if err != nil {
		return nil, err
	}

	transformedPath, err := saveCanvas(s.storageDir, record.ID, fileSuffixTransformed, out)
	if err != nil {
		s.logger.Errorf("Ошибка сохранения выпрямленного холста: %v", err)
		return nil, err
	}

	// Фиксируем калибровку в записи снимка
	if err := record.SetCornerPoints(corners); err != nil {
		return nil, fmt.Errorf("failed to encode corners: %w", err)
	}
	record.TransformedPath = transformedPath
	record.RealWidth = &realWidth
	record.RealHeight = &realHeight
	record.RealUnit = "m"
	record.ErrorMessage = ""
	record.Status = model.ImageStatusReady
	if err := s.imageRepo.Update(record); err != nil {
		s.logger.Errorf("Ошибка сохранения калибровки: %v", err)
		return nil, fmt.Errorf("failed to save calibration: %w", err)
	}

	dataURL, err := encodeDataURL(out.ToImage(), imaging.JPEG)
	if err != nil {
		return nil, err
	}

	s.audit.Record(userID, EventImageTransform, "image", record.ID,
		fmt.Sprintf("%dx%d", calib.OutputWidth, calib.OutputHeight))
	s.logger.Infof("Снимок %s выпрямлен в холст %dx%d", record.ID, calib.OutputWidth, calib.OutputHeight)
	return &models.TransformResponse{
		Image:            *s.modelToInfo(record),
		TransformedImage: dataURL,
		OutputWidth:      calib.OutputWidth,
		OutputHeight:     calib.OutputHeight,
	}, nil
}

// SegmentPreview выращивает область от затравок и возвращает подсветку
// и вырезку, ничего не сохраняя
func (s *ImageService) SegmentPreview(userID, projectID, imageID string, seeds []models.Point, tolerance int) (*models.SegmentResponse, error) {
	record, err := s.getRecord(userID, projectID, imageID)
	if err != nil {
		return nil, err
	}
	if record.Status != model.ImageStatusReady || record.TransformedPath == "" {
		return nil, ErrImageNotTransformed
	}
	if len(seeds) == 0 {
		return nil, &vision.ValidationError{Field: "seed_points", Reason: "at least one seed is required"}
	}

	canvas, err := loadCanvas(record.TransformedPath)
	if err != nil {
		s.logger.Errorf("Ошибка чтения выпрямленного холста %s: %v", record.TransformedPath, err)
		return nil, err
	}

	mask, err := s.buildMask(record, canvas, seeds, tolerance)
	if err != nil {
		return nil, err
	}

	overlayURL, err := encodeDataURL(vision.OverlayMask(canvas, mask).ToImage(), imaging.JPEG)
	if err != nil {
		return nil, err
	}
	cutoutURL, err := encodeDataURL(vision.CutoutMask(canvas, mask), imaging.PNG)
	if err != nil {
		return nil, err
	}

	s.audit.Record(userID, EventImageSegment, "image", record.ID,
		fmt.Sprintf("seeds=%d tolerance=%d", len(seeds), tolerance))
	return &models.SegmentResponse{
		SelectedPixelCount:  mask.CountSet(),
		MaskCoveragePercent: mask.CoveragePercent(),
		OverlayImage:        overlayURL,
		CutoutImage:         cutoutURL,
	}, nil
}

// ensureProject проверяет принадлежность проекта пользователю
func (s *ImageService) ensureProject(userID, projectID string) (*model.Project, error) {
	project, err := s.projectRepo.GetByIDForUser(projectID, userID)
	if err != nil {
		s.logger.Errorf("Ошибка получения проекта: %v", err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// getRecord получает запись снимка в пределах проекта пользователя
func (s *ImageService) getRecord(userID, projectID, imageID string) (*model.ProjectImage, error) {
	if _, err := s.ensureProject(userID, projectID); err != nil {
		return nil, err
	}
	record, err := s.imageRepo.GetForProject(imageID, projectID)
	if err != nil {
		s.logger.Errorf("Ошибка получения снимка: %v", err)
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	if record == nil {
		return nil, ErrImageNotFound
	}
	return record, nil
}

// buildMask объединяет заливки от всех затравок в одну маску. Пиксели
// черного ограждения за краем источника вычитаются из результата, чтобы
// не попадать в пиксельный подсчет площадей
func (s *ImageService) buildMask(record *model.ProjectImage, canvas *vision.Canvas, seeds []models.Point, tolerance int) (*vision.Mask, error) {
	total := vision.NewMask(canvas.Width, canvas.Height)
	for _, seed := range seeds {
		m, err := s.segmenter.Segment(canvas, vision.Point2D{X: seed.X, Y: seed.Y}, tolerance)
		if err != nil {
			return nil, err
		}
		if err := total.Or(m); err != nil {
			return nil, err
		}
	}

	valid, err := s.validRegion(record, canvas)
	if err != nil {
		return nil, err
	}
	if valid != nil {
		if err := total.And(valid); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// validRegion восстанавливает по сохраненной калибровке область холста,
// за которой стоит источник. Возвращает nil, если калибровка не читается
// или ее геометрия расходится с холстом
func (s *ImageService) validRegion(record *model.ProjectImage, canvas *vision.Canvas) (*vision.Mask, error) {
	corners, err := record.CornerPoints()
	if err != nil {
		return nil, fmt.Errorf("failed to decode corners: %w", err)
	}
	if len(corners) != 4 || record.RealWidth == nil || record.RealHeight == nil {
		return nil, nil
	}
	var quad vision.Quad
	for i, p := range corners {
		quad[i] = vision.Point2D{X: p.X, Y: p.Y}
	}

	calib, err := s.calibrator.Calibrate(quad, *record.RealWidth, *record.RealHeight)
	if err != nil {
		return nil, err
	}
	if calib.OutputWidth != canvas.Width || calib.OutputHeight != canvas.Height {
		s.logger.Warnf("Калибровка снимка %s расходится с холстом, ограждение не вычитается", record.ID)
		return nil, nil
	}
	return s.rectifier.ValidMask(calib, record.WidthPx, record.HeightPx)
}

// modelToInfo преобразует модель снимка в ответ API
func (s *ImageService) modelToInfo(record *model.ProjectImage) *models.ImageInfo {
	info := &models.ImageInfo{
		ID:                    record.ID,
		ProjectID:             record.ProjectID,
		Filename:              record.Filename,
		WidthPx:               record.WidthPx,
		HeightPx:              record.HeightPx,
		Status:                record.Status,
		RealWidth:             record.RealWidth,
		RealHeight:            record.RealHeight,
		RealUnit:              record.RealUnit,
		ErrorMessage:          record.ErrorMessage,
		Tolerance:             record.Tolerance,
		MaskCoveragePercent:   record.MaskCoveragePercent,
		DeselectArea:          record.DeselectArea,
		EffectiveDeselectArea: record.EffectiveDeselectArea,
		UsableArea:            record.UsableArea,
		CementedArea:          record.CementedArea,
		CementedPercent:       record.CementedPercent,
		SortKey:               record.SortKeyNumeric,
		Deselections:          []models.DeselectionInfo{},
		CreatedAt:             record.CreatedAt,
		UpdatedAt:             record.UpdatedAt,
	}

	if corners, err := record.CornerPoints(); err != nil {
		s.logger.Warnf("Не удалось прочитать углы снимка %s: %v", record.ID, err)
	} else {
		info.Corners = corners
	}
	if seeds, err := record.SeedPointList(); err != nil {
		s.logger.Warnf("Не удалось прочитать затравки снимка %s: %v", record.ID, err)
	} else {
		info.SeedPoints = seeds
	}

	for _, d := range record.Deselections {
		info.Deselections = append(info.Deselections, models.DeselectionInfo{
			ID:       d.ID,
			Shape:    d.Shape,
			Count:    d.Count,
			Length:   d.Length,
			Breadth:  d.Breadth,
			Diameter: d.Diameter,
			Area:     d.Area,
			Unit:     d.Unit,
		})
	}
	return info
}
