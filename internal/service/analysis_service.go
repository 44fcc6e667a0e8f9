package service

import (
	"fmt"

	"draw-size-go/internal/model"
	"draw-size-go/internal/repository"
	"draw-size-go/internal/vision"
	"draw-size-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// AnalysisService сервис пересчета и сохранения площадных показателей
type AnalysisService struct {
	imageRepo  repository.ImageRepository
	images     *ImageService
	accountant *vision.Accountant
	audit      *AuditService
	logger     *logrus.Logger
}

// NewAnalysisService создает новый сервис анализа
func NewAnalysisService(imageRepo repository.ImageRepository, images *ImageService, audit *AuditService, logger *logrus.Logger) *AnalysisService {
	return &AnalysisService{
		imageRepo:  imageRepo,
		images:     images,
		accountant: vision.NewAccountant(),
		audit:      audit,
		logger:     logger,
	}
}

// SaveAnalysis пересчитывает площадные показатели и сохраняет их вместе с
// входными данными расчета. Нулевые поля запроса оставляют сохраненные
// значения без изменений, непустой список областей полностью заменяет старый
func (s *AnalysisService) SaveAnalysis(userID, projectID, imageID string, req *models.AnalysisRequest) (*models.AnalysisResponse, error) {
	record, err := s.images.getRecord(userID, projectID, imageID)
	if err != nil {
		return nil, err
	}
	if record.Status != model.ImageStatusReady || record.TransformedPath == "" {
		return nil, ErrImageNotTransformed
	}

	s.logger.Infof("Сохраняем анализ снимка %s", record.ID)

	// Переопределения реальных размеров
	if req.RealWidth != nil {
		record.RealWidth = req.RealWidth
	}
	if req.RealHeight != nil {
		record.RealHeight = req.RealHeight
	}
	if req.RealUnit != nil {
		record.RealUnit = *req.RealUnit
	}
	if record.RealWidth == nil || record.RealHeight == nil {
		return nil, &vision.ValidationError{Field: "real_width/real_height", Reason: "surface dimensions are not set"}
	}

	// Новые затравки и допуск цементируются в записи снимка
	if req.SeedPoints != nil {
		if err := record.SetSeedPointList(*req.SeedPoints); err != nil {
			return nil, fmt.Errorf("failed to encode seed points: %w", err)
		}
	}
	if req.Tolerance != nil {
		record.Tolerance = req.Tolerance
	}

	seeds, err := record.SeedPointList()
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed points: %w", err)
	}

	// Значение nil оставляет сохраненные области, пустой список стирает их
	deselections := record.Deselections
	replaceDeselections := req.Deselections != nil
	if replaceDeselections {
		deselections = make([]model.ImageDeselection, 0, len(*req.Deselections))
		for _, d := range *req.Deselections {
			deselections = append(deselections, model.ImageDeselection{
				ImageID:  record.ID,
				Shape:    d.Shape,
				Count:    d.Count,
				Length:   d.Length,
				Breadth:  d.Breadth,
				Diameter: d.Diameter,
				Area:     d.Area,
				Unit:     d.Unit,
			})
		}
	}

	canvas, err := loadCanvas(record.TransformedPath)
	if err != nil {
		s.logger.Errorf("Ошибка чтения выпрямленного холста %s: %v", record.TransformedPath, err)
		return nil, err
	}

	// Маска пересчитывается на сервере по зафиксированным затравкам,
	// присланные клиентом пиксели не принимаются
	var mask *vision.Mask
	if len(seeds) > 0 {
		tolerance := DefaultTolerance
		if record.Tolerance != nil {
			tolerance = *record.Tolerance
		}
		mask, err = s.images.buildMask(record, canvas, seeds, tolerance)
		if err != nil {
			return nil, err
		}
	}

	items := make([]vision.DeselectionItem, 0, len(deselections))
	for _, d := range deselections {
		items = append(items, vision.DeselectionItem{
			Shape:    d.Shape,
			Count:    d.Count,
			Length:   d.Length,
			Breadth:  d.Breadth,
			Diameter: d.Diameter,
			Area:     d.Area,
			Unit:     d.Unit,
		})
	}

	summary, err := s.accountant.Summarize(vision.SummaryInput{
		CanvasWidth:  canvas.Width,
		CanvasHeight: canvas.Height,
		RealWidth:    *record.RealWidth,
		RealHeight:   *record.RealHeight,
		Deselections: items,
		CementedMask: mask,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range summary.Warnings {
		s.logger.Warnf("Анализ снимка %s: %s", record.ID, w)
	}

	// Все показатели записываются единым набором
	record.MaskCoveragePercent = summary.MaskCoveragePercent
	record.DeselectArea = &summary.DeselectArea
	record.EffectiveDeselectArea = &summary.EffectiveDeselectArea
	record.UsableArea = &summary.UsableArea
	record.CementedArea = summary.CementedArea
	record.CementedPercent = summary.CementedPercent

	// Ключ сортировки по умолчанию равен полезной площади
	sortKey := summary.SortKey
	if req.SortKey != nil {
		sortKey = *req.SortKey
	}
	record.SortKeyNumeric = &sortKey

	if replaceDeselections {
		err = s.imageRepo.SaveAnalysis(record, deselections)
	} else {
		err = s.imageRepo.Update(record)
	}
	if err != nil {
		s.logger.Errorf("Ошибка сохранения анализа: %v", err)
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	// Перечитываем запись вместе с новыми областями
	saved, err := s.imageRepo.GetForProject(record.ID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload image: %w", err)
	}
	if saved == nil {
		return nil, ErrImageNotFound
	}

	s.audit.Record(userID, EventImageAnalysis, "image", record.ID,
		fmt.Sprintf("usable_area=%.4f", summary.UsableArea))
	s.logger.Infof("Анализ снимка %s сохранен, полезная площадь %.4f", record.ID, summary.UsableArea)
	return &models.AnalysisResponse{
		Image:    *s.images.modelToInfo(saved),
		Warnings: summary.Warnings,
	}, nil
}
