package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"draw-size-go/internal/client"
	"draw-size-go/pkg/models"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	api := client.NewDrawSizeClient("http://localhost:8080", 2*time.Minute, logger)

	// Проверяем health endpoint
	fmt.Println("Проверяем health endpoint...")
	health, err := api.CheckHealth()
	if err != nil {
		fmt.Printf("Ошибка при обращении к health endpoint: %v\n", err)
		return
	}

	fmt.Printf("Health check ответ: статус %s, версия %s\n\n", health.Status, health.Version)

	// Если есть тестовый снимок, прогоняем полный цикл обработки
	if len(os.Args) > 1 {
		imagePath := os.Args[1]
		fmt.Printf("Прогоняем снимок %s через полный цикл...\n", imagePath)

		if err := testFullFlow(api, imagePath); err != nil {
			fmt.Printf("Ошибка при тестировании цикла обработки: %v\n", err)
		}
	} else {
		fmt.Println("Для тестирования обработки запустите: go run test_client.go <путь_к_снимку>")
	}
}

func testFullFlow(api *client.DrawSizeClient, imagePath string) error {
	// Читаем файл снимка
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла снимка: %w", err)
	}

	// Определяем размеры снимка для выбора углов
	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("ошибка открытия файла снимка: %w", err)
	}
	cfg, _, err := image.DecodeConfig(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("ошибка декодирования снимка: %w", err)
	}

	// Регистрируемся и входим под свежим пользователем
	email := fmt.Sprintf("smoke-%d@example.com", time.Now().Unix())
	if _, err := api.Signup(models.SignupRequest{Email: email, Password: "smoke-test-123", FullName: "Smoke Test"}); err != nil {
		return fmt.Errorf("ошибка регистрации: %w", err)
	}

	if _, err := api.Login(email, "smoke-test-123"); err != nil {
		return fmt.Errorf("ошибка входа: %w", err)
	}

	me, err := api.CurrentUser()
	if err != nil {
		return fmt.Errorf("ошибка получения профиля: %w", err)
	}
	fmt.Printf("Вошли как %s (id %s)\n", me.Email, me.ID)

	// Создаем проект
	project, err := api.CreateProject(models.CreateProjectRequest{
		Name:        "Smoke Test",
		Description: "Автоматическая проверка цикла обработки",
	})
	if err != nil {
		return fmt.Errorf("ошибка создания проекта: %w", err)
	}
	fmt.Printf("Создан проект %s\n", project.ID)

	// Загружаем снимок
	upload, err := api.UploadImage(project.ID, filepath.Base(imagePath), imageData)
	if err != nil {
		return fmt.Errorf("ошибка загрузки снимка: %w", err)
	}
	imageID := upload.Image.ID
	fmt.Printf("Загружен снимок %s (статус %s)\n", imageID, upload.Image.Status)

	// Выпрямляем по углам с отступом 10% от краев снимка
	w := float64(cfg.Width)
	h := float64(cfg.Height)
	corners := []models.Point{
		{X: w * 0.1, Y: h * 0.1},
		{X: w * 0.9, Y: h * 0.1},
		{X: w * 0.9, Y: h * 0.9},
		{X: w * 0.1, Y: h * 0.9},
	}

	transform, err := api.TransformImage(project.ID, imageID, corners, 2.0, 1.6)
	if err != nil {
		return fmt.Errorf("ошибка выпрямления: %w", err)
	}
	fmt.Printf("Снимок выпрямлен (статус %s, data URL %d байт)\n", transform.Image.Status, len(transform.TransformedImage))

	// Сегментируем от центра холста: высота 800, ширина 800 * (2.0 / 1.6)
	seeds := []models.Point{{X: 500, Y: 400}}
	tolerance := 60

	segment, err := api.SegmentImage(project.ID, imageID, models.SegmentRequest{
		SeedPoints: seeds,
		Tolerance:  &tolerance,
	})
	if err != nil {
		return fmt.Errorf("ошибка сегментации: %w", err)
	}
	fmt.Printf("Выбрано %d пикселей (%.2f%% холста)\n", segment.SelectedPixelCount, segment.MaskCoveragePercent)

	// Сохраняем расчет с одной вычитаемой областью
	length := 0.5
	breadth := 0.4
	deselections := []models.DeselectionInput{
		{Shape: "rect", Count: 1, Length: &length, Breadth: &breadth, Unit: "m"},
	}

	analysis, err := api.SaveAnalysis(project.ID, imageID, models.AnalysisRequest{
		SeedPoints:   &seeds,
		Tolerance:    &tolerance,
		Deselections: &deselections,
	})
	if err != nil {
		return fmt.Errorf("ошибка расчета площадей: %w", err)
	}

	fmt.Println("Расчет завершен:")
	if analysis.Image.UsableArea != nil {
		fmt.Printf("  полезная площадь: %.4f\n", *analysis.Image.UsableArea)
	}
	if analysis.Image.CementedArea != nil {
		fmt.Printf("  площадь выбранной области: %.4f\n", *analysis.Image.CementedArea)
	}
	if analysis.Image.CementedPercent != nil {
		fmt.Printf("  доля выбранной области: %.2f%%\n", *analysis.Image.CementedPercent)
	}
	for _, warning := range analysis.Warnings {
		fmt.Printf("  предупреждение: %s\n", warning)
	}

	return nil
}
