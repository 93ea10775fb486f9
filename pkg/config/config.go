package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml рядом с бинарником.
type AppConfig struct {
	S3      S3Config      `yaml:"s3"`
	Gallery GalleryConfig `yaml:"gallery"`
	App     AppSpecific   `yaml:"app"`
}

// S3Config — настройки объектного хранилища.
type S3Config struct {
	Endpoint  string  `yaml:"endpoint"`
	Region    string  `yaml:"region"`
	Bucket    string  `yaml:"bucket"`
	AccessKey string  `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string  `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool    `yaml:"use_ssl"`
	RateLimit float64 `yaml:"rate_limit"` // Запросов в секунду на все операции, 0 = дефолт
	Burst     int     `yaml:"burst"`      // Burst для rate limiter
}

// GalleryConfig — настройки самой галереи.
type GalleryConfig struct {
	RefreshInterval int           `yaml:"refresh_interval"` // Секунды: 0 (выкл), 5, 10, 15, 30, 60, 300
	SignTTL         time.Duration `yaml:"sign_ttl"`         // TTL presigned ссылок ("1h", Go умеет парсить)
	SignBatchSize   int           `yaml:"sign_batch_size"`  // Фан-аут подписи URL за один заход
	DeleteBatchSize int           `yaml:"delete_batch_size"`
	DownloadDir     string        `yaml:"download_dir"`
	JournalPath     string        `yaml:"journal_path"` // Путь к sqlite журналу операций, "" = выключен
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug bool `yaml:"debug"`
}

// RefreshIntervals — разрешённые значения refresh_interval в секундах.
// 0 означает "автообновление выключено".
var RefreshIntervals = []int{0, 5, 10, 15, 30, 60, 300}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (g *GalleryConfig) GetDefaults() GalleryConfig {
	result := *g // Копируем текущие значения

	if result.SignTTL == 0 {
		result.SignTTL = time.Hour
	}
	if result.SignBatchSize == 0 {
		result.SignBatchSize = 8
	}
	if result.DeleteBatchSize == 0 {
		result.DeleteBatchSize = 5
	}
	if result.DownloadDir == "" {
		result.DownloadDir = "."
	}
	// RefreshInterval = 0 — валидное значение "выключено", дефолт не навязываем

	return result
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	cfg.Gallery = cfg.Gallery.GetDefaults()

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required")
	}
	if c.S3.Endpoint == "" {
		return fmt.Errorf("s3.endpoint is required")
	}
	if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
		return fmt.Errorf("s3.access_key and s3.secret_key are required")
	}
	if !ValidRefreshInterval(c.Gallery.RefreshInterval) {
		return fmt.Errorf("gallery.refresh_interval must be one of %v, got %d",
			RefreshIntervals, c.Gallery.RefreshInterval)
	}
	if c.Gallery.SignTTL < time.Minute {
		return fmt.Errorf("gallery.sign_ttl must be at least 1m, got %s", c.Gallery.SignTTL)
	}
	return nil
}

// ValidRefreshInterval проверяет что значение входит в разрешённый набор.
func ValidRefreshInterval(seconds int) bool {
	for _, v := range RefreshIntervals {
		if v == seconds {
			return true
		}
	}
	return false
}

// NextRefreshInterval возвращает следующее значение интервала по кругу.
// Используется UI для переключения клавишей: off -> 5s -> ... -> 300s -> off.
func NextRefreshInterval(seconds int) int {
	for i, v := range RefreshIntervals {
		if v == seconds {
			return RefreshIntervals[(i+1)%len(RefreshIntervals)]
		}
	}
	return RefreshIntervals[0]
}
