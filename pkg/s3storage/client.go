// "Тупой" клиент хранилища. Вся логика галереи живёт в pkg/gallery.

package s3storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/time/rate"

	"github.com/ilkoid/kadr/pkg/config"
)

// Gateway определяет контракт хранилища для галереи.
// Используется для мокания в тестах и внедрения зависимостей.
type Gateway interface {
	ListAll(ctx context.Context) ([]StoredObject, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
	Download(ctx context.Context, key string) ([]byte, error)
}

// StoredObject - сырой объект из S3
type StoredObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type Client struct {
	api     *minio.Client
	bucket  string
	limiter *rate.Limiter
}

// Проверка что Client реализует Gateway
var _ Gateway = (*Client)(nil)

// New создает клиент, используя наш конфиг.
//
// Все операции проходят через общий rate limiter: bulk-удаления и массовая
// подпись URL не должны упираться в лимиты endpoint'а.
func New(cfg config.S3Config) (*Client, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 50 // щедрый дефолт, заметен только на bulk операциях
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		api:     minioClient,
		bucket:  cfg.Bucket,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// ListAll возвращает ВСЕ объекты бакета одним срезом.
//
// minio сам ходит по continuation token'ам, канал отдаёт страницы подряд —
// мы аккумулируем всё до конца, частичных результатов наружу не бывает.
// Пустой бакет — это пустой срез, не ошибка.
func (c *Client) ListAll(ctx context.Context) ([]StoredObject, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	objects := []StoredObject{}

	opts := minio.ListObjectsOptions{
		Prefix:    "",
		Recursive: true,
	}

	for obj := range c.api.ListObjects(ctx, c.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list bucket '%s': %w", c.bucket, obj.Err)
		}
		objects = append(objects, StoredObject{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return objects, nil
}

// PresignGet возвращает временную ссылку на чтение объекта.
func (c *Client) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqParams := make(url.Values)
	u, err := c.api.PresignedGetObject(ctx, c.bucket, key, ttl, reqParams)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return u.String(), nil
}

// Remove удаляет один объект по ключу.
func (c *Client) Remove(ctx context.Context, key string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Download скачивает объект целиком в память
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	// Читаем в буфер
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, obj); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
