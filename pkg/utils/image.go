// Утилиты для превью изображений в терминале.
package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Регистрируем PNG декодер на всякий случай

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

// ResizeImage ресайзит изображение до указанной ширины, сохраняя пропорции.
//
// Параметры:
//   - data: байты исходного изображения (JPEG, PNG)
//   - maxWidth: целевая ширина в пикселях. Если 0 или меньше исходной ширины — ресайз не применяется.
//   - quality: качество JPEG при кодировании (1-100). Рекомендуется 85.
//
// Возвращает байты JPEG изображения.
func ResizeImage(data []byte, maxWidth int, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	originalBounds := img.Bounds()
	originalWidth := originalBounds.Dx()

	if maxWidth <= 0 || originalWidth <= maxWidth {
		// Ресайз не нужен, но конвертируем в JPEG для консистентности
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode to jpeg: %w", err)
		}
		return buf.Bytes(), nil
	}

	aspectRatio := float64(originalBounds.Dy()) / float64(originalWidth)
	newHeight := uint(float64(maxWidth) * aspectRatio)

	// Lanczos3 — качественный алгоритм, для превью хватает с запасом
	resized := resize.Resize(uint(maxWidth), newHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}

// AnsiPreview рендерит изображение в строку из цветных half-block
// символов (▀): верхняя половина клетки — цвет фона, нижняя — foreground.
//
// width — ширина превью в символах терминала. Одна строка вывода
// покрывает две строки пикселей, поэтому пропорции примерно сохраняются.
func AnsiPreview(data []byte, width int) (string, error) {
	if width < 1 {
		return "", fmt.Errorf("preview width must be positive, got %d", width)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	aspect := float64(bounds.Dy()) / float64(bounds.Dx())
	height := uint(float64(width) * aspect)
	if height < 2 {
		height = 2
	}
	if height%2 != 0 {
		height++ // Чётная высота: пары строк пикселей
	}

	small := resize.Resize(uint(width), height, img, resize.NearestNeighbor)
	sb := small.Bounds()

	var out bytes.Buffer
	for y := sb.Min.Y; y+1 < sb.Max.Y; y += 2 {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			top := ansiHex(small.At(x, y))
			bottom := ansiHex(small.At(x, y+1))
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀")
			out.WriteString(cell)
		}
		out.WriteByte('\n')
	}

	return out.String(), nil
}

// ansiHex переводит цвет пикселя в hex для lipgloss.
func ansiHex(c interface{ RGBA() (r, g, b, a uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
