package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"logistics/internal/ocr"
	"logistics/internal/redis"

	"github.com/rs/zerolog"
)

// TextRecognizer turns a label image into raw text.
type TextRecognizer interface {
	ExtractText(image []byte, filename string) (string, error)
}

// TextCache remembers recognised text by image hash.
type TextCache interface {
	GetOCRText(imageHash string) (string, error)
	SetOCRText(imageHash, text string, ttl time.Duration) error
}

type OCRService interface {
	ScanLabel(image []byte, filename string) (*ocr.OrderInfo, error)
	ParseText(raw string) ocr.OrderInfo
}

type ocrService struct {
	recognizer TextRecognizer
	cache      TextCache
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewOCRService builds the label scanner. cache may be nil.
func NewOCRService(recognizer TextRecognizer, cache TextCache, cacheTTL time.Duration, logger zerolog.Logger) OCRService {
	return &ocrService{
		recognizer: recognizer,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.With().Str("component", "ocr").Logger(),
	}
}

func (s *ocrService) ScanLabel(image []byte, filename string) (*ocr.OrderInfo, error) {
	if len(image) == 0 {
		return nil, validationError(errors.New("image is empty"))
	}

	sum := sha256.Sum256(image)
	hash := hex.EncodeToString(sum[:])

	text, err := s.cachedText(hash)
	if err != nil {
		text, err = s.recognizer.ExtractText(image, filename)
		if err != nil {
			s.logger.Error().Err(err).Str("file", filename).Msg("text recognition failed")
			return nil, fmt.Errorf("text recognition failed: %w", err)
		}
		s.storeText(hash, text)
	}

	info := ocr.Parse(text)
	s.logger.Info().
		Str("file", filename).
		Str("sender", info.Sender.Name).
		Str("receiver", info.Receiver.Name).
		Msg("label scanned")
	return &info, nil
}

func (s *ocrService) ParseText(raw string) ocr.OrderInfo {
	return ocr.Parse(raw)
}

func (s *ocrService) cachedText(hash string) (string, error) {
	if s.cache == nil {
		return "", redis.ErrCacheMiss
	}
	text, err := s.cache.GetOCRText(hash)
	if err != nil && !errors.Is(err, redis.ErrCacheMiss) {
		s.logger.Warn().Err(err).Msg("ocr cache read failed")
	}
	return text, err
}

func (s *ocrService) storeText(hash, text string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetOCRText(hash, text, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("ocr cache write failed")
	}
}
