package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/nfnt/resize"
)

const (
	/*
		AestheticPrompt is the fixed text every image is compared
		against. The raw compatibility logit is rescaled so scores
		cluster roughly between 0 and 10.
	*/
	AestheticPrompt = "beautiful aesthetic fashion photo"

	modelInputSize = 224

	scoreOffset = 5.0
	scoreScale  = 2.5

	fallbackMinScore = 3.0
	fallbackMaxScore = 7.0

	defaultImageTimeout = 10 * time.Second
)

/*
AestheticScorer computes an aesthetic score for the image at the given
URL. The second return value is false when the score came from the
failure path (a pseudo-random placeholder) instead of the model.
Scoring never fails: every call yields a finite score.
*/
type AestheticScorer interface {
	Score(ctx context.Context, imageURL string) (float64, bool)
}

type AestheticServiceConfig struct {
	InferenceUrl string
	ModelID      string
	ImageTimeout time.Duration
	HTTPClient   *http.Client
}

/*
modelSession tracks the one-time model load. Loading the model is
expensive, so a successful load is memoized for the life of the
process. A failed load is not: the next score attempt tries again.
*/
type modelSession struct {
	mu     sync.Mutex
	loaded bool
}

type AestheticService struct {
	inferenceUrl string
	modelID      string
	imageTimeout time.Duration
	httpClient   *http.Client
	session      *modelSession

	// randomScore is swappable so tests can make the fallback deterministic.
	randomScore func() float64
}

func NewAestheticService(config AestheticServiceConfig) AestheticService {
	if config.ImageTimeout <= 0 {
		config.ImageTimeout = defaultImageTimeout
	}

	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}

	return AestheticService{
		inferenceUrl: config.InferenceUrl,
		modelID:      config.ModelID,
		imageTimeout: config.ImageTimeout,
		httpClient:   config.HTTPClient,
		session:      &modelSession{},
		randomScore:  rand.Float64,
	}
}

/*
Score downloads the image, preprocesses it, and asks the inference
service how well it matches AestheticPrompt. Any failure along the way
is absorbed and replaced with a pseudo-random score between 3 and 7,
so a bad image never aborts its topic.
*/
func (s AestheticService) Score(ctx context.Context, imageURL string) (float64, bool) {
	score, err := s.modelScore(ctx, imageURL)

	if err != nil {
		slog.Debug("aesthetic scoring failed. substituting random score", "url", imageURL, "error", err)
		return s.fallbackScore(), false
	}

	return score, true
}

func (s AestheticService) modelScore(ctx context.Context, imageURL string) (float64, error) {
	var (
		err   error
		data  []byte
		img   image.Image
		logit float64
	)

	if err = s.ensureModelLoaded(); err != nil {
		return 0, err
	}

	if data, err = s.downloadImage(ctx, imageURL); err != nil {
		return 0, err
	}

	if img, _, err = image.Decode(bytes.NewReader(data)); err != nil {
		return 0, fmt.Errorf("error decoding image: %w", err)
	}

	if logit, err = s.inferLogit(ctx, s.prepareForModel(img)); err != nil {
		return 0, err
	}

	if math.IsNaN(logit) || math.IsInf(logit, 0) {
		return 0, fmt.Errorf("inference returned a non-finite logit")
	}

	return round2(scoreOffset + logit*scoreScale), nil
}

/*
ensureModelLoaded asks the inference service to load the model. A
successful load is remembered for the rest of the process; a failure
is reported to the caller and retried on the next call. The load runs
detached from any request context so a visitor cancelling mid-load
cannot poison the session.
*/
func (s AestheticService) ensureModelLoaded() error {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()

	if s.session.loaded {
		return nil
	}

	if err := s.loadModel(context.Background()); err != nil {
		return err
	}

	s.session.loaded = true
	return nil
}

func (s AestheticService) loadModel(ctx context.Context) error {
	var (
		err      error
		body     []byte
		req      *http.Request
		response *http.Response
	)

	slog.Info("loading aesthetic scoring model...", "model", s.modelID)

	if body, err = json.Marshal(map[string]any{"model": s.modelID}); err != nil {
		return fmt.Errorf("error marshaling model load payload: %w", err)
	}

	if req, err = http.NewRequestWithContext(ctx, http.MethodPost, s.inferenceUrl+"/models/load", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("error creating model load request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if response, err = s.httpClient.Do(req); err != nil {
		return fmt.Errorf("error calling model load endpoint: %w", err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status loading model '%s': %s", s.modelID, response.Status)
	}

	slog.Info("aesthetic scoring model loaded", "model", s.modelID)
	return nil
}

func (s AestheticService) downloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	var (
		err      error
		req      *http.Request
		response *http.Response
	)

	ctx, cancel := context.WithTimeout(ctx, s.imageTimeout)
	defer cancel()

	if req, err = http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil); err != nil {
		return nil, fmt.Errorf("error creating image request: %w", err)
	}

	if response, err = s.httpClient.Do(req); err != nil {
		return nil, fmt.Errorf("error downloading image from '%s': %w", imageURL, err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error downloading image from '%s', status: %s", imageURL, response.Status)
	}

	contentType := response.Header.Get("Content-Type")

	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("'%s' is not an image, content type is %s", imageURL, contentType)
	}

	return io.ReadAll(response.Body)
}

/*
prepareForModel converts the image to RGB and resizes it to the fixed
input size the model expects, then JPEG-encodes the result for the
wire.
*/
func (s AestheticService) prepareForModel(img image.Image) []byte {
	bounds := img.Bounds()
	rgb := image.NewRGBA(bounds)
	draw.Draw(rgb, bounds, img, bounds.Min, draw.Src)

	resized := resize.Resize(modelInputSize, modelInputSize, rgb, resize.Lanczos3)

	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 90})

	return buf.Bytes()
}

func (s AestheticService) inferLogit(ctx context.Context, preparedImage []byte) (float64, error) {
	var (
		err      error
		body     []byte
		req      *http.Request
		response *http.Response
	)

	payload := map[string]any{
		"model":     s.modelID,
		"text":      AestheticPrompt,
		"image_b64": base64.StdEncoding.EncodeToString(preparedImage),
	}

	if body, err = json.Marshal(payload); err != nil {
		return 0, fmt.Errorf("error marshaling score payload: %w", err)
	}

	if req, err = http.NewRequestWithContext(ctx, http.MethodPost, s.inferenceUrl+"/score", bytes.NewReader(body)); err != nil {
		return 0, fmt.Errorf("error creating score request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if response, err = s.httpClient.Do(req); err != nil {
		return 0, fmt.Errorf("error calling score endpoint: %w", err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status from score endpoint: %s", response.Status)
	}

	result := struct {
		LogitsPerImage float64 `json:"logits_per_image"`
	}{}

	if err = json.NewDecoder(response.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("error decoding score response: %w", err)
	}

	return result.LogitsPerImage, nil
}

func (s AestheticService) fallbackScore() float64 {
	return fallbackMinScore + s.randomScore()*(fallbackMaxScore-fallbackMinScore)
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
