package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/wenlng/go-captcha/v2/rotate"
	"golang.org/x/image/draw"

	"github.com/valvedesk/quoting-backoffice/utils"
)

// ErrCaptchaGeneration is returned when the rotator produced no challenge data
var ErrCaptchaGeneration = errors.New("captcha generation failed")

// CaptchaService generates and verifies rotate captchas for the operator login.
//
// Generate returns a challenge id with a master and a thumb image; the client
// rotates the thumb and posts the angle back with the id. A challenge is consumed
// by its first verification attempt.
type CaptchaService interface {
	GenerateRotate(ctx context.Context) (*RotateChallenge, error)
	VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool
}

type RotateChallenge struct {
	ID                string
	MasterImageBase64 string
	ThumbImageBase64  string
}

type captchaServiceImpl struct {
	rotator rotate.Captcha
	store   *cache.Cache // challenge id -> target angle
	padding int          // tolerance for angle validation

	consumeMu sync.Mutex // a challenge answers at most one verification
}

// NewCaptchaServiceRotate constructs a CaptchaService using rotate mode.
// ttl bounds how long a challenge stays answerable, padding is the accepted
// angle difference in degrees and imgSizePx the square image size.
func NewCaptchaServiceRotate(ttl time.Duration, padding int, imgSizePx int) (CaptchaService, error) {
	if imgSizePx <= 0 {
		imgSizePx = utils.CaptchaImageSize
	}
	if ttl <= 0 {
		ttl = utils.CaptchaChallengeTTL
	}
	if padding <= 0 {
		padding = utils.CaptchaAnglePadding
	}

	builder := rotate.NewBuilder(
		rotate.WithImageSquareSize(imgSizePx),
	)
	builder.SetResources(
		rotate.WithImages(generateRotateBackgrounds(3, imgSizePx)),
	)

	return &captchaServiceImpl{
		rotator: builder.Make(),
		store:   cache.New(ttl, time.Minute),
		padding: padding,
	}, nil
}

func (s *captchaServiceImpl) GenerateRotate(ctx context.Context) (*RotateChallenge, error) {
	captData, err := s.rotator.Generate()
	if err != nil {
		return nil, err
	}

	block := captData.GetData()
	if block == nil {
		return nil, ErrCaptchaGeneration
	}

	masterB64, err := captData.GetMasterImage().ToBase64()
	if err != nil {
		return nil, err
	}
	thumbB64, err := captData.GetThumbImage().ToBase64()
	if err != nil {
		return nil, err
	}

	challengeID := uuid.New().String()
	s.store.Set(challengeID, block.Angle, cache.DefaultExpiration)

	return &RotateChallenge{
		ID:                challengeID,
		MasterImageBase64: masterB64,
		ThumbImageBase64:  thumbB64,
	}, nil
}

func (s *captchaServiceImpl) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	v, found := s.consume(challengeID)
	if !found {
		return false
	}

	target, ok := v.(int)
	if !ok {
		return false
	}
	return rotate.Validate(int(math.Round(userAngle)), target, s.padding)
}

func (s *captchaServiceImpl) consume(challengeID string) (any, bool) {
	s.consumeMu.Lock()
	defer s.consumeMu.Unlock()
	v, found := s.store.Get(challengeID)
	if found {
		s.store.Delete(challengeID)
	}
	return v, found
}

// generateRotateBackgrounds renders n small noisy gradients and scales them up to size.
func generateRotateBackgrounds(n int, size int) []image.Image {
	if n <= 0 {
		n = 1
	}
	imgs := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		src := newNoiseGradientImage(size/4+1, size/4+1)
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		drawRect(dst, 10, 10, size/3, size/12, color.RGBA{R: 255, G: 255, B: 255, A: 32})
		drawRect(dst, size/2, size/3, size/3, size/10, color.RGBA{R: 0, G: 0, B: 0, A: 24})
		imgs = append(imgs, dst)
	}
	return imgs
}

func newNoiseGradientImage(w, h int) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x - w/2)
			dy := float64(y - h/2)
			t := math.Sqrt(dx*dx+dy*dy) / float64(w/2+1)
			if t > 1 {
				t = 1
			}
			base := uint8(200 - int(150*t))
			noise := uint8(rand.Intn(30))
			rgba.Set(x, y, color.RGBA{R: base + noise/3, G: base, B: 255 - base/2, A: 255})
		}
	}
	return rgba
}

func drawRect(dst *image.RGBA, x, y, w, h int, c color.RGBA) {
	rect := image.Rect(x, y, x+w, y+h)
	draw.Draw(dst, rect, &image.Uniform{C: c}, image.Point{}, draw.Over)
}
