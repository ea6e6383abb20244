package service

import (
	"strings"
	"time"

	"github.com/tadka-labs/storefront/internal/config"

	"github.com/mojocn/base64Captcha"
)

const captchaSource = "23456789abcdefghjkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 图片验证码服务，仅用于管理员登录
type CaptchaService struct {
	cfg   config.CaptchaConfig
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	maxStore := cfg.MaxStore
	if maxStore <= 0 {
		maxStore = base64Captcha.GCLimitNumber
	}
	expire := time.Duration(cfg.ExpireSeconds) * time.Second
	if expire <= 0 {
		expire = base64Captcha.Expiration
	}
	return &CaptchaService{
		cfg:   cfg,
		store: base64Captcha.NewMemoryStore(maxStore, expire),
	}
}

// Enabled 管理员登录是否需要验证码
func (s *CaptchaService) Enabled() bool {
	return s != nil && s.cfg.AdminLogin
}

// Generate 生成图片验证码
func (s *CaptchaService) Generate() (*CaptchaImageChallenge, error) {
	driver := base64Captcha.NewDriverString(
		positiveOr(s.cfg.Height, 80),
		positiveOr(s.cfg.Width, 240),
		s.cfg.NoiseCount,
		base64Captcha.OptionShowHollowLine,
		positiveOr(s.cfg.Length, 5),
		captchaSource,
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.store)
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 校验验证码，未启用时直接通过；校验后立即失效
func (s *CaptchaService) Verify(payload CaptchaVerifyPayload) error {
	if !s.Enabled() {
		return nil
	}
	id := strings.TrimSpace(payload.CaptchaID)
	code := strings.TrimSpace(payload.CaptchaCode)
	if id == "" || code == "" {
		return ErrCaptchaRequired
	}
	if !s.store.Verify(id, code, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
