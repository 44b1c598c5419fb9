package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"gorm.io/gorm"

	"github.com/upilabs/go-payment-match-backend/internal/repo"
)

// Operator-tunable setting keys. Anything outside this set is rejected with
// ErrUnknownSetting so a typo cannot silently create a dead row.
const (
	SettingWelcomeText    = "welcome_text"
	SettingForceSubText   = "force_sub_text"
	SettingProtectContent = "protect_content"
)

// defaultSettings are seeded on startup and returned until an operator
// overrides them.
var defaultSettings = map[string]string{
	SettingWelcomeText:    "Welcome!",
	SettingForceSubText:   "Please join our channel to continue.",
	SettingProtectContent: "false",
}

// SettingsService serves operator settings with a read-through cache. Reads
// dominate (every delivery consults protect_content), so values are kept in
// memory and refreshed on write.
type SettingsService struct {
	DB *gorm.DB

	mu    sync.RWMutex
	cache map[string]string
}

// NewSettingsService constructs the service with an empty cache.
func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db, cache: map[string]string{}}
}

// Seed writes the default value for every known key that has no row yet.
// Existing operator overrides are left untouched.
func (s *SettingsService) Seed(ctx context.Context) error {
	for k, v := range defaultSettings {
		if err := repo.SeedSetting(ctx, s.DB, k, v); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the current value for a known key.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	if _, known := defaultSettings[key]; !known {
		return "", ErrUnknownSetting
	}

	s.mu.RLock()
	v, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := repo.GetSetting(ctx, s.DB, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		v, err = defaultSettings[key], nil
	}
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.cache[key] = v
	s.mu.Unlock()
	return v, nil
}

// Set persists a new value for a known key and refreshes the cache.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if _, known := defaultSettings[key]; !known {
		return ErrUnknownSetting
	}
	if err := repo.SetSetting(ctx, s.DB, key, value); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

// All returns every known setting with its effective value.
func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(defaultSettings))
	for k := range defaultSettings {
		v, err := s.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// ProtectContent reports whether delivered content should be marked
// forward-protected. Unparsable values read as false.
func (s *SettingsService) ProtectContent(ctx context.Context) bool {
	v, err := s.Get(ctx, SettingProtectContent)
	if err != nil {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
