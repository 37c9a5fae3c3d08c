package preferences

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"appstate/internal/binding"
	"appstate/internal/domain"
	"appstate/internal/notice"
	"appstate/internal/state"
)

// ErrUnknownMode is returned for a color mode other than light or dark.
var ErrUnknownMode = errors.New("unknown color mode")

// Service updates the dark-mode and language settings.
//
// Storage failures are published on the notice channel and reported as
// (false, err); they never leave the snapshot half-updated. Invalid values
// are reported without a notice.
type Service struct {
	darkMode state.Setting[bool]
	language state.Setting[domain.Language]
	notices  notice.Publisher
	log      *zap.Logger
}

// New returns a preferences Service over the two settings.
func New(
	darkMode state.Setting[bool],
	language state.Setting[domain.Language],
	notices notice.Publisher,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{darkMode: darkMode, language: language, notices: notices, log: log}
}

// UpdateMode switches the theme.
func (s *Service) UpdateMode(ctx context.Context, mode domain.ColorMode) (bool, error) {
	if mode != domain.ColorModeLight && mode != domain.ColorModeDark {
		return false, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if err := s.darkMode.Set(ctx, mode.Dark()); err != nil {
		return s.fail("error saving color mode", err)
	}
	s.log.Debug("color mode updated", zap.String("mode", string(mode)))
	return true, nil
}

// ToggleDarkMode flips the theme.
func (s *Service) ToggleDarkMode(ctx context.Context) (bool, error) {
	if s.Mode().Dark() {
		return s.UpdateMode(ctx, domain.ColorModeLight)
	}
	return s.UpdateMode(ctx, domain.ColorModeDark)
}

// UpdateLanguage switches the UI language.
func (s *Service) UpdateLanguage(ctx context.Context, lang domain.Language) (bool, error) {
	if err := s.language.Set(ctx, lang); err != nil {
		return s.fail("error saving language", err)
	}
	s.log.Debug("language updated", zap.String("language", lang.String()))
	return true, nil
}

// Reset restores both settings to their defaults.
func (s *Service) Reset(ctx context.Context) (bool, error) {
	if ok, err := s.ResetMode(ctx); !ok {
		return false, err
	}
	return s.ResetLanguage(ctx)
}

// ResetMode restores the default color mode.
func (s *Service) ResetMode(ctx context.Context) (bool, error) {
	if err := s.darkMode.Remove(ctx); err != nil {
		return s.fail("error resetting color mode", err)
	}
	s.log.Debug("color mode reset")
	return true, nil
}

// ResetLanguage restores the default UI language.
func (s *Service) ResetLanguage(ctx context.Context) (bool, error) {
	if err := s.language.Remove(ctx); err != nil {
		return s.fail("error resetting language", err)
	}
	s.log.Debug("language reset")
	return true, nil
}

// Mode returns the current color mode.
func (s *Service) Mode() domain.ColorMode {
	dark, _ := s.darkMode.Snapshot()
	return domain.ColorModeOf(dark)
}

// Language returns the current UI language, English when unset.
func (s *Service) Language() domain.Language {
	if lang, ok := s.language.Snapshot(); ok {
		return lang
	}
	return domain.LanguageEnglish
}

// OnChange calls fn with the current preferences now and whenever either
// setting changes. The returned function stops both watches.
func (s *Service) OnChange(fn func(mode domain.ColorMode, lang domain.Language)) (stop func()) {
	emit := func() { fn(s.Mode(), s.Language()) }
	stopMode := s.darkMode.Subscribe(emit)
	stopLang := binding.Watch[domain.Language](s.language, func(domain.Language, bool) { emit() })
	return func() {
		stopMode()
		stopLang()
	}
}

// fail publishes storage failures. Rejected values are the caller's error
// and are only returned.
func (s *Service) fail(message string, err error) (bool, error) {
	if !errors.Is(err, state.ErrInvalidValue) {
		s.notices.Publish(notice.LevelError, message, err)
	}
	return false, err
}

// Compile-time assertion that Service implements domain.PreferenceService.
var _ domain.PreferenceService = (*Service)(nil)
