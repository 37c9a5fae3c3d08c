package preferences_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"appstate/internal/binding"
	"appstate/internal/domain"
	"appstate/internal/notice"
	"appstate/internal/services/preferences"
	"appstate/internal/state"
	"appstate/internal/store"
)

type brokenBackend struct {
	*store.MemoryBackend
	err error
}

func (b *brokenBackend) SetItem(context.Context, string, string) error { return b.err }
func (b *brokenBackend) RemoveItem(context.Context, string) error      { return b.err }

type fixture struct {
	svc      *preferences.Service
	darkMode *state.Store[bool]
	language *state.Store[domain.Language]
	backend  domain.Backend
	notices  *notice.Center
}

func newFixture(t *testing.T, b domain.Backend) fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	dm := state.NewWithDefault(domain.KeyDarkMode, b, state.JSON[bool](nil), false, state.WithLogger(log))
	lang := state.NewWithDefault(domain.KeyLanguage, b, state.OneOf(domain.Languages...), domain.LanguageEnglish, state.WithLogger(log))
	if err := binding.Ready(context.Background(), dm, lang); err != nil {
		t.Fatalf("ready: %v", err)
	}
	nc := notice.NewCenter(log)
	return fixture{
		svc:      preferences.New(dm, lang, nc, log),
		darkMode: dm,
		language: lang,
		backend:  b,
		notices:  nc,
	}
}

func TestService_Defaults(t *testing.T) {
	f := newFixture(t, store.NewMemoryBackend())
	if f.svc.Mode() != domain.ColorModeLight {
		t.Fatalf("mode = %q, want light", f.svc.Mode())
	}
	if f.svc.Language() != domain.LanguageEnglish {
		t.Fatalf("language = %q, want en", f.svc.Language())
	}
}

func TestService_UpdateModeAndToggle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.NewMemoryBackend())

	if ok, err := f.svc.UpdateMode(ctx, domain.ColorModeDark); !ok || err != nil {
		t.Fatalf("UpdateMode = (%v, %v)", ok, err)
	}
	if v, _ := f.darkMode.Snapshot(); !v {
		t.Fatal("dark mode flag not set")
	}
	if ok, err := f.svc.ToggleDarkMode(ctx); !ok || err != nil {
		t.Fatalf("ToggleDarkMode = (%v, %v)", ok, err)
	}
	if f.svc.Mode() != domain.ColorModeLight {
		t.Fatalf("mode = %q after toggle, want light", f.svc.Mode())
	}
	raw, _, _ := f.backend.GetItem(ctx, domain.KeyDarkMode.String())
	if raw != "false" {
		t.Fatalf("backend holds %q, want false", raw)
	}
}

func TestService_UpdateMode_Unknown(t *testing.T) {
	f := newFixture(t, store.NewMemoryBackend())
	ok, err := f.svc.UpdateMode(context.Background(), domain.ColorMode("sepia"))
	if ok || !errors.Is(err, preferences.ErrUnknownMode) {
		t.Fatalf("UpdateMode(sepia) = (%v, %v)", ok, err)
	}
}

func TestService_UpdateLanguage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.NewMemoryBackend())

	if ok, err := f.svc.UpdateLanguage(ctx, domain.LanguageFrench); !ok || err != nil {
		t.Fatalf("UpdateLanguage(fr) = (%v, %v)", ok, err)
	}
	if f.svc.Language() != domain.LanguageFrench {
		t.Fatalf("language = %q", f.svc.Language())
	}

	ch, cancel := f.notices.Subscribe()
	defer cancel()
	ok, err := f.svc.UpdateLanguage(ctx, domain.Language("tlh"))
	if ok || !errors.Is(err, state.ErrInvalidValue) {
		t.Fatalf("UpdateLanguage(tlh) = (%v, %v)", ok, err)
	}
	select {
	case n := <-ch:
		t.Fatalf("rejected value published %+v", n)
	default:
	}
	if f.svc.Language() != domain.LanguageFrench {
		t.Fatal("rejected language changed the snapshot")
	}
}

func TestService_Reset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.NewMemoryBackend())
	if _, err := f.svc.UpdateMode(ctx, domain.ColorModeDark); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.UpdateLanguage(ctx, domain.LanguageArabic); err != nil {
		t.Fatal(err)
	}

	if ok, err := f.svc.Reset(ctx); !ok || err != nil {
		t.Fatalf("Reset = (%v, %v)", ok, err)
	}
	if f.svc.Mode() != domain.ColorModeLight || f.svc.Language() != domain.LanguageEnglish {
		t.Fatalf("after reset: mode=%q language=%q", f.svc.Mode(), f.svc.Language())
	}
	raw, ok, _ := f.backend.GetItem(ctx, domain.KeyLanguage.String())
	if !ok || raw != `"en"` {
		t.Fatalf("language backend = (%q, %v), want (\"en\", true)", raw, ok)
	}
}

func TestService_OnChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.NewMemoryBackend())

	type update struct {
		mode domain.ColorMode
		lang domain.Language
	}
	var got []update
	stop := f.svc.OnChange(func(m domain.ColorMode, l domain.Language) { got = append(got, update{m, l}) })

	if _, err := f.svc.UpdateMode(ctx, domain.ColorModeDark); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.UpdateLanguage(ctx, domain.LanguageSpanish); err != nil {
		t.Fatal(err)
	}
	stop()
	if _, err := f.svc.UpdateLanguage(ctx, domain.LanguageFrench); err != nil {
		t.Fatal(err)
	}

	want := []update{
		{domain.ColorModeLight, domain.LanguageEnglish},
		{domain.ColorModeDark, domain.LanguageEnglish},
		{domain.ColorModeDark, domain.LanguageSpanish},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestService_ResetFailure_PublishesNotice(t *testing.T) {
	ctx := context.Background()
	errDisk := errors.New("disk full")
	b := &brokenBackend{MemoryBackend: store.NewMemoryBackend()}
	f := newFixture(t, b)
	b.err = errDisk

	ch, cancel := f.notices.Subscribe()
	defer cancel()

	cases := []struct {
		name    string
		reset   func(context.Context) (bool, error)
		message string
	}{
		{"mode", f.svc.ResetMode, "error resetting color mode"},
		{"language", f.svc.ResetLanguage, "error resetting language"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := tc.reset(ctx)
			if ok || !errors.Is(err, errDisk) {
				t.Fatalf("reset = (%v, %v), want (false, %v)", ok, err, errDisk)
			}
			n := <-ch
			if n.Level != notice.LevelError || n.Message != tc.message {
				t.Fatalf("notice = %+v", n)
			}
		})
	}
}
