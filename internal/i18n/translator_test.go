package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateResolvesPerLocale(t *testing.T) {
	tr := New(LocaleEN)

	assert.Equal(t, "Products", tr.Translate("nav.products", LocaleEN))
	assert.Equal(t, "بەرهەمەکان", tr.Translate("nav.products", LocaleKU))
	assert.Equal(t, "المنتجات", tr.Translate("nav.products", LocaleAR))
}

func TestTranslateFallsBackThenEchoesKey(t *testing.T) {
	tr := New(LocaleEN)

	assert.Equal(t, "Products", tr.Translate("nav.products", "fr"))
	assert.Equal(t, "no.such.key", tr.Translate("no.such.key", LocaleKU))
}

func TestUnknownFallbackDegradesToEnglish(t *testing.T) {
	tr := New("de")
	assert.Equal(t, "Products", tr.Translate("nav.products", "de"))
}

func TestDictionaryCopiesAreIsolated(t *testing.T) {
	tr := New(LocaleEN)

	dict := tr.Dictionary(LocaleKU)
	require.NotEmpty(t, dict)
	dict["nav.products"] = "mutated"
	assert.Equal(t, "بەرهەمەکان", tr.Translate("nav.products", LocaleKU))
}

func TestDictionariesShareKeySets(t *testing.T) {
	en := dictionaries[LocaleEN]
	for _, locale := range []string{LocaleKU, LocaleAR} {
		dict := dictionaries[locale]
		require.Equal(t, len(en), len(dict), "locale %s key count", locale)
		for key := range en {
			_, ok := dict[key]
			assert.True(t, ok, "locale %s missing key %s", locale, key)
		}
	}
}

func TestRTLLocales(t *testing.T) {
	assert.False(t, IsRTL(LocaleEN))
	assert.True(t, IsRTL(LocaleKU))
	assert.True(t, IsRTL(LocaleAR))

	assert.True(t, Supported(LocaleAR))
	assert.False(t, Supported("fa"))
	assert.Equal(t, []string{LocaleEN, LocaleKU, LocaleAR}, Locales())
}
