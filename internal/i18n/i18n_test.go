package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"":                     LocaleEN,
		"fr-FR,fr;q=0.9":       LocaleFR,
		"zh-CN":                LocaleZhCN,
		"zh":                   LocaleZhCN,
		"en-US":                LocaleEN,
		"de-DE":                LocaleEN,
		"not a locale ;;q=abc": LocaleEN,
	}
	for raw, want := range cases {
		if got := NormalizeLocale(raw); got != want {
			t.Fatalf("%q: want %s got %s", raw, want, got)
		}
	}
}

func TestResolveLocalePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?lang=zh-CN", nil)
	c.Request.Header.Set("Accept-Language", "fr")
	if got := ResolveLocale(c); got != LocaleZhCN {
		t.Fatalf("want zh-CN got %s", got)
	}

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Accept-Language", "fr-CI")
	if got := ResolveLocale(c); got != LocaleFR {
		t.Fatalf("want fr got %s", got)
	}
	if got := ResolveLocale(nil); got != DefaultLocale {
		t.Fatalf("nil context want default got %s", got)
	}
}

func TestTFallback(t *testing.T) {
	if got := T(LocaleFR, "error.order_not_found"); got != "Commande introuvable" {
		t.Fatalf("unexpected fr message: %s", got)
	}
	if got := T("xx", "error.order_not_found"); got != "Order not found" {
		t.Fatalf("unknown locale must fall back to en: %s", got)
	}
	if got := T(LocaleEN, "error.missing_key"); got != "error.missing_key" {
		t.Fatalf("missing key must return key: %s", got)
	}
	if got := Sprintf(LocaleEN, "error.too_many_requests", 12); got != "Too many requests, please retry in 12 seconds" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestLocalesShareKeys(t *testing.T) {
	for key := range messages[LocaleEN] {
		for _, locale := range supportedLocales {
			if _, ok := messages[locale][key]; !ok {
				t.Fatalf("locale %s missing key %s", locale, key)
			}
		}
	}
}
