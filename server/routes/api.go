// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"codeberg.org/addle/l10n/config"
	"codeberg.org/addle/l10n/core/cookie"
	"codeberg.org/addle/l10n/i18n"
	"codeberg.org/addle/l10n/server/request_context"
	"codeberg.org/addle/l10n/ts"
)

// fallbackSegment names the fallback catalogue in catalogue routes.
const fallbackSegment = "fallback"

// LanguageData describes one loaded catalogue.
type LanguageData struct {
	Tag        string `json:"tag"`
	Messages   int    `json:"messages"`
	Finished   int    `json:"finished"`
	Unfinished int    `json:"unfinished"`
}

// LanguagesData is the body of GET /api/languages.
type LanguagesData struct {
	Base      string         `json:"base"`
	Current   string         `json:"current"`
	Fallback  *LanguageData  `json:"fallback,omitempty"`
	Languages []LanguageData `json:"languages"`
}

// MessageData is the body of GET /api/messages/{id}.
type MessageData struct {
	ID      string      `json:"id"`
	Lang    string      `json:"lang"`
	Text    string      `json:"text"`
	Origin  i18n.Origin `json:"origin"`
	Locale  string      `json:"locale"`
	Missing bool        `json:"missing"`
}

// IssuesData is the body of GET /api/catalogs/{lang}/issues.
type IssuesData struct {
	Language  string     `json:"language"`
	Messages  int        `json:"messages"`
	HasErrors bool       `json:"hasErrors"`
	Issues    []ts.Issue `json:"issues"`
}

// ReloadData is the body of POST /api/reload.
type ReloadData struct {
	Languages []string  `json:"languages"`
	LoadedAt  time.Time `json:"loadedAt"`
}

// LanguageChoiceData is the body of POST /api/language.
type LanguageChoiceData struct {
	Lang string `json:"lang"`
}

// Healthz reports that the service is up.
func Healthz(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := w.Write([]byte("ok\n"))

	return err
}

// Languages lists the loaded catalogues.
func Languages(w http.ResponseWriter, r *http.Request) error {
	b := i18n.Default()

	data := LanguagesData{
		Base:      b.Base().String(),
		Current:   request_context.FromRequest(r).Lang.String(),
		Languages: []LanguageData{},
	}

	if fb := b.Fallback(); fb != nil {
		summary := summarize(fallbackSegment, fb)
		data.Fallback = &summary
	}

	for _, tag := range b.Languages() {
		c, ok := b.Catalog(tag)
		if !ok {
			data.Languages = append(data.Languages, LanguageData{Tag: tag.String()})

			continue
		}

		data.Languages = append(data.Languages, summarize(tag.String(), c))
	}

	return writeJSON(w, http.StatusOK, data)
}

// Message resolves one id in the request's language. Repeated arg query
// parameters fill the %N markers in order.
func Message(w http.ResponseWriter, r *http.Request) error {
	id := r.PathValue("id")
	if id == "" {
		return NewHTTPError(http.StatusBadRequest, ErrMissingID)
	}

	b := i18n.Default()
	lang := request_context.FromRequest(r).Lang

	rawArgs := r.URL.Query()["arg"]
	args := make([]any, len(rawArgs))

	for i, a := range rawArgs {
		args[i] = a
	}

	res := b.Resolve(lang, id)

	return writeJSON(w, http.StatusOK, MessageData{
		ID:      id,
		Lang:    lang.String(),
		Text:    b.Format(res, id, args...),
		Origin:  res.Origin,
		Locale:  res.Locale.String(),
		Missing: res.Missing(),
	})
}

// CatalogIssues validates the catalogue named by the lang path segment.
func CatalogIssues(w http.ResponseWriter, r *http.Request) error {
	name, c, err := catalogFor(i18n.Default(), r.PathValue("lang"))
	if err != nil {
		return err
	}

	issues := ts.Validate(c)
	if issues == nil {
		issues = []ts.Issue{}
	}

	return writeJSON(w, http.StatusOK, IssuesData{
		Language:  name,
		Messages:  c.Len(),
		HasErrors: ts.HasErrors(issues),
		Issues:    issues,
	})
}

// Reload loads the catalogues again. It requires the configured reload
// token as a bearer token.
func Reload(w http.ResponseWriter, r *http.Request) error {
	token := config.Global.Basic.ReloadToken
	if token == "" {
		return NewHTTPError(http.StatusForbidden, ErrReloadDisabled)
	}

	given, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
		w.Header().Set("WWW-Authenticate", `Bearer realm="reload"`)

		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken)
	}

	if err := i18n.Reload(); err != nil {
		return err
	}

	data := ReloadData{LoadedAt: time.Now().UTC()}
	for _, tag := range i18n.Languages() {
		data.Languages = append(data.Languages, tag.String())
	}

	return writeJSON(w, http.StatusOK, data)
}

// SetLanguage stores the preferred language in a cookie. An empty value or
// "auto" clears it.
func SetLanguage(w http.ResponseWriter, r *http.Request) error {
	raw := strings.TrimSpace(r.FormValue(i18n.LangParam))

	if raw == "" || strings.EqualFold(raw, "auto") {
		cookie.Clear(w, r, cookie.LangCookie)

		return writeJSON(w, http.StatusOK, LanguageChoiceData{})
	}

	if _, err := language.Parse(raw); err != nil {
		return NewHTTPError(http.StatusBadRequest, ErrInvalidLanguage)
	}

	matched := i18n.Default().Match(raw)
	cookie.Set(w, r, cookie.LangCookie, matched.String())

	return writeJSON(w, http.StatusOK, LanguageChoiceData{Lang: matched.String()})
}

// catalogFor returns the catalogue for a lang path segment, which is a
// language tag or "fallback".
func catalogFor(b *i18n.Bundle, raw string) (string, *ts.Catalog, error) {
	if raw == fallbackSegment {
		if fb := b.Fallback(); fb != nil {
			return fallbackSegment, fb, nil
		}

		return "", nil, NewHTTPError(http.StatusNotFound, ErrUnknownLanguage)
	}

	tag, err := i18n.ParseLocale(raw)
	if err != nil {
		return "", nil, NewHTTPError(http.StatusBadRequest, ErrInvalidLanguage)
	}

	matched := b.Match(tag.String())

	want, _ := tag.Base()
	got, _ := matched.Base()

	if want != got {
		return "", nil, NewHTTPError(http.StatusNotFound, ErrUnknownLanguage)
	}

	c, ok := b.Catalog(matched)
	if !ok {
		return "", nil, NewHTTPError(http.StatusNotFound, ErrUnknownLanguage)
	}

	return matched.String(), c, nil
}

func summarize(tag string, c *ts.Catalog) LanguageData {
	data := LanguageData{Tag: tag, Messages: c.Len()}

	for _, m := range c.Messages() {
		if _, ok := m.Resolved(); ok {
			data.Finished++
		} else {
			data.Unfinished++
		}
	}

	return data
}

// IndexData is the body of GET /.
type IndexData struct {
	Service string            `json:"service"`
	Version string            `json:"version"`
	Routes  map[string]string `json:"routes"`
}

// Index describes the service and its routes.
func Index(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, IndexData{
		Service: "addle-l10n",
		Version: config.BuildVersion,
		Routes: map[string]string{
			"languages": "/api/languages",
			"message":   "/api/messages/{id}?lang={lang}&arg={arg}",
			"issues":    "/api/catalogs/{lang}/issues",
			"report":    "/catalogs/{lang}",
			"snapshots": "/api/snapshots",
		},
	})
}
