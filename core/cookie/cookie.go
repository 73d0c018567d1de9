// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package cookie reads and writes the preference cookies of the lookup service.

Cookie values are received from the user agent and can be anything; callers
must validate them before use.
*/
package cookie

import (
	"net"
	"net/http"
	"net/url"
	"time"
)

type Name string

// LangCookie holds the preferred UI language as a BCP 47 tag.
const LangCookie Name = "l10n_lang"

// SameSite=Lax allows cookies on top-level navigations.
const sameSite = http.SameSiteLaxMode

// Cookies will expire in 30 days from when they are set.
const maxAge = 30 * 24 * time.Hour

// Clear a cookie by setting its expiration date to this
var expireDelete = time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)

func build(name Name, value string, expires time.Time, secure bool) http.Cookie {
	return http.Cookie{
		Name:     string(name),
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   secure,
		HttpOnly: true,
		SameSite: sameSite,
	}
}

// Get returns the unescaped value of the named cookie, or "" when it is
// absent or malformed.
func Get(r *http.Request, name Name) string {
	c, err := r.Cookie(string(name))
	if err != nil {
		return ""
	}

	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}

	return value
}

// Set stores value in the named cookie. An empty value clears it.
func Set(w http.ResponseWriter, r *http.Request, name Name, value string) {
	if value == "" {
		Clear(w, r, name)

		return
	}

	c := build(name, url.QueryEscape(value), time.Now().Add(maxAge), IsConnectionSecure(r))
	http.SetCookie(w, &c)
}

func Clear(w http.ResponseWriter, r *http.Request, name Name) {
	c := build(name, "", expireDelete, IsConnectionSecure(r))
	http.SetCookie(w, &c)
}

// IsConnectionSecure returns whether a connection is secure.
//
// X-Forwarded-Proto is only trusted from private addresses, so a deployment
// whose last reverse proxy has a public address is reported as insecure.
func IsConnectionSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return false
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}

	return ip.IsPrivate() && r.Header.Get("X-Forwarded-Proto") == "https"
}
