// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// RequireAdminKey guards mutating routes with a shared admin key sent as
// "Authorization: Bearer <key>". hash is the bcrypt hash of the key. An
// empty hash disables the check so local setups work without a key.
func RequireAdminKey(hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := bearerToken(r)
			if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="portfolio"`)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid admin key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
