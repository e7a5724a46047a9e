package handlers

import (
	_ "embed"
	"net/http"
)

//go:embed web/login.html
var loginPage []byte

// LoginPage serves the sign-in form that unauthenticated browsers are
// redirected to.
func LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(loginPage)
}
