package auth

import (
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/petermazzocco/picture-picker/internal/config"
)

// NewSessionStore builds the cookie store shared by gothic and Middleware.
func NewSessionStore(cfg config.AuthConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(cfg.SessionMaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.SecureCookies
	return store
}

// Setup registers the OAuth providers and hands the session store to gothic.
func Setup(cfg config.AuthConfig, store sessions.Store) {
	if cfg.GoogleKey != "" {
		goth.UseProviders(google.New(cfg.GoogleKey, cfg.GoogleSecret, cfg.CallbackURL, "email", "profile"))
	}
	gothic.Store = store
}
