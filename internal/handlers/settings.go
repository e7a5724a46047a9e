package handlers

import (
	"net/http"

	"github.com/biobalance/admin/config"
)

// SettingsResponse reports which configuration values are present. It
// never echoes a secret.
type SettingsResponse struct {
	Env                  string `json:"env"`
	AdminUsername        string `json:"adminUsername"`
	AdminPasswordSet     bool   `json:"adminPasswordSet"`
	JWTSecretSet         bool   `json:"jwtSecretSet"`
	DatabaseURLSet       bool   `json:"databaseUrlSet"`
	OpenAIConfigured     bool   `json:"openaiConfigured"`
	InsightsGenerator    string `json:"insightsGenerator"`
	StorageBackend       string `json:"storageBackend"`
	MessageBrokerBackend string `json:"messageBrokerBackend"`
}

// Settings returns a handler reporting configuration presence for cfg.
func Settings(cfg config.Config) http.HandlerFunc {
	generator := "rules"
	if cfg.OpenAI.APIKey != "" {
		generator = "openai"
	}
	resp := SettingsResponse{
		Env:                  cfg.Env,
		AdminUsername:        cfg.Auth.AdminUsername,
		AdminPasswordSet:     cfg.Auth.AdminPassword != "",
		JWTSecretSet:         cfg.Auth.JWTSecret != "",
		DatabaseURLSet:       cfg.Database.URL != "",
		OpenAIConfigured:     cfg.OpenAI.APIKey != "",
		InsightsGenerator:    generator,
		StorageBackend:       cfg.Storage.Backend,
		MessageBrokerBackend: cfg.MQ.Backend,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}
