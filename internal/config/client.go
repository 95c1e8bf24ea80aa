package config

import (
	"fmt"
	"time"

	"github.com/cristianoliveira/condoview/internal/domain"
)

// ClientSettings is the typed view of the keys the backend client and the
// list controller need. Load must run before ClientFromGlobal.
type ClientSettings struct {
	APIURL         string
	APIToken       string
	Scope          domain.Scope
	PageSize       int
	SearchDebounce time.Duration
	RequestTimeout time.Duration
}

// ClientFromGlobal builds ClientSettings from the loaded configuration.
func ClientFromGlobal() (ClientSettings, error) {
	role, err := domain.ParseRole(Get("role", string(domain.RoleAdmin)))
	if err != nil {
		return ClientSettings{}, err
	}
	scope := domain.Scope{Role: role, ResidentID: Get("resident_id", "")}
	if err := scope.Validate(); err != nil {
		return ClientSettings{}, fmt.Errorf("invalid configuration: %w (set %sRESIDENT_ID)", err, EnvPrefix)
	}
	return ClientSettings{
		APIURL:         Get("api_url", ""),
		APIToken:       Get("api_token", ""),
		Scope:          scope,
		PageSize:       GetInt("page_size", domain.DefaultPageSize),
		SearchDebounce: GetDuration("search_debounce_ms", time.Millisecond, 500*time.Millisecond),
		RequestTimeout: GetDuration("request_timeout_seconds", time.Second, 15*time.Second),
	}, nil
}
