package journal

import (
	"fmt"
	"net"
	"net/url"

	coreconfig "github.com/m3rciful/faqbot/core/config"
)

// DSN returns the keyword/value connection string used by lib/pq.
func DSN(cfg coreconfig.JournalConfig) string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		quote(cfg.User), quote(cfg.Password), cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
}

// MigrateURL returns the postgres:// URL expected by golang-migrate.
func MigrateURL(cfg coreconfig.JournalConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
	}
	return u.String()
}

// quote wraps values containing spaces or quotes per the libpq keyword syntax.
func quote(v string) string {
	needs := v == ""
	for _, r := range v {
		if r == ' ' || r == '\'' || r == '\\' {
			needs = true
			break
		}
	}
	if !needs {
		return v
	}
	out := make([]rune, 0, len(v)+2)
	out = append(out, '\'')
	for _, r := range v {
		if r == '\'' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(append(out, '\''))
}
