package postgres

import (
	"fmt"

	"github.com/StevenVC-P/phpTemplateGenerator/config"
)

// DSN prefers an explicit DB_DSN over the individual connection fields.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}
