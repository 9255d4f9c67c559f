package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Bot: BotConfig{Token: "123456:AAE-test"},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "santan",
			Password: "santan",
			Name:     "santan",
			SSLMode:  "disable",
		},
		Catalog:   CatalogConfig{PageSize: 6},
		Orders:    OrdersConfig{Backend: "csv", CSVPath: "orders.csv"},
		Broadcast: BroadcastConfig{MorningHour: 9, EveningHour: 21, Timezone: "Asia/Tashkent"},
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidateRejectsMissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.Bot.Token = ""

	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsMissingDBCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.DB.User = ""

	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsUnknownOrdersBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Orders.Backend = "sqlite"

	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsZeroPageSize(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.PageSize = 0

	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsOutOfRangeBroadcastHour(t *testing.T) {
	cfg := validConfig()
	cfg.Broadcast.EveningHour = 24

	assert.Error(t, Validate(cfg))
}

func TestDSNContainsAllParts(t *testing.T) {
	dsn := validConfig().DB.DSN()

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=santan")
	assert.Contains(t, dsn, "sslmode=disable")
}
