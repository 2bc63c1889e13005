package container

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pinit-down/config"
	"github.com/oksasatya/pinit-down/internal/infrastructure/memory"
	"github.com/oksasatya/pinit-down/pkg/helpers"
)

func testConfig() *config.Config {
	return &config.Config{
		AppName:        "pinit-down",
		StoreDriver:    config.DriverMemory,
		JWTSecret:      "secret",
		AccessTTL:      time.Hour,
		VerifyTokenTTL: 24 * time.Hour,
		ResetTokenTTL:  time.Hour,
	}
}

func TestNewWithStores(t *testing.T) {
	c, err := NewWithStores(testConfig(), helpers.DiscardLogger(), memory.NewUserRepository(), memory.NewCartItemRepository())
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.AuthService)
	require.NotNil(t, c.CartService)
	assert.Nil(t, c.CartService.Index, "search stays disabled without a cluster")
	assert.Nil(t, c.Redis)
	assert.NoError(t, c.StorePing(context.Background()))
	assert.Equal(t, time.Hour, c.AuthService.ResetTTL)
}

func TestNewWithStoresRequiresSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = ""
	_, err := NewWithStores(cfg, helpers.DiscardLogger(), memory.NewUserRepository(), memory.NewCartItemRepository())
	require.ErrorIs(t, err, helpers.ErrMissingSecret)
}

func TestBuildMemoryDriver(t *testing.T) {
	c, err := Build(context.Background(), testConfig(), helpers.DiscardLogger())
	require.NoError(t, err)
	assert.Nil(t, c.Mongo)
	assert.Nil(t, c.PGPool)
	assert.Nil(t, c.RabbitPub)

	c.Close()
	c.Close()
}

func TestBuildUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "sqlite"
	_, err := Build(context.Background(), cfg, helpers.DiscardLogger())
	require.ErrorIs(t, err, config.ErrUnknownDriver)
}
