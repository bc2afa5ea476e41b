package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/store"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { cfgFile = "" })
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, dsn string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`store:
  driver: sqlite
  dsn: %q
auth:
  jwt_secret: cli-test-secret
admin:
  name: Main Admin
  email: admin@x.com
  password: admin-pw
log:
  level: error
`, dsn)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeedAdminAndPromote(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "storefront.db")
	cfgPath := writeConfig(t, dsn)

	out, err := run(t, "--config", cfgPath, "seed-admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin ready: admin@x.com")

	out, err = run(t, "--config", cfgPath, "seed-admin")
	require.NoError(t, err, "seeding twice is a no-op")
	assert.Contains(t, out, "Admin ready: admin@x.com")

	ctx := context.Background()
	st, err := store.Open(ctx, config.StoreConfig{Driver: store.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, st.Users.Create(ctx, &models.User{Name: "A", Email: "a@x.com", Password: "hash"}))
	require.NoError(t, st.Close(ctx))

	out, err = run(t, "--config", cfgPath, "promote", "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Promoted a@x.com")

	_, err = run(t, "--config", cfgPath, "promote", "nobody@x.com")
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	v := config.New()
	v.Set("auth.jwt_secret", "cli-test-secret")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	st := store.NewMemory()
	require.NoError(t, st.Products.Create(context.Background(), &models.Product{Name: "Widget", Price: 1.5, Stock: 3, Category: "tools"}))
	require.NoError(t, st.Products.Create(context.Background(), &models.Product{Name: "Teddy", Price: 9, Stock: 1, Category: "toys"}))

	application, err := app.New(cfg, st, nil)
	require.NoError(t, err)
	server := httptest.NewServer(adaptor.FiberApp(application))
	defer server.Close()

	out, err := run(t, "catalog", "--api", server.URL+"/api", "--category", "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "<h3>Widget</h3>")
	assert.NotContains(t, out, "<h3>Teddy</h3>")
}
