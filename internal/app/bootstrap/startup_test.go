package bootstrap

import (
	"testing"

	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.uber.org/zap"
)

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureAdmin(ctx, db, "Admin@Test.com", "s3cret-pass", zap.NewNop()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	u, err := userstore.New(db).GetByEmail(ctx, "admin@test.com")
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}
	if u.Role != models.RoleAdmin || u.Status != models.StatusActive {
		t.Errorf("got role %q status %q", u.Role, u.Status)
	}
	if !auth.CheckPassword(u.PasswordHash, "s3cret-pass") {
		t.Error("password not set")
	}
}

func TestEnsureAdmin_NoPasswordSkipsCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureAdmin(ctx, db, "admin@test.com", "", zap.NewNop()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}
	if _, err := userstore.New(db).GetByEmail(ctx, "admin@test.com"); err == nil {
		t.Error("expected no account without a password")
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing := testutil.NewFixtures(t, db).CreateUser(ctx, "Ops", "ops@test.com", models.RoleCompany)
	if err := userstore.New(db).SetStatus(ctx, existing.ID, models.StatusSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	if err := ensureAdmin(ctx, db, "ops@test.com", "", zap.NewNop()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}
	u, _ := userstore.New(db).GetByID(ctx, existing.ID)
	if u.Role != models.RoleAdmin || u.Status != models.StatusActive {
		t.Errorf("got role %q status %q", u.Role, u.Status)
	}
}

func TestValidateConfig(t *testing.T) {
	base := AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		StorageType:      "local",
		StorageLocalPath: "./uploads",
	}
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"unknown storage", func(c *AppConfig) { c.StorageType = "ftp" }, true},
		{"s3 without bucket", func(c *AppConfig) { c.StorageType = "s3" }, true},
		{"s3 with bucket", func(c *AppConfig) { c.StorageType = "s3"; c.StorageS3Bucket = "docs" }, false},
		{"short jwt secret", func(c *AppConfig) { c.JWTSecret = "short" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := ValidateConfig(nil, cfg, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("got %v", got)
	}
	if splitList("") != nil {
		t.Error("empty input should give nil")
	}
}
