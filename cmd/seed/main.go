// Command seed wipes and repopulates the tenants and users collections with
// the standard demo accounts. Intended for local development only.
package main

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/notably/notes-saas/internal/core/domain"
	"github.com/notably/notes-saas/internal/infrastructure/config"
	"github.com/notably/notes-saas/internal/infrastructure/db/mongo"
	"github.com/notably/notes-saas/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	for _, coll := range []string{"users", "tenants", "notes"} {
		if err := db.Collection(coll).Drop(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", coll).Msg("drop failed")
		}
	}

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	tenants := mongo.NewTenantRepository(db)
	users := mongo.NewUserRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(domain.DefaultInvitePassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash failed")
	}

	seed := []struct {
		tenant domain.Tenant
		emails map[string]domain.Role
	}{
		{
			tenant: domain.Tenant{Slug: "acme", Name: "Acme Corporation", Plan: domain.PlanFree},
			emails: map[string]domain.Role{
				"admin@acme.test": domain.RoleAdmin,
				"user@acme.test":  domain.RoleMember,
			},
		},
		{
			tenant: domain.Tenant{Slug: "globex", Name: "Globex Corporation", Plan: domain.PlanFree},
			emails: map[string]domain.Role{
				"admin@globex.test": domain.RoleAdmin,
				"user@globex.test":  domain.RoleMember,
			},
		},
	}

	for _, s := range seed {
		tenant, err := tenants.Create(ctx, &s.tenant)
		if err != nil {
			log.Fatal().Err(err).Str("slug", s.tenant.Slug).Msg("tenant seed failed")
		}
		for email, role := range s.emails {
			if _, err := users.Create(ctx, &domain.User{
				Email:        email,
				PasswordHash: string(hash),
				Role:         role,
				TenantID:     tenant.ID,
				CreatedAt:    time.Now().UTC(),
			}); err != nil {
				log.Fatal().Err(err).Str("email", email).Msg("user seed failed")
			}
			log.Info().Str("email", email).Str("tenant", tenant.Slug).Str("role", string(role)).Msg("seeded user")
		}
	}

	log.Info().Msg("seed data created, all passwords are \"password\"")
}
