package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/auth"
	"github.com/judyrop/storefront/config"
	"github.com/judyrop/storefront/database"
	"github.com/judyrop/storefront/notify"
	"github.com/judyrop/storefront/payment"
	"github.com/judyrop/storefront/services"
)

func main() {
	config.Load()
	cfg := config.AppEnv
	if missing := cfg.Validate(); len(missing) > 0 {
		log.Fatalf("[CONFIG] [ERROR] missing configuration: %v", missing)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	deps := Deps{
		Tokens:      tokens,
		Gateway:     payment.NewTossClient(cfg.PaymentBaseURL, cfg.PaymentSecretKey, cfg.PaymentTimeout),
		Notifier:    notify.Nop{},
		CORSOrigins: cfg.CORSOrigins,
	}
	if cfg.SMSEnabled() {
		deps.Notifier = notify.NewSMSNotifier(cfg.SMSAPIURL, cfg.SMSUsername, cfg.SMSAPIKey)
	}
	if cfg.OIDCEnabled() {
		oidcAuth, err := auth.NewOIDCAuthenticator(context.Background(), cfg.OIDCIssuer, cfg.OIDCClientID,
			services.NewUserService(db, tokens))
		if err != nil {
			log.Fatal("Failed to initialise OIDC provider:", err)
		}
		deps.Extra = append(deps.Extra, oidcAuth)
	}

	r := SetupRouter(db, deps)
	log.Printf("[SERVER] [INFO] listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
