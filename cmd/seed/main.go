// Package main seeds a development database with sample attributes and
// variant templates, and prints a bearer token for trying the API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/auth"
	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/domain/catalogs/item"
	"varibulk/internal/infrastructure/config"
	"varibulk/internal/infrastructure/storage/postgres"
	"varibulk/internal/infrastructure/storage/postgres/catalog_repo"
	"varibulk/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.DSN()))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool, cfg.Database.StatementTimeout)
	attrRepo := catalog_repo.NewAttributeRepo(txManager)
	attributes := attribute.NewService(attrRepo, txManager)
	items := item.NewService(catalog_repo.NewItemRepo(txManager), attrRepo, txManager, cfg.Variant.MaxAttributes)

	if err := seedAttributes(ctx, attributes, log); err != nil {
		log.Fatalw("failed to seed attributes", "error", err)
	}
	if err := seedTemplates(ctx, items, log); err != nil {
		log.Fatalw("failed to seed templates", "error", err)
	}

	if os.Getenv("SEED_PRINT_TOKEN") == "true" {
		jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
		jwtConfig.Issuer = cfg.JWT.Issuer
		token, expires, err := auth.NewJWTService(jwtConfig).
			GenerateAccessToken("seed", "seed@varibulk.local", []string{"item_manager"})
		if err != nil {
			log.Fatalw("failed to issue token", "error", err)
		}
		log.Infow("development token issued", "expires_at", expires)
		fmt.Println(token)
	}

	log.Info("seeding completed successfully")
}

func seedAttributes(ctx context.Context, svc *attribute.Service, log *logger.Logger) error {
	attrs := []*attribute.Attribute{
		attribute.NewAttribute("Color",
			attribute.Value{Value: "Red", Abbr: "RED"},
			attribute.Value{Value: "Blue", Abbr: "BLU"},
			attribute.Value{Value: "Black", Abbr: "BLK"},
		),
		attribute.NewAttribute("Size",
			attribute.Value{Value: "Small", Abbr: "S"},
			attribute.Value{Value: "Medium", Abbr: "M"},
			attribute.Value{Value: "Large", Abbr: "L"},
		),
		attribute.NewAttribute("Sticker",
			attribute.Value{Value: "With Sticker", Abbr: "WS"},
			attribute.Value{Value: "No Sticker", Abbr: "NS"},
		),
		attribute.NewAttribute("Powder Code",
			attribute.Value{Value: "RAL9016", Abbr: "9016"},
			attribute.Value{Value: "RAL7016", Abbr: "7016"},
			attribute.Value{Value: "RAL9005", Abbr: "9005"},
		),
		attribute.NewNumericAttribute("Length", decimal.NewFromInt(1), decimal.NewFromInt(12), decimal.RequireFromString("0.5")),
	}

	for _, a := range attrs {
		err := svc.Create(ctx, a)
		switch {
		case err == nil:
			log.Infow("attribute created", "attribute", a.Name, "values", len(a.Values))
		case apperror.HasCode(err, apperror.CodeDuplicate):
			log.Infow("attribute already exists", "attribute", a.Name)
		default:
			return fmt.Errorf("attribute %s: %w", a.Name, err)
		}
	}
	return nil
}

func seedTemplates(ctx context.Context, svc *item.Service, log *logger.Logger) error {
	shirt := item.NewTemplate("TSHIRT", "T-Shirt", "Color", "Size")
	shirt.ItemGroup = "Apparel"

	profile := item.NewTemplate("PROFILE", "Aluminium Profile", "Sticker", "Powder Code", "Length")
	profile.ItemGroup = "Profiles"
	profile.StockUOM = "Kg"
	profile.WeightPerMeterWithSticker = decimal.RequireFromString("0.512")
	profile.WeightPerMeterNoSticker = decimal.RequireFromString("0.498")

	for _, t := range []*item.Item{shirt, profile} {
		err := svc.Create(ctx, t)
		switch {
		case err == nil:
			log.Infow("template created", "template", t.Name, "attributes", t.AttributeNames())
		case apperror.HasCode(err, apperror.CodeDuplicate):
			log.Infow("template already exists", "template", t.Name)
		default:
			return fmt.Errorf("template %s: %w", t.Name, err)
		}
	}
	return nil
}
