package main

import (
	"context"
	"log"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"maisonlux-backend/checkout"
	"maisonlux-backend/config"
	"maisonlux-backend/controllers"
	"maisonlux-backend/models"
	"maisonlux-backend/notify"
	"maisonlux-backend/routes"
	"maisonlux-backend/store"
)

func main() {
	cfg := config.Load()

	client, err := config.ConnectDB(cfg.MongoURI, cfg.MongoMode)
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database("maisonlux")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := config.EnsureIndexes(ctx, db); err != nil {
		log.Fatal(err)
	}
	if err := seedAdmin(ctx, db, cfg); err != nil {
		log.Fatal(err)
	}

	var cld *cloudinary.Cloudinary
	if cfg.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
		if err != nil {
			log.Fatal("Failed to initialise Cloudinary:", err)
		}
	} else {
		log.Println("CLOUDINARY_URL not set, uploads fall back to local storage")
	}

	notifier := notify.New(100)
	notifier.Start()

	ctrl := &controllers.Controller{
		DB:              db,
		Cld:             cld,
		PasetoSecretKey: cfg.PasetoSecretKey,
		Checkout:        checkout.NewService(store.NewMongoStore(db), notifier, cfg.Currency),
	}

	r := routes.Setup(ctrl, cfg)

	log.Printf("Starting maisonlux backend on :%s (%s)", cfg.Port, cfg.Env)
	log.Fatal(r.Run(":" + cfg.Port))
}

// seedAdmin creates the bootstrap admin account when the users collection is
// empty, so a fresh deployment has a way into the admin panel.
func seedAdmin(ctx context.Context, db *mongo.Database, cfg *config.AppConfig) error {
	users := db.Collection("users")
	count, err := users.CountDocuments(ctx, bson.M{})
	if err != nil || count > 0 {
		return err
	}

	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 12)
	if err != nil {
		return err
	}

	_, err = users.InsertOne(ctx, models.User{
		Name:      "Administrator",
		Email:     cfg.AdminEmail,
		Password:  string(hashed),
		Role:      models.RoleAdmin,
		CreatedAt: time.Now(),
	})
	if err == nil {
		log.Printf("Seeded admin account %s", cfg.AdminEmail)
	}
	return err
}
