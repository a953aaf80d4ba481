package controllers

import (
	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"maisonlux-backend/checkout"
)

// Controller holds the dependencies shared by every handler.
type Controller struct {
	DB              *mongo.Database
	Cld             *cloudinary.Cloudinary
	PasetoSecretKey []byte
	Checkout        *checkout.Service
}
