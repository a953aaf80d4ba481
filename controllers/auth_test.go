package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestRegisterInsertStatus(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	status, message := registerInsertStatus(dup)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", message)

	status, message = registerInsertStatus(errors.New("server selection timeout"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to create account", message)
}
