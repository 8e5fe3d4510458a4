package main

import (
	"context"
	"os"

	"github.com/saulo-duarte/natije-api/internal/config"
	"github.com/saulo-duarte/natije-api/internal/container"
	"github.com/saulo-duarte/natije-api/internal/user"
)

// Creates the roles and the administrative superuser.
func main() {
	c := container.New()
	log := config.Logger

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	u, err := c.UserContainer.Service.CreateSuperuser(context.Background(), user.RegisterDTO{
		FirstName: config.Env("ADMIN_FIRST_NAME", "Admin"),
		LastName:  config.Env("ADMIN_LAST_NAME", "Natije"),
		Email:     email,
		Password:  password,
	})
	if err != nil {
		log.WithError(err).Fatal("Failed to create superuser")
	}
	log.WithField("user_id", u.ID).Info("Superuser ready")
}
