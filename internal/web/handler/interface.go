package handler

import (
	"github.com/gofiber/fiber/v3"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/systeminfo/internal/config"
)

// Service is the interface for a web handler service.
// api and admin are the route groups the handler registers its routes on.
type Service interface {
	Init(api, admin fiber.Router, cfg *config.Config, db *gorm.DB)
}
