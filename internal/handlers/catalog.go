package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/bundleshop/internal/catalog"
)

// CatalogHandler serves the static provider/bundle catalog.
type CatalogHandler struct{}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListProviders returns all providers with their bundles.
func (h *CatalogHandler) ListProviders(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    catalog.Providers(),
	})
}

// GetProvider returns a single provider by id.
func (h *CatalogHandler) GetProvider(c *fiber.Ctx) error {
	provider, ok := catalog.FindProvider(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "provider not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": provider})
}

// ListProviderBundles returns the bundles offered by one provider.
func (h *CatalogHandler) ListProviderBundles(c *fiber.Ctx) error {
	provider, ok := catalog.FindProvider(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "provider not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": provider.Bundles})
}
