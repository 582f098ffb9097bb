package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/service"
)

// RegisterRoutes attaches the HTTP surface to the Fiber app. Everything
// under auth requires a verified Bearer token; health probes and the API
// description stay public.
func RegisterRoutes(app *fiber.App, pinger Pinger, docs service.DocumentService, shares service.SharingService, auth fiber.Handler) {
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(pinger))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/", auth)

	api.Get("/profile", GetProfile(docs))
	api.Get("/activity", ListActivity(docs))

	api.Post("/documents", UploadDocument(docs))
	api.Get("/documents", ListDocuments(docs))
	api.Get("/documents/search", SearchDocuments(docs))
	api.Get("/documents/shared", ListSharedWithMe(shares))
	api.Get("/documents/:id", GetDocument(docs))
	api.Patch("/documents/:id", UpdateDocument(docs))
	api.Delete("/documents/:id", DeleteDocument(docs))
	api.Get("/documents/:id/download", DownloadDocument(docs))

	api.Post("/documents/:id/shares", ShareDocument(shares))
	api.Delete("/documents/:id/shares/:grantID", RevokeShare(shares))
}
