package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/service"
)

type shareRequest struct {
	Subject    string `json:"subject"`
	Permission string `json:"permission"`
}

// ShareDocument grants a subject access to a document the caller owns.
func ShareDocument(svc service.SharingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}
		id, err := documentID(c)
		if id == "" {
			return err
		}

		var req shareRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		grant, err := svc.Share(c.UserContext(), caller, id, service.ShareInput{
			Subject:    req.Subject,
			Permission: model.Permission(req.Permission),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(grant)
	}
}

// RevokeShare deactivates a grant the caller issued.
func RevokeShare(svc service.SharingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}
		id, err := documentID(c)
		if id == "" {
			return err
		}
		grantID := c.Params("grantID")
		if _, err := uuid.Parse(grantID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid grant id format")
		}

		if err := svc.Revoke(c.UserContext(), caller, id, grantID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListSharedWithMe returns the documents other citizens shared with the
// caller.
func ListSharedWithMe(svc service.SharingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}

		docs, err := svc.ListSharedWithMe(c.UserContext(), caller)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs, "total": len(docs)})
	}
}
