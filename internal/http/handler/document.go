package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
)

func callerFromCtx(c *fiber.Ctx) (service.Caller, error) {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return service.Caller{}, fiber.ErrUnauthorized
	}
	return caller, nil
}

func documentID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return id, nil
}

// UploadDocument accepts a multipart form with fields file, category and
// description and stores a new document for the caller.
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := svc.Upload(c.UserContext(), caller, service.UploadInput{
			Reader:      f,
			FileName:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Category:    model.Category(c.FormValue("category")),
			Description: c.FormValue("description"),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments returns the caller's documents, optionally narrowed with
// ?category=.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}

		docs, err := svc.List(c.UserContext(), caller, model.Category(c.Query("category")))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs, "total": len(docs)})
	}
}

// SearchDocuments returns the caller's documents matching ?q= by file name
// or description.
func SearchDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}

		docs, err := svc.Search(c.UserContext(), caller, c.Query("q"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs, "total": len(docs)})
	}
}

// GetDocument returns one document the caller owns or holds a grant on.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}
		id, err := documentID(c)
		if id == "" {
			return err
		}

		doc, err := svc.Get(c.UserContext(), caller, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument returns a short-lived presigned URL for the blob.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}
		id, err := documentID(c)
		if id == "" {
			return err
		}

		res, err := svc.Download(c.UserContext(), caller, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

type updateDocumentRequest struct {
	Category    *model.Category `json:"category"`
	Description *string         `json:"description"`
}

// UpdateDocument patches a document's category and/or description.
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}
		id, err := documentID(c)
		if id == "" {
			return err
		}

		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		doc, err := svc.Update(c.UserContext(), caller, id, service.UpdatePatch{
			Category:    req.Category,
			Description: req.Description,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument soft-deletes a document the caller owns.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}
		id, err := documentID(c)
		if id == "" {
			return err
		}

		if err := svc.SoftDelete(c.UserContext(), caller, id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListActivity returns the caller's audit trail; ?limit= caps the page.
func ListActivity(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}

		limit := 0
		if raw := c.Query("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
			}
		}

		entries, err := svc.Activity(c.UserContext(), caller, limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": entries, "total": len(entries)})
	}
}

// GetProfile returns the caller's profile row.
func GetProfile(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := callerFromCtx(c)
		if err != nil {
			return err
		}

		user, err := svc.Profile(c.UserContext(), caller)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	}
}
