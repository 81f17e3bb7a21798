package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mentorlink/internal/http/middleware"
	"mentorlink/internal/model"
	"mentorlink/internal/repository"
	"mentorlink/internal/service"
)

// selector normalizes the category/status query parameters: the "all"
// sentinel and the empty string both mean no restriction.
func selector(raw string) string {
	if raw == "all" {
		return ""
	}
	return raw
}

// parseDateBound accepts an RFC 3339 timestamp or a plain date. A date-only
// upper bound is stretched to the end of that day so the bound stays
// inclusive at day granularity.
func parseDateBound(raw string, upper bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// optional converts a form value into a pointer, treating "" as absent.
func optional(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

// ListDocuments returns the viewer's documents newest first with limit &
// offset pagination. Filters: q (file name substring), category (category
// ID), status, from, to (inclusive creation date bounds).
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limitStr := c.Query("limit", "10")
		offsetStr := c.Query("offset", "0")
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		status := selector(c.Query("status"))
		if status != "" && !model.DocumentStatus(status).IsValid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "invalid status")
		}

		from, err := parseDateBound(c.Query("from"), false)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid from date")
		}
		to, err := parseDateBound(c.Query("to"), true)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "invalid to date")
		}

		res, err := svc.List(c.UserContext(), middleware.ViewerFromCtx(c), service.ListQuery{
			Filter: repository.DocumentFilter{
				Search:      c.Query("q"),
				CategoryID:  selector(c.Query("category")),
				Status:      status,
				CreatedFrom: from,
				CreatedTo:   to,
			},
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SubmitDocument accepts a multipart upload (field name: file) plus optional
// category_id and description fields, and creates a pending document owned
// by the caller.
func SubmitDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
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

		doc, err := svc.Submit(c.UserContext(), f, service.SubmitInput{
			OwnerID:          middleware.ViewerFromCtx(c).UserID,
			OriginalFilename: fh.Filename,
			ContentType:      ct,
			Size:             fh.Size,
			CategoryID:       optional(c.FormValue("category_id")),
			Description:      optional(c.FormValue("description")),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns a single document if the caller may see it.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		doc, err := svc.Get(c.UserContext(), middleware.ViewerFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument returns a presigned URL that downloads the document under
// its original file name.
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		url, err := svc.Download(c.UserContext(), middleware.ViewerFromCtx(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

type updateDocumentRequest struct {
	CategoryID  *string `json:"category_id"`
	Description *string `json:"description"`
}

// UpdateDocumentMeta lets the owning student edit description and category
// while the document is still pending.
func UpdateDocumentMeta(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		doc, err := svc.UpdateMeta(c.UserContext(), middleware.ViewerFromCtx(c).UserID, id, req.CategoryID, req.Description)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// ResubmitDocument returns a rejected document to the review queue.
func ResubmitDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		doc, err := svc.Resubmit(c.UserContext(), middleware.ViewerFromCtx(c).UserID, id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type reviewRequest struct {
	Verdict  string  `json:"verdict"`
	Feedback *string `json:"feedback"`
}

// ReviewDocument applies a mentor's or admin's verdict to a pending document.
func ReviewDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req reviewRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		doc, err := svc.Review(c.UserContext(), middleware.ViewerFromCtx(c), id, service.ReviewInput{
			Verdict:  req.Verdict,
			Feedback: req.Feedback,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document's stored object and row. Admin only.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), middleware.ViewerFromCtx(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
