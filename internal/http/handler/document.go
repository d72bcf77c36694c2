package handler

import (
	"io"
	"mime"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pdfshare/internal/http/middleware"
	"pdfshare/internal/model"
	"pdfshare/internal/service"
)

// documentID reads and checks the :id route parameter.
func documentID(c *fiber.Ctx, param string) (string, bool) {
	id := c.Params(param)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListDocuments pages through the caller's documents.
//
//	@Summary	List documents
//	@Tags		documents
//	@Security	BearerAuth
//	@Produce	json
//	@Param		limit	query		int	false	"page size (1-100)"	default(10)
//	@Param		offset	query		int	false	"offset"			default(0)
//	@Success	200		{object}	service.DocumentListResult
//	@Router		/api/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), middleware.UserID(c), limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// UploadDocument accepts a multipart PDF in the "file" field.
//
//	@Summary	Upload a PDF
//	@Tags		documents
//	@Security	BearerAuth
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"PDF file"
//	@Success	201		{object}	model.Document
//	@Failure	400		{object}	errorPayload
//	@Failure	413		{object}	errorPayload
//	@Router		/api/documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
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

		doc, err := svc.Upload(c.UserContext(), middleware.UserID(c), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns metadata of one of the caller's documents.
//
//	@Summary	Document metadata
//	@Tags		documents
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"document id"
//	@Success	200	{object}	model.Document
//	@Failure	404	{object}	errorPayload
//	@Router		/api/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes the document, its tokens, comments and stored file.
//
//	@Summary	Delete a document
//	@Tags		documents
//	@Security	BearerAuth
//	@Param		id	path	string	true	"document id"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/api/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id, middleware.UserID(c)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadDocument streams the file as an attachment.
//
//	@Summary	Download a document
//	@Tags		documents
//	@Security	BearerAuth
//	@Produce	application/pdf
//	@Param		id	path	string	true	"document id"
//	@Success	200	{file}	binary
//	@Router		/api/documents/download/{id} [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return openOwned(svc, "attachment")
}

// ViewDocument streams the file for inline display.
//
//	@Summary	View a document
//	@Tags		documents
//	@Security	BearerAuth
//	@Produce	application/pdf
//	@Param		id	path	string	true	"document id"
//	@Success	200	{file}	binary
//	@Router		/api/documents/view/{id} [get]
func ViewDocument(svc service.DocumentService) fiber.Handler {
	return openOwned(svc, "inline")
}

func openOwned(svc service.DocumentService, disposition string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, doc, err := svc.Open(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return err
		}
		return sendPDF(c, rc, doc, disposition)
	}
}

// sendPDF streams rc to the client. fasthttp closes rc once the body is written.
func sendPDF(c *fiber.Ctx, rc io.ReadCloser, doc *model.Document, disposition string) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType(disposition, map[string]string{"filename": doc.Filename}))
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	return c.SendStream(rc, int(doc.Size))
}
