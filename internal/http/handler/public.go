package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pdfshare/internal/model"
	"pdfshare/internal/service"
)

type publicDocument struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type publicViewResponse struct {
	Document    publicDocument  `json:"document"`
	Comments    []model.Comment `json:"comments"`
	DownloadURL string          `json:"download_url"`
}

type publicCommentResponse struct {
	Comment     *model.Comment  `json:"comment"`
	AllComments []model.Comment `json:"all_comments,omitempty"`
	Message     string          `json:"message"`
}

func visitor(c *fiber.Ctx) service.Visitor {
	return service.Visitor{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
}

func commentMessage(cm *model.Comment) string {
	if cm.IsReply() {
		return "Reply added successfully"
	}
	return "Comment added successfully"
}

// PublicView resolves an access token to the document's metadata and comment threads.
//
//	@Summary	View a shared document
//	@Tags		public
//	@Produce	json
//	@Param		token	path		string	true	"access token"
//	@Success	200		{object}	publicViewResponse
//	@Failure	404		{object}	errorPayload
//	@Router		/api/public/view/{token} [get]
func PublicView(svc service.PublicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Params("token")
		doc, err := svc.ResolveDocument(c.UserContext(), token, visitor(c))
		if err != nil {
			return err
		}
		comments, err := svc.ListComments(c.UserContext(), token)
		if err != nil {
			return err
		}
		if comments == nil {
			comments = []model.Comment{}
		}
		return c.JSON(publicViewResponse{
			Document: publicDocument{
				ID:         doc.ID,
				Filename:   doc.Filename,
				UploadedAt: doc.UploadedAt,
			},
			Comments:    comments,
			DownloadURL: c.BaseURL() + "/api/public/download/" + token,
		})
	}
}

// PublicViewJWT streams the file behind a signed share link for inline display.
//
//	@Summary	View a shared document through a signed link
//	@Tags		public
//	@Produce	application/pdf
//	@Param		token	path	string	true	"signed share link"
//	@Success	200		{file}	binary
//	@Failure	404		{object}	errorPayload
//	@Router		/api/public/view-jwt/{token} [get]
func PublicViewJWT(svc service.PublicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, doc, err := svc.OpenSigned(c.UserContext(), c.Params("token"), visitor(c))
		if err != nil {
			return err
		}
		return sendPDF(c, rc, doc, "inline")
	}
}

// PublicDownload streams the file behind an access token as an attachment.
//
//	@Summary	Download a shared document
//	@Tags		public
//	@Produce	application/pdf
//	@Param		token	path	string	true	"access token"
//	@Success	200		{file}	binary
//	@Failure	404		{object}	errorPayload
//	@Router		/api/public/download/{token} [get]
func PublicDownload(svc service.PublicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, doc, err := svc.OpenDocument(c.UserContext(), c.Params("token"), visitor(c))
		if err != nil {
			return err
		}
		return sendPDF(c, rc, doc, "attachment")
	}
}

// PublicComment adds an anonymous comment and returns it with the refreshed threads.
//
//	@Summary	Comment on a shared document
//	@Tags		public
//	@Accept		json
//	@Produce	json
//	@Param		token	path		string					true	"access token"
//	@Param		body	body		service.AddCommentInput	true	"comment"
//	@Success	201		{object}	publicCommentResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Failure	429		{object}	errorPayload
//	@Router		/api/public/comment/{token} [post]
func PublicComment(svc service.PublicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.AddCommentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		token := c.Params("token")

		cm, err := svc.AddComment(c.UserContext(), token, in)
		if err != nil {
			return err
		}
		all, err := svc.ListComments(c.UserContext(), token)
		if err != nil {
			return err
		}
		if all == nil {
			all = []model.Comment{}
		}
		return c.Status(fiber.StatusCreated).JSON(publicCommentResponse{
			Comment:     cm,
			AllComments: all,
			Message:     commentMessage(cm),
		})
	}
}

// PublicCommentJWT adds an anonymous comment through a signed share link.
//
//	@Summary	Comment through a signed link
//	@Tags		public
//	@Accept		json
//	@Produce	json
//	@Param		token	path		string					true	"signed share link"
//	@Param		body	body		service.AddCommentInput	true	"comment"
//	@Success	201		{object}	publicCommentResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	404		{object}	errorPayload
//	@Router		/api/public/comment-jwt/{token} [post]
func PublicCommentJWT(svc service.PublicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.AddCommentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		cm, err := svc.AddCommentSigned(c.UserContext(), c.Params("token"), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(publicCommentResponse{Comment: cm, Message: commentMessage(cm)})
	}
}
