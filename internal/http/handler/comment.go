package handler

import (
	"github.com/gofiber/fiber/v2"

	"pdfshare/internal/http/middleware"
	"pdfshare/internal/model"
	"pdfshare/internal/service"
)

type updateCommentRequest struct {
	Content string `json:"content"`
}

func nonNil(cs []model.Comment) []model.Comment {
	if cs == nil {
		return []model.Comment{}
	}
	return cs
}

// ListDocumentComments returns the comment threads of one of the caller's documents.
//
//	@Summary	List comments
//	@Tags		comments
//	@Security	BearerAuth
//	@Produce	json
//	@Param		documentId	path	string	true	"document id"
//	@Success	200			{array}	model.Comment
//	@Failure	404			{object}	errorPayload
//	@Router		/api/comments/document/{documentId} [get]
func ListDocumentComments(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "documentId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		comments, err := svc.ListForOwner(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(nonNil(comments))
	}
}

// AddDocumentComment posts an owner comment on one of the caller's documents.
//
//	@Summary	Add a comment as owner
//	@Tags		comments
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		documentId	path		string					true	"document id"
//	@Param		body		body		service.AddCommentInput	true	"comment"
//	@Success	201			{object}	model.Comment
//	@Failure	400			{object}	errorPayload
//	@Router		/api/comments/document/{documentId} [post]
func AddDocumentComment(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "documentId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in service.AddCommentInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		cm, err := svc.AddAsOwner(c.UserContext(), id, middleware.UserID(c), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(cm)
	}
}

// UpdateComment edits the content of the caller's own comment.
//
//	@Summary	Edit a comment
//	@Tags		comments
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		commentId	path		string					true	"comment id"
//	@Param		body		body		updateCommentRequest	true	"new content"
//	@Success	200			{object}	model.Comment
//	@Failure	404			{object}	errorPayload
//	@Router		/api/comments/{commentId} [put]
func UpdateComment(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "commentId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req updateCommentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		cm, err := svc.UpdateComment(c.UserContext(), id, req.Content, middleware.UserID(c))
		if err != nil {
			return err
		}
		return c.JSON(cm)
	}
}

// DeleteComment removes a comment and its replies. Allowed for the author and the document owner.
//
//	@Summary	Delete a comment
//	@Tags		comments
//	@Security	BearerAuth
//	@Param		commentId	path	string	true	"comment id"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/api/comments/{commentId} [delete]
func DeleteComment(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "commentId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		deleted, err := svc.DeleteCommentAndReplies(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return err
		}
		if !deleted {
			return service.ErrNotFound
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListReplies returns the direct replies to a comment, oldest first.
//
//	@Summary	List replies
//	@Tags		comments
//	@Security	BearerAuth
//	@Produce	json
//	@Param		commentId	path	string	true	"comment id"
//	@Success	200			{array}	model.Comment
//	@Router		/api/comments/replies/{commentId} [get]
func ListReplies(svc service.CommentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "commentId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		replies, err := svc.ListReplies(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(nonNil(replies))
	}
}
