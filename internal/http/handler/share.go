package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"pdfshare/internal/http/middleware"
	"pdfshare/internal/model"
	"pdfshare/internal/service"
)

type shareRequest struct {
	ExpiresAt *time.Time `json:"expiresAt"`
}

type shareResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	URL       string    `json:"url"`
}

type signedShareResponse struct {
	Token       string    `json:"token"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	URL         string    `json:"url"`
}

// ShareLinks builds frontend URLs for share tokens.
type ShareLinks struct {
	FrontendURL string
}

func (l ShareLinks) url(token string) string {
	return l.FrontendURL + "/shared-pdf/" + token
}

// parseShareRequest accepts an empty body as "no expiry requested".
func parseShareRequest(c *fiber.Ctx) (*time.Time, error) {
	if len(c.Body()) == 0 {
		return nil, nil
	}
	var req shareRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, err
	}
	return req.ExpiresAt, nil
}

// ShareDocument issues an opaque access token for a document.
//
//	@Summary	Share a document
//	@Tags		sharing
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"document id"
//	@Param		body	body		shareRequest	false	"optional expiry (RFC 3339)"
//	@Success	200		{object}	shareResponse
//	@Failure	404		{object}	errorPayload
//	@Router		/api/documents/{id}/share [post]
func ShareDocument(svc service.ShareService, links ShareLinks) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		expiresAt, err := parseShareRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		tok, err := svc.IssueToken(c.UserContext(), id, middleware.UserID(c), expiresAt)
		if err != nil {
			return err
		}
		return c.JSON(shareResponse{Token: tok.Token, ExpiresAt: tok.ExpiresAt, URL: links.url(tok.Token)})
	}
}

// ShareDocumentJWT issues an access token wrapped in a signed JWT.
//
//	@Summary	Share a document with a signed link
//	@Tags		sharing
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"document id"
//	@Param		body	body		shareRequest	false	"optional expiry (RFC 3339)"
//	@Success	200		{object}	signedShareResponse
//	@Failure	404		{object}	errorPayload
//	@Router		/api/documents/{id}/share-jwt [post]
func ShareDocumentJWT(svc service.ShareService, links ShareLinks) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		expiresAt, err := parseShareRequest(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		share, err := svc.IssueSignedToken(c.UserContext(), id, middleware.UserID(c), expiresAt)
		if err != nil {
			return err
		}
		return c.JSON(signedShareResponse{
			Token:       share.Signed,
			AccessToken: share.Token.Token,
			ExpiresAt:   share.Token.ExpiresAt,
			URL:         links.url(share.Signed),
		})
	}
}

// ListShareTokens lists every token issued for a document, revoked and expired ones included.
//
//	@Summary	List share tokens
//	@Tags		sharing
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path	string	true	"document id"
//	@Success	200	{array}	model.AccessToken
//	@Router		/api/documents/{id}/tokens [get]
func ListShareTokens(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		tokens, err := svc.ListTokens(c.UserContext(), id, middleware.UserID(c))
		if err != nil {
			return err
		}
		if tokens == nil {
			tokens = []model.AccessToken{}
		}
		return c.JSON(tokens)
	}
}

// RevokeShareToken revokes a token of one of the caller's documents.
//
//	@Summary	Revoke a share token
//	@Tags		sharing
//	@Security	BearerAuth
//	@Param		token	path	string	true	"access token"
//	@Success	204
//	@Failure	404	{object}	errorPayload
//	@Router		/api/documents/share/{token}/revoke [post]
func RevokeShareToken(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := svc.RevokeToken(c.UserContext(), c.Params("token"), middleware.UserID(c))
		if err != nil {
			return err
		}
		if !ok {
			return service.ErrNotFound
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
