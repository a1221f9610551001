package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// authenticateRequest validates the Authorization header and returns the
// authenticated user ID. Used by endpoints that require a viewer.
func (s *Server) authenticateRequest(authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	if s.verifier == nil {
		return "", huma.Error401Unauthorized("Bearer auth is disabled on this server")
	}

	claims, err := s.verifier.VerifyAccessToken(parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims.UserID, nil
}

// optionalViewer returns the authenticated user ID, or empty when the
// request carries no usable token. Public pages stay reachable without a
// token; a broken one just degrades the request to anonymous.
func (s *Server) optionalViewer(authHeader string) string {
	userID, err := s.authenticateRequest(authHeader)
	if err != nil {
		return ""
	}
	return userID
}
