package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/api/authority"
	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
)

var _ model.SessionInvalidator = (*SessionClient)(nil)

// SessionClient terminates sessions through the session service HTTP API.
type SessionClient struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

// NewSessionClient creates a client for the session service at baseURL.
func NewSessionClient(baseURL string, timeout time.Duration, logger *logger.Logger) *SessionClient {
	return &SessionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Logout revokes every session of subjectID on behalf of authority. Rejections
// by the session service come back as domain errors.
func (c *SessionClient) Logout(ctx context.Context, a *model.Authority, subjectID uuid.UUID) error {
	target := c.baseURL + "/sessions?" + url.Values{"subjectId": {subjectID.String()}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build logout request: %w", err)
	}
	for k, v := range authority.Encode(a) {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call session service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	message := readError(resp.Body)
	c.logger.Debug("Session client: logout rejected",
		"subject_id", subjectID,
		"status", resp.StatusCode,
		"message", message)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return model.NewIllegalArgument("session service: %s", message)
	case http.StatusUnauthorized:
		return model.NewAccessDenied("session service: %s", message)
	default:
		return fmt.Errorf("session service responded with status %d: %s", resp.StatusCode, message)
	}
}

func readError(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 1<<16)).Decode(&payload); err != nil || payload.Error == "" {
		return "no details"
	}
	return payload.Error
}
