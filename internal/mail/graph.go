// Package mail fetches bank notification emails from a Microsoft Graph
// mailbox. The sync pipeline filters by sender address, so each bank's
// EmailFilter maps directly to a Graph $filter clause.
package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Jiegrein/PersonalBankNote/internal/model"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// DefaultFetchLimit bounds a single sync's email pull.
const DefaultFetchLimit = 50

// Source fetches emails for the sync pipeline.
type Source interface {
	FetchEmails(ctx context.Context, senderFilter string, since time.Time, limit int) ([]*model.EmailMessage, error)
	FetchEmail(ctx context.Context, emailID string) (*model.EmailMessage, error)
}

// TokenProvider supplies a bearer token per request, so the caller owns
// refresh logic.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider for a pre-acquired token.
type StaticToken string

func (t StaticToken) AccessToken(ctx context.Context) (string, error) {
	return string(t), nil
}

// GraphClient reads a mailbox through the Microsoft Graph API.
type GraphClient struct {
	httpClient *http.Client
	tokens     TokenProvider
	baseURL    string
}

// NewGraphClient creates a Graph mail client with a 30s request timeout.
func NewGraphClient(tokens TokenProvider) *GraphClient {
	return &GraphClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		baseURL:    graphBaseURL,
	}
}

type graphEmail struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    *struct {
		Content string `json:"content"`
	} `json:"body"`
	ReceivedDateTime time.Time `json:"receivedDateTime"`
	From             *struct {
		EmailAddress struct {
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"from"`
}

type graphListResponse struct {
	Value []graphEmail `json:"value"`
}

// FetchEmails returns messages from senderFilter received at or after
// since, newest first, capped at limit.
func (c *GraphClient) FetchEmails(ctx context.Context, senderFilter string, since time.Time, limit int) ([]*model.EmailMessage, error) {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	query := url.Values{}
	query.Set("$filter", buildFilter(senderFilter, since))
	query.Set("$orderby", "receivedDateTime desc")
	query.Set("$top", strconv.Itoa(limit))
	query.Set("$select", "id,subject,body,receivedDateTime,from")

	var listed graphListResponse
	if err := c.get(ctx, c.baseURL+"/me/messages?"+query.Encode(), &listed); err != nil {
		return nil, fmt.Errorf("failed to fetch emails: %w", err)
	}

	emails := make([]*model.EmailMessage, 0, len(listed.Value))
	for _, e := range listed.Value {
		emails = append(emails, toEmailMessage(e))
	}
	return emails, nil
}

// FetchEmail returns a single message by its Graph ID.
func (c *GraphClient) FetchEmail(ctx context.Context, emailID string) (*model.EmailMessage, error) {
	var email graphEmail
	if err := c.get(ctx, c.baseURL+"/me/messages/"+url.PathEscape(emailID), &email); err != nil {
		return nil, fmt.Errorf("failed to fetch email %s: %w", emailID, err)
	}
	return toEmailMessage(email), nil
}

func (c *GraphClient) get(ctx context.Context, requestURL string, out interface{}) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("graph API returned %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// buildFilter builds the OData filter clause for a sender, optionally
// bounded by a received-after timestamp.
func buildFilter(senderFilter string, since time.Time) string {
	filter := fmt.Sprintf("from/emailAddress/address eq '%s'", senderFilter)
	if !since.IsZero() {
		filter += " and receivedDateTime ge " + since.UTC().Format(time.RFC3339)
	}
	return filter
}

func toEmailMessage(e graphEmail) *model.EmailMessage {
	msg := &model.EmailMessage{
		ID:         e.ID,
		Subject:    e.Subject,
		ReceivedAt: e.ReceivedDateTime,
	}
	if e.Body != nil {
		msg.Content = e.Body.Content
	}
	if e.From != nil {
		msg.From = e.From.EmailAddress.Address
	}
	return msg
}
