// Package backend implements the HTTP gateway to the accounting server.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hesabkit/hesabchat/internal/domain"
	"github.com/hesabkit/hesabchat/internal/ports"
)

// Client talks JSON over HTTP to the accounting backend. The base address
// is mutable at runtime; it is re-validated on every call so a corrected
// setting takes effect immediately.
type Client struct {
	mu         sync.RWMutex
	address    string
	httpClient *http.Client
}

// NewClient builds a gateway for the given backend address.
func NewClient(address string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{address: address, httpClient: httpClient}
}

// SetAddress replaces the backend base URL.
func (c *Client) SetAddress(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.address = address
}

// Address returns the currently configured backend base URL.
func (c *Client) Address() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.address
}

func (c *Client) baseURL() (*url.URL, error) {
	addr := strings.TrimSpace(c.Address())
	u, err := url.Parse(addr)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	return u, nil
}

// SendChat forwards the conversation to the backend chat endpoint.
func (c *Client) SendChat(ctx context.Context, history []domain.ChatMessage, attachmentIDs []string) (domain.ChatReply, error) {
	var resp chatResponse
	err := c.doJSON(ctx, http.MethodPost, "/transactions/chat", nil,
		chatRequest{Messages: history, AttachmentIDs: attachmentIDs}, &resp)
	if err != nil {
		return domain.ChatReply{}, err
	}
	return resp.toReply(), nil
}

// SaveTransaction persists a staged draft as a journal entry.
func (c *Client) SaveTransaction(ctx context.Context, draft domain.Draft) (domain.Transaction, error) {
	var tx domain.Transaction
	err := c.doJSON(ctx, http.MethodPost, "/transactions", nil, draftToCreate(draft), &tx)
	return tx, err
}

// UploadAttachment sends a receipt or invoice file as multipart form data.
func (c *Client) UploadAttachment(ctx context.Context, data []byte, filename, contentType string) (domain.Attachment, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return domain.Attachment{}, err
	}
	if _, err := part.Write(data); err != nil {
		return domain.Attachment{}, err
	}
	if err := writer.Close(); err != nil {
		return domain.Attachment{}, err
	}

	base, err := c.baseURL()
	if err != nil {
		return domain.Attachment{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		joinPath(base, "/transactions/attachments"), &buf)
	if err != nil {
		return domain.Attachment{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var attachment domain.Attachment
	if err := c.send(req, &attachment); err != nil {
		return domain.Attachment{}, err
	}
	return attachment, nil
}

// ExtractAttachment asks the backend to OCR an uploaded document.
func (c *Client) ExtractAttachment(ctx context.Context, attachmentID string) (domain.OCRExtraction, error) {
	var out domain.OCRExtraction
	path := "/transactions/attachments/" + url.PathEscape(attachmentID) + "/ocr"
	err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &out)
	return out, err
}

// FetchOwnerDashboard retrieves the owner report.
func (c *Client) FetchOwnerDashboard(ctx context.Context) (domain.OwnerDashboard, error) {
	var out domain.OwnerDashboard
	err := c.doJSON(ctx, http.MethodGet, "/reports/owner-dashboard", nil, nil, &out)
	return out, err
}

// FetchLedgerSummary retrieves whole-ledger turnovers and balances.
func (c *Client) FetchLedgerSummary(ctx context.Context) (domain.LedgerSummary, error) {
	var out domain.LedgerSummary
	err := c.doJSON(ctx, http.MethodGet, "/reports/ledger-summary", nil, nil, &out)
	return out, err
}

// FetchMissingReferences lists transactions saved without a reference.
func (c *Client) FetchMissingReferences(ctx context.Context) ([]domain.MissingReference, error) {
	var out missingReferencesResponse
	err := c.doJSON(ctx, http.MethodGet, "/reports/missing-references", nil, nil, &out)
	return out.Items, err
}

// FetchInvoices lists invoices.
func (c *Client) FetchInvoices(ctx context.Context) ([]domain.Invoice, error) {
	var out []domain.Invoice
	err := c.doJSON(ctx, http.MethodGet, "/invoices", nil, nil, &out)
	return out, err
}

// FetchEntities lists all known counterparties.
func (c *Client) FetchEntities(ctx context.Context) ([]domain.Entity, error) {
	var out []domain.Entity
	err := c.doJSON(ctx, http.MethodGet, "/entities", nil, nil, &out)
	return out, err
}

// FetchTransactions retrieves a page of recent transactions.
func (c *Client) FetchTransactions(ctx context.Context, skip, limit int) ([]domain.Transaction, error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))
	var out []domain.Transaction
	err := c.doJSON(ctx, http.MethodGet, "/transactions", query, nil, &out)
	return out, err
}

// FetchEntityTransactions retrieves the transactions linked to an entity.
func (c *Client) FetchEntityTransactions(ctx context.Context, entityID string) ([]domain.Transaction, error) {
	path := "/reports/entities/" + url.PathEscape(entityID) + "/transactions"
	var out []domain.Transaction
	err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out)
	return out, err
}

// FetchAccountDetail retrieves one account's ledger with posting lines.
func (c *Client) FetchAccountDetail(ctx context.Context, accountCode string) (domain.AccountDetail, error) {
	path := "/reports/accounts/" + url.PathEscape(accountCode) + "/detail"
	var out domain.AccountDetail
	err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &out)
	return out, err
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	base, err := c.baseURL()
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	target := joinPath(base, path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{StatusCode: resp.StatusCode, Message: extractDetail(raw, resp.StatusCode)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

// extractDetail pulls the server-supplied message out of an error body: a
// {detail} JSON field if present, else the raw body text, else a generic
// description of the status.
func extractDetail(raw []byte, status int) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Detail) != "" {
		return strings.TrimSpace(body.Detail)
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		const maxDetail = 300
		if len(text) > maxDetail {
			text = text[:maxDetail]
		}
		return text
	}
	return fmt.Sprintf("server error %d", status)
}

func joinPath(base *url.URL, path string) string {
	return strings.TrimRight(base.String(), "/") + path
}

var _ ports.Gateway = (*Client)(nil)
