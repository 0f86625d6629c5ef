// Package equipment provides the equipment inventory client: CRUD operations
// against the /equipamentos endpoints plus a stateful paginated list.
package equipment

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/medinventory/medinv/internal/api"
)

// DefaultPageSize matches the list screen's page limit.
const DefaultPageSize = 10

// IdentitySource reports the id of the authenticated user, when any. The
// session manager implements it; create payloads are enriched with the id.
type IdentitySource interface {
	CurrentUserID() string
}

// Config holds configuration for the equipment client.
type Config struct {
	// API is the gateway used for all network calls.
	API *api.Client

	// Identity supplies the current user id for payload enrichment
	// (optional).
	Identity IdentitySource

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client issues equipment requests through the gateway. It is stateless;
// pagination state lives in List.
type Client struct {
	api      *api.Client
	identity IdentitySource
	logger   zerolog.Logger
}

// NewClient creates an equipment client.
func NewClient(cfg Config) *Client {
	return &Client{
		api:      cfg.API,
		identity: cfg.Identity,
		logger:   cfg.Logger,
	}
}

// Create registers a new equipment record. When the payload carries no owner
// and a user is authenticated, the record is attributed to them.
func (c *Client) Create(ctx context.Context, eq Equipment) (*Equipment, error) {
	if eq.UserID == "" && c.identity != nil {
		eq.UserID = c.identity.CurrentUserID()
	}

	var created Equipment
	if err := c.api.JSON(ctx, http.MethodPost, "/equipamentos", eq, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Get fetches a single record by id.
func (c *Client) Get(ctx context.Context, id string) (*Equipment, error) {
	var eq Equipment
	if err := c.api.JSON(ctx, http.MethodGet, "/equipamentos/"+id, nil, &eq); err != nil {
		return nil, err
	}
	return &eq, nil
}

// Update replaces a record's fields.
func (c *Client) Update(ctx context.Context, id string, eq Equipment) (*Equipment, error) {
	var updated Equipment
	if err := c.api.JSON(ctx, http.MethodPut, "/equipamentos/"+id, eq, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateStatus changes only the operational status. The status value is sent
// verbatim, so unrecognized values round-trip unchanged.
func (c *Client) UpdateStatus(ctx context.Context, id string, status Status) (*Equipment, error) {
	body := struct {
		StatusOperacional Status `json:"statusOperacional"`
	}{StatusOperacional: status}

	var updated Equipment
	if err := c.api.JSON(ctx, http.MethodPatch, "/equipamentos/"+id+"/status", body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete destroys a record.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.api.Do(ctx, http.MethodDelete, "/equipamentos/"+id, nil)
	return err
}

// FetchPage requests one page of records matching the filters. Empty filter
// values are omitted from the query.
func (c *Client) FetchPage(ctx context.Context, filters Filters, page, limit int) (Page, error) {
	params := filters.params()
	params["page"] = strconv.Itoa(page)
	params["limit"] = strconv.Itoa(limit)

	resp, err := c.api.Do(ctx, http.MethodGet, "/equipamentos"+api.Query(params), nil)
	if err != nil {
		return Page{}, err
	}

	result := ParsePage(resp.Body)
	c.logger.Debug().
		Int("page", page).
		Int("count", len(result.Items)).
		Msg("fetched equipment page")
	return result, nil
}
