package mosaia

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/mosaia-development/mosaia-go/internal/api"
)

// ListOptions filters and paginates collection listings.
type ListOptions struct {
	Limit      int
	Offset     int
	Page       int
	Search     string
	Tags       []string
	Active     *bool
	ExternalID string
}

// Values renders the options as query parameters.
func (o *ListOptions) Values() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}
	if o.Limit > 0 {
		values.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		values.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}
	if o.Search != "" {
		values.Set("q", o.Search)
	}
	if len(o.Tags) > 0 {
		values.Set("tags", strings.Join(o.Tags, ","))
	}
	if o.Active != nil {
		values.Set("active", strconv.FormatBool(*o.Active))
	}
	if o.ExternalID != "" {
		values.Set("external_id", o.ExternalID)
	}
	return values
}

// envelope is the platform response wrapper for single and list payloads.
type envelope[T any] struct {
	Data   T       `json:"data"`
	Paging *Paging `json:"paging,omitempty"`
}

// Collection is a typed CRUD view over one resource path.
type Collection[T any] struct {
	client *api.Client
	base   string
}

func newCollection[T any](client *api.Client, base string) *Collection[T] {
	return &Collection[T]{client: client, base: base}
}

// List fetches a page of resources.
func (c *Collection[T]) List(ctx context.Context, opts *ListOptions) ([]T, *Paging, error) {
	var resp envelope[[]T]
	if err := c.client.Get(ctx, c.base, opts.Values(), &resp); err != nil {
		return nil, nil, err
	}
	return resp.Data, resp.Paging, nil
}

// Get fetches one resource by ID.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var resp envelope[T]
	if err := c.client.Get(ctx, c.base+"/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Create stores a new resource and returns the server's view of it.
func (c *Collection[T]) Create(ctx context.Context, item *T) (*T, error) {
	var resp envelope[T]
	if err := c.client.Post(ctx, c.base, item, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Update replaces a resource by ID.
func (c *Collection[T]) Update(ctx context.Context, id string, item *T) (*T, error) {
	var resp envelope[T]
	if err := c.client.Put(ctx, c.base+"/"+url.PathEscape(id), item, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Delete removes a resource by ID.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.client.Delete(ctx, c.base+"/"+url.PathEscape(id), nil)
}
