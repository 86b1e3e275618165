// Package querycache wraps the API client with short-lived response caching.
// Reads are served from the cache while fresh; every mutation invalidates the
// complaint collection and the affected complaint before refetching.
package querycache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kundeklager/kundeklager-cli/internal/api"
	"github.com/kundeklager/kundeklager-cli/internal/cache"
)

const (
	keyComplaintList = "complaints.list."
	keyComplaint     = "complaints.get."
	keyCustomers     = "customers"
	keyUsers         = "users"
	keyCategories    = "categories"
)

// TTL controls how long each kind of response stays fresh.
type TTL struct {
	List   time.Duration
	Detail time.Duration
	Lookup time.Duration
}

// DefaultTTL keeps complaint data fresh for one second and lookup lists
// (customers, users, categories) for five minutes.
var DefaultTTL = TTL{
	List:   time.Second,
	Detail: time.Second,
	Lookup: 5 * time.Minute,
}

// Client serves reads from a cache.Backend and invalidates it on writes.
// A nil store disables caching.
type Client struct {
	api   *api.Client
	store cache.Backend
	ttl   TTL
}

func New(client *api.Client, store cache.Backend) *Client {
	return &Client{api: client, store: store, ttl: DefaultTTL}
}

// WithTTL returns a copy using ttl.
func (c *Client) WithTTL(ttl TTL) *Client {
	cp := *c
	cp.ttl = ttl
	return &cp
}

// API returns the underlying client.
func (c *Client) API() *api.Client {
	return c.api
}

func cached[T any](ctx context.Context, c *Client, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if c.store != nil && ttl > 0 {
		var hit T
		if c.store.Get(ctx, key, &hit) {
			slog.Debug("cache hit", "key", key)
			return hit, nil
		}
	}
	v, err := fetch()
	if err != nil {
		return v, err
	}
	if c.store != nil && ttl > 0 {
		c.store.Put(ctx, key, v, ttl)
	}
	return v, nil
}

func listKey(filter api.ComplaintFilter) string {
	sum := sha1.Sum([]byte(filter.Query()))
	return keyComplaintList + hex.EncodeToString(sum[:8])
}

func complaintKey(id int) string {
	return fmt.Sprintf("%s%d", keyComplaint, id)
}

// Complaints lists complaints for filter.
func (c *Client) Complaints(ctx context.Context, filter api.ComplaintFilter) ([]api.Complaint, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return cached(ctx, c, listKey(filter), c.ttl.List, func() ([]api.Complaint, error) {
		return c.api.Complaints().List(ctx, filter)
	})
}

// Complaint fetches one complaint.
func (c *Client) Complaint(ctx context.Context, id int) (*api.Complaint, error) {
	return cached(ctx, c, complaintKey(id), c.ttl.Detail, func() (*api.Complaint, error) {
		return c.api.Complaints().Get(ctx, id)
	})
}

func (c *Client) Customers(ctx context.Context) ([]api.Customer, error) {
	return cached(ctx, c, keyCustomers, c.ttl.Lookup, func() ([]api.Customer, error) {
		return c.api.Customers().List(ctx)
	})
}

func (c *Client) Users(ctx context.Context) ([]api.User, error) {
	return cached(ctx, c, keyUsers, c.ttl.Lookup, func() ([]api.User, error) {
		return c.api.Users().List(ctx)
	})
}

func (c *Client) Categories(ctx context.Context) ([]api.Category, error) {
	return cached(ctx, c, keyCategories, c.ttl.Lookup, func() ([]api.Category, error) {
		return c.api.Categories().List(ctx)
	})
}

// Lookups holds the reference lists used to resolve names to IDs.
type Lookups struct {
	Customers  []api.Customer
	Users      []api.User
	Categories []api.Category
}

// Need selects which lookup lists Prefetch loads.
type Need struct {
	Customers  bool
	Users      bool
	Categories bool
}

// Prefetch loads the requested lookup lists in parallel.
func (c *Client) Prefetch(ctx context.Context, need Need) (Lookups, error) {
	var out Lookups
	g, gctx := errgroup.WithContext(ctx)
	if need.Customers {
		g.Go(func() error {
			v, err := c.Customers(gctx)
			out.Customers = v
			return err
		})
	}
	if need.Users {
		g.Go(func() error {
			v, err := c.Users(gctx)
			out.Users = v
			return err
		})
	}
	if need.Categories {
		g.Go(func() error {
			v, err := c.Categories(gctx)
			out.Categories = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Lookups{}, err
	}
	return out, nil
}

// invalidate drops the complaint collection and, when id > 0, that complaint.
func (c *Client) invalidate(ctx context.Context, id int) {
	if c.store == nil {
		return
	}
	c.store.DeletePrefix(ctx, keyComplaintList)
	if id > 0 {
		c.store.Delete(ctx, complaintKey(id))
	}
}

// CreateComplaint submits a complaint and invalidates the complaint collection.
func (c *Client) CreateComplaint(ctx context.Context, form api.ComplaintForm) (string, error) {
	msg, err := c.api.Complaints().Create(ctx, form)
	if err != nil {
		return "", err
	}
	c.invalidate(ctx, 0)
	return msg, nil
}

// EditComplaint updates a complaint, invalidates, and returns the refetched complaint.
func (c *Client) EditComplaint(ctx context.Context, id int, form api.ComplaintForm) (string, *api.Complaint, error) {
	msg, err := c.api.Complaints().Edit(ctx, id, form)
	if err != nil {
		return "", nil, err
	}
	c.invalidate(ctx, id)
	updated, err := c.Complaint(ctx, id)
	if err != nil {
		return msg, nil, fmt.Errorf("refetch complaint %d: %w", id, err)
	}
	return msg, updated, nil
}

// AddComment posts a comment, invalidates, and returns the refetched complaint.
func (c *Client) AddComment(ctx context.Context, complaintID int, text string) (string, *api.Complaint, error) {
	msg, err := c.api.Comments().Create(ctx, complaintID, text)
	if err != nil {
		return "", nil, err
	}
	c.invalidate(ctx, complaintID)
	updated, err := c.Complaint(ctx, complaintID)
	if err != nil {
		return msg, nil, fmt.Errorf("refetch complaint %d: %w", complaintID, err)
	}
	return msg, updated, nil
}

// Invalidate drops every cached complaint response.
func (c *Client) Invalidate(ctx context.Context) {
	c.invalidate(ctx, 0)
	if c.store != nil {
		c.store.DeletePrefix(ctx, keyComplaint)
	}
}
