package api

import (
	"context"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// labelDetailFanOut bounds concurrent label detail fetches.
const labelDetailFanOut = 8

// mergeDetail lays detail over base without touching either.
func mergeDetail(base, detail map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(detail))
	maps.Copy(out, base)
	maps.Copy(out, detail)
	return out
}

func path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

func (c *Client) delete(ctx context.Context, p string) error {
	_, err := c.do(ctx, http.MethodDelete, p, nil)
	return err
}

// Spaces

func (c *Client) ListSpaces(ctx context.Context, companyID string) ([]map[string]any, error) {
	return c.list(ctx, path("spaces", companyID))
}

func (c *Client) CreateSpace(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPost, "/spaces", payload)
}

func (c *Client) UpdateSpace(ctx context.Context, companyID, id string, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPut, path("spaces", companyID, id), payload)
}

func (c *Client) DeleteSpace(ctx context.Context, companyID, id string) error {
	return c.delete(ctx, path("spaces", companyID, id))
}

// Projects

func (c *Client) ListProjects(ctx context.Context, companyID string) ([]map[string]any, error) {
	return c.list(ctx, path("projects", companyID))
}

func (c *Client) CreateProject(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPost, "/projects", payload)
}

func (c *Client) UpdateProject(ctx context.Context, companyID, id string, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPut, path("projects", companyID, id), payload)
}

func (c *Client) DeleteProject(ctx context.Context, companyID, id string) error {
	return c.delete(ctx, path("projects", companyID, id))
}

// Epics

func (c *Client) ListEpics(ctx context.Context, projectID string) ([]map[string]any, error) {
	return c.list(ctx, path("epics", projectID))
}

func (c *Client) CreateEpic(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPost, "/epics", payload)
}

func (c *Client) UpdateEpic(ctx context.Context, projectID, id string, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPut, path("epics", projectID, id), payload)
}

func (c *Client) DeleteEpic(ctx context.Context, projectID, id string) error {
	return c.delete(ctx, path("epics", projectID, id))
}

// Tasks

func (c *Client) ListTasks(ctx context.Context, epicID string) ([]map[string]any, error) {
	return c.list(ctx, path("tasks", "epic", epicID))
}

// GetTask fetches one task with its relations hydrated.
func (c *Client) GetTask(ctx context.Context, id string) (map[string]any, error) {
	return c.object(ctx, http.MethodGet, path("tasks", id), nil)
}

func (c *Client) CreateTask(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPost, "/tasks", payload)
}

func (c *Client) UpdateTask(ctx context.Context, id string, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPut, path("tasks", id), payload)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.delete(ctx, path("tasks", id))
}

// Users

func (c *Client) ListUsers(ctx context.Context, companyID string) ([]map[string]any, error) {
	return c.list(ctx, path("users", companyID))
}

func (c *Client) GetUser(ctx context.Context, companyID, id string) (map[string]any, error) {
	return c.object(ctx, http.MethodGet, path("users", companyID, id), nil)
}

func (c *Client) CreateUser(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPost, "/users", payload)
}

func (c *Client) UpdateUser(ctx context.Context, companyID, id string, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPut, path("users", companyID, id), payload)
}

func (c *Client) DeleteUser(ctx context.Context, companyID, id string) error {
	return c.delete(ctx, path("users", companyID, id))
}

// Labels

// ListLabels lists the labels of a space and hydrates each one with its
// detail record. A label whose detail fetch fails keeps its list fields.
func (c *Client) ListLabels(ctx context.Context, spaceID string) ([]map[string]any, error) {
	labels, err := c.list(ctx, path("labels", "space", spaceID))
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, len(labels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(labelDetailFanOut)
	for i, label := range labels {
		out[i] = label
		id, _ := label["id"].(string)
		if id == "" {
			continue
		}
		g.Go(func() error {
			detail, err := c.GetLabel(gctx, id)
			if err != nil {
				c.log.Debug("label detail unavailable", zap.String("label_id", id), zap.Error(err))
				return nil
			}
			out[i] = mergeDetail(label, detail)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetLabel(ctx context.Context, id string) (map[string]any, error) {
	return c.object(ctx, http.MethodGet, path("labels", id), nil)
}

func (c *Client) CreateLabel(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return c.object(ctx, http.MethodPost, "/labels", payload)
}
