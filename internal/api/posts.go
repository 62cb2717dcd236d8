package api

import (
	"context"
	"fmt"

	"waveline/pkg/models"
)

// ListPosts retrieves a page of the news feed
func (c *Client) ListPosts(ctx context.Context, limit, offset int) (*models.PostListResponse, error) {
	path := fmt.Sprintf("/posts/posts/?limit=%d&offset=%d", limit, offset)
	resp, err := c.doJSON(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var result models.PostListResponse
	if err := decodeAPIResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPost retrieves one post by id
func (c *Client) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	path := fmt.Sprintf("/posts/posts/%s/", postID)
	resp, err := c.doJSON(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := decodeAPIResponse(resp, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost publishes a new post as multipart form data
func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	contentType, body, err := encodeMultipart(map[string]string{"content": req.Content}, req.Attachments)
	if err != nil {
		return nil, err
	}
	resp, err := c.doRequest(ctx, "POST", "/posts/posts/", contentType, body, true)
	if err != nil {
		return nil, err
	}

	var created models.Post
	if err := decodeAPIResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePost replaces a post's text
func (c *Client) UpdatePost(ctx context.Context, postID, content string) (*models.Post, error) {
	path := fmt.Sprintf("/posts/posts/%s/", postID)
	resp, err := c.doJSON(ctx, "PUT", path, map[string]string{"content": content})
	if err != nil {
		return nil, err
	}

	var updated models.Post
	if err := decodeAPIResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePost removes a post
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	path := fmt.Sprintf("/posts/posts/%s/", postID)
	resp, err := c.doJSON(ctx, "DELETE", path, nil)
	if err != nil {
		return err
	}
	return discardResponse(resp)
}
