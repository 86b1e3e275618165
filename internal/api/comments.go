package api

import (
	"context"
	"fmt"
	"net/http"
)

// Create adds a comment to a complaint and returns the backend's confirmation.
func (s CommentsService) Create(ctx context.Context, complaintID int, text string) (string, error) {
	return createComment(ctx, s, CommentRequest{ComplaintID: complaintID, Comment: text})
}

func createComment(ctx context.Context, r Requester, req CommentRequest) (string, error) {
	path := fmt.Sprintf("comments/create/%d", req.ComplaintID)
	body, err := r.doRaw(ctx, http.MethodPost, r.resourcePath(path), req)
	if err != nil {
		return "", err
	}
	return confirmation(body), nil
}
