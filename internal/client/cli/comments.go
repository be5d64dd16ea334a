package cli

import (
	"context"
	"fmt"
	"time"
)

// ListComments prints the thread of a catch.
func (a *App) ListComments(ctx context.Context, catchID string) error {
	if catchID == "" {
		printlnFn("Usage: comments <catchId>")
		return nil
	}

	comments, err := a.commentService.ListByCatch(ctx, catchID)
	if err != nil {
		return err
	}
	if len(comments) == 0 {
		printlnFn("No comments yet")
		return nil
	}

	for _, c := range comments {
		fmt.Fprintf(a.out, "[%s] %s %s: %s\n", c.ID, c.CreatedAt.Local().Format(time.DateTime), c.UserID, c.Content)
	}
	return nil
}

func (a *App) AddComment(ctx context.Context, catchID string) error {
	userID := a.currentUserID()
	if catchID == "" || userID == "" {
		printlnFn("Usage: comment <catchId>")
		return nil
	}

	text, err := getSimpleText(a.reader, "Comment", a.out)
	if err != nil {
		return err
	}
	_, err = a.commentService.Create(ctx, catchID, userID, text)
	return err
}

func (a *App) EditComment(ctx context.Context, id string) error {
	if id == "" {
		printlnFn("Usage: editcomment <id>")
		return nil
	}

	text, err := getSimpleText(a.reader, "New text", a.out)
	if err != nil {
		return err
	}
	_, err = a.commentService.Update(ctx, id, text)
	return err
}

func (a *App) DeleteComment(ctx context.Context, id string) error {
	if id == "" {
		printlnFn("Usage: delcomment <id>")
		return nil
	}
	return a.commentService.Delete(ctx, id)
}
