package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
	"github.com/dmitrijs2005/fishlog/internal/client/client"
	"github.com/dmitrijs2005/fishlog/internal/client/models"
	"github.com/dmitrijs2005/fishlog/internal/common"
)

const (
	MsgCommentAdded   = "Comment added successfully!"
	MsgCommentUpdated = "Comment updated successfully!"
	MsgCommentDeleted = "Comment deleted successfully!"
)

// CommentService manages remarks on catches. New comments go to the end of
// the loaded thread.
type CommentService interface {
	Create(ctx context.Context, catchID, userID, content string) (*models.Comment, error)
	Update(ctx context.Context, id, content string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByCatch(ctx context.Context, catchID string) ([]models.Comment, error)
	Comments() []models.Comment
}

type commentService struct {
	collection
	cache *docCache[models.Comment]
}

func NewCommentService(docs client.Documents, name string, opts ...Option) CommentService {
	return &commentService{
		collection: newCollection(docs, name, "comments", buildOptions(opts)),
		cache:      newDocCache(func(c models.Comment) string { return c.ID }),
	}
}

func (s *commentService) Create(ctx context.Context, catchID, userID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	switch {
	case userID == "":
		return nil, s.fail(ctx, "add comment", autherr.Validation(MsgNoUser))
	case catchID == "":
		return nil, s.fail(ctx, "add comment", autherr.Validation("Catch id is required"))
	case content == "":
		return nil, s.fail(ctx, "add comment", autherr.Validation("Comment is empty"))
	}

	c := models.Comment{
		ID:        common.NewID(),
		CatchID:   catchID,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}

	var created models.Comment
	if err := s.docs.CreateDocument(ctx, s.name, c.ID, c.Document(), &created); err != nil {
		return nil, s.fail(ctx, "add comment", err)
	}
	if created.ID == "" {
		created = c
	}

	s.cache.push(created)

	s.notifier.Success(ctx, MsgCommentAdded)
	return &created, nil
}

// Update changes the text of comment id. The rest of the comment is taken
// from the loaded thread when it is there.
func (s *commentService) Update(ctx context.Context, id, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, s.fail(ctx, "update comment", autherr.Validation("Comment is empty"))
	}

	c, _ := s.cache.get(id)
	c.ID = id
	c.Content = content
	c.UpdatedAt = s.now()

	var updated models.Comment
	if err := s.docs.UpdateDocument(ctx, s.name, id, c.EditDocument(), &updated); err != nil {
		return nil, s.fail(ctx, "update comment", err)
	}
	if updated.ID == "" {
		updated = c
	}

	s.cache.replace(updated)

	s.notifier.Success(ctx, MsgCommentUpdated)
	return &updated, nil
}

func (s *commentService) Delete(ctx context.Context, id string) error {
	if err := s.docs.DeleteDocument(ctx, s.name, id); err != nil {
		return s.fail(ctx, "delete comment", err)
	}
	s.cache.remove(id)

	s.notifier.Success(ctx, MsgCommentDeleted)
	return nil
}

func (s *commentService) ListByCatch(ctx context.Context, catchID string) ([]models.Comment, error) {
	var out []models.Comment
	if err := s.list(ctx, "fetch comments", &out, client.Equal("catchId", catchID), client.OrderDesc("$createdAt")); err != nil {
		return nil, err
	}
	s.cache.reset(out)
	return out, nil
}

func (s *commentService) Comments() []models.Comment {
	return s.cache.snapshot()
}
