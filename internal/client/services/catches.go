package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
	"github.com/dmitrijs2005/fishlog/internal/client/client"
	"github.com/dmitrijs2005/fishlog/internal/client/models"
	"github.com/dmitrijs2005/fishlog/internal/client/storage"
	"github.com/dmitrijs2005/fishlog/internal/common"
)

const (
	MsgCatchRecorded = "Catch recorded successfully!"
	MsgCatchUpdated  = "Catch updated successfully!"
	MsgCatchDeleted  = "Catch deleted successfully!"
)

// CatchService manages the user's catch log and keeps the last listed page
// in memory.
type CatchService interface {
	Create(ctx context.Context, in models.CatchInput, photos []models.Photo) (*models.Catch, error)
	Update(ctx context.Context, c models.Catch, newPhotos []models.Photo) (*models.Catch, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Catch, error)
	ListByUser(ctx context.Context, userID string) ([]models.Catch, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.Catch, error)
	Catches() []models.Catch
	PhotoURL(ctx context.Context, key string) (string, error)
}

type catchService struct {
	collection
	photos storage.PhotoStore
	cache  *docCache[models.Catch]
}

func NewCatchService(docs client.Documents, photos storage.PhotoStore, name string, opts ...Option) CatchService {
	return &catchService{
		collection: newCollection(docs, name, "catches", buildOptions(opts)),
		photos:     photos,
		cache:      newDocCache(func(c models.Catch) string { return c.ID }),
	}
}

func (s *catchService) Create(ctx context.Context, in models.CatchInput, photos []models.Photo) (*models.Catch, error) {
	in.Species = strings.TrimSpace(in.Species)
	if in.UserID == "" {
		return nil, s.fail(ctx, "record catch", autherr.Validation(MsgNoUser))
	}
	if in.Species == "" {
		return nil, s.fail(ctx, "record catch", autherr.Validation("Species is required"))
	}

	keys, err := s.upload(ctx, in.UserID, photos)
	if err != nil {
		return nil, s.fail(ctx, "record catch", err)
	}

	c := models.NewCatch(in, s.now())
	c.ID = common.NewID()
	c.Photos = keys

	var created models.Catch
	if err := s.docs.CreateDocument(ctx, s.name, c.ID, c.Document(), &created); err != nil {
		removeObjects(ctx, s.photos, s.logger, keys)
		return nil, s.fail(ctx, "record catch", err)
	}
	if created.ID == "" {
		created = *c
	}

	s.cache.prepend(created)

	s.logger.Info(ctx, "catch recorded", "catch_id", created.ID, "photos", len(keys))
	s.notifier.Success(ctx, MsgCatchRecorded)
	return &created, nil
}

// Update uploads newPhotos, appends their keys to c.Photos and saves c.
func (s *catchService) Update(ctx context.Context, c models.Catch, newPhotos []models.Photo) (*models.Catch, error) {
	if c.ID == "" {
		return nil, s.fail(ctx, "update catch", autherr.Validation("Catch id is required"))
	}

	keys, err := s.upload(ctx, c.UserID, newPhotos)
	if err != nil {
		return nil, s.fail(ctx, "update catch", err)
	}

	c.Photos = append(append([]string(nil), c.Photos...), keys...)
	c.UpdatedAt = s.now()

	var updated models.Catch
	if err := s.docs.UpdateDocument(ctx, s.name, c.ID, c.Document(), &updated); err != nil {
		removeObjects(ctx, s.photos, s.logger, keys)
		return nil, s.fail(ctx, "update catch", err)
	}
	if updated.ID == "" {
		updated = c
	}

	s.cache.replace(updated)

	s.notifier.Success(ctx, MsgCatchUpdated)
	return &updated, nil
}

// Delete removes the document, then the photos of the locally known copy.
// Photo cleanup failures are logged only.
func (s *catchService) Delete(ctx context.Context, id string) error {
	known, _ := s.cache.get(id)

	if err := s.docs.DeleteDocument(ctx, s.name, id); err != nil {
		return s.fail(ctx, "delete catch", err)
	}

	removeObjects(ctx, s.photos, s.logger, known.Photos)
	s.cache.remove(id)

	s.notifier.Success(ctx, MsgCatchDeleted)
	return nil
}

func (s *catchService) List(ctx context.Context) ([]models.Catch, error) {
	return s.load(ctx, client.OrderDesc("$createdAt"))
}

func (s *catchService) ListByUser(ctx context.Context, userID string) ([]models.Catch, error) {
	return s.load(ctx, client.Equal("userId", userID), client.OrderDesc("$createdAt"))
}

func (s *catchService) ListByGroup(ctx context.Context, groupID string) ([]models.Catch, error) {
	return s.load(ctx, client.Search("sharedWithGroups", groupID), client.OrderDesc("$createdAt"))
}

func (s *catchService) load(ctx context.Context, queries ...client.Query) ([]models.Catch, error) {
	var out []models.Catch
	if err := s.list(ctx, "load catches", &out, queries...); err != nil {
		return nil, err
	}
	s.cache.reset(out)
	return out, nil
}

func (s *catchService) Catches() []models.Catch {
	return s.cache.snapshot()
}

func (s *catchService) PhotoURL(ctx context.Context, key string) (string, error) {
	u, err := s.photos.URL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("photo url: %w", err)
	}
	return u, nil
}

// upload stores photos in parallel. On failure the photos that did make it
// are removed again.
func (s *catchService) upload(ctx context.Context, userID string, photos []models.Photo) ([]string, error) {
	if len(photos) == 0 {
		return nil, nil
	}

	keys := make([]string, len(photos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(photoWorkers)

	for i, p := range photos {
		g.Go(func() error {
			key := common.PhotoKey(userID, s.now())
			if err := s.photos.Put(gctx, key, bytes.NewReader(p.Data), int64(len(p.Data)), p.ContentType); err != nil {
				return fmt.Errorf("upload %s: %w", p.Name, err)
			}
			keys[i] = key
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		removeObjects(ctx, s.photos, s.logger, keys)
		return nil, err
	}
	return keys, nil
}
