package services

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/fishlog/internal/client/autherr"
	"github.com/dmitrijs2005/fishlog/internal/client/client"
	"github.com/dmitrijs2005/fishlog/internal/client/models"
	"github.com/dmitrijs2005/fishlog/internal/client/storage"
	"github.com/dmitrijs2005/fishlog/internal/common"
)

const (
	MsgGroupCreated  = "Group created successfully!"
	MsgGroupUpdated  = "Group updated successfully!"
	MsgGroupDeleted  = "Group deleted successfully!"
	MsgMemberAdded   = "Member added successfully!"
	MsgMemberRemoved = "Member removed successfully!"

	msgGroupNotFound = "Group not found"
	msgUserRequired  = "User id is required"
)

// GroupService manages fishing clubs.
//
// Membership changes act on the locally listed copy of a group, so the group
// must have been listed or created in this session first.
type GroupService interface {
	Create(ctx context.Context, in models.GroupInput, avatar *models.Photo) (*models.Group, error)
	Update(ctx context.Context, g models.Group, newAvatar *models.Photo) (*models.Group, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Group, error)
	ListByMember(ctx context.Context, userID string) ([]models.Group, error)
	AddMember(ctx context.Context, groupID, userID string) (*models.Group, error)
	RemoveMember(ctx context.Context, groupID, userID string) (*models.Group, error)
	Groups() []models.Group
	Group(id string) (models.Group, bool)
}

type groupService struct {
	collection
	avatars storage.PhotoStore
	cache   *docCache[models.Group]
}

func NewGroupService(docs client.Documents, avatars storage.PhotoStore, name string, opts ...Option) GroupService {
	return &groupService{
		collection: newCollection(docs, name, "groups", buildOptions(opts)),
		avatars:    avatars,
		cache:      newDocCache(func(g models.Group) string { return g.ID }),
	}
}

func (s *groupService) Create(ctx context.Context, in models.GroupInput, avatar *models.Photo) (*models.Group, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.OwnerID == "" {
		return nil, s.fail(ctx, "create group", autherr.Validation(MsgNoUser))
	}
	if in.Name == "" {
		return nil, s.fail(ctx, "create group", autherr.Validation("Group name is required"))
	}

	g := models.NewGroup(in, s.now())
	g.ID = common.NewID()

	key, err := s.uploadAvatar(ctx, g.ID, avatar)
	if err != nil {
		return nil, s.fail(ctx, "create group", err)
	}
	g.Avatar = key

	var created models.Group
	if err := s.docs.CreateDocument(ctx, s.name, g.ID, g.Document(), &created); err != nil {
		removeObjects(ctx, s.avatars, s.logger, []string{key})
		return nil, s.fail(ctx, "create group", err)
	}
	if created.ID == "" {
		created = *g
	}

	s.cache.prepend(created)

	s.logger.Info(ctx, "group created", "group_id", created.ID)
	s.notifier.Success(ctx, MsgGroupCreated)
	return &created, nil
}

// Update saves g. A new avatar replaces the old one, which is removed only
// once the document is saved.
func (s *groupService) Update(ctx context.Context, g models.Group, newAvatar *models.Photo) (*models.Group, error) {
	if g.ID == "" {
		return nil, s.fail(ctx, "update group", autherr.Validation("Group id is required"))
	}

	oldAvatar := g.Avatar
	key, err := s.uploadAvatar(ctx, g.ID, newAvatar)
	if err != nil {
		return nil, s.fail(ctx, "update group", err)
	}
	if key != "" {
		g.Avatar = key
	}
	g.UpdatedAt = s.now()

	var updated models.Group
	if err := s.docs.UpdateDocument(ctx, s.name, g.ID, g.Document(), &updated); err != nil {
		removeObjects(ctx, s.avatars, s.logger, []string{key})
		return nil, s.fail(ctx, "update group", err)
	}
	if updated.ID == "" {
		updated = g
	}
	if key != "" {
		removeObjects(ctx, s.avatars, s.logger, []string{oldAvatar})
	}

	s.cache.replace(updated)

	s.notifier.Success(ctx, MsgGroupUpdated)
	return &updated, nil
}

func (s *groupService) Delete(ctx context.Context, id string) error {
	known, _ := s.cache.get(id)

	if err := s.docs.DeleteDocument(ctx, s.name, id); err != nil {
		return s.fail(ctx, "delete group", err)
	}

	removeObjects(ctx, s.avatars, s.logger, []string{known.Avatar})
	s.cache.remove(id)

	s.notifier.Success(ctx, MsgGroupDeleted)
	return nil
}

func (s *groupService) List(ctx context.Context) ([]models.Group, error) {
	return s.load(ctx, "fetch groups", client.OrderDesc("$createdAt"))
}

func (s *groupService) ListByMember(ctx context.Context, userID string) ([]models.Group, error) {
	return s.load(ctx, "fetch user groups", client.Search("members", userID), client.OrderDesc("$createdAt"))
}

func (s *groupService) load(ctx context.Context, action string, queries ...client.Query) ([]models.Group, error) {
	var out []models.Group
	if err := s.list(ctx, action, &out, queries...); err != nil {
		return nil, err
	}
	s.cache.reset(out)
	return out, nil
}

// AddMember adds userID to the group. Adding an existing member is a no-op.
func (s *groupService) AddMember(ctx context.Context, groupID, userID string) (*models.Group, error) {
	g, err := s.member(groupID, userID)
	if err != nil {
		return nil, s.fail(ctx, "add member", err)
	}
	if g.HasMember(userID) {
		return &g, nil
	}

	return s.saveMembership(ctx, "add member", g.WithMember(userID), MsgMemberAdded)
}

// RemoveMember drops userID from the members and admins. The owner cannot
// be removed; removing a non-member is a no-op.
func (s *groupService) RemoveMember(ctx context.Context, groupID, userID string) (*models.Group, error) {
	g, err := s.member(groupID, userID)
	if err != nil {
		return nil, s.fail(ctx, "remove member", err)
	}
	if userID == g.OwnerID {
		return nil, s.fail(ctx, "remove member", autherr.Validation("The group owner cannot be removed"))
	}
	if !g.HasMember(userID) && !slices.Contains(g.Admins, userID) {
		return &g, nil
	}

	return s.saveMembership(ctx, "remove member", g.WithoutMember(userID), MsgMemberRemoved)
}

func (s *groupService) member(groupID, userID string) (models.Group, error) {
	if userID == "" {
		return models.Group{}, autherr.Validation(msgUserRequired)
	}
	g, ok := s.cache.get(groupID)
	if !ok {
		return models.Group{}, autherr.Validation(msgGroupNotFound)
	}
	return g, nil
}

func (s *groupService) saveMembership(ctx context.Context, action string, g models.Group, msg string) (*models.Group, error) {
	var updated models.Group
	if err := s.docs.UpdateDocument(ctx, s.name, g.ID, g.MembershipDocument(), &updated); err != nil {
		return nil, s.fail(ctx, action, err)
	}
	if updated.ID == "" {
		updated = g
	}

	s.cache.replace(updated)

	s.logger.Info(ctx, action, "group_id", g.ID, "members", len(updated.Members))
	s.notifier.Success(ctx, msg)
	return &updated, nil
}

func (s *groupService) Groups() []models.Group {
	return s.cache.snapshot()
}

func (s *groupService) Group(id string) (models.Group, bool) {
	return s.cache.get(id)
}

func (s *groupService) uploadAvatar(ctx context.Context, groupID string, p *models.Photo) (string, error) {
	if p == nil {
		return "", nil
	}
	key := common.AvatarKey(groupID)
	if err := s.avatars.Put(ctx, key, bytes.NewReader(p.Data), int64(len(p.Data)), p.ContentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", p.Name, err)
	}
	return key, nil
}
