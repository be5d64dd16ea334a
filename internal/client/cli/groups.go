package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/fishlog/internal/client/models"
)

// ListGroups prints the groups the user belongs to, or every group with
// "all".
func (a *App) ListGroups(ctx context.Context, args []string) error {
	var (
		groups []models.Group
		err    error
	)

	switch {
	case len(args) == 0:
		u := a.authService.State().User
		if u == nil {
			printlnFn("Not logged in")
			return nil
		}
		groups, err = a.groupService.ListByMember(ctx, u.ID)
	case args[0] == "all":
		groups, err = a.groupService.List(ctx)
	default:
		printlnFn("Usage: groups [all]")
		return nil
	}
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		printlnFn("No groups yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tMEMBERS\tPRIVATE\tOWNER")
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", g.ID, g.Name, len(g.Members), yesNo(g.IsPrivate), g.OwnerID)
	}
	return tw.Flush()
}

// AddGroup prompts for a new group owned by the current user.
func (a *App) AddGroup(ctx context.Context) error {
	u := a.authService.State().User
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}

	in := models.GroupInput{OwnerID: u.ID}

	var err error
	if in.Name, err = getSimpleText(a.reader, "Group name", a.out); err != nil {
		return err
	}
	if in.Description, err = getSimpleText(a.reader, "Description", a.out); err != nil {
		return err
	}
	private, err := getSimpleText(a.reader, "Private? (y/N)", a.out)
	if err != nil {
		return err
	}
	in.IsPrivate = strings.EqualFold(private, "y") || strings.EqualFold(private, "yes")

	path, err := getSimpleText(a.reader, "Avatar file (empty for none)", a.out)
	if err != nil {
		return err
	}
	var avatar *models.Photo
	if path != "" {
		photos, err := loadPhotos([]string{path})
		if err != nil {
			printlnFn("Error:", err.Error())
			return err
		}
		avatar = &photos[0]
	}

	g, err := a.groupService.Create(ctx, in, avatar)
	if err != nil {
		return err
	}
	printlnFn("Group id:", g.ID)
	return nil
}

func (a *App) DeleteGroup(ctx context.Context, id string) error {
	if id == "" {
		printlnFn("Usage: delgroup <id>")
		return nil
	}
	return a.groupService.Delete(ctx, id)
}

// JoinGroup and LeaveGroup change the current user's own membership.
func (a *App) JoinGroup(ctx context.Context, groupID string) error {
	return a.changeMembership(ctx, "join <groupId>", groupID, a.currentUserID(), true)
}

func (a *App) LeaveGroup(ctx context.Context, groupID string) error {
	return a.changeMembership(ctx, "leave <groupId>", groupID, a.currentUserID(), false)
}

func (a *App) AddMember(ctx context.Context, groupID, userID string) error {
	return a.changeMembership(ctx, "addmember <groupId> <userId>", groupID, userID, true)
}

func (a *App) RemoveMember(ctx context.Context, groupID, userID string) error {
	return a.changeMembership(ctx, "rmmember <groupId> <userId>", groupID, userID, false)
}

// changeMembership loads the group list first when groupID is not known
// locally yet.
func (a *App) changeMembership(ctx context.Context, usage, groupID, userID string, add bool) error {
	if groupID == "" || userID == "" {
		printlnFn("Usage: " + usage)
		return nil
	}

	if _, ok := a.groupService.Group(groupID); !ok {
		if _, err := a.groupService.List(ctx); err != nil {
			return err
		}
	}

	var err error
	if add {
		_, err = a.groupService.AddMember(ctx, groupID, userID)
	} else {
		_, err = a.groupService.RemoveMember(ctx, groupID, userID)
	}
	return err
}

func (a *App) currentUserID() string {
	if u := a.authService.State().User; u != nil {
		return u.ID
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
