package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/fishlog/internal/client/models"
)

// readFile is a test seam for photo loading.
var readFile = os.ReadFile

// ListCatches prints catches. With no arguments it shows the user's own,
// "all" lists everything visible, "group <id>" lists a group's catches.
func (a *App) ListCatches(ctx context.Context, args []string) error {
	var (
		catches []models.Catch
		err     error
	)

	switch {
	case len(args) == 0:
		u := a.authService.State().User
		if u == nil {
			printlnFn("Not logged in")
			return nil
		}
		catches, err = a.catchService.ListByUser(ctx, u.ID)
	case args[0] == "all":
		catches, err = a.catchService.List(ctx)
	case args[0] == "group" && len(args) == 2:
		catches, err = a.catchService.ListByGroup(ctx, args[1])
	default:
		printlnFn("Usage: catches [all | group <id>]")
		return nil
	}
	if err != nil {
		return err
	}

	if len(catches) == 0 {
		printlnFn("No catches yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSPECIES\tWEIGHT\tLENGTH\tLOCATION\tCAUGHT\tPHOTOS")
	for _, c := range catches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			c.ID, c.Species, number(c.Weight), number(c.Length), c.LocationName,
			c.CaughtAt.Local().Format(time.DateTime), len(c.Photos))
	}
	return tw.Flush()
}

// AddCatch prompts for the catch fields and optional photo files.
func (a *App) AddCatch(ctx context.Context) error {
	u := a.authService.State().User
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}

	in := models.CatchInput{UserID: u.ID, CaughtAt: time.Now()}

	var err error
	if in.Species, err = getSimpleText(a.reader, "Species", a.out); err != nil {
		return err
	}
	if in.Weight, err = a.getNumber("Weight (empty to skip)"); err != nil {
		return err
	}
	if in.Length, err = a.getNumber("Length (empty to skip)"); err != nil {
		return err
	}
	if in.LocationName, err = getSimpleText(a.reader, "Location", a.out); err != nil {
		return err
	}
	if in.Bait, err = getSimpleText(a.reader, "Bait", a.out); err != nil {
		return err
	}
	if in.Notes, err = GetMultiline(a.reader, "Notes", a.out); err != nil {
		return err
	}

	groups, err := getSimpleText(a.reader, "Share with groups (comma separated ids, empty for none)", a.out)
	if err != nil {
		return err
	}
	in.SharedWithGroups = splitList(groups)

	paths, err := getSimpleText(a.reader, "Photo files (comma separated, empty for none)", a.out)
	if err != nil {
		return err
	}
	photos, err := loadPhotos(splitList(paths))
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	c, err := a.catchService.Create(ctx, in, photos)
	if err != nil {
		return err
	}
	printlnFn("Catch id:", c.ID)
	return nil
}

func (a *App) DeleteCatch(ctx context.Context, id string) error {
	if id == "" {
		printlnFn("Usage: delcatch <id>")
		return nil
	}
	return a.catchService.Delete(ctx, id)
}

// PhotoURL prints a temporary download link for a photo key.
func (a *App) PhotoURL(ctx context.Context, key string) error {
	if key == "" {
		printlnFn("Usage: photo <key>")
		return nil
	}
	u, err := a.catchService.PhotoURL(ctx, key)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(u)
	return nil
}

func (a *App) getNumber(prompt string) (float64, error) {
	for {
		s, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err == nil && v >= 0 {
			return v, nil
		}
		printlnFn("Please enter a non-negative number")
	}
}

func loadPhotos(paths []string) ([]models.Photo, error) {
	photos := make([]models.Photo, 0, len(paths))
	for _, p := range paths {
		data, err := readFile(p)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errors.New(p + " is empty")
		}
		photos = append(photos, models.Photo{
			Name:        filepath.Base(p),
			ContentType: contentType(p, data),
			Data:        data,
		})
	}
	return photos, nil
}

func contentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func number(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
