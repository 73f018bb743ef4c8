package cli

import (
	"context"
	"fmt"
	"path"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/client/client"
	"github.com/krsnavtr-code/Pass-Manager/internal/filex"
	"github.com/krsnavtr-code/Pass-Manager/internal/netx"
)

// clearMarker typed at an update prompt empties an optional field.
const clearMarker = "-"

// List prints the caller's entries, newest first, as a table.
func (a *App) List(ctx context.Context, category, search string) error {
	list, err := a.api.ListPasswords(ctx, category, search)
	if err != nil {
		return a.report(err)
	}

	if len(list) == 0 {
		a.println("No entries.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWEBSITE\tUSERNAME\tCATEGORY\tFAV\tMODIFIED")
	for _, e := range list {
		fav := ""
		if e.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Website, e.Username, e.Category, fav, e.LastModified.Local().Format(time.DateTime))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.printf("%d entries\n", len(list))
	return nil
}

// Add prompts for a new entry. The master password encrypts the password
// on the server and is not stored.
func (a *App) Add(ctx context.Context) error {
	var in client.CreateEntry
	var err error

	if in.Website, err = getSimpleText(a.reader, "Website", a.out); err != nil {
		return err
	}
	if in.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if in.Password, err = a.readSecret("Password"); err != nil {
		return err
	}
	if in.MasterPassword, err = a.readSecret("Master password"); err != nil {
		return err
	}
	if in.Category, err = getSimpleText(a.reader, "Category (social, work, finance, shopping, other) [other]", a.out); err != nil {
		return err
	}
	if in.URL, err = getSimpleText(a.reader, "URL (optional)", a.out); err != nil {
		return err
	}
	tags, err := getSimpleText(a.reader, "Tags, comma separated (optional)", a.out)
	if err != nil {
		return err
	}
	in.Tags = SplitTags(tags)
	if in.Notes, err = GetMultiline(a.reader, "Notes (optional)", a.out); err != nil {
		return err
	}
	in.IsFavorite = confirm(a.reader, "Favorite?", a.out)

	e, err := a.api.CreatePassword(ctx, in)
	if err != nil {
		return a.report(err)
	}
	a.println("Saved entry", e.ID)
	return nil
}

// Show prints an entry and, after asking for the master password, its
// decrypted password.
func (a *App) Show(ctx context.Context, id string) error {
	e, err := a.api.GetPassword(ctx, id)
	if err != nil {
		return a.report(err)
	}
	a.printEntry(e)

	master, err := a.readSecret("Master password (empty to skip)")
	if err != nil {
		return err
	}
	if master == "" {
		return nil
	}

	plaintext, err := a.api.DecryptPassword(ctx, id, master)
	if err != nil {
		return a.reportMaster(err)
	}
	a.println("Password:", plaintext)
	return nil
}

func (a *App) printEntry(e *client.Entry) {
	var b strings.Builder
	fmt.Fprintf(&b, "ID:       %s\n", e.ID)
	fmt.Fprintf(&b, "Website:  %s\n", e.Website)
	fmt.Fprintf(&b, "Username: %s\n", e.Username)
	fmt.Fprintf(&b, "Category: %s\n", e.Category)
	if e.URL != "" {
		fmt.Fprintf(&b, "URL:      %s\n", e.URL)
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(&b, "Tags:     %s\n", strings.Join(e.Tags, ", "))
	}
	if e.IsFavorite {
		b.WriteString("Favorite: yes\n")
	}
	if e.Notes != "" {
		fmt.Fprintf(&b, "Notes:\n%s\n", e.Notes)
	}
	fmt.Fprintf(&b, "Modified: %s\n", e.LastModified.Local().Format(time.DateTime))
	a.printf("%s", b.String())
}

// Update walks through the fields of an entry. An empty answer keeps the
// current value and "-" clears an optional one. A new password needs the
// master password to re-encrypt it.
func (a *App) Update(ctx context.Context, id string) error {
	cur, err := a.api.GetPassword(ctx, id)
	if err != nil {
		return a.report(err)
	}

	var in client.UpdateEntry

	ask := func(label, current string, optional bool) (*string, error) {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", label, current), a.out)
		if err != nil {
			return nil, err
		}
		switch {
		case v == "":
			return nil, nil
		case v == clearMarker && optional:
			empty := ""
			return &empty, nil
		}
		return &v, nil
	}

	if in.Website, err = ask("Website", cur.Website, false); err != nil {
		return err
	}
	if in.Username, err = ask("Username", cur.Username, false); err != nil {
		return err
	}
	if in.Category, err = ask("Category", cur.Category, false); err != nil {
		return err
	}
	if in.URL, err = ask("URL", cur.URL, true); err != nil {
		return err
	}
	if in.Notes, err = ask("Notes", cur.Notes, true); err != nil {
		return err
	}
	tags, err := ask("Tags", strings.Join(cur.Tags, ", "), true)
	if err != nil {
		return err
	}
	if tags != nil {
		t := SplitTags(*tags)
		in.Tags = &t
	}
	fav := confirm(a.reader, "Favorite?", a.out)
	if fav != cur.IsFavorite {
		in.IsFavorite = &fav
	}

	if confirm(a.reader, "Change password?", a.out) {
		pw, err := a.readSecret("New password")
		if err != nil {
			return err
		}
		master, err := a.readSecret("Master password")
		if err != nil {
			return err
		}
		in.Password, in.MasterPassword = &pw, &master
	}

	if _, err := a.api.UpdatePassword(ctx, id, in); err != nil {
		return a.report(err)
	}
	a.println("Entry updated.")
	return nil
}

// Delete removes an entry after confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	if !confirm(a.reader, fmt.Sprintf("Delete entry %s?", id), a.out) {
		a.println("Cancelled.")
		return nil
	}

	if err := a.api.DeletePassword(ctx, id); err != nil {
		return a.report(err)
	}
	a.println("Entry deleted.")
	return nil
}

// exportDir is where downloaded exports are saved, under the working
// directory.
const exportDir = "exports"

// Export uploads the encrypted vault, prints the download link and offers
// to save a local copy.
func (a *App) Export(ctx context.Context) error {
	res, err := a.api.Export(ctx)
	if err != nil {
		return a.report(err)
	}
	a.printf("Exported %d entries to %s\n%s\n", res.Count, res.Key, res.URL)

	if !confirm(a.reader, "Save a local copy?", a.out) {
		return nil
	}

	data, err := netx.DownloadPresigned(ctx, nil, res.URL)
	if err != nil {
		a.println("Error:", err)
		return err
	}
	file, err := filex.SaveInSubdDir(exportDir, path.Base(res.Key), data)
	if err != nil {
		a.println("Error:", err)
		return err
	}
	a.println("Saved to", file)
	return nil
}
