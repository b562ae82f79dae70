// Package users tallies message authors across chat exports.
package users

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Zuo-Peng/chat-archive-search/internal/archive"
	"github.com/Zuo-Peng/chat-archive-search/internal/scan"
)

// Unknown stands in for a missing author field.
const Unknown = "Unknown"

var banner = strings.Repeat("=", 60)

const entryDivider = "-----"

// User identifies an author.
type User struct {
	GlobalName string
	Username   string
	ID         string
}

// Key prefers the author id and falls back to the name pair.
func (u User) Key() string {
	if u.ID != Unknown && u.ID != "" {
		return "id:" + u.ID
	}
	return "name:" + u.GlobalName + "|user:" + u.Username
}

// FromRecord extracts the author of r. It reports false when the record has
// no author object or the object has none of id, username and global_name.
func FromRecord(r archive.Record, names archive.Normalizer) (User, bool) {
	author := r.Author()
	if author == nil {
		return User{}, false
	}

	id, hasID := field(author, "id")
	username, hasUser := field(author, "username")
	global, hasGlobal := field(author, "global_name")
	if !hasGlobal || global == "" {
		global, hasGlobal = username, hasUser
	}
	if !hasID && !hasUser && !hasGlobal {
		return User{}, false
	}

	u := User{GlobalName: Unknown, Username: Unknown, ID: Unknown}
	if hasGlobal {
		u.GlobalName = global
	}
	u.GlobalName = names.Apply(u.GlobalName)
	if hasUser {
		u.Username = username
	}
	if hasID {
		u.ID = id
	}
	return u, true
}

// field returns the author field as text. Null and absent fields report
// false; every other value, including "", is present.
func field(author map[string]any, key string) (string, bool) {
	v, ok := author[key]
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		if x {
			return "True", true
		}
		return "False", true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v), true
	}
	return string(b), true
}

// Count is one user's number of entries.
type Count struct {
	User  User
	Count int
}

// FileCounts is the per-user tally of one export, named after its archive.
type FileCounts struct {
	File   string
	Counts []Count
}

// Tally holds the totals across all exports and the per-file breakdown.
type Tally struct {
	Totals []Count
	Files  []FileCounts
}

type counter struct {
	order []string
	n     map[string]int
}

func newCounter() *counter {
	return &counter{n: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.n[key]; !ok {
		c.order = append(c.order, key)
	}
	c.n[key]++
}

func (c *counter) sorted(info map[string]User) []Count {
	out := make([]Count, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Count{User: info[k], Count: c.n[k]})
	}
	sortCounts(out)
	return out
}

func sortCounts(cs []Count) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Count != cs[j].Count {
			return cs[i].Count > cs[j].Count
		}
		return strings.ToLower(cs[i].User.GlobalName) < strings.ToLower(cs[j].User.GlobalName)
	})
}

// Collect reads every *.json export in inputDir. Exports whose top level is
// not an array contribute an empty file entry.
func Collect(inputDir string, names archive.Normalizer, logger *slog.Logger) (*Tally, error) {
	files, err := scan.JSONFiles(inputDir)
	if err != nil {
		return nil, err
	}

	totals := newCounter()
	info := make(map[string]User)
	perFile := make(map[string]*counter, len(files))
	var fileNames []string

	for _, fi := range files {
		data, err := os.ReadFile(fi.Path)
		if err != nil {
			return nil, fmt.Errorf("read export: %w", err)
		}
		data = []byte(strings.ToValidUTF8(string(data), "\uFFFD"))

		_, records, err := archive.DecodeExport(data)
		if errors.Is(err, archive.ErrNotArray) {
			logger.Warn("export is not an array", "file", fi.Name)
			records = nil
		} else if err != nil {
			return nil, fmt.Errorf("%s: %w", fi.Name, err)
		}

		fc := newCounter()
		for _, r := range records {
			u, ok := FromRecord(r, names)
			if !ok {
				continue
			}
			k := u.Key()
			fc.add(k)
			totals.add(k)
			if _, seen := info[k]; !seen {
				info[k] = u
			}
		}

		name := strings.TrimSuffix(fi.Name, filepath.Ext(fi.Name)) + ".txt"
		if _, dup := perFile[name]; !dup {
			fileNames = append(fileNames, name)
		}
		perFile[name] = fc
		logger.Debug("export tallied", "file", fi.Name, "users", len(fc.order))
	}

	sort.SliceStable(fileNames, func(i, j int) bool {
		return strings.ToLower(fileNames[i]) < strings.ToLower(fileNames[j])
	})

	t := &Tally{Totals: totals.sorted(info)}
	for _, name := range fileNames {
		t.Files = append(t.Files, FileCounts{File: name, Counts: perFile[name].sorted(info)})
	}
	return t, nil
}

// Write renders the users report.
func Write(w io.Writer, t *Tally) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("Unique users:\n")
	for _, c := range t.Totals {
		fmt.Fprintf(bw, "%s, total entries %d, username %s, ID %s\n",
			c.User.GlobalName, c.Count, c.User.Username, c.User.ID)
	}
	bw.WriteString("\n")

	for _, f := range t.Files {
		fmt.Fprintf(bw, "%s\n%s\n%s\n", banner, f.File, banner)
		if len(f.Counts) == 0 {
			bw.WriteString("(No users found in this file.)\n\n")
			continue
		}
		for i, c := range f.Counts {
			fmt.Fprintf(bw, "%s\nEntries in this file: %d\n", c.User.GlobalName, c.Count)
			if i != len(f.Counts)-1 {
				bw.WriteString(entryDivider + "\n")
			}
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// WriteFile writes the users report to path.
func WriteFile(path string, t *Tally) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create users report: %w", err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write users report: %w", err)
	}
	return f.Close()
}
