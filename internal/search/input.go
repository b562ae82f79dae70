package search

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Input is the uncompiled filter as collected from flags, a form or a YAML
// file. Blank fields mean "any".
type Input struct {
	Date          string `yaml:"date"`
	Name          string `yaml:"name"`
	Contains      string `yaml:"contains"`
	Exclude       string `yaml:"exclude"`
	HasAttachment string `yaml:"has_attachment"`
	AttachmentExt string `yaml:"attachment_ext"`
}

// IsZero reports whether every field is blank.
func (in Input) IsZero() bool {
	return strings.TrimSpace(in.Date) == "" &&
		strings.TrimSpace(in.Name) == "" &&
		strings.TrimSpace(in.Contains) == "" &&
		strings.TrimSpace(in.Exclude) == "" &&
		strings.TrimSpace(in.HasAttachment) == "" &&
		strings.TrimSpace(in.AttachmentExt) == ""
}

// LoadInput reads a saved filter from a YAML file.
func LoadInput(path string) (Input, error) {
	var in Input
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("reading criteria file: %w", err)
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parsing criteria file: %w", err)
	}
	return in, nil
}

// Merge returns in with every blank field filled from other.
func (in Input) Merge(other Input) Input {
	pick := func(a, b string) string {
		if strings.TrimSpace(a) != "" {
			return a
		}
		return b
	}
	return Input{
		Date:          pick(in.Date, other.Date),
		Name:          pick(in.Name, other.Name),
		Contains:      pick(in.Contains, other.Contains),
		Exclude:       pick(in.Exclude, other.Exclude),
		HasAttachment: pick(in.HasAttachment, other.HasAttachment),
		AttachmentExt: pick(in.AttachmentExt, other.AttachmentExt),
	}
}

// BuildCriteria compiles an Input. Malformed values are dropped and
// described in the returned warnings; they never fail the build.
func BuildCriteria(in Input) (Criteria, []string) {
	var c Criteria
	var warnings []string

	if raw := strings.TrimSpace(in.Date); raw != "" {
		date, err := ParseDate(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%v; ignoring date filter", err))
		} else {
			c.Date = &date
		}
	}

	c.Name = optional(in.Name)

	if raw := strings.TrimSpace(in.Contains); raw != "" {
		c.Contains = CompilePattern(raw)
	}

	c.Exclude = optional(in.Exclude)

	if raw := strings.TrimSpace(in.HasAttachment); raw != "" {
		b, ok := ParseBool(raw)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("has attachment %q is not y or n; ignoring attachment filter", raw))
		} else {
			c.HasAttachment = &b
		}
	}

	if ext := optional(in.AttachmentExt); ext != nil {
		norm := normalizeExt(*ext)
		switch {
		case c.HasAttachment != nil && !*c.HasAttachment:
			warnings = append(warnings, "attachment type given but has attachment is no; ignoring attachment type filter")
		case norm == "":
			warnings = append(warnings, fmt.Sprintf("attachment type %q is empty; ignoring attachment type filter", *ext))
		default:
			c.AttachmentExt = &norm
		}
	}

	return c, warnings
}

var dateSepRe = regexp.MustCompile(`[/\-.\s]+`)

// ParseDate converts a d/m/y date (separated by "/", "-", "." or spaces)
// into YYYY-MM-DD.
func ParseDate(raw string) (string, error) {
	parts := dateSepRe.Split(strings.TrimSpace(raw), -1)
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid date format %q, use d/m/y (e.g. 5/2/2026)", raw)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("date %q must be integers", raw)
		}
		nums[i] = n
	}
	d, m, y := nums[0], nums[1], nums[2]

	if m < 1 || m > 12 || d < 1 || d > 31 || y < 1 || y > 9999 {
		return "", fmt.Errorf("date %q values out of range", raw)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), nil
}

// ParseBool accepts y/yes/true/t/1 and n/no/false/f/0, case-insensitively.
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true", "t", "1":
		return true, true
	case "n", "no", "false", "f", "0":
		return false, true
	}
	return false, false
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
