package search

import (
	"strings"

	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
)

// Criteria is the compiled filter. A nil field places no constraint.
type Criteria struct {
	Date          *string
	Name          *string
	Contains      *Pattern
	Exclude       *string
	HasAttachment *bool
	AttachmentExt *string
}

// Matches reports whether msg satisfies every active constraint.
func (c Criteria) Matches(msg parse.Message) bool {
	if c.Date != nil && msg.Date != *c.Date {
		return false
	}

	if c.Name != nil && strings.ToLower(msg.Name) != strings.ToLower(*c.Name) {
		return false
	}

	hay := msg.Content

	if c.Contains != nil && !c.Contains.Match(hay) {
		return false
	}

	if c.Exclude != nil && strings.Contains(strings.ToLower(hay), strings.ToLower(*c.Exclude)) {
		return false
	}

	hasAtt := len(msg.Attachments) > 0
	if c.HasAttachment != nil && hasAtt != *c.HasAttachment {
		return false
	}

	if c.AttachmentExt != nil {
		if !hasAtt {
			return false
		}
		want := normalizeExt(*c.AttachmentExt)
		found := false
		for _, a := range msg.Attachments {
			if a.Ext == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func normalizeExt(ext string) string {
	return strings.TrimLeft(strings.ToLower(ext), ".")
}
