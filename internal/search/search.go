package search

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/Zuo-Peng/chat-archive-search/internal/parse"
	"github.com/Zuo-Peng/chat-archive-search/internal/scan"
)

type Stats struct {
	Files   int
	Blocks  int
	Dropped int
	Read    int
	Matched int
}

func (s Stats) String() string {
	return fmt.Sprintf("files=%d blocks=%d dropped=%d read=%d matched=%d",
		s.Files, s.Blocks, s.Dropped, s.Read, s.Matched)
}

// Result is the outcome of one query over an archive directory.
type Result struct {
	Messages []parse.Message // every parsed message, in file then line order
	Matched  []parse.Message // matches sorted by timestamp
	Stats    Stats
}

// LoadAll parses every *.txt archive in chatsDir in file-name order.
func LoadAll(chatsDir string, logger *slog.Logger) ([]parse.Message, Stats, error) {
	var stats Stats

	files, err := scan.TextFiles(chatsDir)
	if err != nil {
		return nil, stats, err
	}

	var all []parse.Message
	for _, fi := range files {
		res, err := parse.ParseFile(fi.Path)
		if err != nil {
			return nil, stats, fmt.Errorf("%s: %w", fi.Name, err)
		}
		logger.Debug("archive parsed", "file", fi.Name, "blocks", res.Blocks, "messages", len(res.Messages), "dropped", res.Dropped)

		stats.Files++
		stats.Blocks += res.Blocks
		stats.Dropped += res.Dropped
		all = append(all, res.Messages...)
	}
	stats.Read = len(all)
	return all, stats, nil
}

// Filter returns the messages matching c, sorted by timestamp string. Ties
// keep their load order.
func Filter(messages []parse.Message, c Criteria) []parse.Message {
	var matched []parse.Message
	for _, m := range messages {
		if c.Matches(m) {
			matched = append(matched, m)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp < matched[j].Timestamp
	})
	return matched
}

// Run loads chatsDir and applies c.
func Run(chatsDir string, c Criteria, logger *slog.Logger) (*Result, error) {
	messages, stats, err := LoadAll(chatsDir, logger)
	if err != nil {
		return nil, err
	}
	matched := Filter(messages, c)
	stats.Matched = len(matched)
	return &Result{Messages: messages, Matched: matched, Stats: stats}, nil
}
