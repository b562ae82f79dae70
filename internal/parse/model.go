package parse

// Attachment is a file reference recovered from an Attachment:/Proxy: pair.
type Attachment struct {
	Filename string
	Ext      string // lower-cased suffix after the last ".", or ""
	ProxyURL string
}

// Message is one archived block parsed back into its fields. Messages are
// built once by ParseBlock and never modified afterwards.
type Message struct {
	Timestamp   string
	Date        string // YYYY-MM-DD prefix of Timestamp, or NoDate
	Name        string
	Content     string
	HasContent  bool
	Attachments []Attachment
	RawBlock    string // block text, always ending in "\n" + Divider + "\n"
	SourceFile  string // base name of the archive file
	StartLine   int    // 1-based line of the block's first non-blank line
}

// Block is a divider-delimited span of an archive file.
type Block struct {
	Lines     []string
	StartLine int
}

// FileResult holds the messages parsed from one archive file.
type FileResult struct {
	Name     string
	Messages []Message
	Blocks   int // non-blank blocks seen
	Dropped  int // blocks whose header did not parse
}
