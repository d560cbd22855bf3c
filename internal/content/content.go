// Package content defines the block-level content model produced by the
// Notion fetch layer and consumed by the Markdown renderer.
package content

// BlockType discriminates the closed set of block variants.
type BlockType string

const (
	BlockParagraph    BlockType = "paragraph"
	BlockHeading1     BlockType = "heading_1"
	BlockHeading2     BlockType = "heading_2"
	BlockHeading3     BlockType = "heading_3"
	BlockBulletedItem BlockType = "bulleted_list_item"
	BlockNumberedItem BlockType = "numbered_list_item"
	BlockToDo         BlockType = "to_do"
	BlockQuote        BlockType = "quote"
	BlockCode         BlockType = "code"
	BlockDivider      BlockType = "divider"
	BlockImage        BlockType = "image"
	// BlockUnsupported carries whatever rich text could be salvaged from a
	// block type the decoder does not know.
	BlockUnsupported BlockType = "unsupported"
)

// RichTextSpan is one formatted run of text within a block.
type RichTextSpan struct {
	Content       string
	Bold          bool
	Italic        bool
	Code          bool
	Strikethrough bool
	Href          string // hyperlink target, empty when the span is not linked
}

// Block is a tagged union over the supported Notion block variants. Type
// selects the variant; the other fields are populated per variant:
//
//	paragraph, heading_*, *_list_item, to_do, quote, code, unsupported: Text
//	to_do:  Checked
//	code:   Language
//	image:  URL, Caption
//	divider: no payload
type Block struct {
	Type    BlockType
	Text    []RichTextSpan
	Checked bool
	Lang    string
	URL     string
	Caption []RichTextSpan
}

// PageRecord is one database row with its fully fetched block content.
type PageRecord struct {
	ID        string
	Title     string // "Untitled" when the source row has no title
	TypeLabel string // empty when the source row has no Type property
	Blocks    []Block
}

const (
	// UntitledTitle is the fallback title for rows without one. Pages with
	// this title do not get an H1 heading in the rendered body.
	UntitledTitle = "Untitled"

	// HomeType is the reserved type label selecting the site's root document.
	HomeType = "Home"
)

// IsHome reports whether the record targets the site's root document.
func (p PageRecord) IsHome() bool { return p.TypeLabel == HomeType }
