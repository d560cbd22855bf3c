package notion

import "encoding/json"

// Wire types for the Notion API. Block and property payloads are tagged
// unions with a "type" discriminator key; the payload lives under a key named
// after the discriminator value, so blocks are decoded in two steps via
// json.RawMessage.

// queryRequest is the POST body for a database query.
type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// queryResponse is one page of database query results.
type queryResponse struct {
	Results    []pageObject `json:"results"`
	HasMore    bool         `json:"has_more"`
	NextCursor string       `json:"next_cursor"`
}

// pageObject is one database row.
type pageObject struct {
	ID         string              `json:"id"`
	Properties map[string]property `json:"properties"`
}

// property covers the property variants notionsync consumes. Only the payload
// matching Type is populated.
type property struct {
	Type     string        `json:"type"`
	Title    []richText    `json:"title"`
	RichText []richText    `json:"rich_text"`
	Select   *selectOption `json:"select"`
}

type selectOption struct {
	Name string `json:"name"`
}

// blockListResponse is one page of block children.
type blockListResponse struct {
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor string            `json:"next_cursor"`
}

// blockEnvelope carries just the discriminator of a block object.
type blockEnvelope struct {
	Type string `json:"type"`
}

// textBlockPayload is the shared payload shape of the rich-text-bearing block
// variants (paragraph, headings, list items, to_do, quote, code).
type textBlockPayload struct {
	RichText []richText `json:"rich_text"`
	Checked  bool       `json:"checked"`
	Language string     `json:"language"`
}

// imageBlockPayload is the image variant payload; the URL lives under
// "external" or "file" depending on where the asset is hosted.
type imageBlockPayload struct {
	Type     string      `json:"type"`
	External *urlPayload `json:"external"`
	File     *urlPayload `json:"file"`
	Caption  []richText  `json:"caption"`
}

type urlPayload struct {
	URL string `json:"url"`
}

// richText is one span of annotated text.
type richText struct {
	Type        string       `json:"type"`
	Text        *textPayload `json:"text"`
	Annotations annotations  `json:"annotations"`
	PlainText   string       `json:"plain_text"`
}

type textPayload struct {
	Content string       `json:"content"`
	Link    *linkPayload `json:"link"`
}

type linkPayload struct {
	URL string `json:"url"`
}

type annotations struct {
	Bold          bool `json:"bold"`
	Italic        bool `json:"italic"`
	Strikethrough bool `json:"strikethrough"`
	Underline     bool `json:"underline"`
	Code          bool `json:"code"`
}
