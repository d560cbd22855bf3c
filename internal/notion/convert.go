package notion

import (
	"encoding/json"
	"sort"

	"git.home.luguber.info/inful/notionsync/internal/content"
)

// titleProperty extracts the row title. The "Name" property is preferred;
// otherwise the first property of type "title" (by sorted property name, to
// keep the fallback deterministic) is used. Rows without a title get the
// "Untitled" fallback.
func titleProperty(props map[string]property) string {
	if p, ok := props["Name"]; ok {
		if title := plainText(p.Title); title != "" {
			return title
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := props[name]
		if p.Type != "title" {
			continue
		}
		if title := plainText(p.Title); title != "" {
			return title
		}
	}

	return content.UntitledTitle
}

// typeProperty extracts the "Type" select value; missing means empty string.
func typeProperty(props map[string]property) string {
	p, ok := props["Type"]
	if !ok || p.Select == nil {
		return ""
	}
	return p.Select.Name
}

func plainText(spans []richText) string {
	out := ""
	for _, rt := range spans {
		out += spanContent(rt)
	}
	return out
}

func spanContent(rt richText) string {
	if rt.Text != nil && rt.Text.Content != "" {
		return rt.Text.Content
	}
	return rt.PlainText
}

func convertRichText(spans []richText) []content.RichTextSpan {
	if len(spans) == 0 {
		return nil
	}
	out := make([]content.RichTextSpan, 0, len(spans))
	for _, rt := range spans {
		span := content.RichTextSpan{
			Content:       spanContent(rt),
			Bold:          rt.Annotations.Bold,
			Italic:        rt.Annotations.Italic,
			Code:          rt.Annotations.Code,
			Strikethrough: rt.Annotations.Strikethrough,
		}
		if rt.Text != nil && rt.Text.Link != nil {
			span.Href = rt.Text.Link.URL
		}
		out = append(out, span)
	}
	return out
}

// convertBlock decodes one raw block object into the content model. Unknown
// block types fall through to a best-effort scan for any rich_text-bearing
// payload field; blocks with nothing to salvage are dropped.
func convertBlock(raw json.RawMessage) (content.Block, bool) {
	var env blockEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Type == "" {
		return content.Block{}, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return content.Block{}, false
	}
	payload := fields[env.Type]

	switch content.BlockType(env.Type) {
	case content.BlockParagraph, content.BlockHeading1, content.BlockHeading2,
		content.BlockHeading3, content.BlockBulletedItem, content.BlockNumberedItem,
		content.BlockToDo, content.BlockQuote, content.BlockCode:
		var tp textBlockPayload
		if err := json.Unmarshal(payload, &tp); err != nil {
			return content.Block{}, false
		}
		return content.Block{
			Type:    content.BlockType(env.Type),
			Text:    convertRichText(tp.RichText),
			Checked: tp.Checked,
			Lang:    tp.Language,
		}, true

	case content.BlockDivider:
		return content.Block{Type: content.BlockDivider}, true

	case content.BlockImage:
		var ip imageBlockPayload
		if err := json.Unmarshal(payload, &ip); err != nil {
			return content.Block{}, false
		}
		b := content.Block{Type: content.BlockImage, Caption: convertRichText(ip.Caption)}
		switch {
		case ip.External != nil:
			b.URL = ip.External.URL
		case ip.File != nil:
			b.URL = ip.File.URL
		}
		return b, true

	default:
		return salvageUnknownBlock(fields)
	}
}

// salvageUnknownBlock scans an unknown block's payload fields (in sorted key
// order, for determinism) for a rich_text array and renders the first
// non-empty one as an unsupported block.
func salvageUnknownBlock(fields map[string]json.RawMessage) (content.Block, bool) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		var tp textBlockPayload
		if err := json.Unmarshal(fields[key], &tp); err != nil {
			continue
		}
		if len(tp.RichText) == 0 {
			continue
		}
		spans := convertRichText(tp.RichText)
		if plainTextOf(spans) == "" {
			continue
		}
		return content.Block{Type: content.BlockUnsupported, Text: spans}, true
	}
	return content.Block{}, false
}

func plainTextOf(spans []content.RichTextSpan) string {
	out := ""
	for _, s := range spans {
		out += s.Content
	}
	return out
}
