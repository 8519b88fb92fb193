package agility

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/searchsync/internal/core/domain"
)

// mainContentZone is the page zone whose modules are indexed.
const mainContentZone = "MainContentZone"

// wirePage is the Fetch API page shape.
type wirePage struct {
	PageID int    `json:"pageID"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	SEO    struct {
		MetaDescription string `json:"metaDescription"`
		MetaKeywords    string `json:"metaKeywords"`
	} `json:"seo"`
	Zones map[string][]wireModule `json:"zones"`
}

// wireModule is one entry in a page zone.
type wireModule struct {
	Module string          `json:"module"`
	Item   json.RawMessage `json:"item"`
}

// wireItem is the Fetch API content item shape.
type wireItem struct {
	ContentID  int `json:"contentID"`
	Properties struct {
		ReferenceName  string `json:"referenceName"`
		DefinitionName string `json:"definitionName"`
	} `json:"properties"`
	Fields wireFields `json:"fields"`
}

// wireSitemapEntry is one value of the flattened sitemap.
type wireSitemapEntry struct {
	PageID    int    `json:"pageID"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Title     string `json:"title"`
	ContentID int    `json:"contentID"`
}

// wireFields decodes a field bag while keeping key order.
type wireFields domain.Fields

// UnmarshalJSON walks the object token by token so keys keep source order.
func (f *wireFields) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fields: expected object, got %v", tok)
	}

	fields := domain.Fields{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("fields: expected key, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("fields: %s: %w", key, err)
		}
		value, ok, err := decodeValue(raw)
		if err != nil {
			return fmt.Errorf("fields: %s: %w", key, err)
		}
		if ok {
			fields = append(fields, domain.Field{Name: key, Value: value})
		}
	}

	*f = wireFields(fields)
	return nil
}

// decodeValue maps a raw JSON value to a field value. Nulls are dropped.
// Numbers and booleans keep their JSON text.
func decodeValue(raw json.RawMessage) (domain.FieldValue, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return domain.FieldValue{}, false, nil
	}

	switch raw[0] {
	case 'n':
		return domain.FieldValue{}, false, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return domain.FieldValue{}, false, err
		}
		return domain.StringField(s), true, nil
	case '{':
		record, err := decodeRecord(raw)
		if err != nil {
			return domain.FieldValue{}, false, err
		}
		return domain.RecordField(record), true, nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return domain.FieldValue{}, false, err
		}
		items := make([]domain.ContentRecord, 0, len(elems))
		for _, elem := range elems {
			item, ok, err := decodeListElement(elem)
			if err != nil {
				return domain.FieldValue{}, false, err
			}
			if ok {
				items = append(items, item)
			}
		}
		return domain.ListField(items), true, nil
	default:
		return domain.StringField(string(raw)), true, nil
	}
}

// decodeListElement turns a list element into a record. Primitive
// elements become a record with a single "value" field.
func decodeListElement(raw json.RawMessage) (domain.ContentRecord, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		record, err := decodeRecord(raw)
		return record, err == nil, err
	}
	value, ok, err := decodeValue(raw)
	if err != nil || !ok {
		return domain.ContentRecord{}, false, err
	}
	return domain.ContentRecord{Fields: domain.Fields{{Name: "value", Value: value}}}, true, nil
}

// decodeRecord decodes a linked content item, or any other object such as
// an image or link, whose keys then become the record's fields.
func decodeRecord(raw json.RawMessage) (domain.ContentRecord, error) {
	var probe struct {
		Fields json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.ContentRecord{}, err
	}

	if probe.Fields != nil {
		var item wireItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return domain.ContentRecord{}, err
		}
		return item.toRecord(), nil
	}

	var fields wireFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.ContentRecord{}, err
	}
	return domain.ContentRecord{Fields: domain.Fields(fields)}, nil
}

func (w *wireItem) toRecord() domain.ContentRecord {
	return domain.ContentRecord{
		ID:             w.ContentID,
		ReferenceName:  w.Properties.ReferenceName,
		DefinitionName: w.Properties.DefinitionName,
		Fields:         domain.Fields(w.Fields),
	}
}

func (w *wirePage) toRecord() (*domain.ContentRecord, error) {
	record := &domain.ContentRecord{
		ID:    w.PageID,
		Name:  w.Name,
		Title: w.Title,
		SEO: domain.SEO{
			MetaDescription: w.SEO.MetaDescription,
			MetaKeywords:    w.SEO.MetaKeywords,
		},
	}

	for i, module := range w.Zones[mainContentZone] {
		if len(module.Item) == 0 || string(module.Item) == "null" {
			continue
		}
		item, err := decodeRecord(module.Item)
		if err != nil {
			return nil, fmt.Errorf("module %d (%s): %w", i, module.Module, err)
		}
		if item.DefinitionName == "" {
			item.DefinitionName = module.Module
		}
		record.Modules = append(record.Modules, item)
	}
	return record, nil
}

func toSitemapIndex(flat map[string]wireSitemapEntry) domain.SitemapIndex {
	index := make(domain.SitemapIndex, len(flat))
	for key, entry := range flat {
		path := entry.Path
		if path == "" {
			path = key
		}
		index[key] = domain.SitemapEntry{
			PageID:    entry.PageID,
			Name:      entry.Name,
			Path:      path,
			Title:     entry.Title,
			ContentID: entry.ContentID,
		}
	}
	return index
}
