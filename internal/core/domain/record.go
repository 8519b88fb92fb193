package domain

// FieldKind tags the variant held by a FieldValue.
type FieldKind int

const (
	// FieldString is a primitive value. Rich text and JSON-encoded
	// custom fields are strings too.
	FieldString FieldKind = iota

	// FieldRecord is a single linked record.
	FieldRecord

	// FieldList is an ordered list of linked records.
	FieldList
)

// FieldValue is one value in a record's field bag.
// Exactly one of the variants is populated, as indicated by Kind.
type FieldValue struct {
	Kind   FieldKind
	str    string
	record *ContentRecord
	list   []ContentRecord
}

// StringField wraps a primitive value.
func StringField(s string) FieldValue {
	return FieldValue{Kind: FieldString, str: s}
}

// RecordField wraps a nested record.
func RecordField(r ContentRecord) FieldValue {
	return FieldValue{Kind: FieldRecord, record: &r}
}

// ListField wraps an ordered list of nested records.
func ListField(items []ContentRecord) FieldValue {
	return FieldValue{Kind: FieldList, list: items}
}

// Text returns the primitive value and true if the field holds one.
func (v FieldValue) Text() (string, bool) {
	if v.Kind != FieldString {
		return "", false
	}
	return v.str, true
}

// Record returns the nested record and true if the field holds one.
func (v FieldValue) Record() (*ContentRecord, bool) {
	if v.Kind != FieldRecord || v.record == nil {
		return nil, false
	}
	return v.record, true
}

// List returns the nested records and true if the field holds a list.
func (v FieldValue) List() ([]ContentRecord, bool) {
	if v.Kind != FieldList {
		return nil, false
	}
	return v.list, true
}

// Field is one named entry in a record's field bag.
type Field struct {
	Name  string
	Value FieldValue
}

// Fields is the free-form field bag of a record, in source order.
type Fields []Field

// Get returns the named field.
func (f Fields) Get(name string) (FieldValue, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return FieldValue{}, false
}

// String returns the named primitive field, or "" if absent or not a string.
func (f Fields) String(name string) string {
	v, ok := f.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.Text()
	return s
}

// FirstString returns the first non-empty primitive field among names.
func (f Fields) FirstString(names ...string) string {
	for _, name := range names {
		if s := f.String(name); s != "" {
			return s
		}
	}
	return ""
}

// SEO holds the page-level search metadata.
type SEO struct {
	MetaDescription string
	MetaKeywords    string
}

// ContentRecord is a structured entry fetched from the content source.
// Pages carry Name, Title, SEO and Modules; content items carry Fields.
// Modules on a page are themselves records (the module's content item).
type ContentRecord struct {
	// ID is the page ID or content ID.
	ID int

	// Name is the page's internal name, the last segment of its path.
	Name string

	// Title is the page title.
	Title string

	// ReferenceName is the content-type tag (e.g. "blogposts").
	ReferenceName string

	// DefinitionName is the content definition (e.g. "OverrideSEO").
	DefinitionName string

	// Fields is the record's field bag.
	Fields Fields

	// SEO is the page's own SEO metadata.
	SEO SEO

	// Modules is the ordered module list of the page's main content zone.
	Modules []ContentRecord
}

// FindModule returns the first module with the given definition name.
func (r *ContentRecord) FindModule(definitionName string) (*ContentRecord, bool) {
	for i := range r.Modules {
		if r.Modules[i].DefinitionName == definitionName {
			return &r.Modules[i], true
		}
	}
	return nil, false
}
