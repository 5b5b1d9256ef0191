package sapi

import (
	"net/url"
	"strconv"
	"strings"
)

// ListOptions expresses offset/limit paging and sort direction for list
// endpoints. The zero value asks for the server's defaults. Instances are
// treated as immutable: the pagination engine derives the next page's
// options from the previous response instead of mutating in place.
type ListOptions struct {
	// Offset is the number of items to skip. Zero starts at the beginning.
	Offset int64
	// Limit is the page size. Zero lets the server choose.
	Limit int64
	// Desc reverses the sort order when true. The direction is carried
	// across pages for the lifetime of one iteration, since offset paging
	// is only stable under a fixed sort order.
	Desc bool
	// ExclusiveStartKey is used by key-value store key listings instead of
	// a numeric offset.
	ExclusiveStartKey string
	// Fields optionally restricts returned item fields (dataset items).
	Fields []string
	// Status filters runs by status where supported.
	Status string
}

// NewListOptions creates empty list options.
func NewListOptions() *ListOptions {
	return &ListOptions{}
}

// WithOffset sets the offset.
func (o *ListOptions) WithOffset(offset int64) *ListOptions {
	o.Offset = offset

	return o
}

// WithLimit sets the page size.
func (o *ListOptions) WithLimit(limit int64) *ListOptions {
	o.Limit = limit

	return o
}

// WithDesc sets descending sort order.
func (o *ListOptions) WithDesc(desc bool) *ListOptions {
	o.Desc = desc

	return o
}

// ToValues converts the options to URL query values. Zero-valued fields are
// dropped before transmission.
func (o *ListOptions) ToValues() url.Values {
	values := url.Values{}

	if o == nil {
		return values
	}

	if o.Offset > 0 {
		values.Set("offset", strconv.FormatInt(o.Offset, 10))
	}

	if o.Limit > 0 {
		values.Set("limit", strconv.FormatInt(o.Limit, 10))
	}

	if o.Desc {
		values.Set("desc", "true")
	}

	if o.ExclusiveStartKey != "" {
		values.Set("exclusiveStartKey", o.ExclusiveStartKey)
	}

	if len(o.Fields) > 0 {
		values.Set("fields", strings.Join(o.Fields, ","))
	}

	if o.Status != "" {
		values.Set("status", o.Status)
	}

	return values
}

// clone returns a copy so derived page options never alias the caller's.
func (o *ListOptions) clone() *ListOptions {
	if o == nil {
		return &ListOptions{}
	}

	copied := *o
	copied.Fields = append([]string(nil), o.Fields...)

	return &copied
}
