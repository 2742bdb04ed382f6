package sdbmap

import (
	"context"
	"maps"
	"sort"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/simpledb"
	"github.com/google/uuid"
)

// NewItemName returns a generated unique item name, for inserts that do not
// carry a natural id.
func NewItemName() string {
	return uuid.NewString()
}

// cache entries are keyed by domain-qualified item name.
func (d *Domain) cacheKey(itemName string) string {
	return d.Name + "/" + itemName
}

// cloneAttributes copies an attribute mapping so cache entries and returned
// items never alias: callers own the items they receive and may mutate them
// freely. Values themselves are treated as immutable.
func cloneAttributes(attrs AttributeMap) AttributeMap {
	return maps.Clone(attrs)
}

// MarshalGet marshals a point lookup request for the named item.
func (d *Domain) MarshalGet(itemName string, consistent bool) *simpledb.GetAttributesInput {
	input := &simpledb.GetAttributesInput{
		DomainName: aws.String(d.Name),
		ItemName:   aws.String(itemName),
	}
	if consistent {
		input.ConsistentRead = aws.Bool(true)
	}
	return input
}

// Get retrieves a single item by name. With consistent false, the local cache
// is probed first and a hit avoids the network entirely; with consistent true
// the cache is bypassed and the store is asked for a consistent read, since a
// caller requesting one is exactly a caller that must not be served possibly
// stale state. Either way a successful fetch populates the cache, so a later
// non-consistent read can benefit.
//
// An item with no attributes does not exist: Get returns [ErrItemNotFound]
// and caches nothing, so a subsequent write is not masked by a stale negative
// entry.
func (d *Domain) Get(ctx context.Context, client SimpleDBClient, itemName string, consistent bool) (*Item, error) {
	if !consistent && d.Cache != nil {
		if attrs, ok := d.Cache.Get(d.cacheKey(itemName)); ok {
			return &Item{Name: itemName, Attributes: cloneAttributes(attrs)}, nil
		}
	}

	out, err := client.GetAttributesWithContext(ctx, d.MarshalGet(itemName, consistent))
	if err != nil {
		return nil, err
	}
	if len(out.Attributes) == 0 {
		return nil, ErrItemNotFound
	}

	attrs, err := d.UnmarshalAttributes(itemName, out.Attributes)
	if err != nil {
		return nil, err
	}

	if d.Cache != nil {
		d.Cache.Add(d.cacheKey(itemName), cloneAttributes(attrs))
	}
	return &Item{Name: itemName, Attributes: attrs}, nil
}

// MarshalPut encodes attrs through the domain schema into a replace-mode put
// request. Attributes are emitted in sorted name order, nil values emit no
// attribute at all, and oversized text values are split into chunks.
func (d *Domain) MarshalPut(itemName string, attrs AttributeMap) (*simpledb.PutAttributesInput, error) {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	var replaceable []*simpledb.ReplaceableAttribute
	for _, name := range names {
		values, err := d.encodeAttribute(name, attrs[name])
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			replaceable = append(replaceable, &simpledb.ReplaceableAttribute{
				Name:    aws.String(name),
				Value:   aws.String(v),
				Replace: aws.Bool(true),
			})
		}
	}

	return &simpledb.PutAttributesInput{
		DomainName: aws.String(d.Name),
		ItemName:   aws.String(itemName),
		Attributes: replaceable,
	}, nil
}

func (d *Domain) encodeAttribute(name string, value any) ([]string, error) {
	t := d.attributeType(name)
	// Undeclared multi-valued attributes round-trip as string slices.
	if vs, ok := value.([]string); ok && t == TypeString {
		t = TypeStringSet
		value = vs
	}
	return encodeValues(t, value)
}

// Put writes attrs to the named item, replacing existing values. An empty
// itemName gets a generated name, which is returned either way. The cache
// entry for the item is overwritten on success.
func (d *Domain) Put(ctx context.Context, client SimpleDBClient, itemName string, attrs AttributeMap) (string, error) {
	if itemName == "" {
		itemName = NewItemName()
	}

	input, err := d.MarshalPut(itemName, attrs)
	if err != nil {
		return "", err
	}
	if _, err := client.PutAttributesWithContext(ctx, input); err != nil {
		return "", err
	}

	if d.Cache != nil {
		// Cache the decoded form of what was just written, so cached reads
		// are indistinguishable from decoded fetches: an int attribute is
		// served as int64 either way, never as the caller's original value,
		// and the cache never shares a map with the caller.
		stored := make([]*simpledb.Attribute, 0, len(input.Attributes))
		for _, attr := range input.Attributes {
			stored = append(stored, &simpledb.Attribute{Name: attr.Name, Value: attr.Value})
		}
		if decoded, err := d.UnmarshalAttributes(itemName, stored); err != nil {
			d.Cache.Remove(d.cacheKey(itemName))
		} else {
			d.Cache.Add(d.cacheKey(itemName), decoded)
		}
	}
	return itemName, nil
}

// MarshalDelete marshals a request deleting the named item outright.
func (d *Domain) MarshalDelete(itemName string) *simpledb.DeleteAttributesInput {
	return &simpledb.DeleteAttributesInput{
		DomainName: aws.String(d.Name),
		ItemName:   aws.String(itemName),
	}
}

// Delete removes the named item and its cache entry.
func (d *Domain) Delete(ctx context.Context, client SimpleDBClient, itemName string) error {
	if _, err := client.DeleteAttributesWithContext(ctx, d.MarshalDelete(itemName)); err != nil {
		return err
	}
	if d.Cache != nil {
		d.Cache.Remove(d.cacheKey(itemName))
	}
	return nil
}
