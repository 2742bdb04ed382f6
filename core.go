// Package sdbmap provides a lightweight typed mapping layer over the
// AWS SDK for Go SimpleDB client.
package sdbmap

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/simpledb"
)

// AttributeMap is an alias for the decoded attribute mapping of an item.
// Values are scalars (int64, time.Time, string, decoded json), ordered
// sequences ([]string for string sets, []any otherwise), never nil.
type AttributeMap = map[string]any

// Item is a single SimpleDB item with its attributes decoded according to the
// domain schema. The caller owns the returned value; the library keeps no
// reference to it.
type Item struct {
	Name       string       // The item name (its id within the domain)
	Attributes AttributeMap // Decoded attributes, keyed by attribute name
}

// Domain contains SimpleDB domain configuration: the domain name, the declared
// attribute schema, and an optional local cache for point lookups.
type Domain struct {
	Name       string          // SimpleDB domain name
	Attributes map[string]Type // Declared attribute types; undeclared attributes decode as plain strings
	Cache      ItemCache       // Optional cache for Get; nil disables caching
}

// NewDomain creates a new Domain with the given name and attribute schema.
func NewDomain(name string, attributes map[string]Type) *Domain {
	if attributes == nil {
		attributes = map[string]Type{}
	}
	return &Domain{
		Name:       name,
		Attributes: attributes,
	}
}

// attributeType is schema lookup with string pass-through for undeclared names.
func (d *Domain) attributeType(name string) Type {
	if name == ItemName {
		return TypeString
	}
	return d.Attributes[name]
}

// UnmarshalAttributes decodes the flat attribute list of one item into an
// AttributeMap. The same attribute name may repeat in the input; repeated
// names are grouped, in first-seen order, and decoded as multi-valued.
// Attribute names absent from the schema are kept as plain strings rather
// than dropped. Decoding failures are reported as [CorruptValueError] tagged
// with the item and attribute name.
func (d *Domain) UnmarshalAttributes(itemName string, attrs []*simpledb.Attribute) (AttributeMap, error) {
	var (
		names  []string
		groups = make(map[string][]string, len(attrs))
	)

	for _, attr := range attrs {
		if attr == nil || attr.Name == nil {
			continue
		}
		name := aws.StringValue(attr.Name)
		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], aws.StringValue(attr.Value))
	}

	decoded := make(AttributeMap, len(names))
	for _, name := range names {
		value, err := decodeGroup(d.attributeType(name), groups[name])
		if err != nil {
			return nil, &CorruptValueError{ItemName: itemName, Attribute: name, Err: err}
		}
		decoded[name] = value
	}

	return decoded, nil
}

// UnmarshalItem decodes a raw select result row into an Item.
func (d *Domain) UnmarshalItem(raw *simpledb.Item) (*Item, error) {
	name := aws.StringValue(raw.Name)
	attrs, err := d.UnmarshalAttributes(name, raw.Attributes)
	if err != nil {
		return nil, err
	}
	return &Item{Name: name, Attributes: attrs}, nil
}

// Unmarshaler can extract data about itself from a decoded Item.
type Unmarshaler interface {
	// UnmarshalItem is invoked by [Unmarshal] with the decoded item.
	UnmarshalItem(*Item) error
}

// Unmarshal decodes raw into an Item using the domain schema, then applies it
// to out.
func Unmarshal(d *Domain, raw *simpledb.Item, out Unmarshaler) error {
	item, err := d.UnmarshalItem(raw)
	if err != nil {
		return err
	}
	return out.UnmarshalItem(item)
}

// SimpleDBClient interface for easier testing and connection management.
type SimpleDBClient interface {
	SelectWithContext(ctx aws.Context, input *simpledb.SelectInput, opts ...request.Option) (*simpledb.SelectOutput, error)
	GetAttributesWithContext(ctx aws.Context, input *simpledb.GetAttributesInput, opts ...request.Option) (*simpledb.GetAttributesOutput, error)
	PutAttributesWithContext(ctx aws.Context, input *simpledb.PutAttributesInput, opts ...request.Option) (*simpledb.PutAttributesOutput, error)
	DeleteAttributesWithContext(ctx aws.Context, input *simpledb.DeleteAttributesInput, opts ...request.Option) (*simpledb.DeleteAttributesOutput, error)
}
