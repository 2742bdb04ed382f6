package sdbmap

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go/service/simpledb"
)

// Cursor is a lazy, forward-only sequence over the items matched by a select
// expression. It fetches one result page at a time and follows the store's
// continuation token when a page is exhausted. A Cursor cannot be rewound;
// construct a new one from the same Select to start over.
//
// A Cursor is not safe for concurrent use. Independent cursors over the same
// domain are independent.
type Cursor struct {
	client SimpleDBClient
	domain *Domain
	input  *simpledb.SelectInput

	page      []*simpledb.Item
	index     int
	nextToken *string
	fetched   bool
	exhausted bool
}

// Query compiles q and returns a cursor over its results. Compilation errors
// are reported here, before any network call; the first page is not fetched
// until [Cursor.Next] is called.
func (d *Domain) Query(client SimpleDBClient, q *Select) (*Cursor, error) {
	if q == nil {
		q = &Select{}
	}
	input, err := d.MarshalSelect(q)
	if err != nil {
		return nil, err
	}
	return &Cursor{client: client, domain: d, input: input}, nil
}

// Next returns the next item in the result set, fetching further pages on
// demand. It returns [Done] once the result set is exhausted; exhaustion is
// terminal and later calls return Done without issuing network calls.
//
// A transport failure leaves the cursor state untouched, so calling Next
// again retries the same fetch. A decoding failure consumes the offending
// row and returns a [CorruptValueError]; calling Next again moves on to the
// following row, leaving skip-or-abort policy to the caller.
func (c *Cursor) Next(ctx context.Context) (*Item, error) {
	for {
		if c.exhausted {
			return nil, Done
		}

		if !c.fetched || c.index >= len(c.page) {
			if c.fetched && c.nextToken == nil {
				c.exhausted = true
				c.page = nil
				return nil, Done
			}

			// Re-issue the compiled expression; the continuation token is
			// passed back byte for byte.
			input := *c.input
			if c.fetched {
				input.NextToken = c.nextToken
			}

			out, err := c.client.SelectWithContext(ctx, &input)
			if err != nil {
				return nil, err
			}

			c.fetched = true
			c.page = out.Items
			c.index = 0
			c.nextToken = out.NextToken
			continue
		}

		raw := c.page[c.index]
		c.index++

		item, err := c.domain.UnmarshalItem(raw)
		if err != nil {
			return nil, err
		}
		return item, nil
	}
}

// CollectAll drains the cursor and returns every remaining item.
func CollectAll(ctx context.Context, c *Cursor) ([]*Item, error) {
	var items []*Item
	for {
		item, err := c.Next(ctx)
		if errors.Is(err, Done) {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
}

// Count runs q as a count query and returns the number of matching items.
// SimpleDB may split a count across result pages, so partial counts are
// summed until no continuation token remains. The count rows are read
// directly rather than through the domain schema; the store reports them as
// a pseudo-item holding a single "Count" attribute with a plain decimal.
func (d *Domain) Count(ctx context.Context, client SimpleDBClient, q *Select) (int64, error) {
	spec := Select{}
	if q != nil {
		spec = *q
	}
	spec.Output = SelectCount()

	input, err := d.MarshalSelect(&spec)
	if err != nil {
		return 0, err
	}

	var total int64
	for {
		out, err := client.SelectWithContext(ctx, input)
		if err != nil {
			return 0, err
		}

		for _, raw := range out.Items {
			n, err := parseCountItem(raw)
			if err != nil {
				return 0, err
			}
			total += n
		}

		if out.NextToken == nil {
			return total, nil
		}
		next := *input
		next.NextToken = out.NextToken
		input = &next
	}
}

func parseCountItem(raw *simpledb.Item) (int64, error) {
	for _, attr := range raw.Attributes {
		if attr == nil || attr.Name == nil || *attr.Name != "Count" {
			continue
		}
		s := ""
		if attr.Value != nil {
			s = *attr.Value
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("sdbmap: malformed count %q: %w", s, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("sdbmap: count result missing Count attribute")
}
