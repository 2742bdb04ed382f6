package sdbmap

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/service/simpledb"

	"github.com/tmarsden/sdbmap/sdbmock"
)

func TestNewDomain(t *testing.T) {
	domain := NewDomain("orders", nil)

	if domain.Name != "orders" {
		t.Errorf("expected domain name 'orders', got %s", domain.Name)
	}
	if domain.Attributes == nil {
		t.Error("expected non-nil attribute schema")
	}
	if domain.Cache != nil {
		t.Error("expected no cache by default")
	}
}

func TestUnmarshalAttributes(t *testing.T) {
	domain := testDomain()

	t.Run("scalar attributes", func(t *testing.T) {
		placed := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
		attrs, err := domain.UnmarshalAttributes("order-1", []*simpledb.Attribute{
			sdbmock.Attr("status", "open"),
			sdbmock.Attr("total", encodeInt(250)),
			sdbmock.Attr("placed", encodeTime(placed)),
		})
		if err != nil {
			t.Fatalf("UnmarshalAttributes failed: %v", err)
		}

		if attrs["status"] != "open" {
			t.Errorf("unexpected status: %v", attrs["status"])
		}
		if attrs["total"] != int64(250) {
			t.Errorf("unexpected total: %v", attrs["total"])
		}
		if ts, ok := attrs["placed"].(time.Time); !ok || !ts.Equal(placed) {
			t.Errorf("unexpected placed: %v", attrs["placed"])
		}
	})

	t.Run("repeated names become multi-valued", func(t *testing.T) {
		attrs, err := domain.UnmarshalAttributes("order-1", []*simpledb.Attribute{
			sdbmock.Attr("tags", "a"),
			sdbmock.Attr("tags", "b"),
			sdbmock.Attr("tags", "c"),
		})
		if err != nil {
			t.Fatalf("UnmarshalAttributes failed: %v", err)
		}

		tags, ok := attrs["tags"].([]string)
		if !ok {
			t.Fatalf("expected []string, got %T", attrs["tags"])
		}
		// The store does not guarantee value order, so compare as a set.
		sort.Strings(tags)
		if len(tags) != 3 || tags[0] != "a" || tags[1] != "b" || tags[2] != "c" {
			t.Errorf("unexpected tags: %v", tags)
		}
	})

	t.Run("text chunks reassemble in index order", func(t *testing.T) {
		attrs, err := domain.UnmarshalAttributes("order-1", []*simpledb.Attribute{
			sdbmock.Attr("note", "001:world"),
			sdbmock.Attr("note", "000:hello "),
		})
		if err != nil {
			t.Fatalf("UnmarshalAttributes failed: %v", err)
		}
		if attrs["note"] != "hello world" {
			t.Errorf("unexpected note: %v", attrs["note"])
		}
	})

	t.Run("undeclared attributes pass through", func(t *testing.T) {
		attrs, err := domain.UnmarshalAttributes("order-1", []*simpledb.Attribute{
			sdbmock.Attr("legacy_field", "raw value"),
		})
		if err != nil {
			t.Fatalf("UnmarshalAttributes failed: %v", err)
		}
		if attrs["legacy_field"] != "raw value" {
			t.Errorf("undeclared attribute was not preserved: %v", attrs["legacy_field"])
		}
	})

	t.Run("corrupt value names the item and attribute", func(t *testing.T) {
		_, err := domain.UnmarshalAttributes("order-1", []*simpledb.Attribute{
			sdbmock.Attr("total", "not a number"),
		})

		var cerr *CorruptValueError
		if !errors.As(err, &cerr) {
			t.Fatalf("expected CorruptValueError, got %v", err)
		}
		if cerr.ItemName != "order-1" || cerr.Attribute != "total" {
			t.Errorf("error tagged with %q/%q, want order-1/total", cerr.ItemName, cerr.Attribute)
		}
		var ferr *FormatError
		if !errors.As(err, &ferr) {
			t.Error("expected CorruptValueError to wrap a FormatError")
		}
	})

	t.Run("nil entries are skipped", func(t *testing.T) {
		attrs, err := domain.UnmarshalAttributes("order-1", []*simpledb.Attribute{
			nil,
			sdbmock.Attr("status", "open"),
			{Name: nil},
		})
		if err != nil {
			t.Fatalf("UnmarshalAttributes failed: %v", err)
		}
		if len(attrs) != 1 {
			t.Errorf("expected 1 attribute, got %d", len(attrs))
		}
	})
}

func TestUnmarshalItem(t *testing.T) {
	domain := testDomain()

	item, err := domain.UnmarshalItem(sdbmock.NewItem("order-9",
		sdbmock.Attr("status", "open"),
	))
	if err != nil {
		t.Fatalf("UnmarshalItem failed: %v", err)
	}
	if item.Name != "order-9" {
		t.Errorf("unexpected item name: %s", item.Name)
	}
	if item.Attributes["status"] != "open" {
		t.Errorf("unexpected status: %v", item.Attributes["status"])
	}
}

type testOrder struct {
	ID     string
	Status string
	Total  int64
}

func (o *testOrder) UnmarshalItem(item *Item) error {
	o.ID = item.Name
	if s, ok := item.Attributes["status"].(string); ok {
		o.Status = s
	}
	total, ok := item.Attributes["total"].(int64)
	if !ok {
		return fmt.Errorf("order %s has no total", item.Name)
	}
	o.Total = total
	return nil
}

func TestUnmarshal(t *testing.T) {
	domain := testDomain()

	t.Run("decodes into the target", func(t *testing.T) {
		var order testOrder
		err := Unmarshal(domain, sdbmock.NewItem("order-9",
			sdbmock.Attr("status", "open"),
			sdbmock.Attr("total", encodeInt(250)),
		), &order)
		if err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if order.ID != "order-9" || order.Status != "open" || order.Total != 250 {
			t.Errorf("unexpected order: %+v", order)
		}
	})

	t.Run("target errors propagate", func(t *testing.T) {
		var order testOrder
		err := Unmarshal(domain, sdbmock.NewItem("order-9"), &order)
		if err == nil {
			t.Error("expected error from target")
		}
	})
}
