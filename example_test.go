package sdbmap

import (
	"fmt"
	"log"
)

// Example demonstrates compiling a structured query into a select expression
func Example() {
	// This example shows the API without making actual AWS calls

	// Declare the domain schema
	domain := NewDomain("orders", map[string]Type{
		"status": TypeString,
		"total":  TypeInt,
		"tags":   TypeStringSet,
	})

	// Build a query from structured parts
	q := &Select{
		Where: []Condition{
			Where("status", OpEqual, "open"),
		},
		OrderBy: []Order{{Attribute: "status"}},
		Limit:   25,
	}

	input, err := domain.MarshalSelect(q)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(*input.SelectExpression)

	// Output:
	// select * from `orders` where `status` = 'open' order by `status` asc limit 25
}

// Example_put demonstrates marshaling typed attributes for a write
func Example_put() {
	domain := NewDomain("orders", map[string]Type{
		"status": TypeString,
		"tags":   TypeStringSet,
	})

	input, err := domain.MarshalPut("order-1", AttributeMap{
		"status": "open",
		"tags":   []string{"rush", "gift"},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Put targets domain: %s\n", *input.DomainName)
	fmt.Printf("Attribute values written: %d\n", len(input.Attributes))

	// Output:
	// Put targets domain: orders
	// Attribute values written: 3
}

// Example_ordering demonstrates that encoded integers sort as numbers
func Example_ordering() {
	domain := NewDomain("orders", map[string]Type{"total": TypeInt})

	nine, _ := domain.MarshalPut("a", AttributeMap{"total": 9})
	ten, _ := domain.MarshalPut("b", AttributeMap{"total": 10})

	fmt.Println(*nine.Attributes[0].Value < *ten.Attributes[0].Value)

	// Output:
	// true
}
