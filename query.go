package sdbmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/simpledb"
)

const (
	// ItemName is the reserved pseudo-attribute addressing an item's own name.
	// It may be used in predicates and in ordering, and always renders as the
	// store's itemName() selector rather than a quoted attribute name.
	ItemName = "itemName()"

	// MaxSelectLimit is the largest limit SimpleDB accepts in a select expression.
	MaxSelectLimit = 2500
)

// Operator is a comparison operator usable in a where clause.
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "!="
	OpLessThan       Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreaterThan    Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLike           Operator = "like"
	OpNotLike        Operator = "not like"
	OpIn             Operator = "in"
	OpBetween        Operator = "between"
	OpIsNull         Operator = "is null"
	OpIsNotNull      Operator = "is not null"
)

// Condition is one node of a where-clause predicate tree. Conditions are
// built with [Where], [And], and [Or].
type Condition interface {
	render(d *Domain, sb *strings.Builder) error
	// constrained records attribute names usable as sort keys. SimpleDB only
	// sorts on attributes constrained by a predicate other than "is null".
	constrained(attrs map[string]bool)
}

// comparison is a leaf condition binding one attribute to an operator and
// its literals.
type comparison struct {
	attr   string
	op     Operator
	values []any
}

// Where creates a leaf condition comparing attr against the given literals.
// Literal arity depends on the operator: none for OpIsNull and OpIsNotNull,
// exactly two for OpBetween, one or more for OpIn, and exactly one otherwise.
// Literals are encoded per the attribute's declared type, so string order in
// the store matches the typed comparison the caller intends.
func Where(attr string, op Operator, values ...any) Condition {
	return &comparison{attr: attr, op: op, values: values}
}

func (c *comparison) render(d *Domain, sb *strings.Builder) error {
	encoded := make([]string, 0, len(c.values))
	for _, v := range c.values {
		literal, err := encodeLiteral(d.attributeType(c.attr), v)
		if err != nil {
			return fmt.Errorf("encode literal for %q: %w", c.attr, err)
		}
		encoded = append(encoded, quoteValue(literal))
	}

	name := renderAttribute(c.attr)

	switch c.op {
	case OpIsNull, OpIsNotNull:
		if len(encoded) != 0 {
			return arityError(c.op, "no literals", len(encoded))
		}
		fmt.Fprintf(sb, "%s %s", name, c.op)
	case OpBetween:
		if len(encoded) != 2 {
			return arityError(c.op, "exactly two literals", len(encoded))
		}
		fmt.Fprintf(sb, "%s between %s and %s", name, encoded[0], encoded[1])
	case OpIn:
		if len(encoded) == 0 {
			return arityError(c.op, "at least one literal", len(encoded))
		}
		fmt.Fprintf(sb, "%s in (%s)", name, strings.Join(encoded, ","))
	case OpEqual, OpNotEqual, OpLessThan, OpLessOrEqual, OpGreaterThan, OpGreaterOrEqual, OpLike, OpNotLike:
		if len(encoded) != 1 {
			return arityError(c.op, "exactly one literal", len(encoded))
		}
		fmt.Fprintf(sb, "%s %s %s", name, c.op, encoded[0])
	default:
		return fmt.Errorf("unknown operator %q: %w", c.op, ErrInvalidParameter)
	}

	return nil
}

func (c *comparison) constrained(attrs map[string]bool) {
	if c.op != OpIsNull {
		attrs[c.attr] = true
	}
}

func arityError(op Operator, want string, got int) error {
	return fmt.Errorf("operator %q wants %s, got %d: %w", op, want, got, ErrInvalidParameter)
}

// group combines child conditions with a single combinator.
type group struct {
	op    string
	conds []Condition
}

// And combines conditions so that all of them must hold.
func And(conds ...Condition) Condition {
	return &group{op: "and", conds: conds}
}

// Or combines conditions so that at least one of them must hold.
func Or(conds ...Condition) Condition {
	return &group{op: "or", conds: conds}
}

func (g *group) render(d *Domain, sb *strings.Builder) error {
	if len(g.conds) == 0 {
		return fmt.Errorf("empty %s group: %w", g.op, ErrInvalidParameter)
	}
	return renderJoined(d, sb, g.op, g.conds)
}

func (g *group) constrained(attrs map[string]bool) {
	for _, c := range g.conds {
		c.constrained(attrs)
	}
}

// renderJoined writes conds joined by op. Nested groups are always
// parenthesized; SimpleDB's own precedence rules are never relied on.
func renderJoined(d *Domain, sb *strings.Builder, op string, conds []Condition) error {
	for i, c := range conds {
		if i > 0 {
			fmt.Fprintf(sb, " %s ", op)
		}
		_, nested := c.(*group)
		if nested {
			sb.WriteString("(")
		}
		if err := c.render(d, sb); err != nil {
			return err
		}
		if nested {
			sb.WriteString(")")
		}
	}
	return nil
}

// Order is one element of an order-by clause.
type Order struct {
	Attribute  string // Attribute name, or ItemName
	Descending bool   // Sort direction (default: ascending)
}

// Output selects what a query returns: every attribute (the default), a
// single attribute, or an item count.
type Output struct {
	count bool
	attr  string
}

// SelectAll returns an output projection covering every attribute.
func SelectAll() Output { return Output{} }

// SelectCount returns an output projection counting matching items. Use
// [Domain.Count] to read the result.
func SelectCount() Output { return Output{count: true} }

// SelectAttribute returns an output projection limited to a single attribute.
func SelectAttribute(name string) Output { return Output{attr: name} }

func (o Output) render() string {
	if o.count {
		return "count(*)"
	}
	if o.attr != "" {
		return renderAttribute(o.attr)
	}
	return "*"
}

// Select specifies a domain query: an optional predicate tree, ordering,
// limit, output projection, and consistency flag. The zero value selects
// every item in the domain.
type Select struct {
	Where          []Condition // Conditions joined with "and"; use Or for alternatives
	OrderBy        []Order     // Sort order; each attribute must be constrained in Where
	Limit          int         // Maximum number of items to return; 0 means no limit
	Output         Output      // Output projection (default: all attributes)
	ConsistentRead bool        // If true, a consistent read is requested
	NextToken      string      // Continuation token from a previous result page
}

// MarshalSelect compiles the query into a SimpleDB select request. All
// validation happens here, before any network call; compiling the same query
// twice yields identical expressions.
func (d *Domain) MarshalSelect(q *Select) (*simpledb.SelectInput, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "select %s from %s", q.Output.render(), quoteName(d.Name))

	if len(q.Where) > 0 {
		sb.WriteString(" where ")
		if err := renderJoined(d, &sb, "and", q.Where); err != nil {
			return nil, fmt.Errorf("failed to render where clause: %w", err)
		}
	}

	if len(q.OrderBy) > 0 {
		sortable := make(map[string]bool)
		for _, c := range q.Where {
			c.constrained(sortable)
		}
		sb.WriteString(" order by ")
		for i, o := range q.OrderBy {
			if !sortable[o.Attribute] {
				return nil, fmt.Errorf("attribute %q: %w", o.Attribute, ErrInvalidOrdering)
			}
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(renderAttribute(o.Attribute))
			if o.Descending {
				sb.WriteString(" desc")
			} else {
				sb.WriteString(" asc")
			}
		}
	}

	if q.Limit < 0 || q.Limit > MaxSelectLimit {
		return nil, fmt.Errorf("limit %d: %w", q.Limit, ErrInvalidParameter)
	}
	if q.Limit > 0 {
		sb.WriteString(" limit ")
		sb.WriteString(strconv.Itoa(q.Limit))
	}

	input := &simpledb.SelectInput{
		SelectExpression: aws.String(sb.String()),
	}
	if q.ConsistentRead {
		input.ConsistentRead = aws.Bool(true)
	}
	if q.NextToken != "" {
		input.NextToken = aws.String(q.NextToken)
	}

	return input, nil
}

func renderAttribute(attr string) string {
	if attr == ItemName {
		return ItemName
	}
	return quoteName(attr)
}

// quoteName quotes an attribute or domain name, doubling embedded backquotes.
func quoteName(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// quoteValue quotes a literal value, doubling embedded single quotes.
func quoteValue(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
