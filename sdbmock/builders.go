package sdbmock

import (
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/simpledb"
)

// Attr builds a single raw attribute.
func Attr(name, value string) *simpledb.Attribute {
	return &simpledb.Attribute{
		Name:  aws.String(name),
		Value: aws.String(value),
	}
}

// NewItem builds a raw select result row.
func NewItem(name string, attrs ...*simpledb.Attribute) *simpledb.Item {
	return &simpledb.Item{
		Name:       aws.String(name),
		Attributes: attrs,
	}
}

// SelectPage builds one select result page. An empty token means the page is
// the last one.
func SelectPage(token string, items ...*simpledb.Item) *simpledb.SelectOutput {
	out := &simpledb.SelectOutput{Items: items}
	if token != "" {
		out.NextToken = aws.String(token)
	}
	return out
}

// CountPage builds a select result page as returned for count(*) queries.
func CountPage(token string, n int64) *simpledb.SelectOutput {
	return SelectPage(token, NewItem("Domain", Attr("Count", strconv.FormatInt(n, 10))))
}

// GetResult builds a GetAttributes response. Passing no attributes models an
// item that does not exist.
func GetResult(attrs ...*simpledb.Attribute) *simpledb.GetAttributesOutput {
	return &simpledb.GetAttributesOutput{Attributes: attrs}
}

// SelectSequence returns a select function that serves the scripted pages in
// order, checking that each request carries the continuation token issued by
// the previous page, byte for byte. Any call beyond the script fails the test.
func SelectSequence(t *testing.T, pages ...*simpledb.SelectOutput) SimpleDBAPICall[simpledb.SelectInput, simpledb.SelectOutput] {
	var (
		call int
		want *string
	)
	return func(ctx aws.Context, input *simpledb.SelectInput, opts ...request.Option) (*simpledb.SelectOutput, error) {
		t.Helper()
		if call >= len(pages) {
			t.Fatalf("unexpected select call %d: only %d pages scripted", call+1, len(pages))
		}
		if aws.StringValue(input.NextToken) != aws.StringValue(want) {
			t.Fatalf("select call %d: got token %q, want %q", call+1, aws.StringValue(input.NextToken), aws.StringValue(want))
		}
		page := pages[call]
		call++
		want = page.NextToken
		return page, nil
	}
}
