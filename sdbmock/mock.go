// Package sdbmock provides test doubles and builders for SimpleDB operations.
package sdbmock

import (
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/simpledb"
)

type SimpleDBAPICall[T, U any] func(aws.Context, *T, ...request.Option) (*U, error)

// SimpleDBAPI defines the SimpleDB operations required by sdbmap.
type SimpleDBAPI interface {
	SelectWithContext(ctx aws.Context, input *simpledb.SelectInput, opts ...request.Option) (*simpledb.SelectOutput, error)
	GetAttributesWithContext(ctx aws.Context, input *simpledb.GetAttributesInput, opts ...request.Option) (*simpledb.GetAttributesOutput, error)
	PutAttributesWithContext(ctx aws.Context, input *simpledb.PutAttributesInput, opts ...request.Option) (*simpledb.PutAttributesOutput, error)
	DeleteAttributesWithContext(ctx aws.Context, input *simpledb.DeleteAttributesInput, opts ...request.Option) (*simpledb.DeleteAttributesOutput, error)
}

// MockClient is a simple expectation-based mock for SimpleDB operations.
// Tests set only the function fields they expect to be called; any other
// call fails the test.
type MockClient struct {
	SelectFunc           SimpleDBAPICall[simpledb.SelectInput, simpledb.SelectOutput]
	GetAttributesFunc    SimpleDBAPICall[simpledb.GetAttributesInput, simpledb.GetAttributesOutput]
	PutAttributesFunc    SimpleDBAPICall[simpledb.PutAttributesInput, simpledb.PutAttributesOutput]
	DeleteAttributesFunc SimpleDBAPICall[simpledb.DeleteAttributesInput, simpledb.DeleteAttributesOutput]
}

// Ensure MockClient implements SimpleDBAPI
var _ SimpleDBAPI = (*MockClient)(nil)

// NewMockClient creates a new mock SimpleDB client with default configuration.
func NewMockClient(t *testing.T) *MockClient {
	return &MockClient{
		SelectFunc:           defaultFunc[simpledb.SelectInput, simpledb.SelectOutput](t),
		GetAttributesFunc:    defaultFunc[simpledb.GetAttributesInput, simpledb.GetAttributesOutput](t),
		PutAttributesFunc:    defaultFunc[simpledb.PutAttributesInput, simpledb.PutAttributesOutput](t),
		DeleteAttributesFunc: defaultFunc[simpledb.DeleteAttributesInput, simpledb.DeleteAttributesOutput](t),
	}
}

func defaultFunc[T, U any](t *testing.T) SimpleDBAPICall[T, U] {
	return func(ctx aws.Context, input *T, opts ...request.Option) (*U, error) {
		t.Fatal("unexpected call")
		return nil, nil
	}
}

// SelectWithContext runs a select expression against the mock.
func (m *MockClient) SelectWithContext(ctx aws.Context, input *simpledb.SelectInput, opts ...request.Option) (*simpledb.SelectOutput, error) {
	return m.SelectFunc(ctx, input, opts...)
}

// GetAttributesWithContext retrieves an item's attributes from the mock.
func (m *MockClient) GetAttributesWithContext(ctx aws.Context, input *simpledb.GetAttributesInput, opts ...request.Option) (*simpledb.GetAttributesOutput, error) {
	return m.GetAttributesFunc(ctx, input, opts...)
}

// PutAttributesWithContext stores an item's attributes in the mock.
func (m *MockClient) PutAttributesWithContext(ctx aws.Context, input *simpledb.PutAttributesInput, opts ...request.Option) (*simpledb.PutAttributesOutput, error) {
	return m.PutAttributesFunc(ctx, input, opts...)
}

// DeleteAttributesWithContext removes an item's attributes from the mock.
func (m *MockClient) DeleteAttributesWithContext(ctx aws.Context, input *simpledb.DeleteAttributesInput, opts ...request.Option) (*simpledb.DeleteAttributesOutput, error) {
	return m.DeleteAttributesFunc(ctx, input, opts...)
}
