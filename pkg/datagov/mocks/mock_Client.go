// Package mocks provides test doubles for the datagov client.
package mocks

import (
	"context"

	datagov "github.com/kisanportal/mandi-cli/pkg/datagov"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Prices provides a mock function with given fields: ctx, q
func (_m *MockClient) Prices(ctx context.Context, q datagov.Query) (*datagov.Response, error) {
	ret := _m.Called(ctx, q)

	if len(ret) == 0 {
		panic("no return value specified for Prices")
	}

	var r0 *datagov.Response
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, datagov.Query) (*datagov.Response, error)); ok {
		return rf(ctx, q)
	}
	if rf, ok := ret.Get(0).(func(context.Context, datagov.Query) *datagov.Response); ok {
		r0 = rf(ctx, q)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*datagov.Response)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, datagov.Query) error); ok {
		r1 = rf(ctx, q)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
