package fetch

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockFetcher struct {
	mock.Mock
}

func (_m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ret := _m.Called(ctx, url)
	ret0 := ret.Get(0)
	if ret0 == nil {
		return nil, ret.Error(1)
	}
	b, ok := ret0.([]byte)
	if !ok {
		return nil, ret.Error(1)
	}
	return b, ret.Error(1)
}
