package sapi_test

import (
	"net/url"
	"testing"

	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/stretchr/testify/assert"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestListOptions_ToValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		options  *sapi.ListOptions
		expected url.Values
	}{
		{
			name:     "nil options",
			options:  nil,
			expected: url.Values{},
		},
		{
			name:     "empty options",
			options:  sapi.NewListOptions(),
			expected: url.Values{},
		},
		{
			name: "with paging",
			options: &sapi.ListOptions{
				Offset: 20,
				Limit:  10,
			},
			expected: url.Values{
				"offset": []string{"20"},
				"limit":  []string{"10"},
			},
		},
		{
			name: "with descending order",
			options: &sapi.ListOptions{
				Desc: true,
			},
			expected: url.Values{
				"desc": []string{"true"},
			},
		},
		{
			name: "with exclusive start key",
			options: &sapi.ListOptions{
				ExclusiveStartKey: "OUTPUT",
			},
			expected: url.Values{
				"exclusiveStartKey": []string{"OUTPUT"},
			},
		},
		{
			name: "with fields",
			options: &sapi.ListOptions{
				Fields: []string{"url", "title", "price"},
			},
			expected: url.Values{
				"fields": []string{"url,title,price"},
			},
		},
		{
			name: "with status filter",
			options: &sapi.ListOptions{
				Status: "SUCCEEDED",
			},
			expected: url.Values{
				"status": []string{"SUCCEEDED"},
			},
		},
		{
			name: "with all options",
			options: &sapi.ListOptions{
				Offset:            100,
				Limit:             50,
				Desc:              true,
				ExclusiveStartKey: "INPUT",
				Fields:            []string{"url"},
				Status:            "RUNNING",
			},
			expected: url.Values{
				"offset":            []string{"100"},
				"limit":             []string{"50"},
				"desc":              []string{"true"},
				"exclusiveStartKey": []string{"INPUT"},
				"fields":            []string{"url"},
				"status":            []string{"RUNNING"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := tt.options.ToValues()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestListOptions_ZeroValuesDropped(t *testing.T) {
	t.Parallel()

	options := &sapi.ListOptions{
		Offset: 0,
		Limit:  0,
		Desc:   false,
	}

	assert.Empty(t, options.ToValues())
}

func TestListOptions_Builders(t *testing.T) {
	t.Parallel()
	t.Run("chaining methods", func(t *testing.T) {
		t.Parallel()

		options := sapi.NewListOptions().
			WithOffset(40).
			WithLimit(20).
			WithDesc(true)

		values := options.ToValues()

		assert.Equal(t, "40", values.Get("offset"))
		assert.Equal(t, "20", values.Get("limit"))
		assert.Equal(t, "true", values.Get("desc"))
	})

	t.Run("WithDesc false drops the parameter", func(t *testing.T) {
		t.Parallel()

		options := sapi.NewListOptions().WithDesc(true).WithDesc(false)

		assert.Empty(t, options.ToValues().Get("desc"))
	})
}

func TestNewListOptions(t *testing.T) {
	t.Parallel()

	options := sapi.NewListOptions()

	assert.NotNil(t, options)
	assert.Equal(t, int64(0), options.Offset)
	assert.Equal(t, int64(0), options.Limit)
	assert.False(t, options.Desc)
	assert.Empty(t, options.ExclusiveStartKey)
	assert.Nil(t, options.Fields)
	assert.Empty(t, options.Status)
}
