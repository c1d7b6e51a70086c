package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Cart_AddAccumulates(t *testing.T) {
	// given
	c := New()

	// when
	c.Add("isbn-1")
	c.Add("isbn-1")
	c.Add("isbn-2")

	// then
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []Entry{
		{ISBN: "isbn-1", Quantity: 2},
		{ISBN: "isbn-2", Quantity: 1},
	}, c.Entries())
}

func Test_Cart_RemoveDeletesAtZero(t *testing.T) {
	// given
	c := New()
	c.Add("isbn-1")
	c.Add("isbn-1")

	// when
	c.Remove("isbn-1")

	// then
	assert.Equal(t, []Entry{{ISBN: "isbn-1", Quantity: 1}}, c.Entries())

	// when removed again the entry disappears instead of reaching zero
	c.Remove("isbn-1")
	assert.Equal(t, 0, c.Len())
}

func Test_Cart_RemoveAbsentIsNoop(t *testing.T) {
	// given
	c := New()
	c.Add("isbn-1")

	// when
	c.Remove("isbn-missing")

	// then
	assert.Equal(t, []Entry{{ISBN: "isbn-1", Quantity: 1}}, c.Entries())
}

func Test_Cart_Adjust(t *testing.T) {
	testCases := []struct {
		name     string
		setup    func(c *Cart)
		isbn     string
		delta    int32
		expected []Entry
	}{
		{
			name:     "upward adjust inserts absent entry",
			setup:    func(c *Cart) {},
			isbn:     "isbn-1",
			delta:    3,
			expected: []Entry{{ISBN: "isbn-1", Quantity: 3}},
		},
		{
			name:     "downward adjust past zero deletes entry",
			setup:    func(c *Cart) { c.Adjust("isbn-1", 2) },
			isbn:     "isbn-1",
			delta:    -5,
			expected: []Entry{},
		},
		{
			name:     "downward adjust of absent entry is a no-op",
			setup:    func(c *Cart) { c.Add("isbn-2") },
			isbn:     "isbn-1",
			delta:    -1,
			expected: []Entry{{ISBN: "isbn-2", Quantity: 1}},
		},
		{
			name:     "zero delta on absent entry inserts nothing",
			setup:    func(c *Cart) {},
			isbn:     "isbn-1",
			delta:    0,
			expected: []Entry{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			c := New()
			tc.setup(c)

			// when
			c.Adjust(tc.isbn, tc.delta)

			// then
			assert.Equal(t, tc.expected, c.Entries())
		})
	}
}

func Test_Cart_Clear(t *testing.T) {
	// given
	c := New()
	c.Add("isbn-1")
	c.Add("isbn-2")

	// when
	c.Clear()

	// then
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Entries())

	// and the cart remains usable
	c.Add("isbn-3")
	assert.Equal(t, []Entry{{ISBN: "isbn-3", Quantity: 1}}, c.Entries())
}

func Test_Cart_EntriesSorted(t *testing.T) {
	// given
	c := New()
	c.Add("isbn-c")
	c.Add("isbn-a")
	c.Add("isbn-b")

	// then
	assert.Equal(t, []Entry{
		{ISBN: "isbn-a", Quantity: 1},
		{ISBN: "isbn-b", Quantity: 1},
		{ISBN: "isbn-c", Quantity: 1},
	}, c.Entries())
}
