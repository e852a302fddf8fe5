package itip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendeeSetFirstWins(t *testing.T) {
	set := NewAttendeeSet()

	first := &Attendee{Email: Email{Address: "a@x"}, PartStat: PartStatAccepted, HasPartStat: true}
	second := &Attendee{Email: Email{Address: "a@x"}, PartStat: PartStatDeclined, HasPartStat: true}

	assert.True(t, set.Insert(first))
	assert.False(t, set.Insert(second))

	got, ok := set.Get("a@x")
	require.True(t, ok)
	assert.Equal(t, PartStatAccepted, got.PartStat)
	assert.Equal(t, 1, set.Len())
}

func TestAttendeeSetPreservesInsertionOrder(t *testing.T) {
	set := NewAttendeeSet()
	set.Insert(&Attendee{Email: Email{Address: "b@x"}})
	set.Insert(&Attendee{Email: Email{Address: "a@x"}})
	set.Insert(&Attendee{Email: Email{Address: "c@x"}})

	var order []string
	for _, a := range set.Slice() {
		order = append(order, a.Email.Address)
	}
	assert.Equal(t, []string{"b@x", "a@x", "c@x"}, order)
}
