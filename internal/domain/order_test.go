package domain

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{StatusAssigned, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusAssigned, StatusDelivered, false},
		{StatusOutForDelivery, StatusAssigned, false},
		{StatusDelivered, StatusAssigned, false},
		{StatusDelivered, StatusOutForDelivery, false},
		{StatusDelivered, StatusDelivered, false},
		{StatusAssigned, StatusAssigned, false},
	}

	for _, c := range cases {
		if got := c.from.CanAdvanceTo(c.to); got != c.want {
			t.Errorf("CanAdvanceTo(%q -> %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
