package domain

import "testing"

func TestMessageRestaurantID(t *testing.T) {
	cases := []struct {
		name string
		msg  *Message
		want int
	}{
		{"resource id", &Message{ResourceID: "12"}, 12},
		{"metadata", &Message{Metadata: Metadata{"restaurantId": "8"}}, 8},
		{"data", &Message{Data: map[string]any{"restaurant_id": float64(3)}}, 3},
		{"enveloped data", &Message{Data: map[string]any{"data": map[string]any{"restaurantId": "5"}}}, 5},
		{"missing", &Message{}, 0},
		{"nil", nil, 0},
	}
	for _, tc := range cases {
		if got := tc.msg.RestaurantID(); got != tc.want {
			t.Fatalf("%s: expected %d got %d", tc.name, tc.want, got)
		}
	}
}
