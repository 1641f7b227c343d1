package domain

import "testing"

func TestResolveFriendshipStatus(t *testing.T) {
	cases := []struct {
		friends, sent, incoming bool
		want                    FriendshipStatus
	}{
		{true, false, false, StatusFriends},
		// friends wins over anything pending
		{true, true, true, StatusFriends},
		{false, true, false, StatusRequestSent},
		{false, true, true, StatusRequestSent},
		{false, false, true, StatusRequestIncoming},
		{false, false, false, StatusNone},
	}

	for _, tc := range cases {
		got := ResolveFriendshipStatus(tc.friends, tc.sent, tc.incoming)
		if got != tc.want {
			t.Fatalf("ResolveFriendshipStatus(%v,%v,%v) = %q; want %q",
				tc.friends, tc.sent, tc.incoming, got, tc.want)
		}
	}
}

func TestConversationUnreadCount(t *testing.T) {
	c := Conversation{
		Counterpart: "system",
		Messages: []DirectMessage{
			{Read: true},
			{Read: false},
			{Read: false},
		},
	}
	if got := c.UnreadCount(); got != 2 {
		t.Fatalf("UnreadCount = %d; want 2", got)
	}
}
