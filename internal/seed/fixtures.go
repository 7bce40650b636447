package seed

import (
	"time"

	"github.com/pixelpal/pixelpal-service/internal/types"
	"github.com/pixelpal/pixelpal-service/internal/types/users"
)

// DefaultFixtures returns the demo data set. Seed accounts carry no
// password hash, so any password logs them in.
func DefaultFixtures() Fixtures {
	return Fixtures{
		Users: []users.User{
			{
				ID:           "user-1",
				Username:     "john_doe",
				DisplayName:  "John Doe",
				Email:        "john@example.com",
				ProfileImage: "https://api.dicebear.com/7.x/avatars/svg?seed=john",
				Bio:          "Chasing light and good coffee.",
				Location:     "Lisbon, Portugal",
				CreatedAt:    time.Date(2024, 1, 12, 9, 30, 0, 0, time.UTC),
			},
			{
				ID:           "user-2",
				Username:     "jane_smith",
				DisplayName:  "Jane Smith",
				Email:        "jane@example.com",
				ProfileImage: "https://api.dicebear.com/7.x/avatars/svg?seed=jane",
				Bio:          "Street photography and film grain.",
				Website:      "https://janesmith.photos",
				Location:     "Berlin, Germany",
				CreatedAt:    time.Date(2024, 2, 3, 18, 5, 0, 0, time.UTC),
			},
			{
				ID:           "user-3",
				Username:     "sam_travels",
				DisplayName:  "Sam Rivera",
				Email:        "sam@example.com",
				ProfileImage: "https://api.dicebear.com/7.x/avatars/svg?seed=sam",
				Bio:          "One backpack, many mountains.",
				CreatedAt:    time.Date(2024, 3, 21, 7, 45, 0, 0, time.UTC),
			},
		},
		Posts: []types.Post{
			{
				ID:               "post-1",
				UserID:           "user-1",
				Username:         "john_doe",
				UserProfileImage: "https://api.dicebear.com/7.x/avatars/svg?seed=john",
				ImageURL:         "https://picsum.photos/seed/pixelpal-1/800/800",
				Caption:          "Golden hour at the waterfront.",
				CreatedAt:        time.Date(2024, 4, 2, 17, 12, 0, 0, time.UTC),
			},
			{
				ID:               "post-2",
				UserID:           "user-2",
				Username:         "jane_smith",
				UserProfileImage: "https://api.dicebear.com/7.x/avatars/svg?seed=jane",
				ImageURL:         "https://picsum.photos/seed/pixelpal-2/800/800",
				Caption:          "Rainy day, neon reflections.",
				CreatedAt:        time.Date(2024, 4, 5, 21, 40, 0, 0, time.UTC),
			},
			{
				ID:               "post-3",
				UserID:           "user-3",
				Username:         "sam_travels",
				UserProfileImage: "https://api.dicebear.com/7.x/avatars/svg?seed=sam",
				ImageURL:         "https://picsum.photos/seed/pixelpal-3/800/800",
				Caption:          "Summit sunrise, worth every step.",
				CreatedAt:        time.Date(2024, 4, 9, 5, 58, 0, 0, time.UTC),
			},
		},
		PostLikes: map[string][]string{
			"post-1": {"user-2", "user-3"},
			"post-3": {"user-1"},
		},
		Conversations: []Conversation{
			{
				Messages: []types.Message{
					{
						ID:         "msg-1",
						SenderID:   "user-1",
						ReceiverID: "user-2",
						Content:    "Hey, how are you?",
						SentAt:     time.Date(2024, 4, 10, 14, 1, 0, 0, time.UTC),
					},
					{
						ID:         "msg-2",
						SenderID:   "user-2",
						ReceiverID: "user-1",
						Content:    "I'm doing great, thanks! How about you?",
						SentAt:     time.Date(2024, 4, 10, 14, 2, 0, 0, time.UTC),
					},
					{
						ID:         "msg-3",
						SenderID:   "user-1",
						ReceiverID: "user-2",
						Content:    "The project looks great!",
						SentAt:     time.Date(2024, 4, 10, 14, 6, 0, 0, time.UTC),
					},
				},
			},
		},
	}
}
