package posts

import (
	"context"
	"fmt"
)

// SamplePosts are created by SeedPosts on an empty store.
var SamplePosts = []CreatePostRequest{
	{
		Title:   "Post Title1",
		Content: "Lorem Ipsum is simply dummy text of the printing and typesetting industry.",
	},
	{
		Title:   "Post Title2",
		Content: "Lorem Ipsum has been the industry's standard dummy text ever since the 1500s, when an unknown printer took a galley of type and scrambled it to make a type specimen book.",
	},
	{
		Title:   "Post Title3",
		Content: "Contrary to popular belief, Lorem Ipsum is not simply random text.",
	},
}

// SeedPosts creates samples through svc when the store holds no posts yet.
// Returns the number of posts created.
func SeedPosts(ctx context.Context, svc Service, samples []CreatePostRequest) (int, error) {
	existing, err := svc.ListPosts(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, req := range samples {
		if _, err := svc.CreatePost(ctx, req); err != nil {
			return i, fmt.Errorf("failed to seed post %d: %w", i, err)
		}
	}
	return len(samples), nil
}
