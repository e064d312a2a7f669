package services

import (
	"context"
	"testing"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type engagementFixture struct {
	svc   *EngagementService
	users *fakeUserRepo
	posts *fakePostRepo
	queue *notify.InMemoryQueue
}

func newEngagementFixture() *engagementFixture {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	queue := notify.NewInMemoryQueue(0)
	svc := NewEngagementService(
		newFakeLikeRepo(),
		newFakeSavedRepo(),
		newFakeCommentRepo(),
		newFakeCommentLikeRepo(),
		posts,
		users,
		queue,
		zap.NewNop(),
	)
	return &engagementFixture{svc: svc, users: users, posts: posts, queue: queue}
}

func TestTogglePostLike_NotifiesOnLikeTransitionOnly(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture()
	owner := f.users.addUser("owner", true)
	liker := f.users.addUser("liker", true)
	post := f.posts.addPost(owner.ID, "sunset", nil, true)
	postID := post.ID.Hex()

	// like, unlike, like: owner sees exactly two POST_LIKE events.
	states := []bool{true, false, true}
	for _, want := range states {
		got, err := f.svc.TogglePostLike(ctx, postID, liker.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	events, err := f.queue.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, models.NotificationPostLike, ev.Type)
		assert.Equal(t, models.PostEventID(postID, liker.ID), ev.NotificationID)
		assert.Equal(t, "liker liked your post: sunset", ev.Message)
		assert.Equal(t, postID, ev.PostID)
	}
}

func TestTogglePostLike_SelfLikeStaysSilent(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture()
	owner := f.users.addUser("owner", true)
	post := f.posts.addPost(owner.ID, "sunset", nil, true)

	nowLiked, err := f.svc.TogglePostLike(ctx, post.ID.Hex(), owner.ID)
	require.NoError(t, err)
	assert.True(t, nowLiked)

	events, err := f.queue.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTogglePostLike_MovesDenormalizedCount(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture()
	owner := f.users.addUser("owner", true)
	liker := f.users.addUser("liker", true)
	post := f.posts.addPost(owner.ID, "sunset", nil, true)
	postID := post.ID.Hex()

	_, err := f.svc.TogglePostLike(ctx, postID, liker.ID)
	require.NoError(t, err)
	stored, err := f.posts.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.LikesCount)

	_, err = f.svc.TogglePostLike(ctx, postID, liker.ID)
	require.NoError(t, err)
	stored, err = f.posts.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.LikesCount)
}

func TestTogglePostLike_MissingPostIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture()
	liker := f.users.addUser("liker", true)

	_, err := f.svc.TogglePostLike(ctx, "64ffffffffffffffffffffff", liker.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.NotFound, apperrors.KindOf(err))
}

func TestToggleSave_NeverNotifies(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture()
	owner := f.users.addUser("owner", true)
	saver := f.users.addUser("saver", true)
	post := f.posts.addPost(owner.ID, "sunset", nil, true)
	postID := post.ID.Hex()

	nowSaved, err := f.svc.ToggleSave(ctx, postID, saver.ID)
	require.NoError(t, err)
	assert.True(t, nowSaved)

	nowSaved, err = f.svc.ToggleSave(ctx, postID, saver.ID)
	require.NoError(t, err)
	assert.False(t, nowSaved)

	events, err := f.queue.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCreateComment_NotifiesOwnerButNotSelf(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture()
	owner := f.users.addUser("owner", true)
	commenter := f.users.addUser("commenter", true)
	post := f.posts.addPost(owner.ID, "sunset", nil, true)
	postID := post.ID.Hex()

	view, err := f.svc.CreateComment(ctx, postID, commenter.ID, "great shot")
	require.NoError(t, err)
	assert.Equal(t, "great shot", view.Content)
	assert.Equal(t, "commenter", view.Author.Username)

	events, err := f.queue.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationComment, events[0].Type)
	assert.Equal(t, "commenter commented your post: sunset", events[0].Message)

	// The owner commenting on their own post stays silent.
	_, err = f.svc.CreateComment(ctx, postID, owner.ID, "thanks")
	require.NoError(t, err)
	events, err = f.queue.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	stored, err := f.posts.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CommentsCount)
}

func TestDeleteComment_AuthorOnly(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture()
	owner := f.users.addUser("owner", true)
	commenter := f.users.addUser("commenter", true)
	post := f.posts.addPost(owner.ID, "sunset", nil, true)
	postID := post.ID.Hex()

	view, err := f.svc.CreateComment(ctx, postID, commenter.ID, "great shot")
	require.NoError(t, err)

	err = f.svc.DeleteComment(ctx, view.ID, owner.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.Unauthorized, apperrors.KindOf(err))

	require.NoError(t, f.svc.DeleteComment(ctx, view.ID, commenter.ID))

	stored, err := f.posts.GetPostByID(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CommentsCount)
}

func TestListComments_NewestFirstWithLikeState(t *testing.T) {
	ctx := context.Background()
	f := newEngagementFixture()
	owner := f.users.addUser("owner", true)
	commenter := f.users.addUser("commenter", true)
	post := f.posts.addPost(owner.ID, "sunset", nil, true)
	postID := post.ID.Hex()

	first, err := f.svc.CreateComment(ctx, postID, commenter.ID, "first")
	require.NoError(t, err)
	_, err = f.svc.CreateComment(ctx, postID, owner.ID, "second")
	require.NoError(t, err)

	_, err = f.svc.ToggleCommentLike(ctx, first.ID, owner.ID)
	require.NoError(t, err)

	views, err := f.svc.ListComments(ctx, postID, owner.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "second", views[0].Content)
	assert.Equal(t, "first", views[1].Content)
	assert.True(t, views[1].IsLiked)
	assert.Equal(t, int64(1), views[1].LikesCount)
	assert.False(t, views[0].IsLiked)
}
