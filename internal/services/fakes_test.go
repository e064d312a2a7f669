package services

// In-memory repository fakes. They mirror the behavior of the real
// Postgres and Mongo implementations closely enough to exercise the
// service layer: same not-found sentinels, same newest-first ordering,
// same toggle semantics.

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/instashot/backend/internal/media"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) addUser(username string, isPublic bool) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &models.User{
		ID:        r.nextID,
		Username:  username,
		Email:     username + "@example.com",
		IsPublic:  isPublic,
		CreatedAt: time.Now(),
	}
	r.users[u.ID] = u
	r.nextID++
	return u
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetPublicUserIDs(excludeID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for id, u := range r.users {
		if u.IsPublic && id != excludeID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) SearchUsers(query string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if containsFold(u.Username, query) || containsFold(u.Fullname, query) || containsFold(u.Bio, query) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) DeleteUserCascade(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func containsFold(haystack, needle string) bool {
	h := []rune(haystack)
	n := []rune(needle)
	lower := func(rs []rune) string {
		out := make([]rune, len(rs))
		for i, r := range rs {
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			out[i] = r
		}
		return string(out)
	}
	lh, ln := lower(h), lower(n)
	for i := 0; i+len(ln) <= len(lh); i++ {
		if lh[i:i+len(ln)] == ln {
			return true
		}
	}
	return false
}

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[[2]uint]bool
	users *fakeUserRepo
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[[2]uint]bool), users: users}
}

func (r *fakeFollowRepo) ToggleFollow(followerID, followingID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]uint{followerID, followingID}
	if r.edges[key] {
		delete(r.edges, key)
		return false, nil
	}
	r.edges[key] = true
	return true, nil
}

func (r *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edges[[2]uint{followerID, followingID}], nil
}

func (r *fakeFollowRepo) GetFollowers(userID uint) ([]models.User, error) {
	ids, _ := r.GetFollowerIDs(userID)
	return r.users.GetUsersByIDs(ids)
}

func (r *fakeFollowRepo) GetFollowing(userID uint) ([]models.User, error) {
	ids, _ := r.GetFollowingIDs(userID)
	return r.users.GetUsersByIDs(ids)
}

func (r *fakeFollowRepo) GetFollowersCount(userID uint) (int64, error) {
	ids, _ := r.GetFollowerIDs(userID)
	return int64(len(ids)), nil
}

func (r *fakeFollowRepo) GetFollowingCount(userID uint) (int64, error) {
	ids, _ := r.GetFollowingIDs(userID)
	return int64(len(ids)), nil
}

func (r *fakeFollowRepo) GetFollowingIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for edge := range r.edges {
		if edge[0] == userID {
			ids = append(ids, edge[1])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeFollowRepo) GetFollowerIDs(userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for edge := range r.edges {
		if edge[1] == userID {
			ids = append(ids, edge[0])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeFollowRepo) SuggestUsers(userID uint, limit int) ([]models.User, error) {
	return nil, nil
}

type fakeLikeRepo struct {
	mu    sync.Mutex
	edges map[string]map[uint]bool // postID -> likers
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{edges: make(map[string]map[uint]bool)}
}

func (r *fakeLikeRepo) ToggleLike(postID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.edges[postID] == nil {
		r.edges[postID] = make(map[uint]bool)
	}
	if r.edges[postID][userID] {
		delete(r.edges[postID], userID)
		return false, nil
	}
	r.edges[postID][userID] = true
	return true, nil
}

func (r *fakeLikeRepo) HasUserLikedPost(postID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edges[postID][userID], nil
}

func (r *fakeLikeRepo) GetLikerIDs(postID string) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for id := range r.edges[postID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *fakeLikeRepo) GetLikesCountByPostID(postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.edges[postID])), nil
}

func (r *fakeLikeRepo) GetLikedPostIDs(userID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for postID, likers := range r.edges {
		if likers[userID] {
			ids = append(ids, postID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeLikeRepo) GetLikedMap(userID uint, postIDs []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]bool)
	for _, id := range postIDs {
		if r.edges[id][userID] {
			out[id] = true
		}
	}
	return out, nil
}

func (r *fakeLikeRepo) DeleteByPostID(postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, postID)
	return nil
}

type fakeSavedRepo struct {
	mu    sync.Mutex
	saves map[uint][]string // userID -> postIDs, most recent first
}

func newFakeSavedRepo() *fakeSavedRepo {
	return &fakeSavedRepo{saves: make(map[uint][]string)}
}

func (r *fakeSavedRepo) ToggleSave(userID uint, postID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range r.saves[userID] {
		if id == postID {
			r.saves[userID] = append(r.saves[userID][:i], r.saves[userID][i+1:]...)
			return false, nil
		}
	}
	r.saves[userID] = append([]string{postID}, r.saves[userID]...)
	return true, nil
}

func (r *fakeSavedRepo) IsPostSaved(userID uint, postID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.saves[userID] {
		if id == postID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSavedRepo) GetSavedPostIDs(userID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saves[userID]...), nil
}

func (r *fakeSavedRepo) GetSavedMap(userID uint, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range postIDs {
		saved, _ := r.IsPostSaved(userID, id)
		if saved {
			out[id] = true
		}
	}
	return out, nil
}

func (r *fakeSavedRepo) DeleteByPostID(postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, ids := range r.saves {
		for i, id := range ids {
			if id == postID {
				r.saves[userID] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
	return nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   uint
	comments map[uint]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, comments: make(map[uint]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	r.nextID++
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.comments[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCommentRepo) GetCommentsByPostID(postID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeCommentRepo) DeleteComment(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByPostID(postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeCommentLikeRepo struct {
	mu    sync.Mutex
	edges map[uint]map[uint]bool // commentID -> likers
}

func newFakeCommentLikeRepo() *fakeCommentLikeRepo {
	return &fakeCommentLikeRepo{edges: make(map[uint]map[uint]bool)}
}

func (r *fakeCommentLikeRepo) ToggleLike(commentID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.edges[commentID] == nil {
		r.edges[commentID] = make(map[uint]bool)
	}
	if r.edges[commentID][userID] {
		delete(r.edges[commentID], userID)
		return false, nil
	}
	r.edges[commentID][userID] = true
	return true, nil
}

func (r *fakeCommentLikeRepo) HasUserLikedComment(commentID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edges[commentID][userID], nil
}

func (r *fakeCommentLikeRepo) GetLikesCount(commentID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.edges[commentID])), nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
	seq   int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

// addPost seeds a post with a strictly increasing creation time so
// newest-first ordering is deterministic.
func (r *fakePostRepo) addPost(userID uint, caption string, tags []string, isPublic bool) *models.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Caption:   caption,
		Tags:      tags,
		IsPublic:  isPublic,
		CreatedAt: time.Now().Add(time.Duration(r.seq) * time.Second),
	}
	p.UpdatedAt = p.CreatedAt
	copied := *p
	r.posts[p.ID.Hex()] = &copied
	return p
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.UpdatedAt = post.CreatedAt
	copied := *post
	r.posts[post.ID.Hex()] = &copied
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) GetPostsByUserID(_ context.Context, userID uint) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, id string, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	copied := *post
	r.posts[id] = &copied
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) DeleteByUserID(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.posts {
		if p.UserID == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

func (r *fakePostRepo) visible(p *models.Post, viewerID uint, followedIDs []uint) bool {
	if p.IsPublic || p.UserID == viewerID {
		return true
	}
	for _, id := range followedIDs {
		if p.UserID == id {
			return true
		}
	}
	return false
}

func (r *fakePostRepo) FindVisible(_ context.Context, viewerID uint, followedIDs []uint, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if r.visible(p, viewerID, followedIDs) {
			out = append(out, *p)
		}
	}
	sortNewestFirst(out)
	return pageOf(out, skip, limit), nil
}

func (r *fakePostRepo) CountVisible(_ context.Context, viewerID uint, followedIDs []uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.posts {
		if r.visible(p, viewerID, followedIDs) {
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) FindVisibleByTag(_ context.Context, tag string, viewerID uint, followedIDs []uint, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if r.visible(p, viewerID, followedIDs) && hasTag(p, tag) {
			out = append(out, *p)
		}
	}
	sortNewestFirst(out)
	return pageOf(out, skip, limit), nil
}

func (r *fakePostRepo) CountVisibleByTag(_ context.Context, tag string, viewerID uint, followedIDs []uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.posts {
		if r.visible(p, viewerID, followedIDs) && hasTag(p, tag) {
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) FindByTags(_ context.Context, tags []string, excludeUserID uint, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if p.UserID != excludeUserID && hasAnyTag(p, tags) {
			out = append(out, *p)
		}
	}
	sortNewestFirst(out)
	return pageOf(out, skip, limit), nil
}

func (r *fakePostRepo) CountByTags(_ context.Context, tags []string, excludeUserID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.posts {
		if p.UserID != excludeUserID && hasAnyTag(p, tags) {
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) FindByTag(_ context.Context, tag string) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.posts {
		if hasTag(p, tag) {
			out = append(out, *p)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakePostRepo) TagsOfPosts(_ context.Context, postIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range postIDs {
		p, ok := r.posts[id]
		if !ok {
			continue
		}
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (r *fakePostRepo) TagsByOwners(_ context.Context, ownerIDs []uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owners := make(map[uint]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.posts {
		if !owners[p.UserID] {
			continue
		}
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (r *fakePostRepo) IncrementLikesCount(_ context.Context, postID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[postID]; ok {
		p.LikesCount += delta
	}
	return nil
}

func (r *fakePostRepo) IncrementCommentsCount(_ context.Context, postID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[postID]; ok {
		p.CommentsCount += delta
	}
	return nil
}

func sortNewestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID.Hex() > posts[j].ID.Hex()
	})
}

func pageOf(posts []models.Post, skip, limit int64) []models.Post {
	if skip >= int64(len(posts)) {
		return nil
	}
	end := skip + limit
	if end > int64(len(posts)) {
		end = int64(len(posts))
	}
	return posts[skip:end]
}

func hasTag(p *models.Post, tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func hasAnyTag(p *models.Post, tags []string) bool {
	for _, t := range tags {
		if hasTag(p, t) {
			return true
		}
	}
	return false
}

type fakeStoryRepo struct {
	mu      sync.Mutex
	stories map[string]*models.Story
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{stories: make(map[string]*models.Story)}
}

func (r *fakeStoryRepo) addStory(userID uint, caption string, expiresAt time.Time) *models.Story {
	st := &models.Story{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Caption:   caption,
		LikedBy:   []uint{},
		Viewers:   []uint{},
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	r.mu.Lock()
	copied := *st
	r.stories[st.ID.Hex()] = &copied
	r.mu.Unlock()
	return st
}

func (r *fakeStoryRepo) CreateStory(_ context.Context, story *models.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	story.ID = primitive.NewObjectID()
	story.CreatedAt = time.Now()
	story.ExpiresAt = story.CreatedAt.Add(24 * time.Hour)
	if story.LikedBy == nil {
		story.LikedBy = []uint{}
	}
	if story.Viewers == nil {
		story.Viewers = []uint{}
	}
	copied := *story
	r.stories[story.ID.Hex()] = &copied
	return nil
}

func (r *fakeStoryRepo) GetStoryByID(_ context.Context, id string) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.stories[id]; ok {
		copied := *st
		copied.LikedBy = append([]uint(nil), st.LikedBy...)
		copied.Viewers = append([]uint(nil), st.Viewers...)
		return &copied, nil
	}
	return nil, repositories.ErrStoryNotFound
}

func (r *fakeStoryRepo) FindActiveByOwners(_ context.Context, ownerIDs []uint) ([]models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owners := make(map[uint]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}
	now := time.Now()
	var out []models.Story
	for _, st := range r.stories {
		if owners[st.UserID] && st.ExpiresAt.After(now) {
			copied := *st
			copied.LikedBy = append([]uint(nil), st.LikedBy...)
			copied.Viewers = append([]uint(nil), st.Viewers...)
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeStoryRepo) FindActiveByOwner(ctx context.Context, ownerID uint) ([]models.Story, error) {
	return r.FindActiveByOwners(ctx, []uint{ownerID})
}

func (r *fakeStoryRepo) RecordView(_ context.Context, storyID string, viewerID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stories[storyID]
	if !ok || !st.ExpiresAt.After(time.Now()) {
		return false, nil
	}
	for _, v := range st.Viewers {
		if v == viewerID {
			return false, nil
		}
	}
	st.Viewers = append(st.Viewers, viewerID)
	st.ViewCount++
	return true, nil
}

func (r *fakeStoryRepo) ToggleLike(_ context.Context, storyID string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stories[storyID]
	if !ok || !st.ExpiresAt.After(time.Now()) {
		return false, repositories.ErrStoryNotFound
	}
	for i, v := range st.LikedBy {
		if v == userID {
			st.LikedBy = append(st.LikedBy[:i], st.LikedBy[i+1:]...)
			return false, nil
		}
	}
	st.LikedBy = append(st.LikedBy, userID)
	return true, nil
}

func (r *fakeStoryRepo) DeleteStory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stories[id]; !ok {
		return repositories.ErrStoryNotFound
	}
	delete(r.stories, id)
	return nil
}

func (r *fakeStoryRepo) DeleteByUserID(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, st := range r.stories {
		if st.UserID == userID {
			delete(r.stories, id)
		}
	}
	return nil
}

func (r *fakeStoryRepo) GetStoriesByUserID(_ context.Context, userID uint) ([]models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Story
	for _, st := range r.stories {
		if st.UserID == userID {
			out = append(out, *st)
		}
	}
	return out, nil
}

func (r *fakeStoryRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for id, st := range r.stories {
		if !st.ExpiresAt.After(now) {
			delete(r.stories, id)
			n++
		}
	}
	return n, nil
}

type fakeMediaStore struct {
	mu      sync.Mutex
	seq     int
	deleted []string
	failing bool
}

func (s *fakeMediaStore) Upload(_ context.Context, payload, folder string) (media.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return media.Asset{}, fmt.Errorf("upload refused")
	}
	s.seq++
	id := fmt.Sprintf("%s/asset-%d", folder, s.seq)
	return media.Asset{URL: "https://cdn.example.com/" + id, AssetID: id}, nil
}

func (s *fakeMediaStore) Delete(_ context.Context, assetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, assetID)
	return nil
}
