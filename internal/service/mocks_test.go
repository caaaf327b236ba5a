package service

import (
	"context"
	"sort"
	"strings"

	"github.com/shreyash/bloghub/internal/apperror"
	"github.com/shreyash/bloghub/internal/model"
	"github.com/shreyash/bloghub/internal/repository"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// Hand-written in-memory implementations of the repository interfaces.
// The services only see the interfaces, so tests can swap SQLite out for
// these maps and run in microseconds with no database setup.
//
// Each mock has a `failWith` field: set it to force the next call to
// return that error, simulating a database outage.

type mockUserRepo struct {
	users    map[int64]*model.User
	nextID   int64
	failWith error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return apperror.Conflict("User with this email or username already exists")
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFoundMsg("User not found")
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFoundMsg("User not found")
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type mockCategoryRepo struct {
	categories map[int64]*model.Category
	nextID     int64
	failWith   error
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[int64]*model.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.Category) error {
	if m.failWith != nil {
		return m.failWith
	}
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, category.Name) {
			return apperror.Conflict("Category with this name already exists")
		}
	}
	m.nextID++
	category.ID = m.nextID
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id int64) (*model.Category, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	category, ok := m.categories[id]
	if !ok {
		return nil, apperror.NotFoundMsg("Category not found")
	}
	result := *category
	return &result, nil
}

func (m *mockCategoryRepo) GetByName(_ context.Context, name string) (*model.Category, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			result := *c
			return &result, nil
		}
	}
	return nil, apperror.NotFoundMsg("Category not found")
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	result := make([]model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *model.Category) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.categories[category.ID]; !ok {
		return apperror.NotFoundMsg("Category not found")
	}
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id int64) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.categories[id]; !ok {
		return apperror.NotFoundMsg("Category not found")
	}
	delete(m.categories, id)
	return nil
}

type mockPostRepo struct {
	posts    map[int64]*model.Post
	nextID   int64
	failWith error
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[int64]*model.Post)}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.nextID++
	post.ID = m.nextID
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id int64) (*model.Post, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	post, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFoundMsg("Post not found")
	}
	result := *post
	// The real repository joins the owner in; fake just enough of it.
	result.User = &model.UserSummary{ID: post.UserID, Username: "mockuser"}
	return &result, nil
}

// sortedNewestFirst returns all posts ordered the way the real store does.
// Mock IDs are assigned in insertion order, so ID order is creation order.
func (m *mockPostRepo) sortedNewestFirst() []model.Post {
	result := make([]model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

func paginate(posts []model.Post, opts repository.ListOptions) []model.Post {
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(posts) {
		return []model.Post{}
	}
	posts = posts[offset:]
	if opts.Limit >= 0 && opts.Limit < len(posts) {
		posts = posts[:opts.Limit]
	}
	return posts
}

func (m *mockPostRepo) List(_ context.Context, opts repository.ListOptions) ([]model.Post, int, error) {
	if m.failWith != nil {
		return nil, 0, m.failWith
	}
	all := m.sortedNewestFirst()
	return paginate(all, opts), len(all), nil
}

func (m *mockPostRepo) ListByUser(_ context.Context, userID int64) ([]model.Post, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	result := []model.Post{}
	for _, p := range m.sortedNewestFirst() {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPostRepo) ListByCategory(_ context.Context, categoryID int64, opts repository.ListOptions) ([]model.Post, int, error) {
	if m.failWith != nil {
		return nil, 0, m.failWith
	}
	matched := []model.Post{}
	for _, p := range m.sortedNewestFirst() {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			matched = append(matched, p)
		}
	}
	return paginate(matched, opts), len(matched), nil
}

func (m *mockPostRepo) Search(_ context.Context, query string) ([]model.Post, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	q := strings.ToLower(query)
	result := []model.Post{}
	for _, p := range m.sortedNewestFirst() {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPostRepo) Update(_ context.Context, post *model.Post) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.posts[post.ID]; !ok {
		return apperror.NotFoundMsg("Post not found")
	}
	stored := *post
	stored.User = nil
	stored.Category = nil
	m.posts[post.ID] = &stored
	return nil
}

func (m *mockPostRepo) Delete(_ context.Context, id int64) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.posts[id]; !ok {
		return apperror.NotFoundMsg("Post not found")
	}
	delete(m.posts, id)
	return nil
}
