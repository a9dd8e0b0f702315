package mock

import (
	"sort"
	"strings"
	"sync"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// In-memory repository implementations for tests. They mirror the
// Badger implementations' contracts, including the uniqueness
// guarantees, without touching disk.

type PostRepository struct {
	posts  map[int]*models.Post
	nextID int
	mutex  sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int]*models.Post),
		nextID: 1,
	}
}

func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = post
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *PostRepository) List() ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var posts []*models.Post
	for _, post := range m.posts {
		copied := *post
		posts = append(posts, &copied)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.posts[post.ID] = post
	return nil
}

func (m *PostRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

type CommentRepository struct {
	comments map[int]*models.Comment
	nextID   int
	mutex    sync.RWMutex
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[int]*models.Comment),
		nextID:   1,
	}
}

func (m *CommentRepository) Create(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = m.nextID
	m.nextID++
	m.comments[comment.ID] = comment
	return nil
}

func (m *CommentRepository) GetByID(id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var comments []*models.Comment
	for _, comment := range m.comments {
		if comment.PostID == postID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (m *CommentRepository) CountByPost(postID int) (int, error) {
	comments, err := m.ListByPost(postID)
	if err != nil {
		return 0, err
	}
	return len(comments), nil
}

func (m *CommentRepository) Update(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[comment.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.comments[comment.ID] = comment
	return nil
}

func (m *CommentRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) DeleteByPost(postID int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, comment := range m.comments {
		if comment.PostID == postID {
			delete(m.comments, id)
		}
	}
	return nil
}

type relationEntry struct {
	kind   models.RelationKind
	postID int
	userID string
}

type RelationRepository struct {
	relations map[relationEntry]*models.Relation
	nextID    int
	mutex     sync.Mutex
}

func NewRelationRepository() *RelationRepository {
	return &RelationRepository{
		relations: make(map[relationEntry]*models.Relation),
		nextID:    1,
	}
}

func (m *RelationRepository) Toggle(kind models.RelationKind, postID int, userID string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key := relationEntry{kind, postID, userID}
	if _, exists := m.relations[key]; exists {
		delete(m.relations, key)
		return false, nil
	}

	rel := &models.Relation{ID: m.nextID, PostID: postID, UserID: userID}
	rel.BeforeCreate()
	m.nextID++
	m.relations[key] = rel
	return true, nil
}

func (m *RelationRepository) Exists(kind models.RelationKind, postID int, userID string) (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	_, exists := m.relations[relationEntry{kind, postID, userID}]
	return exists, nil
}

func (m *RelationRepository) CountByPost(kind models.RelationKind, postID int) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	count := 0
	for key := range m.relations {
		if key.kind == kind && key.postID == postID {
			count++
		}
	}
	return count, nil
}

func (m *RelationRepository) ListPostIDsByUser(kind models.RelationKind, userID string) ([]int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var postIDs []int
	for key := range m.relations {
		if key.kind == kind && key.userID == userID {
			postIDs = append(postIDs, key.postID)
		}
	}
	sort.Ints(postIDs)
	return postIDs, nil
}

func (m *RelationRepository) DeleteByPost(postID int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for key := range m.relations {
		if key.postID == postID {
			delete(m.relations, key)
		}
	}
	return nil
}

type UserRepository struct {
	users map[string]*models.User
	mutex sync.RWMutex
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*models.User)}
}

func (m *UserRepository) Create(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, user.Username) ||
			strings.EqualFold(existing.Email, user.Email) {
			return repositories.ErrConflict
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *UserRepository) GetByID(id string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *UserRepository) GetByUsername(username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if strings.EqualFold(user.Username, username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) GetByEmail(email string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) Update(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.users[user.ID]; !exists {
		return repositories.ErrNotFound
	}
	for id, existing := range m.users {
		if id == user.ID {
			continue
		}
		if strings.EqualFold(existing.Username, user.Username) ||
			strings.EqualFold(existing.Email, user.Email) {
			return repositories.ErrConflict
		}
	}
	m.users[user.ID] = user
	return nil
}
