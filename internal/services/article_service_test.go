package services_test

import (
	"fmt"
	"strings"
	"testing"

	"plume/internal/models"
	"plume/internal/repositories"
	"plume/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(eventType string, body []byte) error {
	args := m.Called(eventType, body)
	return args.Error(0)
}

func newArticleFixture(events services.EventPublisher) (*services.ArticleService, *services.CommentService, *repositories.MockArticleRepository, *repositories.MockCommentRepository) {
	articles := repositories.NewMockArticleRepository()
	comments := repositories.NewMockCommentRepository()
	articleService := services.NewArticleService(articles, comments, events, zap.NewNop())
	commentService := services.NewCommentService(comments, articles, zap.NewNop())
	return articleService, commentService, articles, comments
}

func TestArticleService_Create(t *testing.T) {
	events := new(MockEventPublisher)
	events.On("Publish", services.EventArticleCreated, mock.Anything).Return(nil).Once()

	service, _, _, _ := newArticleFixture(events)
	acting := &models.Profile{ID: "profile-1", Owner: "account-1", Kind: models.ProfileKindPerson}

	article, err := service.Create(acting, "a fine title", "some content")
	assert.NoError(t, err)
	assert.Equal(t, "profile-1", article.Author)
	assert.NotEmpty(t, article.ID)
	events.AssertExpectations(t)

	// Title bounds.
	_, err = service.Create(acting, "tiny", "content")
	assertAPIError(t, err, 400)
	_, err = service.Create(acting, strings.Repeat("x", 101), "content")
	assertAPIError(t, err, 400)
	_, err = service.Create(acting, "", "")
	assertAPIError(t, err, 400)
}

func TestArticleService_UpdateAuthorship(t *testing.T) {
	service, _, _, _ := newArticleFixture(nil)
	author := &models.Profile{ID: "profile-1", Owner: "account-1"}
	other := &models.Profile{ID: "profile-2", Owner: "account-1"}

	article, err := service.Create(author, "a fine title", "some content")
	assert.NoError(t, err)

	// Another profile, even under the same account, may not update it.
	_, err = service.Update(article.ID, other, "another title", "")
	assertAPIError(t, err, 403)

	// Present fields are applied, absent fields untouched.
	updated, err := service.Update(article.ID, author, "another fine title", "")
	assert.NoError(t, err)
	assert.Equal(t, "another fine title", updated.Title)
	assert.Equal(t, "some content", updated.Content)

	updated, err = service.Update(article.ID, author, "", "new content")
	assert.NoError(t, err)
	assert.Equal(t, "another fine title", updated.Title)
	assert.Equal(t, "new content", updated.Content)

	// Supplied titles are revalidated.
	_, err = service.Update(article.ID, author, "tiny", "")
	assertAPIError(t, err, 400)

	_, err = service.Update("missing", author, "another fine title", "")
	assertAPIError(t, err, 404)
}

func TestArticleService_DeleteCascadesComments(t *testing.T) {
	service, commentService, _, comments := newArticleFixture(nil)
	author := &models.Profile{ID: "profile-1", Owner: "account-1", Kind: models.ProfileKindCompany, Name: "Acme"}
	commenter := &models.Profile{ID: "profile-2", Owner: "account-2", Kind: models.ProfileKindPerson, FirstName: "Samu", LastName: "PERHONEN"}

	article, err := service.Create(author, "a fine title", "some content")
	assert.NoError(t, err)

	comment, err := commentService.Create(article.ID, commenter, "nice read")
	assert.NoError(t, err)
	assert.Equal(t, "Samu PERHONEN", comment.AuthorName)

	err = service.Delete(article.ID, commenter)
	assertAPIError(t, err, 403)

	assert.NoError(t, service.Delete(article.ID, author))

	left, err := comments.GetByArticle(article.ID)
	assert.NoError(t, err)
	assert.Empty(t, left)

	err = service.Delete(article.ID, author)
	assertAPIError(t, err, 404)
}

func TestArticleService_ListPagination(t *testing.T) {
	service, _, _, _ := newArticleFixture(nil)
	author := &models.Profile{ID: "profile-1", Owner: "account-1"}
	noise := &models.Profile{ID: "profile-2", Owner: "account-2"}

	for i := 0; i < 22; i++ {
		_, err := service.Create(author, fmt.Sprintf("pagination article %02d", i), "content")
		assert.NoError(t, err)
	}
	_, err := service.Create(noise, "unrelated article", "content")
	assert.NoError(t, err)

	articles, maxPage, err := service.List(2, 3, author.ID)
	assert.NoError(t, err)
	assert.Len(t, articles, 3)
	assert.Equal(t, 8, maxPage) // ceil(22/3)

	// Defaults kick in for out-of-range paging values.
	articles, maxPage, err = service.List(0, 0, author.ID)
	assert.NoError(t, err)
	assert.Len(t, articles, 10)
	assert.Equal(t, 3, maxPage) // ceil(22/10)

	// Past the end: empty page, same maxPage.
	articles, maxPage, err = service.List(9, 3, author.ID)
	assert.NoError(t, err)
	assert.Empty(t, articles)
	assert.Equal(t, 8, maxPage)

	// Unfiltered listing sees the extra article.
	_, maxPage, err = service.List(1, 10, "")
	assert.NoError(t, err)
	assert.Equal(t, 3, maxPage) // ceil(23/10)
}

func TestCommentService_CreateAndDelete(t *testing.T) {
	articleService, commentService, _, _ := newArticleFixture(nil)
	author := &models.Profile{ID: "profile-1", Owner: "account-1", Kind: models.ProfileKindPerson, FirstName: "Samu", LastName: "PERHONEN"}
	other := &models.Profile{ID: "profile-2", Owner: "account-2"}

	article, err := articleService.Create(author, "a fine title", "some content")
	assert.NoError(t, err)

	// Comments on an unknown article are rejected.
	_, err = commentService.Create("missing", author, "hello")
	assertAPIError(t, err, 404)
	_, err = commentService.Create(article.ID, author, "")
	assertAPIError(t, err, 400)

	comment, err := commentService.Create(article.ID, author, "hello")
	assert.NoError(t, err)

	err = commentService.Delete(comment.ID, other)
	assertAPIError(t, err, 403)
	assert.NoError(t, commentService.Delete(comment.ID, author))

	err = commentService.Delete(comment.ID, author)
	assertAPIError(t, err, 404)

	listed, err := commentService.ListByArticle(article.ID)
	assert.NoError(t, err)
	assert.Empty(t, listed)
}
