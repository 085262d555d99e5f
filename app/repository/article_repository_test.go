package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mkraiem/boutiqa/app/models"
)

func seedArticle(t *testing.T, db *gorm.DB, title, slug, status string) *models.Article {
	t.Helper()
	article := &models.Article{Title: title, Slug: slug, Status: status}
	if status == models.ARTICLE_PUBLISHED {
		now := time.Now()
		article.PublishedAt = &now
	}
	mustCreate(t, db, article)
	return article
}

func articleRowsOf(t *testing.T, result interface{}) []models.Article {
	t.Helper()
	rows, ok := result.(*[]models.Article)
	require.True(t, ok)
	return *rows
}

func TestArticleListHidesDraftsByDefault(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepository(db)

	seedArticle(t, db, "Live", "live", models.ARTICLE_PUBLISHED)
	seedArticle(t, db, "WIP", "wip", models.ARTICLE_DRAFT)

	result, err := repo.List(ArticleListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	rows := articleRowsOf(t, result.Rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Live", rows[0].Title)

	result, err = repo.List(ArticleListQuery{ShowDraft: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
}

func TestArticleListSearchSpansContent(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepository(db)

	a := seedArticle(t, db, "Care guide", "care", models.ARTICLE_PUBLISHED)
	a.ContentHTML = "<p>Choosing the right Wheelchair</p>"
	require.NoError(t, repo.Update(a))
	seedArticle(t, db, "Other", "other", models.ARTICLE_PUBLISHED)

	result, err := repo.List(ArticleListQuery{Search: "wheelchair"})
	require.NoError(t, err)
	rows := articleRowsOf(t, result.Rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Care guide", rows[0].Title)
}

func TestArticleListSortByPublishedAt(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepository(db)

	older := seedArticle(t, db, "Older", "older", models.ARTICLE_PUBLISHED)
	past := time.Now().Add(-48 * time.Hour)
	older.PublishedAt = &past
	require.NoError(t, repo.Update(older))
	seedArticle(t, db, "Newer", "newer", models.ARTICLE_PUBLISHED)

	result, err := repo.List(ArticleListQuery{Order: "published_at:desc"})
	require.NoError(t, err)
	rows := articleRowsOf(t, result.Rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "Newer", rows[0].Title)
}

func TestArticleGetBySlug(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepository(db)
	seedArticle(t, db, "Findable", "findable", models.ARTICLE_PUBLISHED)

	article, err := repo.GetBySlug("findable")
	require.NoError(t, err)
	assert.Equal(t, "Findable", article.Title)

	_, err = repo.GetBySlug("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestArticleSlugExists(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepository(db)
	seedArticle(t, db, "Taken", "taken", models.ARTICLE_DRAFT)

	taken, err := repo.SlugExists("taken")
	require.NoError(t, err)
	assert.True(t, taken)

	free, err := repo.SlugExists("free")
	require.NoError(t, err)
	assert.False(t, free)
}
