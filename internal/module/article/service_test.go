package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/module/user"
)

// setupTestDB creates an in-memory SQLite database with the article schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.User{}, &domain.Article{}, &domain.Tag{}, &domain.ArticleTag{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedAuthor(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	id, err := user.CreateUser{Name: name, Email: strings.ToLower(name) + "@example.com"}.Create(context.Background(), db)
	if err != nil {
		t.Fatalf("seed author: %v", err)
	}
	return id
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Unscoped().Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func codeOf(err error) int16 {
	if c := domain.AsCoded(err); c != nil {
		return c.ErrorCode()
	}
	return domain.CodeOK
}

func TestPublish(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db)
	author := seedAuthor(t, db, "Alice")

	got, err := svc.Publish(context.Background(), author, domain.ArticleInput{
		Title:     "  Hello Go  ",
		Summary:   "first post",
		Body:      "body",
		Published: true,
		Tags:      []string{"Go", "web", " go ", "Backend"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID == 0 || got.UUID == "" {
		t.Errorf("expected id and uuid to be set, got %+v", got.Article)
	}
	if got.Title != "Hello Go" {
		t.Errorf("title = %q; want trimmed", got.Title)
	}
	if got.Author.ID != author || got.Author.Name != "Alice" {
		t.Errorf("author = %+v", got.Author)
	}
	want := []string{"backend", "go", "web"}
	if strings.Join(got.Tags, ",") != strings.Join(want, ",") {
		t.Errorf("tags = %v; want %v", got.Tags, want)
	}
	if n := count(t, db, &domain.Tag{}); n != 3 {
		t.Errorf("tags stored = %d; want 3", n)
	}
}

func TestPublish_ReusesExistingTags(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db)
	author := seedAuthor(t, db, "Alice")
	ctx := context.Background()

	if _, err := svc.Publish(ctx, author, domain.ArticleInput{Title: "one", Tags: []string{"go"}}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	second, err := svc.Publish(ctx, author, domain.ArticleInput{Title: "two", Tags: []string{"go", "sql"}})
	if err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if len(second.Tags) != 2 {
		t.Errorf("tags = %v", second.Tags)
	}
	if n := count(t, db, &domain.Tag{}); n != 2 {
		t.Errorf("tags stored = %d; want 2", n)
	}
}

func TestPublish_Errors(t *testing.T) {
	tooMany := make([]string, MaxTags+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("tag%d", i)
	}

	tests := []struct {
		name     string
		author   uint
		in       domain.ArticleInput
		wantCode int16
	}{
		{"empty title", 1, domain.ArticleInput{Title: "   "}, domain.CodeValidation},
		{"long title", 1, domain.ArticleInput{Title: strings.Repeat("t", 201)}, domain.CodeValidation},
		{"long summary", 1, domain.ArticleInput{Title: "ok", Summary: strings.Repeat("s", 501)}, domain.CodeValidation},
		{"empty tag", 1, domain.ArticleInput{Title: "ok", Tags: []string{"go", " "}}, CodeEmptyTag},
		{"long tag", 1, domain.ArticleInput{Title: "ok", Tags: []string{strings.Repeat("x", 51)}}, domain.CodeValidation},
		{"too many tags", 1, domain.ArticleInput{Title: "ok", Tags: tooMany}, CodeTooManyTags},
		{"unknown author", 999, domain.ArticleInput{Title: "ok", Tags: []string{"go"}}, CodeUnknownAuthor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			seedAuthor(t, db, "Alice")

			_, err := NewArticleService(db).Publish(context.Background(), tt.author, tt.in)
			if got := codeOf(err); got != tt.wantCode {
				t.Fatalf("code = %d; want %d (err %v)", got, tt.wantCode, err)
			}
			if n := count(t, db, &domain.Article{}); n != 0 {
				t.Errorf("articles stored = %d; want 0", n)
			}
			if n := count(t, db, &domain.Tag{}); n != 0 {
				t.Errorf("tags stored = %d; want 0", n)
			}
		})
	}
}

func TestMapError_OnlyTitleViolationIsTitleTaken(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db, "Alice")

	if err := db.Create(&domain.Tag{Name: "go"}).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	tagErr := MapError(db.Create(&domain.Tag{Name: "go"}).Error)
	if codeOf(tagErr) == CodeTitleTaken {
		t.Fatalf("duplicate tag reported as title taken: %v", tagErr)
	}
	if !domain.IsConflict(tagErr) {
		t.Errorf("expected a conflict, got %v", tagErr)
	}

	if err := db.Create(&domain.Article{UUID: "u-1", Title: "same", AuthorID: author}).Error; err != nil {
		t.Fatalf("seed article: %v", err)
	}
	titleErr := MapError(db.Create(&domain.Article{UUID: "u-2", Title: "same", AuthorID: author}).Error)
	if codeOf(titleErr) != CodeTitleTaken {
		t.Errorf("expected title taken, got %v", titleErr)
	}
	uuidErr := MapError(db.Create(&domain.Article{UUID: "u-1", Title: "other", AuthorID: author}).Error)
	if codeOf(uuidErr) == CodeTitleTaken || !domain.IsConflict(uuidErr) {
		t.Errorf("expected a plain conflict for a uuid collision, got %v", uuidErr)
	}
}

func TestCreateTag_ExistingNameYieldsExistingID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first, err := CreateTag{Name: "go"}.Create(ctx, db)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := CreateTag{Name: "go"}.Create(ctx, db)
	if err != nil {
		t.Fatalf("second create must not conflict: %v", err)
	}
	if first == 0 || first != second {
		t.Errorf("ids = %d, %d; want the same non-zero id", first, second)
	}
	if n := count(t, db, &domain.Tag{}); n != 1 {
		t.Errorf("tags = %d; want 1", n)
	}
}

func TestPublish_DuplicateTitle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db)
	author := seedAuthor(t, db, "Alice")
	ctx := context.Background()

	if _, err := svc.Publish(ctx, author, domain.ArticleInput{Title: "same"}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	_, err := svc.Publish(ctx, author, domain.ArticleInput{Title: "same", Tags: []string{"fresh"}})

	coded := domain.AsCoded(err)
	if coded == nil || coded.ErrorCode() != CodeTitleTaken {
		t.Fatalf("expected title taken, got %v", err)
	}
	if coded.HTTPStatus() != 409 {
		t.Errorf("status = %d; want 409", coded.HTTPStatus())
	}
	var dbErr *domain.DatabaseError
	if !errors.As(err, &dbErr) || dbErr.Failure != domain.DBFailureConflict {
		t.Errorf("expected the database conflict in the chain, got %v", err)
	}
	if n := count(t, db, &domain.Tag{}); n != 0 {
		t.Errorf("tags stored = %d; want 0", n)
	}
}

func TestPublish_RollsBackOnTagFailure(t *testing.T) {
	db := setupTestDB(t)
	author := seedAuthor(t, db, "Alice")
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_bindings", func(tx *gorm.DB) {
		if tx.Statement.Table == "article_tags" {
			_ = tx.AddError(errors.New("binding refused"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	_, err = NewArticleService(db).Publish(context.Background(), author, domain.ArticleInput{
		Title: "atomic",
		Tags:  []string{"go"},
	})
	if codeOf(err) != domain.CodeDatabase {
		t.Fatalf("expected database error, got %v", err)
	}
	if strings.Contains(domain.AsCoded(err).ErrorMessage(), "binding refused") {
		t.Error("driver text leaked into the message")
	}
	if n := count(t, db, &domain.Article{}); n != 0 {
		t.Errorf("articles stored = %d; want 0", n)
	}
	if n := count(t, db, &domain.Tag{}); n != 0 {
		t.Errorf("tags stored = %d; want 0", n)
	}
}

func TestGetArticle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db)
	author := seedAuthor(t, db, "Alice")
	ctx := context.Background()

	created, err := svc.Publish(ctx, author, domain.ArticleInput{Title: "read me", Summary: "sum", Body: "long body"})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Run("by id", func(t *testing.T) {
		got, err := svc.GetArticle(ctx, created.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Body != "long body" || got.Tags == nil {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("by uuid", func(t *testing.T) {
		got, err := svc.GetArticleByUUID(ctx, created.UUID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != created.ID {
			t.Errorf("id = %d; want %d", got.ID, created.ID)
		}
	})

	t.Run("brief", func(t *testing.T) {
		got, err := svc.GetBrief(ctx, created.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Title != "read me" || got.Summary != "sum" || got.UUID != created.UUID {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		for _, err := range []error{
			func() error { _, err := svc.GetArticle(ctx, 999); return err }(),
			func() error { _, err := svc.GetArticleByUUID(ctx, "missing"); return err }(),
			func() error { _, err := svc.GetBrief(ctx, 999); return err }(),
		} {
			if !domain.IsNotFound(err) {
				t.Errorf("expected not found, got %v", err)
			}
		}
	})
}

func TestListArticles(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db)
	alice := seedAuthor(t, db, "Alice")
	bob := seedAuthor(t, db, "Bob")
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		author := alice
		if i%3 == 0 {
			author = bob
		}
		in := domain.ArticleInput{
			Title:     fmt.Sprintf("post %02d", i),
			Summary:   "about go",
			Published: i%2 == 0,
		}
		if i == 7 {
			in.Summary = "about sql"
		}
		if i == 9 {
			in.Summary = "50% off_topic"
		}
		if _, err := svc.Publish(ctx, author, in); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	published := true

	tests := []struct {
		name      string
		q         domain.ArticleQuery
		page      domain.Paginate
		order     string
		wantTotal uint64
		wantFirst string
		wantLen   int
	}{
		{"all paged", domain.ArticleQuery{}, domain.Paginate{Page: 2, PerPage: 5}, "id asc", 12, "post 06", 5},
		{"by author", domain.ArticleQuery{AuthorID: bob}, domain.Paginate{Page: 1, PerPage: 10}, "id desc", 4, "post 12", 4},
		{"published", domain.ArticleQuery{Published: &published}, domain.Paginate{Page: 1, PerPage: 10}, "title asc", 6, "post 02", 6},
		{"keyword", domain.ArticleQuery{Keyword: "sql"}, domain.Paginate{Page: 1, PerPage: 10}, "", 1, "post 07", 1},
		{"keyword in title", domain.ArticleQuery{Keyword: "post 1"}, domain.Paginate{Page: 1, PerPage: 10}, "title desc", 3, "post 12", 3},
		{"percent is literal", domain.ArticleQuery{Keyword: "50%"}, domain.Paginate{Page: 1, PerPage: 10}, "", 1, "post 09", 1},
		{"underscore is literal", domain.ArticleQuery{Keyword: "f_t"}, domain.Paginate{Page: 1, PerPage: 10}, "", 1, "post 09", 1},
		{"lone percent", domain.ArticleQuery{Keyword: "%"}, domain.Paginate{Page: 1, PerPage: 10}, "", 1, "post 09", 1},
		{"underscore does not match any rune", domain.ArticleQuery{Keyword: "post_1"}, domain.Paginate{Page: 1, PerPage: 10}, "", 0, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.ListArticles(ctx, tt.q, tt.page, tt.order)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Total != tt.wantTotal {
				t.Errorf("total = %d; want %d", result.Total, tt.wantTotal)
			}
			if len(result.Data) != tt.wantLen {
				t.Fatalf("len = %d; want %d", len(result.Data), tt.wantLen)
			}
			if tt.wantLen > 0 && result.Data[0].Title != tt.wantFirst {
				t.Errorf("first = %q; want %q", result.Data[0].Title, tt.wantFirst)
			}
		})
	}
}

func TestUpdateArticle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db)
	author := seedAuthor(t, db, "Alice")
	ctx := context.Background()

	a, err := svc.Publish(ctx, author, domain.ArticleInput{Title: "draft", Tags: []string{"go", "old"}})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := svc.Publish(ctx, author, domain.ArticleInput{Title: "taken"}); err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Run("replaces tags", func(t *testing.T) {
		got, err := svc.UpdateArticle(ctx, a.ID, domain.ArticleInput{Title: "final", Published: true, Tags: []string{"go", "new"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Title != "final" || !got.Published {
			t.Errorf("got %+v", got.Article)
		}
		if strings.Join(got.Tags, ",") != "go,new" {
			t.Errorf("tags = %v", got.Tags)
		}
	})

	t.Run("title taken", func(t *testing.T) {
		_, err := svc.UpdateArticle(ctx, a.ID, domain.ArticleInput{Title: "taken", Tags: []string{"other"}})
		if codeOf(err) != CodeTitleTaken {
			t.Fatalf("expected title taken, got %v", err)
		}
		got, err := svc.GetArticle(ctx, a.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Title != "final" || strings.Join(got.Tags, ",") != "go,new" {
			t.Errorf("failed update must leave the article intact, got %q %v", got.Title, got.Tags)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.UpdateArticle(ctx, 999, domain.ArticleInput{Title: "x"})
		if !domain.IsNotFound(err) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestDeleteArticle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db)
	author := seedAuthor(t, db, "Alice")
	ctx := context.Background()

	soft, err := svc.Publish(ctx, author, domain.ArticleInput{Title: "soft", Tags: []string{"go"}})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	hard, err := svc.Publish(ctx, author, domain.ArticleInput{Title: "hard", Tags: []string{"go", "sql"}})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Run("soft", func(t *testing.T) {
		if err := svc.DeleteArticle(ctx, soft.ID, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.GetArticle(ctx, soft.ID); !domain.IsNotFound(err) {
			t.Errorf("soft deleted article must not be readable, got %v", err)
		}
		var row domain.Article
		if err := db.Unscoped().First(&row, soft.ID).Error; err != nil {
			t.Fatalf("row must survive a soft delete: %v", err)
		}
		if !row.DeletedAt.Valid {
			t.Error("expected deleted_at to be set")
		}
		var bindings int64
		db.Model(&domain.ArticleTag{}).Where("article_id = ?", soft.ID).Count(&bindings)
		if bindings != 1 {
			t.Errorf("bindings = %d; want 1", bindings)
		}
	})

	t.Run("soft twice", func(t *testing.T) {
		if err := svc.DeleteArticle(ctx, soft.ID, false); !domain.IsNotFound(err) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("force", func(t *testing.T) {
		if err := svc.DeleteArticle(ctx, hard.ID, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var n int64
		db.Unscoped().Model(&domain.Article{}).Where("id = ?", hard.ID).Count(&n)
		if n != 0 {
			t.Errorf("row must be gone after a force delete")
		}
		db.Model(&domain.ArticleTag{}).Where("article_id = ?", hard.ID).Count(&n)
		if n != 0 {
			t.Errorf("bindings = %d; want 0", n)
		}
		if c := count(t, db, &domain.Tag{}); c != 2 {
			t.Errorf("tags must survive, got %d", c)
		}
	})

	t.Run("force removes soft deleted", func(t *testing.T) {
		if err := svc.DeleteArticle(ctx, soft.ID, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := count(t, db, &domain.Article{}); n != 0 {
			t.Errorf("articles stored = %d; want 0", n)
		}
	})

	t.Run("not found", func(t *testing.T) {
		for _, force := range []bool{false, true} {
			if err := svc.DeleteArticle(ctx, 999, force); !domain.IsNotFound(err) {
				t.Errorf("force=%v: expected not found, got %v", force, err)
			}
		}
	})
}

func TestTags(t *testing.T) {
	db := setupTestDB(t)
	svc := NewArticleService(db)
	author := seedAuthor(t, db, "Alice")
	ctx := context.Background()

	a, err := svc.Publish(ctx, author, domain.ArticleInput{Title: "tagged", Tags: []string{"web", "go", "sql"}})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	page, err := svc.ListTags(ctx, domain.Paginate{Page: 1, PerPage: 2})
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if page.Total != 3 || page.LastPage != 2 || len(page.Data) != 2 || page.Data[0].Name != "go" {
		t.Fatalf("unexpected page: %+v", page)
	}

	if err := svc.DeleteTag(ctx, page.Data[0].ID); err != nil {
		t.Fatalf("delete tag: %v", err)
	}
	got, err := svc.GetArticle(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.Join(got.Tags, ",") != "sql,web" {
		t.Errorf("tags = %v; want [sql web]", got.Tags)
	}

	if err := svc.DeleteTag(ctx, page.Data[0].ID); !domain.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}
