package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

func mustOpen(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// mustInit opens an in-memory database with the schema applied.
func mustInit(t *testing.T) *sql.DB {
	t.Helper()
	db := mustOpen(t)
	if err := Initialize(db); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return db
}

func mustUser(t *testing.T, db *sql.DB, username string) int {
	t.Helper()
	id, err := CreateUser(context.Background(), db, &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", username, err)
	}
	return id
}

func mustProject(t *testing.T, db *sql.DB, title string, authorID int) int {
	t.Helper()
	id, err := CreateProject(context.Background(), db, &model.Project{
		Title:       title,
		Description: "desc",
		Type:        model.ProjectTypeBackEnd,
		AuthorID:    authorID,
	})
	if err != nil {
		t.Fatalf("CreateProject(%q): %v", title, err)
	}
	return id
}

func mustIssue(t *testing.T, db *sql.DB, projectID, authorID int, title string) int {
	t.Helper()
	id, err := CreateIssue(context.Background(), db, &model.Issue{
		ProjectID:   projectID,
		Title:       title,
		Description: "desc",
		Tag:         model.DefaultTag,
		Priority:    model.DefaultPriority,
		Status:      model.DefaultStatus,
		AuthorID:    authorID,
	}, "tester")
	if err != nil {
		t.Fatalf("CreateIssue(%q): %v", title, err)
	}
	return id
}

func TestOpenSetsWALMode(t *testing.T) {
	db := mustOpen(t)

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("querying journal_mode: %v", err)
	}
	// In-memory databases may report "memory" instead of "wal" since WAL
	// requires a file. Accept both.
	if mode != "wal" && mode != "memory" {
		t.Errorf("journal_mode = %q, want wal or memory", mode)
	}
}

func TestOpenSetsForeignKeys(t *testing.T) {
	db := mustOpen(t)

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("querying foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestOpenSetsBusyTimeout(t *testing.T) {
	db := mustOpen(t)

	var timeout int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("querying busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestInitializeCreatesAllTables(t *testing.T) {
	db := mustInit(t)

	tables := []string{
		"meta", "users", "sessions", "projects",
		"contributors", "issues", "comments", "activity_log",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	db := mustOpen(t)

	if err := Initialize(db); err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}
	if err := Initialize(db); err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}

	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != currentSchemaVersion {
		t.Errorf("schema_version = %d after double init, want %d", v, currentSchemaVersion)
	}
}

func TestMigrateNoOpAtLatestVersion(t *testing.T) {
	db := mustInit(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != currentSchemaVersion {
		t.Errorf("schema_version = %d after Migrate, want %d", v, currentSchemaVersion)
	}
}

func TestMigrateRejectsNewerSchema(t *testing.T) {
	db := mustInit(t)

	if _, err := db.Exec(`UPDATE meta SET value = ? WHERE key = 'schema_version'`, currentSchemaVersion+1); err != nil {
		t.Fatalf("setting schema version: %v", err)
	}
	if err := Migrate(db); err == nil {
		t.Error("Migrate accepted a schema newer than the binary")
	}
}

func TestMigrateMissingStep(t *testing.T) {
	db := mustInit(t)

	if _, err := db.Exec(`UPDATE meta SET value = '0' WHERE key = 'schema_version'`); err != nil {
		t.Fatalf("setting schema version: %v", err)
	}
	err := Migrate(db)
	if err == nil || !strings.Contains(err.Error(), "missing migration for version 1") {
		t.Errorf("Migrate err = %v, want missing migration for version 1", err)
	}

	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 0 {
		t.Errorf("schema_version = %d after failed migration, want 0", v)
	}
}

func TestWithTx(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := CreateUser(ctx, tx, &model.User{Username: "alice", PasswordHash: "x"})
		return err
	})
	if err != nil {
		t.Fatalf("WithTx commit: %v", err)
	}

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := CreateUser(ctx, tx, &model.User{Username: "bob", PasswordHash: "x"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v, want boom", err)
	}

	if _, err := GetUserByUsername(ctx, db, "alice"); err != nil {
		t.Errorf("alice missing after commit: %v", err)
	}
	if _, err := GetUserByUsername(ctx, db, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob err = %v after rollback, want ErrNotFound", err)
	}
}

func TestForeignKeyEnforcement(t *testing.T) {
	db := mustInit(t)

	_, err := db.Exec(
		"INSERT INTO comments (issue_id, description, created_time) VALUES (999, 'test', '2024-01-01T00:00:00Z')",
	)
	if err == nil {
		t.Error("expected foreign key violation, got nil")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db := mustInit(t)
	mustUser(t, db, "alice")

	_, err := db.Exec(
		"INSERT INTO users (username, password_hash, created_at) VALUES ('alice', 'x', '2024-01-01T00:00:00Z')",
	)
	if err == nil {
		t.Fatal("expected unique violation, got nil")
	}
	if !isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = false, want true", err)
	}

	_, err = db.Exec(
		"INSERT INTO comments (issue_id, description, created_time) VALUES (999, 'test', '2024-01-01T00:00:00Z')",
	)
	if err == nil {
		t.Fatal("expected foreign key violation, got nil")
	}
	if isUniqueViolation(err) {
		t.Errorf("isUniqueViolation(%v) = true for foreign key error", err)
	}

	if isUniqueViolation(errors.New("UNIQUE constraint failed")) {
		t.Error("isUniqueViolation should ignore non-sqlite errors")
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	p := mustProject(t, db, "Tracker", alice)
	if _, err := AddContributor(ctx, db, &model.Contributor{UserID: bob, ProjectID: p}); err != nil {
		t.Fatalf("AddContributor: %v", err)
	}
	issueID := mustIssue(t, db, p, bob, "Bug1")
	if _, err := CreateComment(ctx, db, &model.Comment{IssueID: issueID, Description: "hi", AuthorID: &alice}, "alice"); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	if err := DeleteProject(ctx, db, p); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}

	for _, table := range []string{"contributors", "issues", "comments", "activity_log"} {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatalf("counting %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s has %d rows after project delete, want 0", table, n)
		}
	}
}

func TestDeleteIssueCascadesComments(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	p := mustProject(t, db, "Tracker", alice)
	keep := mustIssue(t, db, p, alice, "keep")
	drop := mustIssue(t, db, p, alice, "drop")

	for _, issueID := range []int{keep, drop} {
		if _, err := CreateComment(ctx, db, &model.Comment{IssueID: issueID, Description: "c", AuthorID: &alice}, "alice"); err != nil {
			t.Fatalf("CreateComment: %v", err)
		}
	}

	if err := DeleteIssue(ctx, db, drop); err != nil {
		t.Fatalf("DeleteIssue: %v", err)
	}

	remaining, err := ListComments(ctx, db, drop)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("deleted issue still has %d comments", len(remaining))
	}
	kept, err := ListComments(ctx, db, keep)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(kept) != 1 {
		t.Errorf("other issue has %d comments, want 1", len(kept))
	}
}

func TestDeleteUserNullsCommentAuthor(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	p := mustProject(t, db, "Tracker", alice)
	if _, err := AddContributor(ctx, db, &model.Contributor{UserID: bob, ProjectID: p}); err != nil {
		t.Fatalf("AddContributor: %v", err)
	}
	issueID := mustIssue(t, db, p, alice, "Bug1")
	commentID, err := CreateComment(ctx, db, &model.Comment{IssueID: issueID, Description: "from bob", AuthorID: &bob}, "bob")
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}

	if err := DeleteUser(ctx, db, bob); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	c, err := GetComment(ctx, db, commentID)
	if err != nil {
		t.Fatalf("GetComment after user delete: %v", err)
	}
	if c.AuthorID != nil {
		t.Errorf("AuthorID = %d, want nil", *c.AuthorID)
	}
	if c.AuthorOrAnonymous() != "anonymous" {
		t.Errorf("AuthorOrAnonymous() = %q, want anonymous", c.AuthorOrAnonymous())
	}

	ok, err := IsContributor(ctx, db, bob, p)
	if err != nil {
		t.Fatalf("IsContributor: %v", err)
	}
	if ok {
		t.Error("contributor row survived user delete")
	}
}

func TestDeleteAssigneeKeepsIssue(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	p := mustProject(t, db, "Tracker", alice)
	issueID, err := CreateIssue(ctx, db, &model.Issue{
		ProjectID:  p,
		Title:      "Bug1",
		Tag:        model.DefaultTag,
		Priority:   model.DefaultPriority,
		Status:     model.DefaultStatus,
		AuthorID:   alice,
		AssigneeID: &bob,
	}, "alice")
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}

	if err := DeleteUser(ctx, db, bob); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	issue, err := GetIssue(ctx, db, issueID)
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if issue.AssigneeID != nil {
		t.Errorf("AssigneeID = %d, want nil", *issue.AssigneeID)
	}
}
