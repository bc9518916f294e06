package db

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

func TestCreateProjectAddsOwner(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	p := mustProject(t, db, "Tracker", alice)

	contributors, err := ListContributors(ctx, db, p)
	if err != nil {
		t.Fatalf("ListContributors: %v", err)
	}
	if len(contributors) != 1 {
		t.Fatalf("got %d contributors, want 1", len(contributors))
	}
	c := contributors[0]
	if c.UserID != alice || c.Permission != model.PermissionOwner || c.Username != "alice" {
		t.Errorf("owner row = %+v, want alice/owner", c)
	}
}

func TestCreateProjectRollsBackWhenOwnerInsertFails(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	if _, err := db.Exec(`CREATE TRIGGER reject_contributors BEFORE INSERT ON contributors
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`); err != nil {
		t.Fatalf("creating trigger: %v", err)
	}

	_, err := CreateProject(ctx, db, &model.Project{
		Title:    "Tracker",
		Type:     model.ProjectTypeBackEnd,
		AuthorID: alice,
	})
	if err == nil {
		t.Fatal("CreateProject succeeded despite failing owner insert")
	}

	projects, err := ListProjects(ctx, db)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("got %d projects after failed create, want 0", len(projects))
	}
}

func TestCreateProjectDuplicateTitle(t *testing.T) {
	db := mustInit(t)
	alice := mustUser(t, db, "alice")
	mustProject(t, db, "Tracker", alice)

	_, err := CreateProject(context.Background(), db, &model.Project{
		Title:    "Tracker",
		Type:     model.ProjectTypeIOS,
		AuthorID: alice,
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	db := mustInit(t)
	if _, err := GetProject(context.Background(), db, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateProject(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	p := mustProject(t, db, "Tracker", alice)
	mustProject(t, db, "Other", alice)

	if err := UpdateProject(ctx, db, p, map[string]any{
		"description": "new",
		"type":        string(model.ProjectTypeAndroid),
	}); err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}

	got, err := GetProject(ctx, db, p)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.Description != "new" || got.Type != model.ProjectTypeAndroid || got.Title != "Tracker" {
		t.Errorf("project = %+v", got)
	}
	if got.AuthorID != alice {
		t.Errorf("AuthorID = %d, want %d", got.AuthorID, alice)
	}

	tests := []struct {
		name    string
		id      int
		updates map[string]any
		want    error
	}{
		{"duplicate title", p, map[string]any{"title": "Other"}, ErrConflict},
		{"missing project", 999, map[string]any{"title": "X"}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := UpdateProject(ctx, db, tt.id, tt.updates); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if err := UpdateProject(ctx, db, p, map[string]any{"author_user_id": 2}); err == nil {
		t.Error("UpdateProject accepted author_user_id")
	}
}

func TestAddContributorDuplicate(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	p := mustProject(t, db, "Tracker", alice)

	if _, err := AddContributor(ctx, db, &model.Contributor{UserID: bob, ProjectID: p}); err != nil {
		t.Fatalf("first AddContributor: %v", err)
	}
	if _, err := AddContributor(ctx, db, &model.Contributor{UserID: bob, ProjectID: p}); !errors.Is(err, ErrConflict) {
		t.Errorf("second AddContributor err = %v, want ErrConflict", err)
	}
	if _, err := AddContributor(ctx, db, &model.Contributor{UserID: alice, ProjectID: p}); !errors.Is(err, ErrConflict) {
		t.Errorf("re-adding owner err = %v, want ErrConflict", err)
	}
}

func TestAddContributorRejectsUnknownPermission(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	p := mustProject(t, db, "Tracker", alice)

	if _, err := AddContributor(ctx, db, &model.Contributor{UserID: bob, ProjectID: p, Permission: "admin"}); err == nil {
		t.Fatal("AddContributor accepted permission \"admin\"")
	}
	ok, err := IsContributor(ctx, db, bob, p)
	if err != nil {
		t.Fatalf("IsContributor: %v", err)
	}
	if ok {
		t.Error("contributor row stored despite invalid permission")
	}
}

func TestAddContributorConcurrent(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	p := mustProject(t, db, "Tracker", alice)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := AddContributor(ctx, db, &model.Contributor{UserID: bob, ProjectID: p})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 || conflicts != workers-1 {
		t.Errorf("succeeded=%d conflicts=%d, want 1 and %d", succeeded, conflicts, workers-1)
	}
}

func TestRemoveContributor(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	p := mustProject(t, db, "Tracker", alice)
	if _, err := AddContributor(ctx, db, &model.Contributor{UserID: bob, ProjectID: p}); err != nil {
		t.Fatalf("AddContributor: %v", err)
	}

	if err := RemoveContributor(ctx, db, p, bob); err != nil {
		t.Fatalf("RemoveContributor: %v", err)
	}
	ok, err := IsContributor(ctx, db, bob, p)
	if err != nil {
		t.Fatalf("IsContributor: %v", err)
	}
	if ok {
		t.Error("bob is still a contributor")
	}
	if err := RemoveContributor(ctx, db, p, bob); !errors.Is(err, ErrNotFound) {
		t.Errorf("second remove err = %v, want ErrNotFound", err)
	}
}

func TestLookupIDs(t *testing.T) {
	db := mustInit(t)
	ctx := context.Background()

	alice := mustUser(t, db, "alice")
	p := mustProject(t, db, "Tracker", alice)

	ids, err := LookupUserIDs(ctx, db, "alice", 2)
	if err != nil {
		t.Fatalf("LookupUserIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != alice {
		t.Errorf("LookupUserIDs = %v, want [%d]", ids, alice)
	}

	ids, err = LookupProjectIDs(ctx, db, "Tracker", 2)
	if err != nil {
		t.Fatalf("LookupProjectIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != p {
		t.Errorf("LookupProjectIDs = %v, want [%d]", ids, p)
	}

	ids, err = LookupProjectIDs(ctx, db, "tracker", 2)
	if err != nil {
		t.Fatalf("LookupProjectIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("lookup is case-insensitive: %v", ids)
	}
}
