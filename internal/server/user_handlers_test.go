package server

import (
	"fmt"
	"net/http"
	"testing"

	"snapdare/internal/models"
)

func TestUpdateMyProfileHandler(t *testing.T) {
	t.Parallel()

	s, db := setupHandlerTest(t)
	user := createTestUser(t, db, "profiled")

	app := newAuthedApp(user.ID)
	app.Patch("/api/user/me", s.UpdateMyProfile)

	resp := doJSON(t, app, http.MethodPatch, "/api/user/me",
		map[string]string{"bio": "shoots film, mostly"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got models.User
	decodeBody(t, resp, &got)
	if got.Bio != "shoots film, mostly" {
		t.Fatalf("expected updated bio, got %q", got.Bio)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Bio != "shoots film, mostly" {
		t.Fatalf("bio not persisted")
	}
}

func TestUpdateMyProfileHandler_UsernameTaken(t *testing.T) {
	t.Parallel()

	s, db := setupHandlerTest(t)
	user := createTestUser(t, db, "renamer")
	createTestUser(t, db, "occupied")

	app := newAuthedApp(user.ID)
	app.Patch("/api/user/me", s.UpdateMyProfile)

	resp := doJSON(t, app, http.MethodPatch, "/api/user/me",
		map[string]string{"username": "occupied"})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestGetUserProfileHandler(t *testing.T) {
	t.Parallel()

	s, db := setupHandlerTest(t)
	user := createTestUser(t, db, "visible")

	app := newAuthedApp(0)
	app.Get("/api/user/:userId", s.GetUserProfile)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/user/%d", user.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got models.User
	decodeBody(t, resp, &got)
	if got.Username != "visible" {
		t.Fatalf("expected visible, got %q", got.Username)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/user/999", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
