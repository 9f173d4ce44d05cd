package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/anonto42/inkwell/backend/internal/models"
)

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.client().post("/api/user/signout", nil)
	expectError(t, status, body, http.StatusUnauthorized, "Unauthorized: No token provided")

	c := env.client()
	c.setSessionCookie("not-a-jwt")
	status, body = c.get("/api/user/get-users")
	expectError(t, status, body, http.StatusUnauthorized, "Unauthorized: Invalid token")
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceUser := env.loggedIn("alice", false)
	_, bobUser := env.loggedIn("bob", false)

	t.Run("other user is forbidden", func(t *testing.T) {
		status, body := alice.put("/api/user/update/"+bobUser.ID, map[string]string{"username": "mallory"})
		expectError(t, status, body, http.StatusForbidden, "You are not allowed to update this profile")
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]string
			want string
		}{
			{name: "short password", body: map[string]string{"password": "Ab1"}, want: "Password must be at least 6 characters long"},
			{name: "weak password", body: map[string]string{"password": "password"}, want: "Password must contain at least one uppercase letter, one lowercase letter, one digit."},
			{name: "short username", body: map[string]string{"username": "al"}, want: "Username must be between 3 and 20 characters long"},
			{name: "bad username chars", body: map[string]string{"username": "alice!"}, want: "Username can only contain alphabets, numbers, underscores, and spaces"},
			{name: "bad email", body: map[string]string{"email": "nope"}, want: "Invalid Email format"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				status, body := alice.put("/api/user/update/"+aliceUser.ID, tt.body)
				expectError(t, status, body, http.StatusBadRequest, tt.want)
			})
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		status, body := alice.put("/api/user/update/"+aliceUser.ID, map[string]string{"username": "bob"})
		expectError(t, status, body, http.StatusBadRequest, "Username or email already exists")
	})

	t.Run("whitelisted fields only", func(t *testing.T) {
		status, body := alice.put("/api/user/update/"+aliceUser.ID, map[string]interface{}{
			"username":   "alice_w",
			"profilePic": "https://example.com/a.png",
			"isAdmin":    true,
		})
		if status != http.StatusOK {
			t.Fatalf("update: %d %s", status, body)
		}
		updated := decode[models.User](t, body)
		if updated.Username != "alice_w" || updated.ProfilePic != "https://example.com/a.png" {
			t.Errorf("fields not applied: %+v", updated)
		}
		if updated.IsAdmin {
			t.Error("isAdmin must not be writable")
		}
		if updated.Email != aliceUser.Email {
			t.Errorf("email changed unexpectedly to %q", updated.Email)
		}
	})

	t.Run("password is re-hashed", func(t *testing.T) {
		status, body := alice.put("/api/user/update/"+aliceUser.ID, map[string]string{"password": "N3wSecret"})
		if status != http.StatusOK {
			t.Fatalf("update: %d %s", status, body)
		}
		stored, err := env.repos.Users.GetUserByID(context.Background(), aliceUser.ID)
		if err != nil {
			t.Fatal(err)
		}
		if stored.Password == "N3wSecret" || !env.passwords.Compare(stored.Password, "N3wSecret") {
			t.Error("password was not stored as a hash of the new value")
		}
	})
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceUser := env.loggedIn("alice", false)
	admin, _ := env.loggedIn("admin", true)

	status, body := admin.delete("/api/user/delete/" + aliceUser.ID)
	expectError(t, status, body, http.StatusForbidden, "You are not allowed to delete this User")

	status, body = alice.delete("/api/user/delete/" + aliceUser.ID)
	if status != http.StatusOK {
		t.Fatalf("delete: %d %s", status, body)
	}

	status, body = env.client().get("/api/user/" + aliceUser.ID)
	expectError(t, status, body, http.StatusNotFound, "User not found")
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("alice", "alice@x.com", "Passw0rd!", false)

	status, body := env.client().get("/api/user/" + user.ID)
	if status != http.StatusOK {
		t.Fatalf("get user: %d %s", status, body)
	}
	if got := decode[models.User](t, body); got.Username != "alice" {
		t.Errorf("unexpected user %+v", got)
	}
}

func TestGetUsersIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.loggedIn("alice", false)
	admin, _ := env.loggedIn("admin", true)
	env.seedUser("carol", "carol@x.com", "Passw0rd!", false)

	status, body := alice.get("/api/user/get-users")
	expectError(t, status, body, http.StatusForbidden, "You are not allowed to see all users")

	status, body = admin.get("/api/user/get-users?limit=2")
	if status != http.StatusOK {
		t.Fatalf("get users: %d %s", status, body)
	}
	page := decode[models.UsersPage](t, body)
	if len(page.Users) != 2 || page.TotalUsers != 3 || page.LastMonthUsers != 3 {
		t.Errorf("unexpected page: %d users, total %d, last month %d", len(page.Users), page.TotalUsers, page.LastMonthUsers)
	}
}

func TestSignoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.loggedIn("alice", false)

	status, body := alice.post("/api/user/signout", nil)
	if status != http.StatusOK {
		t.Fatalf("signout: %d %s", status, body)
	}
	if alice.sessionCookie() != nil {
		t.Error("expected the session cookie to be cleared")
	}

	status, body = alice.get("/api/user/get-users")
	expectError(t, status, body, http.StatusUnauthorized, "Unauthorized: No token provided")
}
