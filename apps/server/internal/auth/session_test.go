package auth

import "testing"

func TestRegisterLoginResolve(t *testing.T) {
	m := NewManager()
	defer m.Close()

	id, token, err := m.Register("player_one", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 || token == "" {
		t.Fatalf("register returned id=%d token=%q", id, token)
	}

	gotID, username, ok := m.ResolveSession(token)
	if !ok || gotID != id || username != "player_one" {
		t.Fatalf("resolve: ok=%v id=%d username=%q", ok, gotID, username)
	}

	loginID, loginToken, err := m.Login("Player_One", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if loginID != id || loginToken == token {
		t.Fatalf("login: id=%d token reuse=%v", loginID, loginToken == token)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	m := NewManager()
	defer m.Close()

	if _, _, err := m.Register("x", "secret123"); err != ErrInvalidUsername {
		t.Fatalf("short username: got %v", err)
	}
	if _, _, err := m.Register("valid_name", "123"); err != ErrInvalidPassword {
		t.Fatalf("short password: got %v", err)
	}
	if _, _, err := m.Register("valid_name", "secret123"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Register("VALID_NAME", "secret123"); err != ErrUsernameTaken {
		t.Fatalf("duplicate (case-folded) username: got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	m := NewManager()
	defer m.Close()

	if _, _, err := m.Register("player_two", "secret123"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Login("player_two", "wrong-pass"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password: got %v", err)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	m := NewManager()
	defer m.Close()

	_, token, err := m.Register("player_three", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	m.Logout(token)
	if _, _, ok := m.ResolveSession(token); ok {
		t.Fatal("session survived logout")
	}
}
