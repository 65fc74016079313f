package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/threadline/messaging-api/internal/core/domain"
	"github.com/threadline/messaging-api/internal/core/ports"
	"github.com/threadline/messaging-api/internal/infrastructure/crypto"
)

func newUserService(users *stubUserRepo, messages *stubMessageRepo) *UserService {
	return NewUserService(users, messages, crypto.NewBcryptHasher(), zerolog.Nop())
}

func mustCreateUser(t *testing.T, svc *UserService, input ports.SignUpInput) *domain.User {
	t.Helper()
	user, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return user
}

func TestUserService_Create_HashesPassword(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubMessageRepo())
	hasher := crypto.NewBcryptHasher()

	user := mustCreateUser(t, svc, ports.SignUpInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	})

	if user.PasswordHash == "secret-password" {
		t.Fatalf("stored credential equals the plaintext")
	}
	if !hasher.Verify("secret-password", user.PasswordHash) {
		t.Fatalf("stored credential does not verify against the original plaintext")
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubMessageRepo())
	mustCreateUser(t, svc, ports.SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret-password"})

	cases := []struct {
		name  string
		input ports.SignUpInput
		want  string
	}{
		{
			name:  "duplicate username",
			input: ports.SignUpInput{Username: "alice", Email: "other@example.com", Password: "secret-password"},
			want:  domain.MsgUsernameTaken,
		},
		{
			name:  "duplicate email",
			input: ports.SignUpInput{Username: "bob", Email: "alice@example.com", Password: "secret-password"},
			want:  domain.MsgEmailTaken,
		},
		{
			name:  "malformed email",
			input: ports.SignUpInput{Username: "bob", Email: "not-an-email", Password: "secret-password"},
			want:  domain.MsgInvalidEmail,
		},
		{
			name:  "password too short",
			input: ports.SignUpInput{Username: "bob", Email: "bob@example.com", Password: "short"},
			want:  domain.MsgPasswordLength,
		},
		{
			name:  "password too long",
			input: ports.SignUpInput{Username: "bob", Email: "bob@example.com", Password: "0123456789012345678901234567890123456789012"},
			want:  domain.MsgPasswordLength,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Message != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, ve.Message)
			}
		})
	}
}

func TestUserService_FindByLogin_PrefersUsername(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubMessageRepo())

	// bob's username equals carol's email: the username phase must win.
	bob := mustCreateUser(t, svc, ports.SignUpInput{Username: "carol@example.com", Email: "bob@example.com", Password: "secret-password"})
	carol := mustCreateUser(t, svc, ports.SignUpInput{Username: "carol", Email: "carol@example.com", Password: "secret-password"})

	found, err := svc.FindByLogin(context.Background(), "carol@example.com")
	if err != nil {
		t.Fatalf("FindByLogin returned error: %v", err)
	}
	if found == nil || found.ID != bob.ID {
		t.Fatalf("expected username owner %s, got %+v", bob.ID, found)
	}

	found, err = svc.FindByLogin(context.Background(), "carol")
	if err != nil {
		t.Fatalf("FindByLogin returned error: %v", err)
	}
	if found == nil || found.ID != carol.ID {
		t.Fatalf("expected carol %s, got %+v", carol.ID, found)
	}
}

func TestUserService_FindByLogin_NoMatch(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubMessageRepo())

	found, err := svc.FindByLogin(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("FindByLogin returned error: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil, got %+v", found)
	}
}

func TestUserService_Update_RehashesPassword(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubMessageRepo())
	hasher := crypto.NewBcryptHasher()
	user := mustCreateUser(t, svc, ports.SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret-password"})

	newPassword := "another-password"
	updated, err := svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Password: &newPassword})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !hasher.Verify(newPassword, updated.PasswordHash) {
		t.Fatalf("updated credential does not verify against the new plaintext")
	}
	if hasher.Verify("secret-password", updated.PasswordHash) {
		t.Fatalf("updated credential still verifies against the old plaintext")
	}
}

func TestUserService_Update_KeepsOwnUniqueValues(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubMessageRepo())
	user := mustCreateUser(t, svc, ports.SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret-password"})

	// Re-submitting your own username or email is not a conflict.
	username := "alice"
	email := "alice@example.com"
	if _, err := svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Username: &username, Email: &email}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	takenUsername := "taken"
	takenEmail := "taken@example.com"
	mustCreateUser(t, svc, ports.SignUpInput{Username: takenUsername, Email: takenEmail, Password: "secret-password"})

	var ve *domain.ValidationError
	_, err := svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Username: &takenUsername})
	if !errors.As(err, &ve) || ve.Message != domain.MsgUsernameTaken {
		t.Fatalf("expected %q, got %v", domain.MsgUsernameTaken, err)
	}

	_, err = svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Email: &takenEmail})
	if !errors.As(err, &ve) || ve.Message != domain.MsgEmailTaken {
		t.Fatalf("expected %q, got %v", domain.MsgEmailTaken, err)
	}

	malformed := "not-an-email"
	_, err = svc.Update(context.Background(), user.ID, ports.UpdateUserInput{Email: &malformed})
	if !errors.As(err, &ve) || ve.Message != domain.MsgInvalidEmail {
		t.Fatalf("expected %q, got %v", domain.MsgInvalidEmail, err)
	}
}

func TestUserService_Delete_CascadesMessages(t *testing.T) {
	users := newStubUserRepo()
	messages := newStubMessageRepo()
	svc := newUserService(users, messages)
	msgSvc := NewMessageService(messages, zerolog.Nop())

	user := mustCreateUser(t, svc, ports.SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret-password"})
	other := mustCreateUser(t, svc, ports.SignUpInput{Username: "bob", Email: "bob@example.com", Password: "secret-password"})

	for i := 0; i < 5; i++ {
		if _, err := msgSvc.Create(context.Background(), user.ID, "hello"); err != nil {
			t.Fatalf("Create message returned error: %v", err)
		}
	}
	if _, err := msgSvc.Create(context.Background(), other.ID, "untouched"); err != nil {
		t.Fatalf("Create message returned error: %v", err)
	}

	ok, err := svc.Delete(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected delete to succeed")
	}

	remaining, err := messages.ListByAuthor(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByAuthor returned error: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected zero messages referencing the deleted user, got %d", len(remaining))
	}

	kept, _ := messages.ListByAuthor(context.Background(), other.ID)
	if len(kept) != 1 {
		t.Fatalf("expected other user's messages untouched, got %d", len(kept))
	}

	if found, _ := svc.FindByID(context.Background(), user.ID); found != nil {
		t.Fatalf("expected deleted user to resolve to nil")
	}
}

func TestUserService_Delete_ZeroMessages(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubMessageRepo())
	user := mustCreateUser(t, svc, ports.SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret-password"})

	ok, err := svc.Delete(context.Background(), user.ID)
	if err != nil || !ok {
		t.Fatalf("expected delete to succeed, got ok=%v err=%v", ok, err)
	}
}

func TestUserService_Delete_UnknownUser(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubMessageRepo())

	ok, err := svc.Delete(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected false for unknown user")
	}
}

func TestUserService_Delete_CascadeFailureFailsOperation(t *testing.T) {
	users := newStubUserRepo()
	messages := newStubMessageRepo()
	messages.failDeleteByAuthor = true
	svc := newUserService(users, messages)

	user := mustCreateUser(t, svc, ports.SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret-password"})

	ok, err := svc.Delete(context.Background(), user.ID)
	if err == nil || ok {
		t.Fatalf("expected cascade failure to fail the whole delete, got ok=%v err=%v", ok, err)
	}
	if found, _ := svc.FindByID(context.Background(), user.ID); found == nil {
		t.Fatalf("user must survive a failed cascade")
	}
}

func TestUserService_Delete_UserDeleteFailureFailsOperation(t *testing.T) {
	users := newStubUserRepo()
	users.failDelete = true
	svc := newUserService(users, newStubMessageRepo())

	user := mustCreateUser(t, svc, ports.SignUpInput{Username: "alice", Email: "alice@example.com", Password: "secret-password"})

	ok, err := svc.Delete(context.Background(), user.ID)
	if err == nil || ok {
		t.Fatalf("expected a failed user delete to fail the operation, got ok=%v err=%v", ok, err)
	}
}

func TestUserService_List_CreationOrder(t *testing.T) {
	svc := newUserService(newStubUserRepo(), newStubMessageRepo())
	names := []string{"alice", "bob", "carol"}
	for _, name := range names {
		mustCreateUser(t, svc, ports.SignUpInput{Username: name, Email: name + "@example.com", Password: "secret-password"})
	}

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(users) != len(names) {
		t.Fatalf("expected %d users, got %d", len(names), len(users))
	}
	for i, name := range names {
		if users[i].Username != name {
			t.Fatalf("expected %s at position %d, got %s", name, i, users[i].Username)
		}
	}
}
