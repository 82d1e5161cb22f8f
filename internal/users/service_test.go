package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volcantech/elitevinewoodrs-sub000/internal/audit"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/config"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/db/models"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/enums"
	pkgerrors "github.com/volcantech/elitevinewoodrs-sub000/pkg/errors"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/permissions"
	"github.com/volcantech/elitevinewoodrs-sub000/pkg/security"
)

type stubUsersRepo struct {
	users   map[uuid.UUID]*models.AdminUser
	updates map[string]any
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{users: make(map[uuid.UUID]*models.AdminUser)}
}

func (s *stubUsersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubUsersRepo) Create(ctx context.Context, user *models.AdminUser) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	if user, ok := s.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = updates
	user := s.users[id]
	if username, ok := updates["username"].(string); ok {
		user.Username = username
	}
	if perms, ok := updates["permissions"].(permissions.Set); ok {
		user.Permissions = perms
	}
	if hash, ok := updates["access_key_hash"].(string); ok {
		user.AccessKeyHash = hash
	}
	return nil
}

func (s *stubUsersRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

func (s *stubUsersRepo) ListAll(ctx context.Context) ([]models.AdminUser, error) {
	out := make([]models.AdminUser, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, *user)
	}
	return out, nil
}

func (s *stubUsersRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingAudit struct {
	entries []audit.Entry
}

func (r *recordingAudit) Record(ctx context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAudit) LogChange(ctx context.Context, entry audit.Entry) {
	r.entries = append(r.entries, entry)
}

func (r *recordingAudit) List(ctx context.Context, params audit.ListParams) (*audit.ListResult, error) {
	return &audit.ListResult{}, nil
}

func testActor() audit.Actor {
	return audit.Actor{ID: uuid.New(), Username: "sergio"}
}

func newTestService(repo *stubUsersRepo) (Service, *recordingAudit) {
	auditSvc := &recordingAudit{}
	svc, err := NewService(repo, stubTxRunner{}, auditSvc, config.AccessKeyConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		panic(err)
	}
	return svc, auditSvc
}

func TestCreateReturnsOneTimeAccessKey(t *testing.T) {
	repo := newStubUsersRepo()
	svc, auditSvc := newTestService(repo)

	full := permissions.Full()
	result, err := svc.Create(context.Background(), testActor(), CreateUserInput{
		Username:    "franklin",
		Permissions: &full,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(result.AccessKey) != AccessKeyLength {
		t.Fatalf("expected %d char access key, got %q", AccessKeyLength, result.AccessKey)
	}
	if result.User.AccessKeyHash == result.AccessKey {
		t.Fatalf("access key must not be stored in clear")
	}
	ok, err := security.VerifyAccessKey(result.AccessKey, result.User.AccessKeyHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify the returned key: %v", err)
	}
	if len(auditSvc.entries) != 1 || auditSvc.entries[0].Action != enums.AuditActionCreate {
		t.Fatalf("expected creation audit entry, got %+v", auditSvc.entries)
	}
}

func TestCreateDefaultsToReadOnlyPermissions(t *testing.T) {
	repo := newStubUsersRepo()
	svc, _ := newTestService(repo)

	result, err := svc.Create(context.Background(), testActor(), CreateUserInput{Username: "lamar"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if allowed, _ := result.User.Permissions.Allows(permissions.CategoryOrders, permissions.ActionView); !allowed {
		t.Fatalf("read-only default must allow viewing orders")
	}
	if allowed, _ := result.User.Permissions.Allows(permissions.CategoryOrders, permissions.ActionDelete); allowed {
		t.Fatalf("read-only default must not allow deleting orders")
	}
}

func TestUpdatePermissionsBuildsDiff(t *testing.T) {
	repo := newStubUsersRepo()
	svc, auditSvc := newTestService(repo)

	result, _ := svc.Create(context.Background(), testActor(), CreateUserInput{Username: "lamar"})
	full := permissions.Full()
	_, err := svc.Update(context.Background(), testActor(), result.User.ID, UpdateUserInput{Permissions: &full})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	entry := auditSvc.entries[len(auditSvc.entries)-1]
	if entry.Action != enums.AuditActionUpdate {
		t.Fatalf("expected update audit entry, got %+v", entry)
	}
	if _, ok := entry.Changes["Permissions"]; !ok {
		t.Fatalf("permissions diff missing: %+v", entry.Changes)
	}
}

func TestDeleteRefusesLastAdmin(t *testing.T) {
	repo := newStubUsersRepo()
	svc, _ := newTestService(repo)

	result, _ := svc.Create(context.Background(), testActor(), CreateUserInput{Username: "sergio"})

	err := svc.Delete(context.Background(), testActor(), result.User.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("last admin must not be deleted")
	}
}

func TestDeleteWithRemainingAdmin(t *testing.T) {
	repo := newStubUsersRepo()
	svc, auditSvc := newTestService(repo)

	first, _ := svc.Create(context.Background(), testActor(), CreateUserInput{Username: "sergio"})
	if _, err := svc.Create(context.Background(), testActor(), CreateUserInput{Username: "franklin"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), testActor(), first.User.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one remaining admin, got %d", len(repo.users))
	}
	last := auditSvc.entries[len(auditSvc.entries)-1]
	if last.Action != enums.AuditActionDelete {
		t.Fatalf("expected deletion audit entry, got %+v", last)
	}
}

func TestRotateAccessKeyReplacesHash(t *testing.T) {
	repo := newStubUsersRepo()
	svc, _ := newTestService(repo)

	result, _ := svc.Create(context.Background(), testActor(), CreateUserInput{Username: "sergio"})
	oldHash := result.User.AccessKeyHash

	newKey, err := svc.RotateAccessKey(context.Background(), testActor(), result.User.ID)
	if err != nil {
		t.Fatalf("RotateAccessKey returned error: %v", err)
	}

	stored := repo.users[result.User.ID]
	if stored.AccessKeyHash == oldHash {
		t.Fatalf("hash not rotated")
	}
	ok, err := security.VerifyAccessKey(newKey, stored.AccessKeyHash)
	if err != nil || !ok {
		t.Fatalf("new hash does not verify the returned key: %v", err)
	}
}
